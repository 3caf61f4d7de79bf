package credentials

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/jask/regionhub/internal/localstore"
)

func newStore(t *testing.T) (*Store, *localstore.KV) {
	t.Helper()
	db, err := localstore.OpenMigrated(filepath.Join(t.TempDir(), "regionhub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	kv := localstore.NewKV(db)
	return New(kv), kv
}

func TestTokenMissing(t *testing.T) {
	s, _ := newStore(t)
	_, err := s.Token(context.Background())
	require.ErrorIs(t, err, ErrNoToken)
}

func TestSaveSealsAndTokenOpens(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)

	require.NoError(t, s.Save(ctx, "secret-token"))
	raw, err := kv.Get(ctx, tokenKey)
	require.NoError(t, err)
	require.False(t, bytes.Contains(raw, []byte("secret-token")), "token must not be stored in plain text")

	got, err := s.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, "secret-token", got)
}

func TestClearRemovesToken(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.Save(ctx, "tok"))
	require.NoError(t, s.Clear(ctx))
	_, err := s.Token(ctx)
	require.ErrorIs(t, err, ErrNoToken)
}

func TestTokenSealedUnderOtherKeyFails(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)
	require.NoError(t, s.Save(ctx, "tok"))

	other, err := NewWithKey(kv, bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)
	_, err = other.Token(ctx)
	require.Error(t, err)
}

func TestSaveRejectsEmptyToken(t *testing.T) {
	s, _ := newStore(t)
	require.Error(t, s.Save(context.Background(), "  "))
}

func TestParseClaims(t *testing.T) {
	exp := time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "42",
		"email": "ana@example.com",
		"exp":   exp.Unix(),
	}).SignedString([]byte("server-side-secret"))
	require.NoError(t, err)

	c, err := ParseClaims(signed)
	require.NoError(t, err)
	require.Equal(t, "42", c.Subject)
	require.Equal(t, "ana@example.com", c.Email)
	require.True(t, c.ExpiresAt.Equal(exp))
	require.False(t, c.Expired(exp.Add(-time.Minute)))
	require.True(t, c.Expired(exp))
}

func TestParseClaimsOpaqueToken(t *testing.T) {
	c, err := ParseClaims("opaque-session-id")
	require.NoError(t, err)
	require.False(t, c.Expired(time.Now()))
}

func TestParseClaimsMalformed(t *testing.T) {
	_, err := ParseClaims("a.b.c")
	require.Error(t, err)
}
