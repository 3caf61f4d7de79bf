package localstore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenMigrated(filepath.Join(t.TempDir(), "state", "regionhub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regionhub.db")
	require.NoError(t, Migrate(path))
	require.NoError(t, Migrate(path))
}

func TestKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewKV(openTestDB(t))

	_, err := kv.Get(ctx, "token")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, "token", []byte("one")))
	require.NoError(t, kv.Set(ctx, "token", []byte("two")))
	got, err := kv.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("two"), got)

	require.NoError(t, kv.Delete(ctx, "token"))
	require.NoError(t, kv.Delete(ctx, "token"))
	_, err = kv.Get(ctx, "token")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFaultJournalNewestFirst(t *testing.T) {
	ctx := context.Background()
	j := NewFaultJournal(openTestDB(t))
	base := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	require.NoError(t, j.Insert(ctx, FaultEntry{ID: "a", Subtree: "tourism", Message: "boom", OccurredAt: base}))
	require.NoError(t, j.Insert(ctx, FaultEntry{ID: "b", Subtree: "community", Message: "nil event", OccurredAt: base.Add(time.Minute)}))
	require.NoError(t, j.Insert(ctx, FaultEntry{ID: "a", Subtree: "dup", Message: "ignored", OccurredAt: base}))

	got, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "b", got[0].ID)
	require.Equal(t, "tourism", got[1].Subtree)
	require.True(t, got[1].OccurredAt.Equal(base))
}
