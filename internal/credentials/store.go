// Package credentials persists the auth token in local storage, sealed with
// AES-GCM under a per-user key. It is not a replacement for an OS keychain but
// keeps the token out of plain text.
package credentials

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jask/regionhub/internal/localstore"
)

const tokenKey = "token"

// ErrNoToken means no credential is stored.
var ErrNoToken = errors.New("credentials: no token stored")

// KV is the storage the token lives in.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store reads and writes the sealed token.
type Store struct {
	kv  KV
	key []byte
}

// New builds a store sealing with the default per-user key.
func New(kv KV) *Store {
	return &Store{kv: kv, key: masterKey()}
}

// NewWithKey builds a store with an explicit 32-byte key.
func NewWithKey(kv KV, key []byte) (*Store, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("credentials: key must be 32 bytes, got %d", len(key))
	}
	return &Store{kv: kv, key: key}, nil
}

func (s *Store) Save(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("credentials: empty token")
	}
	ct, err := s.encrypt([]byte(token))
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}
	return s.kv.Set(ctx, tokenKey, ct)
}

// Token returns the stored token or ErrNoToken.
func (s *Store) Token(ctx context.Context) (string, error) {
	raw, err := s.kv.Get(ctx, tokenKey)
	if err != nil {
		if errors.Is(err, localstore.ErrNotFound) {
			return "", ErrNoToken
		}
		return "", err
	}
	pt, err := s.decrypt(raw)
	if err != nil {
		return "", fmt.Errorf("open token: %w", err)
	}
	return string(pt), nil
}

func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, tokenKey)
}

// Claims is what the client reads out of a token without verifying it.
type Claims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// Expired reports whether the claims carry an expiry at or before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseClaims decodes a JWT's claims without verifying its signature; the
// server verifies, the client only needs the expiry. Opaque tokens yield empty
// claims and no error.
func ParseClaims(token string) (Claims, error) {
	if strings.Count(token, ".") != 2 {
		return Claims{}, nil
	}
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}
	var out Claims
	if sub, err := mc.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time.UTC()
	}
	if email, ok := mc["email"].(string); ok {
		out.Email = email
	}
	return out, nil
}

func masterKey() []byte {
	user := os.Getenv("USER")
	base := fmt.Sprintf("regionhub-%s-%s", runtime.GOOS, user)
	hash := sha256.Sum256([]byte(base))
	return hash[:]
}

func (s *Store) encrypt(plain []byte) ([]byte, error) {
	gcm, err := s.gcm()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func (s *Store) decrypt(ciphertext []byte) ([]byte, error) {
	gcm, err := s.gcm()
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	body := ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}

func (s *Store) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
