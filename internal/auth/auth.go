// Package auth holds the session slice's selectors and the login, logout and
// registration flows built on the dispatcher.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/regionhub/internal/api"
	"github.com/jask/regionhub/internal/credentials"
	"github.com/jask/regionhub/internal/dispatch"
	"github.com/jask/regionhub/internal/store"
)

// Tokens is the persisted credential.
type Tokens interface {
	Save(ctx context.Context, token string) error
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Session returns the committed session slice.
func Session(st *store.Store) store.Slice[api.Session] {
	return store.Select[api.Session](st, api.KeySession)
}

// IsAuthenticated reports whether a session is ready and not expired at now.
func IsAuthenticated(st *store.Store, now time.Time) bool {
	s, ok := Session(st).Data()
	if !ok || s.Token == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

// Restore seeds the session slice from the stored token. Expired tokens are
// cleared. It reports whether a session was restored.
func Restore(ctx context.Context, d *dispatch.Dispatcher, tokens Tokens, now time.Time) (bool, error) {
	token, err := tokens.Token(ctx)
	if errors.Is(err, credentials.ErrNoToken) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read token: %w", err)
	}
	claims, err := credentials.ParseClaims(token)
	if err != nil || claims.Expired(now) {
		if cerr := tokens.Clear(ctx); cerr != nil {
			return false, fmt.Errorf("clear stale token: %w", cerr)
		}
		return false, nil
	}
	d.Seed(api.KeySession, api.Session{Token: token, Email: claims.Email, ExpiresAt: claims.ExpiresAt})
	return true, nil
}

// Logout clears the stored token and returns every auth-owned slice to idle.
func Logout(ctx context.Context, d *dispatch.Dispatcher, tokens Tokens) error {
	if err := tokens.Clear(ctx); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	d.Reset(api.KeySession)
	d.Reset(api.KeyProfile)
	d.Reset(api.KeyEnrollment)
	return nil
}

// LoginForm is the login screen's input.
type LoginForm struct {
	Email    string
	Password string
}

func (f LoginForm) Validate() error {
	if err := validateEmail(f.Email); err != nil {
		return err
	}
	if f.Password == "" {
		return store.E(store.KindValidation, "Password is required")
	}
	return nil
}

// RegistrationForm is the register screen's input.
type RegistrationForm struct {
	Email           string
	Password        string
	ConfirmPassword string
}

func (f RegistrationForm) Validate() error {
	if err := validateEmail(f.Email); err != nil {
		return err
	}
	if f.Password == "" {
		return store.E(store.KindValidation, "Password is required")
	}
	if f.Password != f.ConfirmPassword {
		return store.E(store.KindValidation, "Passwords do not match")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return store.E(store.KindValidation, "Email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return store.Wrap(store.KindValidation, "Email is not valid", err)
	}
	return nil
}

// LoginResource posts the credentials and, on success, persists the issued
// token before the session slice becomes ready.
func LoginResource(f LoginForm, tokens Tokens) dispatch.Resource {
	res := api.LoginResource(api.LoginRequest{Email: strings.TrimSpace(f.Email), Password: f.Password})
	res.Then = func(ctx context.Context, payload any) (any, error) {
		s, ok := payload.(api.Session)
		if !ok {
			return nil, store.E(store.KindDecode, "unexpected login payload")
		}
		if err := tokens.Save(ctx, s.Token); err != nil {
			return nil, store.Wrap(store.KindUnknown, "Could not store credentials", err)
		}
		if claims, err := credentials.ParseClaims(s.Token); err == nil {
			s.ExpiresAt = claims.ExpiresAt
		}
		return s, nil
	}
	return res
}

// SubmitLogin validates f and dispatches the login. A validation error blocks
// the dispatch entirely.
func SubmitLogin(d *dispatch.Dispatcher, lease *dispatch.Lease, f LoginForm, tokens Tokens) (tea.Cmd, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return d.Fetch(lease, LoginResource(f, tokens)), nil
}

// SubmitRegistration validates f and dispatches the registration. A validation
// error blocks the dispatch entirely.
func SubmitRegistration(d *dispatch.Dispatcher, lease *dispatch.Lease, f RegistrationForm) (tea.Cmd, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	res := api.RegisterResource(api.RegisterRequest{Email: strings.TrimSpace(f.Email), Password: f.Password})
	return d.Fetch(lease, res), nil
}
