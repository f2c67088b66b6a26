// Package services contains application services for the FruitPie client.
// This file defines the session manager: token persistence, login, logout,
// registration, and the derivation of what the page shows from the session.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/fruitpie/internal/client/client"
	"github.com/dmitrijs2005/fruitpie/internal/client/models"
	"github.com/dmitrijs2005/fruitpie/internal/client/ui"
	"github.com/dmitrijs2005/fruitpie/internal/logging"
	"github.com/go-playground/validator/v10"
)

// Session owns the authentication token and the verified user record.
//
// Contract:
//   - The user is present only after the stored token was last accepted by
//     the server; a token alone counts as logged out.
//   - Only the token is persisted. The user is refetched on every Resolve.
//   - Every state transition ends with exactly one Surface.Apply of the view
//     derived from the new state. Requests that fail before changing state
//     apply nothing.
//
// Session is safe for concurrent use. Network calls are made without holding
// the lock and are never cancelled by later calls.
type Session struct {
	client   client.Client
	tokens   TokenStore
	surface  ui.Surface
	log      logging.Logger
	validate *validator.Validate

	mu   sync.Mutex
	user *models.User
}

// NewSession wires a session to its API client, token storage and the
// surface that displays it.
func NewSession(c client.Client, tokens TokenStore, surface ui.Surface, log logging.Logger) *Session {
	return &Session{
		client:   c,
		tokens:   tokens,
		surface:  surface,
		log:      log.With("component", "session"),
		validate: newValidator(),
	}
}

// Token returns the stored token, or "" when there is none.
func (s *Session) Token(ctx context.Context) (string, error) {
	return s.tokens.Token(ctx)
}

// SaveToken stores token without validating it.
func (s *Session) SaveToken(ctx context.Context, token string) error {
	return s.tokens.SaveToken(ctx, token)
}

// ClearToken removes the stored token.
func (s *Session) ClearToken(ctx context.Context) error {
	return s.tokens.ClearToken(ctx)
}

// FetchCurrentUser asks the server who the stored token belongs to.
//
// A nil user means absent. Without a token no request is made and the
// result is (nil, nil). When the server rejects the token it is cleared, the
// cached user forgotten and the anonymous view applied. When the server cannot be reached, or answers
// with something unreadable, the token is kept: a transient failure is not
// evidence that the token is bad.
func (s *Session) FetchCurrentUser(ctx context.Context) (*models.User, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		return nil, nil
	}

	user, err := s.client.CurrentUser(ctx, token)
	if err == nil {
		return user, nil
	}

	if errors.Is(err, client.ErrUnauthorized) {
		s.log.Info(ctx, "stored token rejected by server, clearing", "error", err)
		s.transition(nil)
		if cerr := s.tokens.ClearToken(ctx); cerr != nil {
			return nil, errors.Join(err, fmt.Errorf("clear token: %w", cerr))
		}
		return nil, err
	}

	s.log.Error(ctx, "error fetching current user", "error", err)
	return nil, err
}

// Resolve establishes the session at start-up: it fetches the user for the
// stored token, remembers it and applies the derived view. The view is
// applied even when the fetch fails; the error is returned for logging.
func (s *Session) Resolve(ctx context.Context) error {
	user, err := s.FetchCurrentUser(ctx)
	s.transition(user)
	return err
}

// Login exchanges credentials for a token, persists it, and then verifies it
// by fetching the user. The verification fetch starts only after the token
// is stored.
//
// If the token endpoint refuses, the session and the view are unchanged and
// the error carries the server's *client.APIError. If the token is issued
// but no user can be fetched, the token is discarded, the anonymous view is
// applied and ErrVerificationFailed is returned.
func (s *Session) Login(ctx context.Context, username string, password string) error {
	if err := validateStruct(s.validate, models.Credentials{Username: username, Password: password}); err != nil {
		return err
	}

	token, err := s.client.RequestToken(ctx, username, password)
	if err != nil {
		s.log.Info(ctx, "login refused", "user", username, "error", err)
		return fmt.Errorf("login: %w", err)
	}

	if err := s.tokens.SaveToken(ctx, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	user, err := s.FetchCurrentUser(ctx)
	if user == nil {
		s.log.Warn(ctx, "token issued but user fetch failed, discarding token", "user", username, "error", err)
		if cerr := s.tokens.ClearToken(ctx); cerr != nil {
			s.log.Error(ctx, "failed to clear unverified token", "error", cerr)
		}
		s.transition(nil)
		if err == nil {
			return ErrVerificationFailed
		}
		return fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}

	s.transition(user)
	s.log.Info(ctx, "login succeeded", "user", user.Username, "poster", user.IsPoster)
	return nil
}

// Logout clears the token, forgets the user and applies the anonymous view.
// The view is applied even if the storage fails; that error is returned.
func (s *Session) Logout(ctx context.Context) error {
	err := s.tokens.ClearToken(ctx)
	s.transition(nil)
	if err != nil {
		s.log.Error(ctx, "failed to clear token on logout", "error", err)
		return fmt.Errorf("clear token: %w", err)
	}
	s.log.Info(ctx, "logged out")
	return nil
}

// Register creates an account. It never logs in: on success the caller is
// expected to prompt for login. Session state and view are untouched.
func (s *Session) Register(ctx context.Context, reg models.Registration) error {
	if err := validateStruct(s.validate, reg); err != nil {
		return err
	}
	if err := s.client.Register(ctx, reg); err != nil {
		s.log.Info(ctx, "registration refused", "user", reg.Username, "error", err)
		return fmt.Errorf("register: %w", err)
	}
	s.log.Info(ctx, "registered", "user", reg.Username)
	return nil
}

// User returns a copy of the verified user, or nil.
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Mode is the UI mode derived from the current session.
func (s *Session) Mode() ui.Mode {
	return ui.ModeOf(s.User())
}

// Close releases the API client.
func (s *Session) Close() error {
	return s.client.Close()
}

// transition replaces the user and applies the derived view atomically, so
// views reach the surface in the order transitions happen.
func (s *Session) transition(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.surface.Apply(ui.Render(user))
}
