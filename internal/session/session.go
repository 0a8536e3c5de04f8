// Package session manages the signed-in user: startup auto-login from
// stored credentials, username/password and Google sign-in, and logout.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/homely-dev/homely/internal/apiclient"
	"github.com/homely-dev/homely/internal/localstate"
)

// AuthAPI is the slice of the API client the session layer needs.
type AuthAPI interface {
	SetToken(token string)
	Login(ctx context.Context, username, password string) (*apiclient.TokenPair, error)
	LoginWithGoogle(ctx context.Context, googleToken string) (*apiclient.TokenPair, error)
	VerifyToken(ctx context.Context, token string) bool
	RefreshToken(ctx context.Context, refresh string) string
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*apiclient.User, error)
}

// CredentialStore persists the token pair between runs.
type CredentialStore interface {
	Load() (*localstate.Credentials, error)
	Save(*localstate.Credentials) error
	Clear() error
}

// UserSeeder receives the signed-in user so dependent stores can hydrate.
type UserSeeder interface {
	SeedFromUser(user *apiclient.User)
}

// Session tracks the current user and their tokens.
type Session struct {
	api   AuthAPI
	creds CredentialStore
	seed  UserSeeder

	mu      sync.Mutex
	user    *apiclient.User
	access  string
	refresh string
}

// New creates a signed-out session.
func New(api AuthAPI, creds CredentialStore, seed UserSeeder) *Session {
	return &Session{api: api, creds: creds, seed: seed}
}

// User returns the signed-in user, or nil when anonymous.
func (s *Session) User() *apiclient.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Authenticated reports whether a user is signed in.
func (s *Session) Authenticated() bool {
	return s.User() != nil
}

// AutoLogin restores a session from stored credentials: verify the access
// token, refresh it when expired, and fall back to anonymous when neither
// works. Never returns an error for auth failures, only for broken local
// credential storage.
func (s *Session) AutoLogin(ctx context.Context) error {
	stored, err := s.creds.Load()
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}
	if stored.AccessToken == "" && stored.RefreshToken == "" {
		return nil
	}

	access := stored.AccessToken
	if !s.api.VerifyToken(ctx, access) {
		access = s.api.RefreshToken(ctx, stored.RefreshToken)
		if access == "" {
			slog.Debug("stored tokens expired, continuing anonymously")
			_ = s.creds.Clear()
			return nil
		}
		stored.AccessToken = access
		if err := s.creds.Save(stored); err != nil {
			slog.Warn("failed to persist refreshed token", "error", err)
		}
	}

	s.api.SetToken(access)
	user, err := s.api.Me(ctx)
	if err != nil {
		slog.Debug("token accepted but profile fetch failed, continuing anonymously", "error", err)
		s.api.SetToken("")
		if apiclient.IsUnauthorized(err) {
			_ = s.creds.Clear()
		}
		return nil
	}

	s.establish(user, access, stored.RefreshToken)
	return nil
}

// Login signs in with a username and password.
func (s *Session) Login(ctx context.Context, username, password string) (*apiclient.User, error) {
	pair, err := s.api.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.finishLogin(pair)
}

// LoginWithGoogle signs in by converting a Google ID token.
func (s *Session) LoginWithGoogle(ctx context.Context, googleToken string) (*apiclient.User, error) {
	pair, err := s.api.LoginWithGoogle(ctx, googleToken)
	if err != nil {
		return nil, err
	}
	return s.finishLogin(pair)
}

func (s *Session) finishLogin(pair *apiclient.TokenPair) (*apiclient.User, error) {
	if err := s.creds.Save(&localstate.Credentials{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		Username:     username(pair.User),
	}); err != nil {
		slog.Warn("failed to persist credentials", "error", err)
	}

	s.establish(pair.User, pair.Access, pair.Refresh)
	return s.User(), nil
}

func (s *Session) establish(user *apiclient.User, access, refresh string) {
	s.mu.Lock()
	s.user = user
	s.access = access
	s.refresh = refresh
	s.mu.Unlock()

	s.api.SetToken(access)
	if s.seed != nil {
		s.seed.SeedFromUser(user)
	}
}

func username(user *apiclient.User) string {
	if user == nil {
		return ""
	}
	return user.Username
}

// Logout invalidates the session server side, clears stored credentials,
// and returns to anonymous. Local state is cleared even when the server
// call fails.
func (s *Session) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx)

	s.mu.Lock()
	s.user = nil
	s.access = ""
	s.refresh = ""
	s.mu.Unlock()

	s.api.SetToken("")
	if clearErr := s.creds.Clear(); clearErr != nil {
		slog.Warn("failed to clear credentials", "error", clearErr)
	}
	return err
}
