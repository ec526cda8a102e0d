// Package session holds the console's process-wide authentication state.
// The store is an injectable container, constructed fresh per test, with a
// fixed lifecycle: loading at start, then exactly one transition to
// authenticated or unauthenticated, and back to unauthenticated only via
// logout or a backend auth failure.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/foodreview-demo/admin/internal/models"
)

var ErrNotAdmin = errors.New("account does not have the admin role")

// Authenticator is the slice of the backend API the store uses.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context) (models.User, error)
}

// TokenStorage persists the opaque session token between console runs.
type TokenStorage interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

type State struct {
	User            *models.User
	IsLoading       bool
	IsAuthenticated bool
}

type Store struct {
	api    Authenticator
	tokens TokenStorage

	mu            sync.Mutex
	user          *models.User
	loading       bool
	authenticated bool
}

func New(api Authenticator, tokens TokenStorage) *Store {
	return &Store{api: api, tokens: tokens, loading: true}
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{User: s.user, IsLoading: s.loading, IsAuthenticated: s.authenticated}
}

func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Login authenticates against the backend, then authorizes with a second
// round-trip: the token is opaque and carries no role, so only the fetched
// user record can prove admin access. A non-admin login leaves no token
// behind.
func (s *Store) Login(ctx context.Context, email, password string) error {
	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := s.tokens.SetToken(ctx, token); err != nil {
		return err
	}
	user, err := s.api.CurrentUser(ctx)
	if err != nil {
		_ = s.tokens.ClearToken(ctx)
		return err
	}
	if user.Role != models.RoleAdmin {
		_ = s.tokens.ClearToken(ctx)
		return ErrNotAdmin
	}
	s.setAuthenticated(user)
	return nil
}

// Logout clears local state only; the backend is not called.
func (s *Store) Logout(ctx context.Context) {
	_ = s.tokens.ClearToken(ctx)
	s.Invalidate()
}

// CheckAuth resolves the stored token on startup. With no token it resolves
// unauthenticated without touching the network. IsLoading drops to false
// exactly once, when this returns.
func (s *Store) CheckAuth(ctx context.Context) error {
	defer s.finishLoading()

	token, err := s.tokens.Token(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		s.Invalidate()
		return nil
	}
	user, err := s.api.CurrentUser(ctx)
	if err != nil {
		_ = s.tokens.ClearToken(ctx)
		s.Invalidate()
		return nil
	}
	if user.Role != models.RoleAdmin {
		_ = s.tokens.ClearToken(ctx)
		s.Invalidate()
		return nil
	}
	s.setAuthenticated(user)
	return nil
}

// Invalidate drops to unauthenticated. It is the target of the backend
// client's auth-failure callback, so it can fire from any in-flight request.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.authenticated = false
}

func (s *Store) setAuthenticated(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.user = &u
	s.authenticated = true
}

func (s *Store) finishLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}
