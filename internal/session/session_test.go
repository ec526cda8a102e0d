package session

import (
	"context"
	"errors"
	"testing"

	"github.com/foodreview-demo/admin/internal/models"
)

type stubAuth struct {
	token        string
	loginErr     error
	user         models.User
	userErr      error
	currentCalls int
}

func (a *stubAuth) Login(ctx context.Context, email, password string) (string, error) {
	if a.loginErr != nil {
		return "", a.loginErr
	}
	return a.token, nil
}

func (a *stubAuth) CurrentUser(ctx context.Context) (models.User, error) {
	a.currentCalls++
	if a.userErr != nil {
		return models.User{}, a.userErr
	}
	return a.user, nil
}

type stubTokens struct {
	token      string
	tokenErr   error
	clearCalls int
}

func (s *stubTokens) Token(ctx context.Context) (string, error) {
	if s.tokenErr != nil {
		return "", s.tokenErr
	}
	return s.token, nil
}

func (s *stubTokens) SetToken(ctx context.Context, token string) error {
	s.token = token
	return nil
}

func (s *stubTokens) ClearToken(ctx context.Context) error {
	s.token = ""
	s.clearCalls++
	return nil
}

func TestNewStoreStartsLoading(t *testing.T) {
	s := New(&stubAuth{}, &stubTokens{})
	snap := s.Snapshot()
	if !snap.IsLoading || snap.IsAuthenticated || snap.User != nil {
		t.Fatalf("unexpected initial state: %+v", snap)
	}
}

func TestCheckAuthNoTokenSkipsNetwork(t *testing.T) {
	auth := &stubAuth{}
	s := New(auth, &stubTokens{})

	if err := s.CheckAuth(context.Background()); err != nil {
		t.Fatalf("CheckAuth: %v", err)
	}
	if auth.currentCalls != 0 {
		t.Fatalf("CheckAuth without a token made %d backend calls", auth.currentCalls)
	}
	snap := s.Snapshot()
	if snap.IsLoading || snap.IsAuthenticated {
		t.Fatalf("expected resolved unauthenticated state: %+v", snap)
	}
}

func TestCheckAuthValidTokenAuthenticates(t *testing.T) {
	auth := &stubAuth{user: models.User{ID: 1, Email: "a@b.c", Role: models.RoleAdmin}}
	s := New(auth, &stubTokens{token: "stored"})

	if err := s.CheckAuth(context.Background()); err != nil {
		t.Fatalf("CheckAuth: %v", err)
	}
	snap := s.Snapshot()
	if snap.IsLoading || !snap.IsAuthenticated {
		t.Fatalf("expected authenticated state: %+v", snap)
	}
	if snap.User == nil || snap.User.ID != 1 {
		t.Fatalf("unexpected user: %+v", snap.User)
	}
}

func TestCheckAuthNonAdminClearsToken(t *testing.T) {
	auth := &stubAuth{user: models.User{ID: 2, Role: models.RoleUser}}
	tokens := &stubTokens{token: "stored"}
	s := New(auth, tokens)

	if err := s.CheckAuth(context.Background()); err != nil {
		t.Fatalf("CheckAuth: %v", err)
	}
	if s.IsAuthenticated() {
		t.Fatal("non-admin account must not authenticate")
	}
	if tokens.token != "" || tokens.clearCalls != 1 {
		t.Fatalf("token not cleared: %+v", tokens)
	}
}

func TestCheckAuthStorageFailureSurfacesError(t *testing.T) {
	auth := &stubAuth{}
	s := New(auth, &stubTokens{tokenErr: errors.New("state db gone")})

	if err := s.CheckAuth(context.Background()); err == nil {
		t.Fatal("a token read failure must surface to the caller")
	}
	snap := s.Snapshot()
	if snap.IsLoading {
		t.Fatal("loading must still resolve on storage failure")
	}
	if snap.IsAuthenticated {
		t.Fatal("storage failure must not authenticate")
	}
	if auth.currentCalls != 0 {
		t.Fatal("storage failure must not reach the backend")
	}
}

func TestCheckAuthBackendFailureResolvesUnauthenticated(t *testing.T) {
	auth := &stubAuth{userErr: errors.New("backend down")}
	tokens := &stubTokens{token: "stored"}
	s := New(auth, tokens)

	if err := s.CheckAuth(context.Background()); err != nil {
		t.Fatalf("CheckAuth should swallow resolution failures, got %v", err)
	}
	snap := s.Snapshot()
	if snap.IsLoading || snap.IsAuthenticated {
		t.Fatalf("expected resolved unauthenticated state: %+v", snap)
	}
	if tokens.token != "" {
		t.Fatal("unverifiable token must be cleared")
	}
}

func TestLoginAdmin(t *testing.T) {
	auth := &stubAuth{token: "fresh", user: models.User{ID: 3, Role: models.RoleAdmin}}
	tokens := &stubTokens{}
	s := New(auth, tokens)

	if err := s.Login(context.Background(), "admin@example.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !s.IsAuthenticated() {
		t.Fatal("expected authenticated state after admin login")
	}
	if tokens.token != "fresh" {
		t.Fatalf("token not persisted: %q", tokens.token)
	}
}

func TestLoginNonAdminLeavesNoToken(t *testing.T) {
	auth := &stubAuth{token: "fresh", user: models.User{ID: 4, Role: models.RoleUser}}
	tokens := &stubTokens{}
	s := New(auth, tokens)

	err := s.Login(context.Background(), "user@example.com", "pw")
	if !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
	if s.IsAuthenticated() {
		t.Fatal("non-admin login must not authenticate")
	}
	if tokens.token != "" {
		t.Fatalf("token left behind after non-admin login: %q", tokens.token)
	}
}

func TestLogoutClearsLocalStateOnly(t *testing.T) {
	auth := &stubAuth{user: models.User{ID: 5, Role: models.RoleAdmin}}
	tokens := &stubTokens{token: "stored"}
	s := New(auth, tokens)
	s.CheckAuth(context.Background())

	calls := auth.currentCalls
	s.Logout(context.Background())
	if s.IsAuthenticated() || s.User() != nil {
		t.Fatal("logout must drop local auth state")
	}
	if tokens.token != "" {
		t.Fatal("logout must clear the stored token")
	}
	if auth.currentCalls != calls {
		t.Fatal("logout must not call the backend")
	}
}

func TestInvalidateDropsAuth(t *testing.T) {
	auth := &stubAuth{user: models.User{ID: 6, Role: models.RoleAdmin}}
	s := New(auth, &stubTokens{token: "stored"})
	s.CheckAuth(context.Background())

	s.Invalidate()
	if s.IsAuthenticated() || s.User() != nil {
		t.Fatal("invalidate must drop to unauthenticated")
	}
}
