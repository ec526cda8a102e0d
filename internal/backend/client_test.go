package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type memTokens struct {
	token      string
	clearCalls int
}

func (m *memTokens) Token(ctx context.Context) (string, error) { return m.token, nil }

func (m *memTokens) ClearToken(ctx context.Context) error {
	m.token = ""
	m.clearCalls++
	return nil
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true,"data":{"id":1,"email":"a@b.c","name":"A","role":"ADMIN"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, &memTokens{token: "tok-123"}, nil)
	if _, err := c.CurrentUser(context.Background()); err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("unexpected Authorization header: %q", gotAuth)
	}
}

func TestNoBearerWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true,"data":{"token":"t"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, &memTokens{}, nil)
	if _, err := c.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestUnauthorizedClearsTokenAndFiresCallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &memTokens{token: "stale"}
	fired := 0
	c := NewClient(srv.URL, 5*time.Second, tokens, func() { fired++ })

	_, err := c.Stats(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if tokens.token != "" || tokens.clearCalls != 1 {
		t.Fatalf("token not cleared exactly once: %+v", tokens)
	}
	if fired != 1 {
		t.Fatalf("auth failure callback fired %d times", fired)
	}
}

func TestNotFoundWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, &memTokens{token: "t"}, nil)
	_, err := c.Report(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStatusErrorCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"boom"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, &memTokens{token: "t"}, nil)
	_, err := c.Stats(context.Background())
	var se StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != 500 || se.Message != "boom" {
		t.Fatalf("unexpected StatusError: %+v", se)
	}
}

func TestEnvelopeFailureBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"already processed"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, &memTokens{token: "t"}, nil)
	err := c.ApproveReceipt(context.Background(), 7)
	var ae APIError
	if !errors.As(err, &ae) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if ae.Message != "already processed" {
		t.Fatalf("unexpected message: %q", ae.Message)
	}
}
