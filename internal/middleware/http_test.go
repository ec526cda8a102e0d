package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type fixedAuth bool

func (a fixedAuth) IsAuthenticated() bool { return bool(a) }

func TestRequireAuthRedirects(t *testing.T) {
	var reached bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { reached = true })

	w := httptest.NewRecorder()
	RequireAuth(fixedAuth(false))(next).ServeHTTP(w, httptest.NewRequest("GET", "/reports", nil))
	if reached {
		t.Fatal("unauthenticated request must not reach the handler")
	}
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("unexpected redirect: %d %q", w.Code, w.Header().Get("Location"))
	}

	w = httptest.NewRecorder()
	RequireAuth(fixedAuth(true))(next).ServeHTTP(w, httptest.NewRequest("GET", "/reports", nil))
	if !reached {
		t.Fatal("authenticated request must pass through")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var ctxID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = RequestID(r.Context())
	})

	w := httptest.NewRecorder()
	RequestIDMiddleware(next).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if ctxID == "" {
		t.Fatal("request ID missing from context")
	}
	if got := w.Header().Get("X-Request-ID"); got != ctxID {
		t.Fatalf("header %q does not match context %q", got, ctxID)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.5:12345"
	if got := ClientIP(r); got != "10.0.0.5" {
		t.Fatalf("unexpected IP: %s", got)
	}
	r.RemoteAddr = "garbage"
	if got := ClientIP(r); got != "garbage" {
		t.Fatalf("unparsable address must pass through, got %s", got)
	}
}
