package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/foodreview-demo/admin/internal/backend"
	"github.com/foodreview-demo/admin/internal/middleware"
	"github.com/foodreview-demo/admin/internal/session"
)

// Login attempts are throttled per client IP so a stolen console URL cannot
// be used to brute-force the backend admin account.
const (
	loginAttemptLimit  = 10
	loginAttemptWindow = 5 * time.Minute
)

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if h.sess.IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderStandalone(w, r, "login.html", map[string]any{
		"Error": r.URL.Query().Get("error"),
		"Email": "",
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !h.limiter.Allow("login:"+middleware.ClientIP(r), loginAttemptLimit, loginAttemptWindow) {
		w.WriteHeader(http.StatusTooManyRequests)
		h.renderStandalone(w, r, "login.html", map[string]any{
			"Error": "Too many login attempts. Wait a few minutes and try again.",
			"Email": "",
		})
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.renderStandalone(w, r, "login.html", map[string]any{
			"Error": "Email and password are required",
			"Email": email,
		})
		return
	}

	err := h.sess.Login(r.Context(), email, password)
	if err == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	msg := "Login failed. Check your credentials and try again."
	switch {
	case errors.Is(err, session.ErrNotAdmin):
		msg = "This account does not have admin access."
	case errors.Is(err, backend.ErrUnauthorized):
		// Credential rejection on the login call itself.
	default:
		var apiErr backend.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
	}
	h.renderStandalone(w, r, "login.html", map[string]any{
		"Error": msg,
		"Email": email,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.sess.Logout(r.Context())
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
