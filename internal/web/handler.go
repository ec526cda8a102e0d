// Package web renders the console pages. Each queue page follows the same
// controller shape: read page/filter from the query string, fetch through
// the cache, render; mutations post a form, invalidate the declared cache
// keys, and redirect back to the list.
package web

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/foodreview-demo/admin/internal/backend"
	"github.com/foodreview-demo/admin/internal/cache"
	"github.com/foodreview-demo/admin/internal/config"
	"github.com/foodreview-demo/admin/internal/middleware"
	"github.com/foodreview-demo/admin/internal/rate"
	"github.com/foodreview-demo/admin/internal/session"
	"github.com/foodreview-demo/admin/internal/util"
	"github.com/foodreview-demo/admin/internal/version"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Handler struct {
	cfg     config.Config
	api     backend.API
	sess    *session.Store
	cache   *cache.Cache
	stateDB *sql.DB
	limiter *rate.Limiter
}

func NewHandler(cfg config.Config, api backend.API, sess *session.Store, c *cache.Cache, stateDB *sql.DB) *Handler {
	return &Handler{cfg: cfg, api: api, sess: sess, cache: c, stateDB: stateDB, limiter: rate.NewLimiter()}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.SecurityHeaders)
	if len(h.cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		util.WriteJSON(w, 200, map[string]any{"status": "ok", "version": version.Current()})
	})
	r.Get("/readyz", h.handleReady)

	r.Get("/login", h.handleLoginPage)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.sess))
		r.Get("/", h.handleDashboard)

		r.Get("/reports", h.handleReports)
		r.Get("/reports/{id}", h.handleReportDetail)
		r.Post("/reports/{id}/process", h.handleProcessReport)

		r.Get("/chat-reports", h.handleChatReports)
		r.Get("/chat-reports/{id}", h.handleChatReportDetail)
		r.Post("/chat-reports/{id}/process", h.handleProcessChatReport)

		r.Get("/receipt-reviews", h.handleReceiptReviews)
		r.Post("/receipt-reviews/{id}/approve", h.handleApproveReceipt)
		r.Post("/receipt-reviews/{id}/reject", h.handleRejectReceipt)

		r.Get("/restaurants/pending", h.handlePendingRestaurants)
		r.Post("/restaurants/{id}/approve", h.handleApproveRestaurant)
		r.Post("/restaurants/{id}/reject", h.handleRejectRestaurant)

		r.Get("/gatherings", h.handleGatherings)

		r.Get("/refunds/failed", h.handleFailedRefunds)
		r.Post("/refunds/{id}/complete", h.handleCompleteRefund)
	})

	return r
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	ready := map[string]any{
		"checked_at": time.Now().UTC().Format(time.RFC3339),
		"components": map[string]any{},
	}
	comps := ready["components"].(map[string]any)

	ok := true
	if err := h.stateDB.PingContext(r.Context()); err != nil {
		ok = false
		comps["state_db"] = map[string]any{"ok": false, "error": err.Error()}
	} else {
		comps["state_db"] = map[string]any{"ok": true}
	}
	if h.sess.Snapshot().IsLoading {
		ok = false
		comps["session"] = map[string]any{"ok": false, "error": "startup auth check has not resolved"}
	} else {
		comps["session"] = map[string]any{"ok": true}
	}
	if err := h.pingBackend(r.Context()); err != nil {
		ok = false
		comps["backend"] = map[string]any{"ok": false, "error": err.Error()}
	} else {
		comps["backend"] = map[string]any{"ok": true}
	}

	if ok {
		ready["status"] = "ready"
		util.WriteJSON(w, 200, ready)
		return
	}
	ready["status"] = "degraded"
	util.WriteJSON(w, 503, ready)
}

// pingBackend proves the backend host answers HTTP at all. Any status code
// counts; only a transport failure marks it unreachable.
func (h *Handler) pingBackend(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.cfg.BackendBaseURL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// asTime accepts both time.Time fields and optional *time.Time fields.
func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	}
	return time.Time{}, false
}

var funcMap = template.FuncMap{
	"formatDate": func(v any) string {
		t, ok := asTime(v)
		if !ok {
			return "-"
		}
		return t.Local().Format("2006-01-02")
	},
	"formatDateTime": func(v any) string {
		t, ok := asTime(v)
		if !ok {
			return "-"
		}
		return t.Local().Format("2006-01-02 15:04")
	},
	"truncate": func(s string, n int) string {
		runes := []rune(s)
		if len(runes) <= n {
			return s
		}
		return string(runes[:n]) + "..."
	},
	"money": func(amount int64) string {
		s := strconv.FormatInt(amount, 10)
		var b strings.Builder
		for i, r := range s {
			if i > 0 && (len(s)-i)%3 == 0 {
				b.WriteByte(',')
			}
			b.WriteRune(r)
		}
		return b.String()
	},
}

// render draws a queue page inside the shared shell. The layout always
// receives the signed-in user for the sidebar chrome.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, page string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["User"] = h.sess.User()
	if _, ok := data["Error"]; !ok {
		data["Error"] = r.URL.Query().Get("error")
	}
	tmpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templatesFS, "templates/layout.html", "templates/"+page)
	if err != nil {
		log.Printf("template parse page=%s request_id=%s err=%v", page, middleware.RequestID(r.Context()), err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		log.Printf("template render page=%s request_id=%s err=%v", page, middleware.RequestID(r.Context()), err)
	}
}

func (h *Handler) renderStandalone(w http.ResponseWriter, r *http.Request, page string, data map[string]any) {
	tmpl, err := template.New(page).Funcs(funcMap).ParseFS(templatesFS, "templates/"+page)
	if err != nil {
		log.Printf("template parse page=%s request_id=%s err=%v", page, middleware.RequestID(r.Context()), err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		log.Printf("template render page=%s request_id=%s err=%v", page, middleware.RequestID(r.Context()), err)
	}
}

// Pagination is the shared paging view model: zero-based page, prev frozen
// on the first page, next frozen on the last.
type Pagination struct {
	Page          int
	TotalPages    int
	TotalElements int64
	BasePath      string
	Filter        url.Values
}

func NewPagination(page, totalPages int, totalElements int64, basePath string, filter url.Values) Pagination {
	return Pagination{Page: page, TotalPages: totalPages, TotalElements: totalElements, BasePath: basePath, Filter: filter}
}

func (p Pagination) PrevDisabled() bool { return p.Page <= 0 }

func (p Pagination) NextDisabled() bool { return p.Page >= p.TotalPages-1 }

func (p Pagination) Label() string {
	tp := p.TotalPages
	if tp < 1 {
		tp = 1
	}
	return fmt.Sprintf("%d / %d", p.Page+1, tp)
}

func (p Pagination) PrevURL() string { return p.pageURL(p.Page - 1) }

func (p Pagination) NextURL() string { return p.pageURL(p.Page + 1) }

func (p Pagination) pageURL(page int) string {
	if page < 0 {
		page = 0
	}
	q := url.Values{}
	for k, vs := range p.Filter {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("page", strconv.Itoa(page))
	return p.BasePath + "?" + q.Encode()
}

func parsePage(r *http.Request) int {
	v := r.URL.Query().Get("page")
	if v == "" {
		return 0
	}
	p, err := strconv.Atoi(v)
	if err != nil || p < 0 {
		return 0
	}
	return p
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
