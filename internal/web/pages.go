package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/foodreview-demo/admin/internal/backend"
	"github.com/foodreview-demo/admin/internal/cache"
	"github.com/foodreview-demo/admin/internal/models"
)

// fetchPage reads a list page through the cache. A failed refetch falls back
// to the last good value when one is still cached; otherwise the error
// surfaces and the page renders its failure banner.
func fetchPage[T any](h *Handler, ctx context.Context, queue, filter string, page int, fetch func(ctx context.Context) (models.Page[T], error)) (models.Page[T], error) {
	if v, ok := h.cache.Get(queue, filter, page); ok {
		return v.(models.Page[T]), nil
	}
	res, err := fetch(ctx)
	if err != nil {
		if v, ok := h.cache.GetStale(queue, filter, page); ok {
			return v.(models.Page[T]), nil
		}
		var zero models.Page[T]
		return zero, err
	}
	h.cache.Put(queue, filter, page, res)
	return res, nil
}

// redirectAfterMutation applies the declared invalidations for the action
// and sends the browser back to the list. The invalidate happens only after
// the mutation succeeded, so the next render refetches fresh state.
func (h *Handler) redirectAfterMutation(w http.ResponseWriter, r *http.Request, action, target string) {
	h.cache.InvalidateFor(action)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// failMutation sends the browser back with the error flashed; the record and
// the cache are left untouched so the operator can retry.
func (h *Handler) failMutation(w http.ResponseWriter, r *http.Request, target string, err error) {
	if errors.Is(err, backend.ErrUnauthorized) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	http.Redirect(w, r, target+sep+"error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
}

// renderListError draws the page's failure banner, or bounces to login when
// the session died mid-request.
func (h *Handler) renderListError(w http.ResponseWriter, r *http.Request, page string, data map[string]any, err error) bool {
	if errors.Is(err, backend.ErrUnauthorized) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return true
	}
	data["Error"] = "Could not load data from the backend. " + err.Error()
	h.render(w, r, page, data)
	return true
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var stats models.AdminStats
	if v, ok := h.cache.GetValue(cache.KeyStats); ok {
		stats = v.(models.AdminStats)
	} else {
		fetched, err := h.api.Stats(r.Context())
		if err != nil {
			h.renderListError(w, r, "dashboard.html", map[string]any{"Active": "dashboard"}, err)
			return
		}
		stats = fetched
		h.cache.PutValue(cache.KeyStats, stats)
	}
	h.render(w, r, "dashboard.html", map[string]any{
		"Active": "dashboard",
		"Stats":  stats,
	})
}

type statusTab struct {
	Value  string
	Label  string
	Active bool
	URL    string
}

func statusTabs(basePath, current string, statuses []models.ReportStatus) []statusTab {
	tabs := []statusTab{{Value: "", Label: "All", Active: current == "", URL: basePath + "?status="}}
	for _, s := range statuses {
		tabs = append(tabs, statusTab{
			Value:  string(s),
			Label:  s.Label(),
			Active: current == string(s),
			URL:    basePath + "?status=" + string(s),
		})
	}
	return tabs
}

// statusFilter reads the status query parameter. An absent parameter means
// the page's default; an explicitly empty one means "all statuses".
func statusFilter(r *http.Request, def string) string {
	if !r.URL.Query().Has("status") {
		return def
	}
	return r.URL.Query().Get("status")
}

var reportStatuses = []models.ReportStatus{models.ReportPending, models.ReportResolved, models.ReportRejected}

func (h *Handler) handleReports(w http.ResponseWriter, r *http.Request) {
	status := statusFilter(r, string(models.ReportPending))
	page := parsePage(r)
	data, err := fetchPage(h, r.Context(), cache.KeyReports, status, page, func(ctx context.Context) (models.Page[models.Report], error) {
		return h.api.Reports(ctx, status, page, backend.DefaultPageSize)
	})
	view := map[string]any{
		"Active":     "reports",
		"Tabs":       statusTabs("/reports", status, reportStatuses),
		"Pagination": NewPagination(page, data.TotalPages, data.TotalElements, "/reports", url.Values{"status": {status}}),
	}
	if err != nil {
		h.renderListError(w, r, "reports.html", view, err)
		return
	}
	view["Reports"] = data.Content
	h.render(w, r, "reports.html", view)
}

func (h *Handler) handleReportDetail(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	report, err := h.api.Report(r.Context(), id)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.renderListError(w, r, "report_detail.html", map[string]any{"Active": "reports"}, err)
		return
	}
	h.render(w, r, "report_detail.html", map[string]any{
		"Active": "reports",
		"Report": report,
	})
}

func (h *Handler) handleProcessReport(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	action := backend.ProcessAction(r.FormValue("action"))
	if action != backend.ActionResolve && action != backend.ActionReject {
		h.failMutation(w, r, "/reports/"+formatID(id), errors.New("unknown action"))
		return
	}
	req := backend.ProcessReportRequest{
		Action:       action,
		AdminNote:    strings.TrimSpace(r.FormValue("adminNote")),
		DeleteReview: r.FormValue("deleteReview") == "true",
	}
	if err := h.api.ProcessReport(r.Context(), id, req); err != nil {
		h.failMutation(w, r, "/reports/"+formatID(id), err)
		return
	}
	h.redirectAfterMutation(w, r, "report.process", "/reports")
}

func (h *Handler) handleChatReports(w http.ResponseWriter, r *http.Request) {
	status := statusFilter(r, string(models.ReportPending))
	page := parsePage(r)
	data, err := fetchPage(h, r.Context(), cache.KeyChatReports, status, page, func(ctx context.Context) (models.Page[models.ChatReport], error) {
		return h.api.ChatReports(ctx, status, page, backend.DefaultPageSize)
	})
	view := map[string]any{
		"Active":     "chat-reports",
		"Tabs":       statusTabs("/chat-reports", status, reportStatuses),
		"Pagination": NewPagination(page, data.TotalPages, data.TotalElements, "/chat-reports", url.Values{"status": {status}}),
	}
	if err != nil {
		h.renderListError(w, r, "chat_reports.html", view, err)
		return
	}
	view["Reports"] = data.Content
	h.render(w, r, "chat_reports.html", view)
}

func (h *Handler) handleChatReportDetail(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	report, err := h.api.ChatReport(r.Context(), id)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.renderListError(w, r, "chat_report_detail.html", map[string]any{"Active": "chat-reports"}, err)
		return
	}
	h.render(w, r, "chat_report_detail.html", map[string]any{
		"Active": "chat-reports",
		"Report": report,
	})
}

func (h *Handler) handleProcessChatReport(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	action := backend.ProcessAction(r.FormValue("action"))
	if action != backend.ActionResolve && action != backend.ActionReject {
		h.failMutation(w, r, "/chat-reports/"+formatID(id), errors.New("unknown action"))
		return
	}
	req := backend.ProcessChatReportRequest{
		Action:    action,
		AdminNote: strings.TrimSpace(r.FormValue("adminNote")),
	}
	if err := h.api.ProcessChatReport(r.Context(), id, req); err != nil {
		h.failMutation(w, r, "/chat-reports/"+formatID(id), err)
		return
	}
	h.redirectAfterMutation(w, r, "chat-report.process", "/chat-reports")
}

func (h *Handler) handleReceiptReviews(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	data, err := fetchPage(h, r.Context(), cache.KeyReceiptReviews, "", page, func(ctx context.Context) (models.Page[models.ReceiptReview], error) {
		return h.api.PendingReceiptReviews(ctx, page, backend.DefaultPageSize)
	})
	view := map[string]any{
		"Active":     "receipt-reviews",
		"Pagination": NewPagination(page, data.TotalPages, data.TotalElements, "/receipt-reviews", nil),
	}
	if err != nil {
		h.renderListError(w, r, "receipt_reviews.html", view, err)
		return
	}
	view["Reviews"] = data.Content
	h.render(w, r, "receipt_reviews.html", view)
}

func (h *Handler) handleApproveReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := h.api.ApproveReceipt(r.Context(), id); err != nil {
		h.failMutation(w, r, "/receipt-reviews", err)
		return
	}
	h.redirectAfterMutation(w, r, "receipt.approve", "/receipt-reviews")
}

func (h *Handler) handleRejectReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := h.api.RejectReceipt(r.Context(), id); err != nil {
		h.failMutation(w, r, "/receipt-reviews", err)
		return
	}
	h.redirectAfterMutation(w, r, "receipt.reject", "/receipt-reviews")
}

func (h *Handler) handlePendingRestaurants(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	data, err := fetchPage(h, r.Context(), cache.KeyPendingRestaurants, "", page, func(ctx context.Context) (models.Page[models.PendingRestaurant], error) {
		return h.api.PendingRestaurants(ctx, page, backend.DefaultPageSize)
	})
	view := map[string]any{
		"Active":     "restaurants",
		"Pagination": NewPagination(page, data.TotalPages, data.TotalElements, "/restaurants/pending", nil),
	}
	if err != nil {
		h.renderListError(w, r, "pending_restaurants.html", view, err)
		return
	}
	view["Restaurants"] = data.Content
	h.render(w, r, "pending_restaurants.html", view)
}

func (h *Handler) handleApproveRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := h.api.ApproveRestaurant(r.Context(), id); err != nil {
		h.failMutation(w, r, "/restaurants/pending", err)
		return
	}
	h.redirectAfterMutation(w, r, "restaurant.approve", "/restaurants/pending")
}

func (h *Handler) handleRejectRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	reason := r.FormValue("reason")
	if strings.TrimSpace(reason) == "" {
		// Validation failure stays local; nothing goes to the backend.
		h.failMutation(w, r, "/restaurants/pending", errors.New("a rejection reason is required"))
		return
	}
	if err := h.api.RejectRestaurant(r.Context(), id, reason); err != nil {
		h.failMutation(w, r, "/restaurants/pending", err)
		return
	}
	h.redirectAfterMutation(w, r, "restaurant.reject", "/restaurants/pending")
}

var gatheringStatuses = []models.GatheringStatus{
	models.GatheringRecruiting,
	models.GatheringConfirmed,
	models.GatheringInProgress,
	models.GatheringCompleted,
	models.GatheringCancelled,
}

func gatheringStatusOptions() []statusTab {
	opts := []statusTab{{Value: "", Label: "All"}}
	for _, s := range gatheringStatuses {
		opts = append(opts, statusTab{Value: string(s), Label: s.Label()})
	}
	return opts
}

func (h *Handler) handleGatherings(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	page := parsePage(r)
	data, err := fetchPage(h, r.Context(), cache.KeyGatherings, status, page, func(ctx context.Context) (models.Page[models.Gathering], error) {
		return h.api.Gatherings(ctx, status, page, backend.DefaultPageSize)
	})
	view := map[string]any{
		"Active":     "gatherings",
		"Status":     status,
		"Statuses":   gatheringStatusOptions(),
		"Pagination": NewPagination(page, data.TotalPages, data.TotalElements, "/gatherings", url.Values{"status": {status}}),
	}
	if err != nil {
		h.renderListError(w, r, "gatherings.html", view, err)
		return
	}
	view["Gatherings"] = data.Content
	h.render(w, r, "gatherings.html", view)
}

func (h *Handler) handleFailedRefunds(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	data, err := fetchPage(h, r.Context(), cache.KeyFailedRefunds, "", page, func(ctx context.Context) (models.Page[models.FailedRefund], error) {
		return h.api.FailedRefunds(ctx, page, backend.DefaultPageSize)
	})
	view := map[string]any{
		"Active":     "refunds",
		"Pagination": NewPagination(page, data.TotalPages, data.TotalElements, "/refunds/failed", nil),
	}
	if err != nil {
		h.renderListError(w, r, "failed_refunds.html", view, err)
		return
	}
	view["Refunds"] = data.Content
	h.render(w, r, "failed_refunds.html", view)
}

func (h *Handler) handleCompleteRefund(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := h.api.MarkRefundCompleted(r.Context(), id); err != nil {
		h.failMutation(w, r, "/refunds/failed", err)
		return
	}
	h.redirectAfterMutation(w, r, "refund.complete", "/refunds/failed")
}
