package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/foodreview-demo/admin/internal/models"
)

// ErrEmptyReason is returned before any network call when a rejection reason
// is required but blank.
var ErrEmptyReason = errors.New("rejection reason must not be empty")

const DefaultPageSize = 10

// ProcessAction is the adjudication verb for report-style queues. The
// backend computes the resulting status; the client never does.
type ProcessAction string

const (
	ActionResolve ProcessAction = "RESOLVE"
	ActionReject  ProcessAction = "REJECT"
)

type ProcessReportRequest struct {
	Action       ProcessAction `json:"action"`
	AdminNote    string        `json:"adminNote,omitempty"`
	DeleteReview bool          `json:"deleteReview,omitempty"`
}

type ProcessChatReportRequest struct {
	Action    ProcessAction `json:"action"`
	AdminNote string        `json:"adminNote,omitempty"`
}

// API is the full typed surface of the moderation backend, one method per
// endpoint. *Client implements it; tests substitute fakes.
type API interface {
	Login(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context) (models.User, error)
	Stats(ctx context.Context) (models.AdminStats, error)

	Reports(ctx context.Context, status string, page, size int) (models.Page[models.Report], error)
	Report(ctx context.Context, id int64) (models.Report, error)
	ProcessReport(ctx context.Context, id int64, req ProcessReportRequest) error

	ChatReports(ctx context.Context, status string, page, size int) (models.Page[models.ChatReport], error)
	ChatReport(ctx context.Context, id int64) (models.ChatReport, error)
	ProcessChatReport(ctx context.Context, id int64, req ProcessChatReportRequest) error

	PendingReceiptReviews(ctx context.Context, page, size int) (models.Page[models.ReceiptReview], error)
	ApproveReceipt(ctx context.Context, id int64) error
	RejectReceipt(ctx context.Context, id int64) error

	PendingRestaurants(ctx context.Context, page, size int) (models.Page[models.PendingRestaurant], error)
	ApproveRestaurant(ctx context.Context, id int64) error
	RejectRestaurant(ctx context.Context, id int64, reason string) error

	Gatherings(ctx context.Context, status string, page, size int) (models.Page[models.Gathering], error)

	FailedRefunds(ctx context.Context, page, size int) (models.Page[models.FailedRefund], error)
	MarkRefundCompleted(ctx context.Context, participantID int64) error
}

var _ API = (*Client)(nil)

// Login exchanges credentials for an opaque session token. The token does
// not carry the caller's role; authorization is a separate CurrentUser call.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var env models.Envelope[struct {
		Token string `json:"token"`
	}]
	if err := c.requestJSON(ctx, http.MethodPost, "/auth/login", nil, body, &env); err != nil {
		return "", err
	}
	if !env.Success {
		return "", APIError{Message: env.Message}
	}
	return env.Data.Token, nil
}

func (c *Client) CurrentUser(ctx context.Context) (models.User, error) {
	return getEnvelope[models.User](ctx, c, "/users/me", nil)
}

func (c *Client) Stats(ctx context.Context) (models.AdminStats, error) {
	return getEnvelope[models.AdminStats](ctx, c, "/admin/stats", nil)
}

func (c *Client) Reports(ctx context.Context, status string, page, size int) (models.Page[models.Report], error) {
	return getEnvelope[models.Page[models.Report]](ctx, c, "/admin/reports", pageQuery(status, page, size))
}

func (c *Client) Report(ctx context.Context, id int64) (models.Report, error) {
	return getEnvelope[models.Report](ctx, c, "/admin/reports/"+formatID(id), nil)
}

func (c *Client) ProcessReport(ctx context.Context, id int64, req ProcessReportRequest) error {
	return c.postEnvelope(ctx, "/admin/reports/"+formatID(id)+"/process", req)
}

func (c *Client) ChatReports(ctx context.Context, status string, page, size int) (models.Page[models.ChatReport], error) {
	return getEnvelope[models.Page[models.ChatReport]](ctx, c, "/admin/chat-reports", pageQuery(status, page, size))
}

func (c *Client) ChatReport(ctx context.Context, id int64) (models.ChatReport, error) {
	return getEnvelope[models.ChatReport](ctx, c, "/admin/chat-reports/"+formatID(id), nil)
}

func (c *Client) ProcessChatReport(ctx context.Context, id int64, req ProcessChatReportRequest) error {
	return c.postEnvelope(ctx, "/admin/chat-reports/"+formatID(id)+"/process", req)
}

func (c *Client) PendingReceiptReviews(ctx context.Context, page, size int) (models.Page[models.ReceiptReview], error) {
	return getEnvelope[models.Page[models.ReceiptReview]](ctx, c, "/admin/reviews/pending-receipt", pageQuery("", page, size))
}

func (c *Client) ApproveReceipt(ctx context.Context, id int64) error {
	return c.postEnvelope(ctx, "/admin/reviews/"+formatID(id)+"/receipt/approve", nil)
}

func (c *Client) RejectReceipt(ctx context.Context, id int64) error {
	return c.postEnvelope(ctx, "/admin/reviews/"+formatID(id)+"/receipt/reject", nil)
}

func (c *Client) PendingRestaurants(ctx context.Context, page, size int) (models.Page[models.PendingRestaurant], error) {
	return getEnvelope[models.Page[models.PendingRestaurant]](ctx, c, "/admin/restaurants/pending", pageQuery("", page, size))
}

func (c *Client) ApproveRestaurant(ctx context.Context, id int64) error {
	return c.postEnvelope(ctx, "/admin/restaurants/"+formatID(id)+"/approve", nil)
}

// RejectRestaurant requires a non-blank reason; a blank one never reaches
// the wire.
func (c *Client) RejectRestaurant(ctx context.Context, id int64, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrEmptyReason
	}
	return c.postEnvelope(ctx, "/admin/restaurants/"+formatID(id)+"/reject", map[string]string{"reason": reason})
}

func (c *Client) Gatherings(ctx context.Context, status string, page, size int) (models.Page[models.Gathering], error) {
	return getEnvelope[models.Page[models.Gathering]](ctx, c, "/admin/gatherings", pageQuery(status, page, size))
}

func (c *Client) FailedRefunds(ctx context.Context, page, size int) (models.Page[models.FailedRefund], error) {
	return getEnvelope[models.Page[models.FailedRefund]](ctx, c, "/admin/refunds/failed", pageQuery("", page, size))
}

func (c *Client) MarkRefundCompleted(ctx context.Context, participantID int64) error {
	return c.postEnvelope(ctx, "/admin/refunds/"+formatID(participantID)+"/complete", nil)
}

func getEnvelope[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var env models.Envelope[T]
	if err := c.requestJSON(ctx, http.MethodGet, path, query, nil, &env); err != nil {
		var zero T
		return zero, err
	}
	if !env.Success {
		var zero T
		return zero, APIError{Message: env.Message}
	}
	return env.Data, nil
}

func (c *Client) postEnvelope(ctx context.Context, path string, body any) error {
	var env models.Envelope[struct{}]
	if err := c.requestJSON(ctx, http.MethodPost, path, nil, body, &env); err != nil {
		return err
	}
	if !env.Success {
		return APIError{Message: env.Message}
	}
	return nil
}

// pageQuery serializes the shared list parameters. The status filter is
// omitted entirely when blank, which the backend reads as "all statuses".
func pageQuery(status string, page, size int) url.Values {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
