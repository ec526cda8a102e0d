// Package backend is the console's client for the platform REST API. All
// moderation business rules live on the other side of this package; it only
// shapes requests and decodes the uniform response envelope.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrUnauthorized = errors.New("backend rejected the session token")
	ErrNotFound     = errors.New("not found")
)

// StatusError reports a non-2xx backend response that is not an auth failure.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// APIError is a 2xx response whose envelope carries success=false.
type APIError struct {
	Message string
}

func (e APIError) Error() string {
	if e.Message == "" {
		return "backend reported failure"
	}
	return e.Message
}

// TokenStorage is the slice of local storage the client needs: read the
// current session token and clear it on auth failure.
type TokenStorage interface {
	Token(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}

// Client wraps every outgoing backend request: base URL, bearer credential
// from storage, and the single global reaction to an unauthorized response.
type Client struct {
	baseURL       string
	http          *http.Client
	tokens        TokenStorage
	onAuthFailure func()
}

// NewClient builds a backend client. onAuthFailure fires once per
// unauthorized response, after the stored token has been cleared; pass nil
// when no navigation hook is needed.
func NewClient(baseURL string, timeout time.Duration, tokens TokenStorage, onAuthFailure func()) *Client {
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          &http.Client{Timeout: timeout},
		tokens:        tokens,
		onAuthFailure: onAuthFailure,
	}
}

func (c *Client) requestJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("read stored token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.authFailed(ctx)
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		var env struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&env)
		return StatusError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// authFailed is the one place that reacts globally to an unauthorized
// response: clear the stored token, then notify whoever handles navigation.
func (c *Client) authFailed(ctx context.Context) {
	_ = c.tokens.ClearToken(ctx)
	if c.onAuthFailure != nil {
		c.onAuthFailure()
	}
}
