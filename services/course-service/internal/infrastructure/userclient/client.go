// Package userclient calls the user-service mutation endpoints on behalf of
// the enrollment saga.
package userclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/waste3d/courseplatform-api/internal/platform/logger"
	"github.com/waste3d/courseplatform-api/internal/platform/servicekey"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/domain"
)

type Options struct {
	BaseURL    string
	Timeout    time.Duration // per attempt
	MaxRetries int           // additional attempts after the first
	Backoff    time.Duration // grows linearly with the attempt number
}

type Client struct {
	baseURL    string
	http       *http.Client
	auth       *servicekey.Authorizer
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	log        *logger.Logger
}

func New(opts Options, auth *servicekey.Authorizer, log *logger.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		http:       &http.Client{},
		auth:       auth,
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		log:        log,
	}
}

func (c *Client) Enroll(ctx context.Context, userID, courseID string, skills []string) error {
	return c.do(ctx, http.MethodPost, userPath(userID, "enroll", courseID), skillsBody(skills))
}

func (c *Client) Unenroll(ctx context.Context, userID, courseID string, skills []string) error {
	return c.do(ctx, http.MethodDelete, userPath(userID, "enroll", courseID), skillsBody(skills))
}

func (c *Client) Complete(ctx context.Context, userID, courseID string, skills []string) error {
	return c.do(ctx, http.MethodPost, userPath(userID, "complete", courseID), skillsBody(skills))
}

func (c *Client) Bookmark(ctx context.Context, userID, courseID string) error {
	return c.do(ctx, http.MethodPost, userPath(userID, "bookmark", courseID), nil)
}

func (c *Client) Unbookmark(ctx context.Context, userID, courseID string) error {
	return c.do(ctx, http.MethodDelete, userPath(userID, "bookmark", courseID), nil)
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.code, e.body)
}

func (e *statusError) retryable() bool { return e.code >= 500 }

// permanentError marks a failure to build or sign the request. Sending it
// again cannot succeed.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// do issues one logical call. Caller cancellation does not propagate; each
// attempt is bounded by its own timeout instead.
func (c *Client) do(ctx context.Context, method, path string, body []byte) error {
	ctx = context.WithoutCancel(ctx)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Warn("retrying user-service call",
				"method", method, "path", path, "attempt", attempt, "error", lastErr)
			time.Sleep(c.backoff * time.Duration(attempt))
		}

		lastErr = c.attempt(ctx, method, path, body)
		if lastErr == nil {
			return nil
		}
		var se *statusError
		if errors.As(lastErr, &se) && !se.retryable() {
			break
		}
		var pe *permanentError
		if errors.As(lastErr, &pe) {
			break
		}
	}
	return fmt.Errorf("%w: %s %s: %v", domain.ErrRemoteUnavailable, method, path, lastErr)
}

func (c *Client) attempt(ctx context.Context, method, path string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return &permanentError{err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.auth != nil {
		if err := c.auth.Apply(req); err != nil {
			return &permanentError{err: fmt.Errorf("sign request: %w", err)}
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(msg))}
}

func userPath(userID, action, courseID string) string {
	return "/users/" + url.PathEscape(userID) + "/" + action + "/" + url.PathEscape(courseID)
}

func skillsBody(skills []string) []byte {
	if skills == nil {
		skills = []string{}
	}
	b, _ := json.Marshal(skills)
	return b
}
