// Package submission is the HTTP client for the admission API.
package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	commonhttp "admissions/internal/common/http"
	"admissions/internal/common/logger"
	"admissions/internal/models"
)

// Fallback messages used when the server gives none.
const (
	MsgRequestFailed    = "Failed to submit application"
	MsgSubmissionFailed = "Application submission failed"
	MsgUnexpected       = "An unexpected error occurred"
)

// Error is a failed call. Message is safe to show to the applicant.
type Error struct {
	StatusCode int // zero when no response was received
	Message    string
	Details    string
	Cause      error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Cause }

// Client talks to the admission API.
type Client struct {
	http    *commonhttp.Client
	baseURL string
	logger  logger.Logger
}

// NewClient builds a client for baseURL. A zero timeout leaves the transport default.
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return newClient(baseURL, commonhttp.NewClient(timeout), log)
}

// NewClientWithHTTP uses hc as transport.
func NewClientWithHTTP(baseURL string, hc *http.Client, log logger.Logger) *Client {
	return newClient(baseURL, commonhttp.WithHTTPClient(hc), log)
}

func newClient(baseURL string, hc *commonhttp.Client, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log.WithFields(map[string]interface{}{"component": "submission-client"}),
	}
}

func (c *Client) endpoint(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return c.baseURL + "/api/" + strings.Join(escaped, "/")
}

// Submit posts the payload once and interprets the envelope. Both a non-2xx
// status and success=false are failures carrying the body's error.
func (c *Client) Submit(ctx context.Context, payload models.SubmissionPayload) (*models.SubmitResponse, error) {
	return c.envelope(ctx, http.MethodPost, c.endpoint("submit-application"), payload)
}

// ResendLetter asks the server to email the stored letter again.
func (c *Client) ResendLetter(ctx context.Context, studentID string) (*models.SubmitResponse, error) {
	return c.envelope(ctx, http.MethodPost, c.endpoint("resend-letter", studentID), nil)
}

func (c *Client) envelope(ctx context.Context, method, target string, body interface{}) (*models.SubmitResponse, error) {
	resp, err := c.http.DoJSON(ctx, method, target, body)
	if err != nil {
		c.logger.Warn("admission api unreachable", map[string]interface{}{"url": target, "error": err.Error()})
		return nil, &Error{Message: MsgUnexpected, Cause: err}
	}

	var out models.SubmitResponse
	decodeErr := json.Unmarshal(resp.Body, &out)

	if !resp.OK() {
		c.logger.Warn("admission api returned error status", map[string]interface{}{
			"url": target, "status": resp.StatusCode, "error": out.Error,
		})
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Message:    orDefault(out.Error, MsgRequestFailed),
			Details:    out.Details,
		}
	}
	if decodeErr != nil || !out.Success {
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Message:    orDefault(out.Error, MsgSubmissionFailed),
			Details:    out.Details,
			Cause:      decodeErr,
		}
	}
	return &out, nil
}

// Status fetches the summary of a stored application.
func (c *Client) Status(ctx context.Context, studentID string) (*models.ApplicationSummary, error) {
	target := c.endpoint("application", studentID)
	resp, err := c.http.DoJSON(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &Error{Message: MsgUnexpected, Cause: err}
	}

	var out models.StatusResponse
	decodeErr := json.Unmarshal(resp.Body, &out)
	if !resp.OK() || decodeErr != nil || !out.Success || out.Application == nil {
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Message:    orDefault(out.Error, fmt.Sprintf("status lookup failed with HTTP %d", resp.StatusCode)),
			Details:    out.Details,
			Cause:      decodeErr,
		}
	}
	return out.Application, nil
}

// Health reads the service health report. Any status with a decodable body is returned.
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	resp, err := c.http.DoJSON(ctx, http.MethodGet, c.endpoint("health"), nil)
	if err != nil {
		return nil, &Error{Message: MsgUnexpected, Cause: err}
	}

	var out models.HealthResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, &Error{StatusCode: resp.StatusCode, Message: "invalid health response", Cause: err}
	}
	return &out, nil
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
