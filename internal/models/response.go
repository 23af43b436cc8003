// internal/models/response.go
package models

import "time"

// TimestampLayout formats UTC instants with millisecond precision,
// e.g. 2024-05-01T09:30:00.000Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// SubmitResponse is the envelope returned by the submit and resend endpoints.
// Failures set Success=false with Error and optionally Details.
type SubmitResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	StudentID   string `json:"studentId,omitempty"`
	Email       string `json:"email,omitempty"`
	SubmittedAt string `json:"submittedAt,omitempty"` // ISO-8601
	Error       string `json:"error,omitempty"`
	Details     string `json:"details,omitempty"`
}

// StatusResponse is the envelope of GET /api/application/:studentId.
type StatusResponse struct {
	Success     bool                `json:"success"`
	Application *ApplicationSummary `json:"application,omitempty"`
	Error       string              `json:"error,omitempty"`
	Details     string              `json:"details,omitempty"`
}

// ErrorResponse is the failure envelope shared by every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

const (
	HealthOK             = "OK"
	ServiceConnected     = "connected"
	ServiceDisconnected  = "disconnected"
	ServiceConfigured    = "configured"
	ServiceNotConfigured = "not_configured"
)

type HealthServices struct {
	Database string `json:"database"`
	Email    string `json:"email"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Services  HealthServices `json:"services"`
}
