// internal/workers/admission/process-application/models.go
package processapplication

import "admissions/internal/models"

// Input is read from the "application" process variable.
type Input struct {
	Application models.SubmissionPayload `json:"application"`
}

type Output struct {
	StudentID   string `json:"studentId"`
	Email       string `json:"email"`
	SubmittedAt string `json:"submittedAt"` // ISO 8601
	LetterSent  bool   `json:"letterSent"`
}
