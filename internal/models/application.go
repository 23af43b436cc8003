// internal/models/application.go
package models

import "time"

// Application record statuses.
const (
	StatusSubmitted      = "submitted"
	PaymentStatusPending = "pending"
)

type PersonalInfo struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	Address     string `json:"address"`
}

// FullName joins first and last name.
func (p PersonalInfo) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

type Education struct {
	HighSchool        string `json:"highSchool"`
	GraduationYear    string `json:"graduationYear"`
	Qualification     string `json:"qualification"`
	PreviousEducation string `json:"previousEducation"`
}

type Essays struct {
	WhyCollege  string `json:"whyCollege"`
	CareerGoals string `json:"careerGoals"`
	Leadership  string `json:"leadership"`
}

// CredentialsSummary is what is transmitted for uploaded files: presence flags
// and a count, never file content.
type CredentialsSummary struct {
	CertificateUploaded bool `json:"certificateUploaded"`
	IDDocumentUploaded  bool `json:"idDocumentUploaded"`
	PhotoUploaded       bool `json:"photoUploaded"`
	AdditionalDocsCount int  `json:"additionalDocsCount"`
}

// SubmissionPayload is the body of POST /api/submit-application.
type SubmissionPayload struct {
	PersonalInfo PersonalInfo       `json:"personalInfo"`
	Education    Education          `json:"education"`
	Essays       Essays             `json:"essays"`
	Credentials  CredentialsSummary `json:"credentials"`
}

// ApplicationRecord is the persisted value under application_{studentId}.
// The payload fields are inlined next to the server-assigned ones.
type ApplicationRecord struct {
	SubmissionPayload
	StudentID     string    `json:"studentId"`
	SubmittedAt   time.Time `json:"submittedAt"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
}

// Summary projects the record onto the status endpoint shape.
func (r ApplicationRecord) Summary() ApplicationSummary {
	return ApplicationSummary{
		StudentID:     r.StudentID,
		Name:          r.PersonalInfo.FullName(),
		Email:         r.PersonalInfo.Email,
		Status:        r.Status,
		PaymentStatus: r.PaymentStatus,
		SubmittedAt:   r.SubmittedAt,
	}
}

type ApplicationSummary struct {
	StudentID     string    `json:"studentId"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	SubmittedAt   time.Time `json:"submittedAt"`
}
