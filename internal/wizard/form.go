package wizard

import (
	"admissions/internal/models"
)

// SectionID identifies a wizard step. Steps are visited in declaration order.
type SectionID int

const (
	PersonalInfoSection SectionID = iota
	EducationSection
	EssaysSection
	CredentialsSection
	ReviewSection
)

// StepCount is the number of wizard steps.
const StepCount = 5

var sectionTitles = [StepCount]string{
	"Personal Information",
	"Education",
	"Essays",
	"Credentials",
	"Review & Submit",
}

var sectionKeys = [StepCount]string{
	"personalInfo",
	"education",
	"essays",
	"credentials",
	"review",
}

// String returns the payload key of the section.
func (s SectionID) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return sectionKeys[s]
}

// Title returns the human readable step title.
func (s SectionID) Title() string {
	if !s.Valid() {
		return ""
	}
	return sectionTitles[s]
}

func (s SectionID) Valid() bool {
	return s >= PersonalInfoSection && s <= ReviewSection
}

// Credentials holds file handles; a nil FileRef means not uploaded.
type Credentials struct {
	Certificate    FileRef
	IDDocument     FileRef
	Photo          FileRef
	AdditionalDocs []FileRef
}

// Summary reduces the handles to the transmitted presence flags.
func (c Credentials) Summary() models.CredentialsSummary {
	return models.CredentialsSummary{
		CertificateUploaded: c.Certificate != nil,
		IDDocumentUploaded:  c.IDDocument != nil,
		PhotoUploaded:       c.Photo != nil,
		AdditionalDocsCount: len(c.AdditionalDocs),
	}
}

// FormData is the accumulated applicant data across all sections.
type FormData struct {
	PersonalInfo models.PersonalInfo
	Education    models.Education
	Essays       models.Essays
	Credentials  Credentials
}

// Payload builds the submission body.
func (f FormData) Payload() models.SubmissionPayload {
	return models.SubmissionPayload{
		PersonalInfo: f.PersonalInfo,
		Education:    f.Education,
		Essays:       f.Essays,
		Credentials:  f.Credentials.Summary(),
	}
}

// clone copies the additional docs slice so merges never alias a prior state.
func (f FormData) clone() FormData {
	if f.Credentials.AdditionalDocs != nil {
		docs := make([]FileRef, len(f.Credentials.AdditionalDocs))
		copy(docs, f.Credentials.AdditionalDocs)
		f.Credentials.AdditionalDocs = docs
	}
	return f
}
