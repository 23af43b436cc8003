package wizard

import "admissions/internal/models"

// Command is an input to Reduce.
type Command interface {
	isCommand()
}

// MergeSection shallow-merges Patch into Section regardless of the current step.
type MergeSection struct {
	Section SectionID
	Patch   Patch
}

// UpdateField sets one field and clears that field's error.
type UpdateField struct {
	Section SectionID
	Field   string
	Value   interface{}
}

// Advance validates the current step and moves forward if it passes.
type Advance struct{}

// Retreat moves back one step without validation.
type Retreat struct{}

type SetConsent struct {
	Consent bool
}

// Submit starts a submission from Review.
type Submit struct{}

type SubmissionSucceeded struct {
	StudentID string
	Email     string
}

type SubmissionFailed struct {
	Message string
}

// Retry clears a failure back to the Review step without resubmitting.
type Retry struct{}

// Reset discards everything and returns to the first step.
type Reset struct{}

func (MergeSection) isCommand()        {}
func (UpdateField) isCommand()         {}
func (Advance) isCommand()             {}
func (Retreat) isCommand()             {}
func (SetConsent) isCommand()          {}
func (Submit) isCommand()              {}
func (SubmissionSucceeded) isCommand() {}
func (SubmissionFailed) isCommand()    {}
func (Retry) isCommand()               {}
func (Reset) isCommand()               {}

// Effect is work Reduce asks its caller to perform. Nil means none.
type Effect interface {
	isEffect()
}

// SubmitEffect asks the caller to send Payload to the backend and report
// back with SubmissionSucceeded or SubmissionFailed.
type SubmitEffect struct {
	Payload models.SubmissionPayload
}

func (SubmitEffect) isEffect() {}
