package wizard

// Outcome is the submission state: Idle, Submitting, Succeeded or Failed.
type Outcome interface {
	isOutcome()
}

type Idle struct{}

type Submitting struct{}

type Succeeded struct {
	StudentID string
	Email     string
}

type Failed struct {
	Message string
}

func (Idle) isOutcome()       {}
func (Submitting) isOutcome() {}
func (Succeeded) isOutcome()  {}
func (Failed) isOutcome()     {}
