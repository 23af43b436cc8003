package wizard

import (
	"context"
	"errors"
	"sync"

	"admissions/internal/common/logger"
	"admissions/internal/models"
)

var (
	// ErrSubmissionInFlight is returned for a submit while one is outstanding.
	ErrSubmissionInFlight = errors.New("submission already in progress")
	ErrNotOnReview        = errors.New("submit is only available from the review step")
	ErrSubmissionFinished = errors.New("submission already completed; reset or retry first")
)

// Submitter sends a payload to the admission backend. The error's message is
// shown to the applicant as is.
type Submitter interface {
	Submit(ctx context.Context, payload models.SubmissionPayload) (*models.SubmitResponse, error)
}

// Session is one applicant's wizard. The mutex guards state transitions only;
// it is released while the submission is on the wire.
type Session struct {
	mu        sync.Mutex
	state     State
	submitter Submitter
	logger    logger.Logger
}

func NewSession(submitter Submitter, log logger.Logger) *Session {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Session{
		state:     NewState(),
		submitter: submitter,
		logger:    log.WithFields(map[string]interface{}{"component": "wizard"}),
	}
}

// State returns a snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies a non-submit command. Submit must go through Session.Submit.
func (s *Session) Dispatch(cmd Command) (State, error) {
	switch c := cmd.(type) {
	case Submit:
		return s.State(), errors.New("use Session.Submit to submit")
	case MergeSection:
		if err := checkPatch(c.Section, c.Patch); err != nil {
			return s.State(), err
		}
	case UpdateField:
		if err := checkPatch(c.Section, Patch{c.Field: c.Value}); err != nil {
			return s.State(), err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, _ = Reduce(s.state, cmd)
	return s.state, nil
}

func checkPatch(id SectionID, patch Patch) error {
	ctrl, err := Controller(id)
	if err != nil {
		return err
	}
	return ctrl.Check(patch)
}

// UpdateField sets one field of a section.
func (s *Session) UpdateField(section SectionID, field string, value interface{}) error {
	_, err := s.Dispatch(UpdateField{Section: section, Field: field, Value: value})
	return err
}

// Advance moves to the next step and returns the errors blocking it, if any.
func (s *Session) Advance() FieldErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	from := s.state.Step
	s.state, _ = Reduce(s.state, Advance{})
	return s.state.SectionErrors(from)
}

func (s *Session) Retreat() State {
	st, _ := s.Dispatch(Retreat{})
	return st
}

func (s *Session) SetConsent(consent bool) State {
	st, _ := s.Dispatch(SetConsent{Consent: consent})
	return st
}

func (s *Session) Retry() State {
	st, _ := s.Dispatch(Retry{})
	return st
}

func (s *Session) Reset() State {
	st, _ := s.Dispatch(Reset{})
	return st
}

// WordCounts returns the live word counts of the three essays.
func (s *Session) WordCounts() map[string]int {
	st := s.State()
	return map[string]int{
		"whyCollege":  WordCount(st.Form.Essays.WhyCollege),
		"careerGoals": WordCount(st.Form.Essays.CareerGoals),
		"leadership":  WordCount(st.Form.Essays.Leadership),
	}
}

// Submit sends the form and blocks until the backend answers. It returns the
// resulting Succeeded or Failed outcome. A call made while another is
// outstanding returns ErrSubmissionInFlight without touching the network.
func (s *Session) Submit(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	switch s.state.Outcome.(type) {
	case Submitting:
		s.mu.Unlock()
		return nil, ErrSubmissionInFlight
	case Succeeded, Failed:
		s.mu.Unlock()
		return nil, ErrSubmissionFinished
	}
	if s.state.Step != ReviewSection {
		s.mu.Unlock()
		return nil, ErrNotOnReview
	}
	var effect Effect
	s.state, effect = Reduce(s.state, Submit{})
	s.mu.Unlock()

	submit, ok := effect.(SubmitEffect)
	if !ok {
		return nil, ErrConsentRequired
	}

	s.logger.Info("submitting application", map[string]interface{}{
		"email": submit.Payload.PersonalInfo.Email,
	})

	var result Command
	resp, err := s.submitter.Submit(ctx, submit.Payload)
	if err == nil && resp == nil {
		err = errors.New("empty response from admission service")
	}
	if err != nil {
		s.logger.Warn("submission failed", map[string]interface{}{"error": err.Error()})
		result = SubmissionFailed{Message: err.Error()}
	} else {
		s.logger.Info("submission succeeded", map[string]interface{}{"studentId": resp.StudentID})
		result = SubmissionSucceeded{StudentID: resp.StudentID, Email: resp.Email}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, _ = Reduce(s.state, result)
	return s.state.Outcome, nil
}
