package wizard

// State is the whole wizard: step, accumulated data, per-section errors and
// the submission outcome. Values are never mutated in place by Reduce.
type State struct {
	Step         SectionID
	Form         FormData
	Consent      bool
	Errors       map[SectionID]FieldErrors
	ConsentError string
	Outcome      Outcome
}

// NewState returns the initial state: first step, empty form, Idle.
func NewState() State {
	return State{
		Step:    PersonalInfoSection,
		Errors:  map[SectionID]FieldErrors{},
		Outcome: Idle{},
	}
}

// SectionErrors returns the displayed errors of a section.
func (s State) SectionErrors(id SectionID) FieldErrors {
	return s.Errors[id]
}

func (s State) withErrors(id SectionID, errs FieldErrors) State {
	next := make(map[SectionID]FieldErrors, len(s.Errors)+1)
	for k, v := range s.Errors {
		next[k] = v
	}
	if errs.Valid() {
		delete(next, id)
	} else {
		next[id] = errs
	}
	s.Errors = next
	return s
}

// Reduce applies cmd to s. While a submission is outstanding only its result
// is accepted; after a result only Retry (from Failed) and Reset apply.
func Reduce(s State, cmd Command) (State, Effect) {
	switch s.Outcome.(type) {
	case Submitting:
		return reduceSubmitting(s, cmd), nil
	case Succeeded:
		if _, ok := cmd.(Reset); ok {
			return NewState(), nil
		}
		return s, nil
	case Failed:
		switch cmd.(type) {
		case Reset:
			return NewState(), nil
		case Retry:
			s.Step = ReviewSection
			s.Outcome = Idle{}
		}
		return s, nil
	}
	return reduceIdle(s, cmd)
}

func reduceSubmitting(s State, cmd Command) State {
	switch c := cmd.(type) {
	case SubmissionSucceeded:
		s.Outcome = Succeeded{StudentID: c.StudentID, Email: c.Email}
	case SubmissionFailed:
		s.Outcome = Failed{Message: c.Message}
	}
	return s
}

func reduceIdle(s State, cmd Command) (State, Effect) {
	switch c := cmd.(type) {
	case MergeSection:
		ctrl, err := Controller(c.Section)
		if err != nil {
			return s, nil
		}
		s.Form = ctrl.Merge(s.Form, c.Patch)
		return s, nil

	case UpdateField:
		ctrl, err := Controller(c.Section)
		if err != nil {
			return s, nil
		}
		s.Form = ctrl.Merge(s.Form, Patch{c.Field: c.Value})
		if errs := s.Errors[c.Section]; errs != nil {
			s = s.withErrors(c.Section, errs.without(c.Field))
		}
		return s, nil

	case Advance:
		if s.Step >= ReviewSection {
			return s, nil
		}
		errs := controllers[s.Step].Validate(s.Form)
		s = s.withErrors(s.Step, errs)
		if errs.Valid() {
			s.Step++
		}
		return s, nil

	case Retreat:
		if s.Step > PersonalInfoSection {
			s.Step--
		}
		return s, nil

	case SetConsent:
		s.Consent = c.Consent
		if c.Consent {
			s.ConsentError = ""
		}
		return s, nil

	case Submit:
		if s.Step != ReviewSection {
			return s, nil
		}
		if err := ValidateConsent(s.Consent); err != nil {
			s.ConsentError = err.Error()
			return s, nil
		}
		s.ConsentError = ""
		s.Outcome = Submitting{}
		return s, SubmitEffect{Payload: s.Form.Payload()}

	case Reset:
		// Reset is only meaningful after a result.
		return s, nil
	}
	return s, nil
}
