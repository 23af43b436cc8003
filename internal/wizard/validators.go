package wizard

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"admissions/internal/models"
)

// MinEssayWords is the minimum word count of the gated essays.
const MinEssayWords = 500

// ConsentMessage is shown when Review is submitted without consent.
const ConsentMessage = "You must consent to the declaration before submitting your application."

// ErrConsentRequired carries ConsentMessage.
var ErrConsentRequired = errors.New(ConsentMessage)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

var now = time.Now

// FieldErrors maps a field name to its error message. Empty means valid.
type FieldErrors map[string]string

func (fe FieldErrors) Valid() bool { return len(fe) == 0 }

// without returns a copy of fe lacking field, or fe itself if field is absent.
func (fe FieldErrors) without(field string) FieldErrors {
	if _, ok := fe[field]; !ok {
		return fe
	}
	out := make(FieldErrors, len(fe))
	for k, v := range fe {
		if k != field {
			out[k] = v
		}
	}
	return out
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// WordCount counts whitespace separated tokens; blank input counts zero.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

func ValidatePersonalInfo(p models.PersonalInfo) FieldErrors {
	errs := FieldErrors{}
	if blank(p.FirstName) {
		errs["firstName"] = "First name is required"
	}
	if blank(p.LastName) {
		errs["lastName"] = "Last name is required"
	}
	if blank(p.Email) {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(p.Email) {
		errs["email"] = "Email is invalid"
	}
	if blank(p.Phone) {
		errs["phone"] = "Phone number is required"
	}
	if p.DateOfBirth == "" {
		errs["dateOfBirth"] = "Date of birth is required"
	}
	if blank(p.Address) {
		errs["address"] = "Address is required"
	}
	return errs
}

func ValidateEducation(e models.Education) FieldErrors {
	errs := FieldErrors{}
	if blank(e.HighSchool) {
		errs["highSchool"] = "High school name is required"
	}
	if e.GraduationYear == "" {
		errs["graduationYear"] = "Graduation year is required"
	} else if !validGraduationYear(e.GraduationYear, now()) {
		errs["graduationYear"] = fmt.Sprintf("Graduation year must be between %d and %d", FirstGraduationYear, now().Year())
	}
	if e.Qualification == "" {
		errs["qualification"] = "Qualification is required"
	} else if !validQualification(e.Qualification) {
		errs["qualification"] = "Qualification is not recognised"
	}
	return errs
}

func validGraduationYear(year string, at time.Time) bool {
	y, err := strconv.Atoi(year)
	return err == nil && y >= FirstGraduationYear && y <= at.Year()
}

func validQualification(value string) bool {
	for _, q := range Qualifications {
		if q.Value == value {
			return true
		}
	}
	return false
}

// EssayWordsMessage is the error for an essay below MinEssayWords.
func EssayWordsMessage(count int) string {
	return fmt.Sprintf("This essay requires at least %d words. Current: %d words", MinEssayWords, count)
}

// ValidateEssays gates whyCollege and careerGoals; leadership is free.
func ValidateEssays(e models.Essays) FieldErrors {
	errs := FieldErrors{}
	if n := WordCount(e.WhyCollege); n < MinEssayWords {
		errs["whyCollege"] = EssayWordsMessage(n)
	}
	if n := WordCount(e.CareerGoals); n < MinEssayWords {
		errs["careerGoals"] = EssayWordsMessage(n)
	}
	return errs
}

func ValidateCredentials(c Credentials) FieldErrors {
	errs := FieldErrors{}
	if c.Certificate == nil {
		errs["certificate"] = "Certificate upload is required"
	}
	if c.IDDocument == nil {
		errs["idDocument"] = "ID document upload is required"
	}
	if c.Photo == nil {
		errs["photo"] = "Photo upload is required"
	}
	return errs
}

// ValidateConsent returns ErrConsentRequired unless consent is given.
func ValidateConsent(consent bool) error {
	if !consent {
		return ErrConsentRequired
	}
	return nil
}
