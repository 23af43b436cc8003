package wizard

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownSection = errors.New("unknown section")
	ErrUnknownField   = errors.New("unknown field")
	ErrFieldType      = errors.New("wrong value type for field")
)

// Patch is a partial section update keyed by payload field name. String
// fields take string values, file fields take a FileRef (nil clears, typed
// nil pointers included) and additionalDocs takes []FileRef.
type Patch map[string]interface{}

type stringField func(*FormData) *string
type fileField func(*FormData) *FileRef

// SectionController owns one section's fields and validator. The section's
// data and error map live in State; controllers only read and write them.
type SectionController struct {
	id       SectionID
	strings  map[string]stringField
	files    map[string]fileField
	validate func(FormData) FieldErrors
}

var controllers = [StepCount]SectionController{
	PersonalInfoSection: {
		id: PersonalInfoSection,
		strings: map[string]stringField{
			"firstName":   func(f *FormData) *string { return &f.PersonalInfo.FirstName },
			"lastName":    func(f *FormData) *string { return &f.PersonalInfo.LastName },
			"email":       func(f *FormData) *string { return &f.PersonalInfo.Email },
			"phone":       func(f *FormData) *string { return &f.PersonalInfo.Phone },
			"dateOfBirth": func(f *FormData) *string { return &f.PersonalInfo.DateOfBirth },
			"address":     func(f *FormData) *string { return &f.PersonalInfo.Address },
		},
		validate: func(f FormData) FieldErrors { return ValidatePersonalInfo(f.PersonalInfo) },
	},
	EducationSection: {
		id: EducationSection,
		strings: map[string]stringField{
			"highSchool":        func(f *FormData) *string { return &f.Education.HighSchool },
			"graduationYear":    func(f *FormData) *string { return &f.Education.GraduationYear },
			"qualification":     func(f *FormData) *string { return &f.Education.Qualification },
			"previousEducation": func(f *FormData) *string { return &f.Education.PreviousEducation },
		},
		validate: func(f FormData) FieldErrors { return ValidateEducation(f.Education) },
	},
	EssaysSection: {
		id: EssaysSection,
		strings: map[string]stringField{
			"whyCollege":  func(f *FormData) *string { return &f.Essays.WhyCollege },
			"careerGoals": func(f *FormData) *string { return &f.Essays.CareerGoals },
			"leadership":  func(f *FormData) *string { return &f.Essays.Leadership },
		},
		validate: func(f FormData) FieldErrors { return ValidateEssays(f.Essays) },
	},
	CredentialsSection: {
		id: CredentialsSection,
		files: map[string]fileField{
			"certificate": func(f *FormData) *FileRef { return &f.Credentials.Certificate },
			"idDocument":  func(f *FormData) *FileRef { return &f.Credentials.IDDocument },
			"photo":       func(f *FormData) *FileRef { return &f.Credentials.Photo },
		},
		validate: func(f FormData) FieldErrors { return ValidateCredentials(f.Credentials) },
	},
	ReviewSection: {
		id:       ReviewSection,
		validate: func(FormData) FieldErrors { return FieldErrors{} },
	},
}

const additionalDocsField = "additionalDocs"

// Controller returns the controller for id.
func Controller(id SectionID) (SectionController, error) {
	if !id.Valid() {
		return SectionController{}, fmt.Errorf("%w: %d", ErrUnknownSection, id)
	}
	return controllers[id], nil
}

func (c SectionController) ID() SectionID { return c.id }

// Validate runs the section validator against f.
func (c SectionController) Validate(f FormData) FieldErrors {
	return c.validate(f)
}

// Fields lists the field names the section accepts.
func (c SectionController) Fields() []string {
	out := make([]string, 0, len(c.strings)+len(c.files)+1)
	for name := range c.strings {
		out = append(out, name)
	}
	for name := range c.files {
		out = append(out, name)
	}
	if c.id == CredentialsSection {
		out = append(out, additionalDocsField)
	}
	return out
}

// Check reports whether patch only names known fields with the right types.
func (c SectionController) Check(patch Patch) error {
	for name, value := range patch {
		if err := c.checkField(name, value); err != nil {
			return err
		}
	}
	return nil
}

func (c SectionController) checkField(name string, value interface{}) error {
	if _, ok := c.strings[name]; ok {
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%w: %s.%s expects string, got %T", ErrFieldType, c.id, name, value)
		}
		return nil
	}
	if _, ok := c.files[name]; ok {
		if value == nil {
			return nil
		}
		if _, ok := value.(FileRef); !ok {
			return fmt.Errorf("%w: %s.%s expects FileRef, got %T", ErrFieldType, c.id, name, value)
		}
		return nil
	}
	if c.id == CredentialsSection && name == additionalDocsField {
		if _, ok := value.([]FileRef); !ok && value != nil {
			return fmt.Errorf("%w: %s.%s expects []FileRef, got %T", ErrFieldType, c.id, name, value)
		}
		return nil
	}
	return fmt.Errorf("%w: %s.%s", ErrUnknownField, c.id, name)
}

// Merge shallow-merges patch into a copy of f. Fields not named in patch keep
// their values. Entries that fail Check are skipped.
func (c SectionController) Merge(f FormData, patch Patch) FormData {
	out := f.clone()
	for name, value := range patch {
		if c.checkField(name, value) != nil {
			continue
		}
		if get, ok := c.strings[name]; ok {
			*get(&out) = value.(string)
			continue
		}
		if get, ok := c.files[name]; ok {
			ref, _ := value.(FileRef)
			if isNilRef(ref) {
				ref = nil
			}
			*get(&out) = ref
			continue
		}
		docs, _ := value.([]FileRef)
		var kept []FileRef
		for _, d := range docs {
			if !isNilRef(d) {
				kept = append(kept, d)
			}
		}
		out.Credentials.AdditionalDocs = kept
	}
	return out
}
