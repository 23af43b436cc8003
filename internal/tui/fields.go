package tui

import (
	"time"

	"admissions/internal/wizard"
)

type fieldKind int

const (
	textField fieldKind = iota
	essayField
	fileField
	filesField
	choiceField
)

type field struct {
	name  string
	label string
	kind  fieldKind
	hint  string
}

// sectionFields lists the editable fields of each step in display order.
var sectionFields = map[wizard.SectionID][]field{
	wizard.PersonalInfoSection: {
		{name: "firstName", label: "First name"},
		{name: "lastName", label: "Last name"},
		{name: "email", label: "Email"},
		{name: "phone", label: "Phone"},
		{name: "dateOfBirth", label: "Date of birth", hint: "YYYY-MM-DD"},
		{name: "address", label: "Address"},
	},
	wizard.EducationSection: {
		{name: "highSchool", label: "High school"},
		{name: "graduationYear", label: "Graduation year", kind: choiceField},
		{name: "qualification", label: "Qualification", kind: choiceField},
		{name: "previousEducation", label: "Previous education (optional)"},
	},
	wizard.EssaysSection: {
		{name: "whyCollege", label: "Why this college?", kind: essayField},
		{name: "careerGoals", label: "Career goals", kind: essayField},
		{name: "leadership", label: "Leadership experience (optional)", kind: essayField},
	},
	wizard.CredentialsSection: {
		{name: "certificate", label: "Certificate", kind: fileField, hint: "path to file"},
		{name: "idDocument", label: "ID document", kind: fileField, hint: "path to file"},
		{name: "photo", label: "Photo", kind: fileField, hint: "path to file"},
		{name: "additionalDocs", label: "Additional documents (optional)", kind: filesField, hint: "comma-separated paths"},
	},
}

// choices returns the selectable values of a choiceField and the label shown
// for each.
func choices(name string, now time.Time) (values, labels []string) {
	switch name {
	case "graduationYear":
		years := wizard.GraduationYears(now)
		return years, years
	case "qualification":
		for _, q := range wizard.Qualifications {
			values = append(values, q.Value)
			labels = append(labels, q.Label)
		}
	}
	return values, labels
}

func educationValue(st wizard.State, name string) string {
	switch name {
	case "graduationYear":
		return st.Form.Education.GraduationYear
	case "qualification":
		return st.Form.Education.Qualification
	}
	return ""
}
