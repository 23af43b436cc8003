package wizard

import (
	"strconv"
	"time"
)

// FirstGraduationYear is the oldest selectable graduation year.
const FirstGraduationYear = 1980

// GraduationYears lists selectable years from now's year down to 1980.
func GraduationYears(now time.Time) []string {
	current := now.Year()
	if current < FirstGraduationYear {
		return nil
	}
	years := make([]string, 0, current-FirstGraduationYear+1)
	for y := current; y >= FirstGraduationYear; y-- {
		years = append(years, strconv.Itoa(y))
	}
	return years
}

// Option is a selectable value with its display label.
type Option struct {
	Value string
	Label string
}

// Qualifications are the accepted qualification values.
var Qualifications = []Option{
	{Value: "MSCE", Label: "Malawi School Certificate of Education (MSCE)"},
	{Value: "high_school", Label: "High School Diploma"},
	{Value: "a_level", Label: "A-Level"},
	{Value: "ib", Label: "International Baccalaureate"},
	{Value: "other", Label: "Other"},
}

// QualificationLabel returns the label for value, or value itself if unknown.
func QualificationLabel(value string) string {
	for _, q := range Qualifications {
		if q.Value == value {
			return q.Label
		}
	}
	return value
}
