// Package validation checks structural shape of admission payloads with JSON Schema.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SubmissionPayloadSchema describes the wire shape of a submission. Business
// rules (required names, email, even personalInfo itself) are left to the
// admission processor so that they surface with their own error code.
const SubmissionPayloadSchema = `{
  "type": "object",
  "properties": {
    "personalInfo": {
      "type": ["object", "null"],
      "properties": {
        "firstName":   {"type": "string"},
        "lastName":    {"type": "string"},
        "email":       {"type": "string"},
        "phone":       {"type": "string"},
        "dateOfBirth": {"type": "string"},
        "address":     {"type": "string"}
      }
    },
    "education": {
      "type": "object",
      "properties": {
        "highSchool":        {"type": "string"},
        "graduationYear":    {"type": "string"},
        "qualification":     {"type": "string"},
        "previousEducation": {"type": "string"}
      }
    },
    "essays": {
      "type": "object",
      "properties": {
        "whyCollege":  {"type": "string"},
        "careerGoals": {"type": "string"},
        "leadership":  {"type": "string"}
      }
    },
    "credentials": {
      "type": "object",
      "properties": {
        "certificateUploaded": {"type": "boolean"},
        "idDocumentUploaded":  {"type": "boolean"},
        "photoUploaded":       {"type": "boolean"},
        "additionalDocsCount": {"type": "integer", "minimum": 0}
      }
    }
  }
}`

// ValidationResult is the outcome of a schema check.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Validator holds a compiled schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles schemaJSON.
func NewValidator(schemaJSON string) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// NewSubmissionValidator compiles SubmissionPayloadSchema.
func NewSubmissionValidator() *Validator {
	v, err := NewValidator(SubmissionPayloadSchema)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks any Go value (maps, structs) against the schema.
func (v *Validator) Validate(data interface{}) (*ValidationResult, error) {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			return true
		}
	}
	return false
}
