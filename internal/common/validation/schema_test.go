package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionValidator_AcceptsWellFormedPayload(t *testing.T) {
	v := NewSubmissionValidator()

	result, err := v.Validate(map[string]interface{}{
		"personalInfo": map[string]interface{}{
			"firstName": "Ada",
			"lastName":  "Phiri",
			"email":     "ada@example.com",
		},
		"credentials": map[string]interface{}{
			"certificateUploaded": true,
			"additionalDocsCount": 2,
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Valid, result.GetErrorMessages())
}

func TestSubmissionValidator_RejectsWrongTypes(t *testing.T) {
	v := NewSubmissionValidator()

	result, err := v.Validate(map[string]interface{}{
		"personalInfo": map[string]interface{}{"firstName": 42},
		"credentials":  map[string]interface{}{"additionalDocsCount": -1},
	})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.True(t, result.HasErrors("personalInfo"))
	assert.True(t, result.HasErrors("credentials"))
	assert.NotEmpty(t, result.GetErrorMessages())
}

func TestSubmissionValidator_LeavesPersonalInfoToProcessor(t *testing.T) {
	v := NewSubmissionValidator()

	for _, doc := range []map[string]interface{}{
		{},
		{"personalInfo": nil},
		{"essays": map[string]interface{}{}},
	} {
		result, err := v.Validate(doc)
		require.NoError(t, err)
		assert.True(t, result.Valid, result.GetErrorMessages())
	}
}

func TestNewValidator_InvalidSchema(t *testing.T) {
	_, err := NewValidator(`{"type": 12}`)
	assert.Error(t, err)
}
