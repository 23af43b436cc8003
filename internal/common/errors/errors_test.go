package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *StandardError
		want int
	}{
		{NewMissingRequiredFieldsError([]string{"email"}), http.StatusBadRequest},
		{NewInvalidRequestError(fmt.Errorf("bad json")), http.StatusBadRequest},
		{NewApplicationNotFoundError("RAC123456"), http.StatusNotFound},
		{NewApplicationPersistFailedError(fmt.Errorf("redis down")), http.StatusInternalServerError},
		{NewEmailDispatchFailedError(fmt.Errorf("ses throttled")), http.StatusInternalServerError},
		{NewStudentIDExhaustedError(5), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestEmailDispatchFailedMessage(t *testing.T) {
	err := NewEmailDispatchFailedError(fmt.Errorf("smtp: 421"))
	assert.Equal(t, MsgEmailFailed, err.Message)
	assert.Equal(t, "smtp: 421", err.Details)
	assert.False(t, err.Retryable)
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(err.Code))
}

func TestMissingRequiredFieldsDetails(t *testing.T) {
	err := NewMissingRequiredFieldsError([]string{"firstName", "email"})
	assert.Equal(t, MsgMissingRequiredFields, err.Message)
	assert.Equal(t, "missing: firstName, email", err.Details)
	assert.False(t, err.Retryable)
}

func TestAsStandardError(t *testing.T) {
	assert.Nil(t, AsStandardError(nil))

	wrapped := fmt.Errorf("processing: %w", NewApplicationNotFoundError("RAC100000"))
	stdErr := AsStandardError(wrapped)
	require.NotNil(t, stdErr)
	assert.Equal(t, ErrCodeApplicationNotFound, stdErr.Code)

	plain := AsStandardError(fmt.Errorf("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
}

func TestConvertToBPMNError(t *testing.T) {
	retryable := ConvertToBPMNError(NewApplicationPersistFailedError(fmt.Errorf("timeout")))
	assert.Equal(t, "APPLICATION_PERSIST_FAILED", retryable.Code)
	assert.Equal(t, 3, retryable.Retries)

	vars := retryable.ToErrorVariables()
	assert.Equal(t, "APPLICATION_PERSIST_FAILED", vars["errorCode"])
	assert.Equal(t, "APPLICATION_PERSIST_FAILED", vars["originalErrorCode"])

	saved := NewEmailDispatchFailedError(fmt.Errorf("smtp: 421"))
	saved.Metadata = map[string]interface{}{"studentId": "RAC482913"}
	undelivered := ConvertToBPMNError(saved)
	assert.Equal(t, 0, undelivered.Retries)
	assert.Equal(t, "RAC482913", undelivered.ToErrorVariables()["studentId"])

	terminal := ConvertToBPMNError(NewMissingRequiredFieldsError([]string{"email"}))
	assert.Equal(t, 0, terminal.Retries)
	assert.False(t, terminal.Retryable)
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.False(t, IsRetryableErrorCode(ErrCodeEmailDispatchFailed))
	assert.True(t, IsRetryableErrorCode(ErrCodeApplicationPersistFailed))
	assert.True(t, IsRetryableErrorCode(ErrCodeStudentIDExhausted))
	assert.False(t, IsRetryableErrorCode(ErrCodeMissingRequiredFields))
	assert.False(t, IsRetryableErrorCode(ErrCodeInternal))
}

func TestWithMessage(t *testing.T) {
	orig := NewApplicationLookupFailedError(fmt.Errorf("redis down"))
	resend := orig.WithMessage(MsgResendFailed)

	assert.Equal(t, MsgResendFailed, resend.Message)
	assert.Equal(t, MsgStatusFailed, orig.Message)
	assert.Equal(t, orig.Code, resend.Code)
}
