package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/finsuite/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeUpstreamUnavailable, http.StatusBadGateway},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeTokenRevoked, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusBadRequest},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"INVALID_INPUT", ErrCodeInvalidInput},
		{"UNAUTHORIZED", ErrCodeUnauthorized},
		{"INVALID_CREDENTIALS", ErrCodeInvalidCredentials},
		{"UPSTREAM_UNAVAILABLE", ErrCodeUpstreamUnavailable},
		// Already-normalized and unknown codes pass through
		{ErrCodeNotFound, ErrCodeNotFound},
		{"CUSTOM_CODE", "CUSTOM_CODE"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

// Every domain error kind surfaces with the status class the error taxonomy assigns it
func TestDomainKindsMapToStatus(t *testing.T) {
	want := map[shared.ErrorKind]int{
		shared.KindInvalidArgument: http.StatusBadRequest,
		shared.KindNotFound:        http.StatusNotFound,
		shared.KindIndeterminate:   http.StatusBadGateway,
		shared.KindUnauthorized:    http.StatusUnauthorized,
	}

	for domainCode := range DomainErrorCodeMapping {
		kind := shared.NewDomainError(domainCode, "x").Kind()
		t.Run(domainCode, func(t *testing.T) {
			assert.Equal(t, want[kind], GetHTTPStatus(NormalizeErrorCode(domainCode)))
		})
	}
}

func TestResponseJSON(t *testing.T) {
	t.Run("success with nil data renders null", func(t *testing.T) {
		raw, err := json.Marshal(NewSuccessResponse(nil))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"data":null}`, string(raw))
	})

	t.Run("error with request id", func(t *testing.T) {
		raw, err := json.Marshal(NewErrorResponseWithRequestID(ErrCodeNotFound, "missing", "req-1"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":false,"data":null,"error":{"code":"ERR_NOT_FOUND","message":"missing","request_id":"req-1"}}`, string(raw))
	})

	t.Run("validation details", func(t *testing.T) {
		resp := NewValidationErrorResponse("Request validation failed", "", []ValidationDetail{{Field: "email", Message: "Invalid email format"}})
		assert.Equal(t, ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "email", resp.Error.Details[0].Field)
	})
}
