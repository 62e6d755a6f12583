package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidCSV, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeBusinessRule, http.StatusUnprocessableEntity},
		{ErrCodeUnmappedFields, http.StatusUnprocessableEntity},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeUpstream, http.StatusBadGateway},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
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
		// Domain codes should be normalized
		{"NOT_FOUND", ErrCodeNotFound},
		{"ORDER_NOT_FOUND", ErrCodeNotFound},
		{"UNKNOWN_CLIENT", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"INVALID_INPUT", ErrCodeInvalidInput},
		{"INVALID_CSV", ErrCodeInvalidCSV},
		{"UNMAPPED_FIELDS", ErrCodeUnmappedFields},
		{"INVALID_UPLOAD_STATE", ErrCodeInvalidState},
		{"CLIENT_INACTIVE", ErrCodeBusinessRule},
		{"NO_CREDENTIAL", ErrCodeBusinessRule},
		{"NO_CSV_ATTACHMENT", ErrCodeBusinessRule},
		{"DOWNLOAD_FAILED", ErrCodeUpstream},
		{"ATTACHMENT_TOO_LARGE", ErrCodePayloadTooLarge},
		{"UNAUTHORIZED", ErrCodeUnauthorized},
		{"FORBIDDEN", ErrCodeForbidden},
		// Transport codes should pass through unchanged
		{ErrCodeNotFound, ErrCodeNotFound},
		{ErrCodeValidation, ErrCodeValidation},
		// Unknown codes should pass through unchanged
		{"CUSTOM_ERROR", "CUSTOM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestDomainErrorCodeMappingTargetsAreMapped(t *testing.T) {
	// Every normalized code must resolve to a real HTTP status
	for domainCode, transportCode := range DomainErrorCodeMapping {
		_, ok := ErrorCodeHTTPStatus[transportCode]
		assert.True(t, ok, "domain code %s maps to unmapped transport code %s", domainCode, transportCode)
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Upload not found", "req-123")

	assert.False(t, resp.Success)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Upload not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestErrorResponseSerialization(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeInvalidCSV, "No data rows", "req-456")

	raw, err := json.Marshal(resp)
	assert.NoError(t, err)

	var decoded Response
	assert.NoError(t, json.Unmarshal(raw, &decoded))
	assert.False(t, decoded.Success)
	assert.Equal(t, ErrCodeInvalidCSV, decoded.Error.Code)
	assert.Equal(t, "req-456", decoded.Error.RequestID)
}
