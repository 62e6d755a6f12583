package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeInvalidCSV is used when an uploaded file cannot be parsed as CSV
	ErrCodeInvalidCSV = "ERR_INVALID_CSV"
	// ErrCodeUnmappedFields is used when a column mapping misses required fields
	ErrCodeUnmappedFields = "ERR_UNMAPPED_FIELDS"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the caller lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodePayloadTooLarge is used when a body or attachment exceeds limits
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"
)

// Upstream error codes
const (
	// ErrCodeUpstream is used when the ERP API or a download dependency fails
	ErrCodeUpstream = "ERR_UPSTREAM"
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeInvalidCSV: http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:   http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:   http.StatusUnprocessableEntity,
	ErrCodeUnmappedFields: http.StatusUnprocessableEntity,

	// Input errors
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,

	// Upstream errors
	ErrCodeUpstream:    http.StatusBadGateway,
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to transport error codes
var DomainErrorCodeMapping = map[string]string{
	// Resource lookups
	"NOT_FOUND":       ErrCodeNotFound,
	"ORDER_NOT_FOUND": ErrCodeNotFound,
	"UNKNOWN_CLIENT":  ErrCodeNotFound,
	"ALREADY_EXISTS":  ErrCodeAlreadyExists,

	// Input and parsing
	"INVALID_INPUT":         ErrCodeInvalidInput,
	"INVALID_CSV":           ErrCodeInvalidCSV,
	"EMPTY_FILE":            ErrCodeInvalidCSV,
	"EMPTY_MAPPING":         ErrCodeInvalidInput,
	"UNKNOWN_FIELD":         ErrCodeInvalidInput,
	"INVALID_TEMPLATE_NAME": ErrCodeInvalidInput,
	"INVALID_CLIENT_NAME":   ErrCodeInvalidInput,
	"INVALID_CLIENT":        ErrCodeInvalidInput,
	"INVALID_CREDENTIAL":    ErrCodeInvalidInput,
	"INVALID_FILENAME":      ErrCodeInvalidInput,
	"INVALID_UPLOAD":        ErrCodeInvalidInput,
	"INVALID_WEBHOOK":       ErrCodeBadRequest,

	// Business rules
	"INVALID_STATE":             ErrCodeInvalidState,
	"INVALID_UPLOAD_STATE":      ErrCodeInvalidState,
	"INVALID_STATUS_TRANSITION": ErrCodeInvalidState,
	"UNMAPPED_FIELDS":           ErrCodeUnmappedFields,
	"VALIDATION_FAILED":         ErrCodeBusinessRule,
	"CACHE_STALE":               ErrCodeBusinessRule,
	"CLIENT_INACTIVE":           ErrCodeBusinessRule,
	"NO_CREDENTIAL":             ErrCodeBusinessRule,
	"CREDENTIAL_MISSING":        ErrCodeBusinessRule,
	"NO_CSV_ATTACHMENT":         ErrCodeBusinessRule,

	// Auth
	"UNAUTHORIZED":  ErrCodeUnauthorized,
	"FORBIDDEN":     ErrCodeForbidden,
	"TOKEN_EXPIRED": ErrCodeTokenExpired,
	"TOKEN_INVALID": ErrCodeTokenInvalid,

	// Upstream
	"DOWNLOAD_FAILED":      ErrCodeUpstream,
	"ATTACHMENT_TOO_LARGE": ErrCodePayloadTooLarge,
}

// NormalizeErrorCode converts a domain error code to the transport format
// If the code is already in the transport format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
