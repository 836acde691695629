package models

import "net/http"

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Common error codes
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeInternalError   = "INTERNAL_ERROR"
	ErrCodeValidationError = "VALIDATION_ERROR"
	ErrCodeConsentNotFound = "CONSENT_NOT_FOUND"
	ErrCodePersonNotFound  = "PERSON_NOT_FOUND"
)

// HTTPStatusForErrorCode returns the appropriate HTTP status code for an error code
func HTTPStatusForErrorCode(code string) int {
	switch code {
	case ErrCodeBadRequest, ErrCodeValidationError:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound, ErrCodeConsentNotFound, ErrCodePersonNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Form result statuses driving portal form feedback.
const (
	FormStatusIdle    = "idle"
	FormStatusSuccess = "success"
	FormStatusError   = "error"
)

// FormResult is the tri-state outcome shape consumed by the portal's form UI.
// Messages are user-facing strings, never error codes or storage details.
type FormResult struct {
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	NextStatus string `json:"nextStatus,omitempty"`
}

// FormSuccess builds a success result, optionally carrying the consent's
// next effective status for UI refresh.
func FormSuccess(message, nextStatus string) FormResult {
	return FormResult{Status: FormStatusSuccess, Message: message, NextStatus: nextStatus}
}

// FormError builds an error result with a user-facing message.
func FormError(message string) FormResult {
	return FormResult{Status: FormStatusError, Message: message}
}
