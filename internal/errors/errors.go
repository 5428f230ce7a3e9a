package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Input errors, detected before any store or provider access
	ErrCodeValidation = "VALIDATION_ERROR"

	// Authentication errors
	ErrCodeUnauthenticated    = "UNAUTHENTICATED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeWeakCredential     = "WEAK_CREDENTIAL"

	// Authorization errors
	ErrCodeForbidden = "FORBIDDEN"

	// Resource errors
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"

	// Multi-step operation committed only partially
	ErrCodePartialFailure = "PARTIAL_FAILURE"

	// External collaborator unreachable or returned an unrecognized error
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"

	// Service errors
	ErrCodeInternalError = "INTERNAL_ERROR"
	ErrCodeRateLimited   = "RATE_LIMITED"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// errorObserver is notified of every error response sent, keyed by code.
// Set by main to feed the metrics collector.
var errorObserver func(code string)

// SetErrorObserver registers a callback invoked with the code of every
// error response.
func SetErrorObserver(f func(code string)) {
	errorObserver = f
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	if errorObserver != nil {
		errorObserver(err.Code)
	}
	c.JSON(statusCode, err)
}

// Helper functions for common error responses

// Validation sends a 400 response for malformed input.
func Validation(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeValidation, message))
}

// Unauthenticated sends a 401 response for a missing session.
func Unauthenticated(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthenticated, message))
}

// InvalidCredentials sends a 401 response for a failed login. The message is
// deliberately the same for unknown accounts and wrong passwords.
func InvalidCredentials(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid email or password"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeInvalidCredentials, message))
}

// WeakCredential sends a 400 response for a password the provider rejected.
func WeakCredential(c *gin.Context, message string) {
	if message == "" {
		message = "Password does not meet the provider's requirements"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeWeakCredential, message))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// AlreadyExists sends a 409 response
func AlreadyExists(c *gin.Context, message string) {
	if message == "" {
		message = "Resource already exists"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeAlreadyExists, message))
}

// PartialFailure sends a 500 response for a multi-step operation that
// committed only some of its steps.
func PartialFailure(c *gin.Context, message string) {
	if message == "" {
		message = "Operation partially completed"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodePartialFailure, message))
}

// UpstreamUnavailable sends a 503 response
func UpstreamUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(ErrCodeUpstreamUnavailable, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// RateLimited sends a 429 response
func RateLimited(c *gin.Context, message string) {
	if message == "" {
		message = "Too many requests"
	}
	RespondWithError(c, http.StatusTooManyRequests, NewAPIError(ErrCodeRateLimited, message))
}
