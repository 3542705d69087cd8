package errors

import (
	"net/http"

	"dinein/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}

	return e.message
}

// Is matches any BaseError carrying the same business code, so a copy made by
// WithDetails still satisfies errors.Is against the predefined value.
func (e *BaseError) Is(target error) bool {
	other, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return e.errorCode == other.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Retryable reports whether the failure is transient and worth a retry affordance.
func Retryable(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrServer) || errors.Is(err, ErrTooManyRequests)
}

// Predefined error types
var (
	// Transport errors
	ErrNetwork = NewBaseError(
		http.StatusBadGateway,
		"NETWORK_ERROR",
		"Network error. Please check your connection.",
		"",
	)

	ErrServer = NewBaseError(
		http.StatusBadGateway,
		"SERVER_ERROR",
		"Server error. Please try again later.",
		"",
	)

	ErrTooManyRequests = NewBaseError(
		http.StatusTooManyRequests,
		"TOO_MANY_REQUESTS",
		"Too many requests. Please try again later.",
		"",
	)

	ErrRequestFailed = NewBaseError(
		http.StatusBadGateway,
		"REQUEST_FAILED",
		"An error occurred.",
		"",
	)

	// Input errors
	ErrValidation = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Validation error.",
		"",
	)

	// Authentication errors
	ErrAuthExpired = NewBaseError(
		http.StatusUnauthorized,
		"AUTH_EXPIRED",
		"Your session has expired. Please login again.",
		"",
	)

	ErrNotAuthenticated = NewBaseError(
		http.StatusUnauthorized,
		"NOT_AUTHENTICATED",
		"Please login to continue.",
		"",
	)

	ErrInvalidCode = NewBaseError(
		http.StatusBadRequest,
		"INVALID_CODE",
		"Invalid or expired OTP.",
		"",
	)

	ErrNoPendingPhone = NewBaseError(
		http.StatusBadRequest,
		"NO_PENDING_PHONE",
		"Please request an OTP first.",
		"",
	)

	ErrResendNotReady = NewBaseError(
		http.StatusTooManyRequests,
		"RESEND_NOT_READY",
		"Please wait before requesting another OTP.",
		"",
	)

	// Table errors
	ErrTableNotFound = NewBaseError(
		http.StatusNotFound,
		"TABLE_NOT_FOUND",
		"Table not found. Please rescan the QR code.",
		"",
	)

	ErrTableOccupied = NewBaseError(
		http.StatusConflict,
		"TABLE_OCCUPIED",
		"This table is already in use.",
		"",
	)

	ErrNoActiveTable = NewBaseError(
		http.StatusConflict,
		"NO_ACTIVE_TABLE",
		"No active table session. Please scan a table QR code.",
		"",
	)

	// Ordering errors
	ErrEmptyCart = NewBaseError(
		http.StatusBadRequest,
		"EMPTY_CART",
		"Your cart is empty",
		"",
	)

	ErrCartLineNotFound = NewBaseError(
		http.StatusNotFound,
		"CART_LINE_NOT_FOUND",
		"Cart item not found",
		"",
	)

	// General errors
	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"You do not have permission to perform this action.",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"The requested resource was not found.",
		"",
	)

	ErrConflict = NewBaseError(
		http.StatusConflict,
		"CONFLICT",
		"Resource conflict",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal error",
		"",
	)
)

// IsTableBindError reports whether err is one of the table binding failures.
func IsTableBindError(err error) bool {
	return errors.Is(err, ErrTableNotFound) || errors.Is(err, ErrTableOccupied)
}
