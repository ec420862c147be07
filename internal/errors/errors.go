// Package errors provides custom error types for the Rentflow API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
	ErrSessionExpired     = &AppError{Code: "SESSION_EXPIRED", Message: "Session has expired, please log in again", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Property errors.
var (
	ErrPropertyNotFound  = &AppError{Code: "PROPERTY_NOT_FOUND", Message: "Property not found", StatusCode: http.StatusNotFound}
	ErrPropertyOccupied  = &AppError{Code: "PROPERTY_OCCUPIED", Message: "Property still has active tenants", StatusCode: http.StatusConflict}
	ErrOccupancyExceeded = &AppError{Code: "OCCUPANCY_EXCEEDED", Message: "Occupied units cannot exceed total units", StatusCode: http.StatusBadRequest}
)

// Tenant errors.
var (
	ErrTenantNotFound  = &AppError{Code: "TENANT_NOT_FOUND", Message: "Tenant not found", StatusCode: http.StatusNotFound}
	ErrLeaseEnded      = &AppError{Code: "LEASE_ENDED", Message: "Lease has already ended", StatusCode: http.StatusConflict}
	ErrNoVacantUnits   = &AppError{Code: "NO_VACANT_UNITS", Message: "Property has no vacant units", StatusCode: http.StatusConflict}
	ErrInvalidLease    = &AppError{Code: "INVALID_LEASE", Message: "Lease end date must be after the start date", StatusCode: http.StatusBadRequest}
)

// Payment errors.
var (
	ErrPaymentNotFound = &AppError{Code: "PAYMENT_NOT_FOUND", Message: "Payment not found", StatusCode: http.StatusNotFound}
	ErrPaymentSettled  = &AppError{Code: "PAYMENT_SETTLED", Message: "Payment is already fully paid", StatusCode: http.StatusConflict}
)

// Maintenance errors.
var (
	ErrRequestNotFound      = &AppError{Code: "REQUEST_NOT_FOUND", Message: "Maintenance request not found", StatusCode: http.StatusNotFound}
	ErrInvalidStatusChange  = &AppError{Code: "INVALID_STATUS_CHANGE", Message: "Invalid maintenance status transition", StatusCode: http.StatusBadRequest}
	ErrRequestAlreadyClosed = &AppError{Code: "REQUEST_ALREADY_CLOSED", Message: "A completed request cannot be reopened", StatusCode: http.StatusConflict}
)

// Expense errors.
var (
	ErrExpenseNotFound = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
)
