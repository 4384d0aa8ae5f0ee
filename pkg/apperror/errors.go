package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Ledger (LED) ----

func ErrInsufficientBalance() *AppError {
	return New("LED_001", "Insufficient balance in wallet", http.StatusPaymentRequired)
}

func ErrInvalidAmount() *AppError {
	return New("LED_002", "Invalid transfer amount", http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New("LED_003", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Market (MKT) ----

func ErrInvalidListing(reason string) *AppError {
	return New("MKT_001", fmt.Sprintf("Invalid energy listing: %s", reason), http.StatusBadRequest)
}

// ---- Integrity sync (SYNC) ----

// ErrRemoteUnreachable is never surfaced over HTTP; cross-validation converts
// it into a discrepancy entry. It exists so the fetch path stays typed.
func ErrRemoteUnreachable(err error) *AppError {
	return Wrap("SYNC_001", "Remote endpoint unreachable", http.StatusBadGateway, err)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a generic bad-request validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
