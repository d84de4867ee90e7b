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

// ---- Ledger Business Logic (LED) ----

func ErrUnauthorized() *AppError {
	return New("LED_001", "Only the admin can perform this operation", http.StatusForbidden)
}

func ErrInvalidTreasuryAddress() *AppError {
	return New("LED_002", "University address cannot be zero", http.StatusBadRequest)
}

func ErrUnregisteredStudent() *AppError {
	return New("LED_003", "Account is not a registered student", http.StatusUnprocessableEntity)
}

func ErrInactiveProvider() *AppError {
	return New("LED_004", "Recipient must be an active service provider", http.StatusUnprocessableEntity)
}

func ErrUnknownProvider() *AppError {
	return New("LED_005", "Provider not found", http.StatusNotFound)
}

func ErrInsufficientBalance() *AppError {
	return New("LED_006", "Insufficient balance", http.StatusPaymentRequired)
}

func ErrInsufficientAllowance() *AppError {
	return New("LED_007", "Insufficient allowance", http.StatusUnprocessableEntity)
}

func ErrInvalidAmount() *AppError {
	return New("LED_008", "Invalid amount", http.StatusBadRequest)
}

func ErrInvalidAddress(err error) *AppError {
	return Wrap("LED_009", "Invalid address", http.StatusBadRequest, err)
}

func ErrNotFound(entity string) *AppError {
	return New("LED_010", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
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

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("LED_008", message, http.StatusBadRequest)
}
