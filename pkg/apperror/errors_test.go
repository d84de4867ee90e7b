package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := New("LED_008", "Invalid amount", http.StatusBadRequest)
	assert.Equal(t, "[LED_008] Invalid amount", e.Error())
}

func TestAppError_ErrorWithWrapped(t *testing.T) {
	inner := errors.New("column does not exist")
	e := Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, inner)
	assert.Contains(t, e.Error(), "SYS_001")
	assert.Contains(t, e.Error(), "column does not exist")
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	e := Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, inner)
	assert.ErrorIs(t, e, inner)
}

func TestAppError_UnwrapNil(t *testing.T) {
	e := New("LED_006", "Insufficient balance", http.StatusPaymentRequired)
	assert.Nil(t, e.Unwrap())
}

func TestLedgerErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"unauthorized", ErrUnauthorized(), "LED_001", http.StatusForbidden},
		{"invalid treasury", ErrInvalidTreasuryAddress(), "LED_002", http.StatusBadRequest},
		{"unregistered student", ErrUnregisteredStudent(), "LED_003", http.StatusUnprocessableEntity},
		{"inactive provider", ErrInactiveProvider(), "LED_004", http.StatusUnprocessableEntity},
		{"unknown provider", ErrUnknownProvider(), "LED_005", http.StatusNotFound},
		{"insufficient balance", ErrInsufficientBalance(), "LED_006", http.StatusPaymentRequired},
		{"insufficient allowance", ErrInsufficientAllowance(), "LED_007", http.StatusUnprocessableEntity},
		{"invalid amount", ErrInvalidAmount(), "LED_008", http.StatusBadRequest},
		{"invalid address", ErrInvalidAddress(errors.New("bad hex")), "LED_009", http.StatusBadRequest},
		{"not found", ErrNotFound("Account"), "LED_010", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, tc.err.Code)
			assert.Equal(t, tc.status, tc.err.HTTPStatus)
			assert.NotEmpty(t, tc.err.Message)
		})
	}
}

func TestAuthErrors(t *testing.T) {
	assert.Equal(t, "AUTH_001", ErrInvalidCredentials().Code)
	assert.Equal(t, http.StatusUnauthorized, ErrInvalidCredentials().HTTPStatus)
	assert.Equal(t, "AUTH_002", ErrInvalidToken().Code)
	assert.Equal(t, http.StatusUnauthorized, ErrInvalidToken().HTTPStatus)
}

func TestRateLimitError(t *testing.T) {
	e := ErrRateLimitExceeded()
	assert.Equal(t, "RATE_001", e.Code)
	assert.Equal(t, http.StatusTooManyRequests, e.HTTPStatus)
}

func TestInternalError(t *testing.T) {
	inner := errors.New("deadlock detected")
	e := InternalError(inner)
	assert.Equal(t, "SYS_001", e.Code)
	assert.Equal(t, http.StatusInternalServerError, e.HTTPStatus)
	assert.ErrorIs(t, e, inner)
}

func TestValidation(t *testing.T) {
	e := Validation("amount is required")
	assert.Equal(t, "LED_008", e.Code)
	assert.Equal(t, http.StatusBadRequest, e.HTTPStatus)
	assert.Equal(t, "amount is required", e.Message)
}

func TestErrNotFound_EmbedsEntity(t *testing.T) {
	e := ErrNotFound("Student")
	assert.Equal(t, "Student not found", e.Message)
}
