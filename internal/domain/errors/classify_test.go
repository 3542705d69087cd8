package errors

import (
	"net/http"
	"testing"

	"dinein/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		op     Operation
		want   *BaseError
	}{
		{"unauthorized", http.StatusUnauthorized, OperationGeneric, ErrAuthExpired},
		{"unauthorized while binding", http.StatusUnauthorized, OperationBindTable, ErrAuthExpired},
		{"bad request", http.StatusBadRequest, OperationGeneric, ErrValidation},
		{"unprocessable", http.StatusUnprocessableEntity, OperationGeneric, ErrValidation},
		{"rejected otp", http.StatusBadRequest, OperationVerifyCode, ErrInvalidCode},
		{"unknown table", http.StatusNotFound, OperationBindTable, ErrTableNotFound},
		{"occupied table", http.StatusConflict, OperationBindTable, ErrTableOccupied},
		{"plain conflict", http.StatusConflict, OperationGeneric, ErrConflict},
		{"forbidden", http.StatusForbidden, OperationGeneric, ErrForbidden},
		{"not found", http.StatusNotFound, OperationGeneric, ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, OperationGeneric, ErrTooManyRequests},
		{"gateway", http.StatusBadGateway, OperationGeneric, ErrServer},
		{"teapot", http.StatusTeapot, OperationGeneric, ErrRequestFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromStatus(tt.status, tt.op, "")
			assert.Same(t, tt.want, got)
		})
	}
}

func TestFromStatus_KeepsBackendMessage(t *testing.T) {
	err := FromStatus(http.StatusBadRequest, OperationVerifyCode, "OTP expired")

	assert.True(t, errors.Is(err, ErrInvalidCode))
	assert.Equal(t, "OTP expired", err.Details())
	assert.Equal(t, "INVALID_CODE", err.ErrorCode())
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(ErrNetwork))
	assert.True(t, Retryable(errors.Wrap(ErrServer.WithDetails("boom"), "fetch menu")))
	assert.False(t, Retryable(ErrInvalidCode))
	assert.False(t, Retryable(errors.New("plain")))
}

func TestIsTableBindError(t *testing.T) {
	assert.True(t, IsTableBindError(ErrTableNotFound.WithDetails("T9")))
	assert.True(t, IsTableBindError(errors.Wrap(ErrTableOccupied, "bind")))
	assert.False(t, IsTableBindError(ErrNotFound))
}
