package errs

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		status int
	}{
		{name: "conflict is a bad request", code: ErrUserAlreadyExists, status: http.StatusBadRequest},
		{name: "unknown user", code: ErrUserNotFound, status: http.StatusNotFound},
		{name: "bad password", code: ErrInvalidCredentials, status: http.StatusUnauthorized},
		{name: "invalid token", code: ErrUnauthorized, status: http.StatusUnauthorized},
		{name: "rate limited", code: ErrRateLimitExceeded, status: http.StatusTooManyRequests},
		{name: "pow required", code: ErrPowChallengeRequired, status: http.StatusForbidden},
		{name: "unknown", code: ErrUnknown, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewError(tt.code)
			assert.Equal(t, tt.code, e.Code)
			assert.Equal(t, tt.status, e.Status)
			assert.NotEmpty(t, e.Message)
		})
	}
}

func TestNewError_UnregisteredCodeFallsBackToUnknown(t *testing.T) {
	e := NewError(987654)
	assert.Equal(t, ErrUnknown, e.Code)
	assert.Equal(t, http.StatusInternalServerError, e.Status)
}

func TestNewError_FormatsDetails(t *testing.T) {
	e := NewError(ErrInvalidPassword, 72)
	assert.Equal(t, "Password must be 1-72 bytes long.", e.Message)

	// Templates are copied, so the registered message stays intact.
	again := NewError(ErrInvalidPassword, 10)
	assert.Equal(t, "Password must be 1-10 bytes long.", again.Message)
}

func TestNewError_UnknownHidesUnderlyingError(t *testing.T) {
	e := NewError(ErrUnknown, errors.New("connection refused"))
	assert.NotContains(t, e.Message, "connection refused")
}
