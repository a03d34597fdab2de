package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"user not found", ErrUserNotFound, http.StatusNotFound},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"insufficient balance", ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{"rate limited", ErrRateLimitExceeded, http.StatusTooManyRequests},
		{"oracle failure", ErrOracle, http.StatusBadGateway},
		{"wrapped oracle failure", fmt.Errorf("%w: expected 10 ids", ErrOracle), http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapErrorToStatus(tt.err); got != tt.want {
				t.Errorf("MapErrorToStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	inner := ErrInsufficientBalance
	appErr := New(http.StatusUnprocessableEntity, "saldo poin tidak cukup", inner)

	if !errors.Is(appErr, ErrInsufficientBalance) {
		t.Error("AppError does not unwrap to its inner error")
	}
	if appErr.Error() != inner.Error() {
		t.Errorf("Error() = %q, want %q", appErr.Error(), inner.Error())
	}
}
