package failure_test

import (
	"errors"
	"net/http"
	"testing"

	"condo/shared/failure"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusConflict,
		Message: "window overlaps an existing reservation",
	}

	if f.Error() != "window overlaps an existing reservation" {
		t.Errorf("expected error message to be 'window overlaps an existing reservation', got %s", f.Error())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{
			name: "BadRequest",
			err:  failure.BadRequestFromString("end time equals start time"),
			code: http.StatusBadRequest,
		},
		{
			name: "NotFound",
			err:  failure.NotFound("reservation not found"),
			code: http.StatusNotFound,
		},
		{
			name: "Conflict",
			err:  failure.Conflict("area already booked for this window"),
			code: http.StatusConflict,
		},
		{
			name: "Forbidden",
			err:  failure.Forbidden("residents may only cancel their own reservations"),
			code: http.StatusForbidden,
		},
		{
			name: "InvalidState",
			err:  failure.InvalidState("only pending reservations can be rescheduled"),
			code: http.StatusUnprocessableEntity,
		},
		{
			name: "Locked",
			err:  failure.Locked("area is busy, retry shortly"),
			code: http.StatusLocked,
		},
		{
			name: "Unauthorized",
			err:  failure.Unauthorized("missing identity"),
			code: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, got)
			}
		})
	}
}

func TestGetCode_UnknownError(t *testing.T) {
	err := errors.New("plain error")

	if got := failure.GetCode(err); got != http.StatusInternalServerError {
		t.Errorf("expected code %d, got %d", http.StatusInternalServerError, got)
	}
}

func TestIsRetryable(t *testing.T) {
	if !failure.IsRetryable(failure.Locked("contention")) {
		t.Error("expected Locked failure to be retryable")
	}

	if failure.IsRetryable(failure.Conflict("overlap")) {
		t.Error("expected Conflict failure to not be retryable")
	}

	if failure.IsRetryable(errors.New("plain error")) {
		t.Error("expected plain error to not be retryable")
	}
}
