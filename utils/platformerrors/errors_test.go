package platformerrors_test

import (
	"errors"
	"fmt"
	"testing"

	"worktrack/services/messaging/utils/platformerrors"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected platformerrors.ErrorType
	}{
		{"validation", platformerrors.Validation("empty name"), platformerrors.ErrorTypeValidation},
		{"permission", platformerrors.Permission("not the creator"), platformerrors.ErrorTypePermission},
		{"conflict", platformerrors.Conflict("already a member"), platformerrors.ErrorTypeConflict},
		{"not found", platformerrors.NotFound("group gone"), platformerrors.ErrorTypeNotFound},
		{"transport", platformerrors.Transport("backend unreachable", errors.New("dial tcp")), platformerrors.ErrorTypeTransport},
		{"plain error", errors.New("boom"), platformerrors.ErrorTypeInternal},
		{"nil", nil, platformerrors.ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := platformerrors.TypeOf(tt.err); got != tt.expected {
				t.Errorf("TypeOf() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTypeOf_Wrapped(t *testing.T) {
	inner := platformerrors.Conflict("already a member")
	wrapped := fmt.Errorf("add member: %w", inner)

	if !platformerrors.IsType(wrapped, platformerrors.ErrorTypeConflict) {
		t.Errorf("IsType() did not see through fmt.Errorf wrapping")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := platformerrors.Transport("poll failed", cause)

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is() could not reach the wrapped cause")
	}
}

func TestIsRetryable(t *testing.T) {
	if !platformerrors.IsRetryable(platformerrors.Transport("timeout", nil)) {
		t.Errorf("transport errors must be retryable")
	}
	if platformerrors.IsRetryable(platformerrors.Permission("denied")) {
		t.Errorf("permission errors must not be retryable")
	}
}

func TestWithContext(t *testing.T) {
	err := platformerrors.Validation("file too large").
		WithContext("limit_bytes", 1048576).
		WithContext("actual_bytes", 2097152)

	if err.Context["limit_bytes"] != 1048576 {
		t.Errorf("context field lost")
	}
}
