package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "validation error",
			err:      Invalid("amount", "must be >= 0, got %s", "-5"),
			expected: "Error: invalid record: amount must be >= 0, got -5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestValidationErrorUnwrapsToInvalidRecord(t *testing.T) {
	err := fmt.Errorf("save sleep log: %w", Invalid("quality", "must be between 1 and 5"))

	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("errors.Is(err, ErrInvalidRecord) = false for %v", err)
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("errors.As did not find *ValidationError in %v", err)
	}
	if vErr.Field != "quality" {
		t.Errorf("Field = %q, want quality", vErr.Field)
	}
	if errors.Is(err, ErrStorageUnavailable) {
		t.Error("validation error must not match ErrStorageUnavailable")
	}
}

func TestStorageWrapsBothSentinelAndCause(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := Storage("insert finance log", cause)

	if !errors.Is(err, ErrStorageUnavailable) {
		t.Error("expected error to match ErrStorageUnavailable")
	}
	if !errors.Is(err, cause) {
		t.Error("expected error to keep the original cause")
	}
	if got := err.Error(); got != "insert finance log: storage unavailable: disk I/O error" {
		t.Errorf("Error() = %q", got)
	}

	if Storage("noop", nil) != nil {
		t.Error("Storage(op, nil) should be nil")
	}
}

func TestStorageKeepsContextErrorsUnwrapped(t *testing.T) {
	for _, cause := range []error{context.Canceled, context.DeadlineExceeded} {
		err := Storage("list study logs", fmt.Errorf("query: %w", cause))
		if !errors.Is(err, cause) {
			t.Errorf("Storage() = %v, want it to match %v", err, cause)
		}
		if errors.Is(err, ErrStorageUnavailable) {
			t.Errorf("Storage() = %v must not match ErrStorageUnavailable", err)
		}
	}
}
