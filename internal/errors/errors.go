package errors

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/lifelog/internal/logger"
)

var (
	// ErrStorageUnavailable is returned when the store cannot be opened or written.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrInvalidRecord is returned when a write violates a record invariant.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrUnknownCategory is returned when a category name is not one of the known log categories.
	ErrUnknownCategory = errors.New("unknown log category")
)

// ValidationError describes a single rejected field. It unwraps to ErrInvalidRecord.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidRecord, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRecord
}

// Invalid returns a ValidationError for field with a formatted reason.
func Invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Storage wraps err so that it matches ErrStorageUnavailable while keeping the cause.
// Context cancellation and deadlines are caller-side and keep only the op prefix.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
