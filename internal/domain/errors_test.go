package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationErrorUnwrap(t *testing.T) {
	t.Parallel()

	err := NewValidationError("word", "is required")
	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationError should unwrap to ErrValidation")
	}
	if got := err.Error(); got != "validation: word: is required" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidationErrorMultiple(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Errors: []FieldError{
		{Field: "word", Message: "is required"},
		{Field: "meaning", Message: "is required"},
	}}
	if got := err.Error(); got != "validation: 2 errors" {
		t.Errorf("Error() = %q", got)
	}
}

func TestStorageErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := NewStorageError("insert word", cause)

	if !errors.Is(err, ErrStorage) {
		t.Error("StorageError should unwrap to ErrStorage")
	}

	wrapped := fmt.Errorf("import: %w", err)
	if !errors.Is(wrapped, ErrStorage) {
		t.Error("wrapped StorageError should still match ErrStorage")
	}
}
