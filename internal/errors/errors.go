// LOCATION: internal/errors/errors.go
//
// This file provides:
// - Sentinel errors for all error conditions
// - Error category checking functions
// - Error wrapping utilities
// - Error constructors with context

package errors

import (
	"errors"
	"fmt"
)

// ============================================================================
// Sentinel errors
// ============================================================================

var (
	// Access errors
	ErrInvalidIndex = errors.New("invalid series index")

	// Construction errors
	ErrStaticAlignment = errors.New("static table does not align with series table")
	ErrUnsorted        = errors.New("table is not sorted by (key, timestamp)")
	ErrEmptyTable      = errors.New("table has no rows")
	ErrColumnNotFound  = errors.New("column not found")

	// Merge errors
	ErrMismatchedGroups = errors.New("future table groups do not match the store")

	// Collation errors
	ErrUnsupportedElement = errors.New("unsupported batch element kind")
	ErrEmptyBatch         = errors.New("batch has no elements")
	ErrShapeMismatch      = errors.New("element shapes do not match")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingField  = errors.New("missing required field")

	// Internal errors
	ErrInternal = errors.New("internal error")
)

// ============================================================================
// Helper functions for error checking
// ============================================================================

// Is is a convenience wrapper for errors.Is
var Is = errors.Is

// As is a convenience wrapper for errors.As
var As = errors.As

// IsUsage returns true if err indicates caller misuse of the engine contract.
// Usage errors are never retried; they mean the input violated a precondition.
func IsUsage(err error) bool {
	return errors.Is(err, ErrInvalidIndex) ||
		errors.Is(err, ErrStaticAlignment) ||
		errors.Is(err, ErrUnsorted) ||
		errors.Is(err, ErrMismatchedGroups) ||
		errors.Is(err, ErrUnsupportedElement) ||
		errors.Is(err, ErrEmptyBatch) ||
		errors.Is(err, ErrShapeMismatch)
}

// IsValidation returns true if err is a configuration/input validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrEmptyTable) ||
		errors.Is(err, ErrColumnNotFound)
}

// ============================================================================
// Error wrapping utilities
// ============================================================================

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ============================================================================
// Error constructors with context
// ============================================================================

// NewInvalidIndex creates an invalid-index error with range context.
func NewInvalidIndex(idx, n int) error {
	return fmt.Errorf("index %d out of range [0, %d): %w", idx, n, ErrInvalidIndex)
}

// NewColumnNotFound creates a column-not-found error with context.
func NewColumnNotFound(name string) error {
	return fmt.Errorf("column %q: %w", name, ErrColumnNotFound)
}

// NewMismatchedGroups creates a mismatched-groups error with context.
func NewMismatchedGroups(detail string) error {
	return fmt.Errorf("%s: %w", detail, ErrMismatchedGroups)
}
