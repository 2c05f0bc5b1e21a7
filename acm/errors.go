/*
errors.go - Centralized error types for the ACM engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  A calculation either succeeds (possibly with warnings) or fails with one
  of two client errors; callers must render the two failure kinds
  distinctly from a zero total.

ERROR CATEGORIES:
  1. Validation errors - Malformed input (unknown enum, negative headcount)
  2. Blocked errors - Hard participant-cap violation, no partial result
  3. Configuration errors - Rate or document tables that fail validation

USAGE:

    res, err := engine.Calculate(in)
    var blocked *acm.BlockedError
    if errors.As(err, &blocked) {
        // render "cannot calculate" with blocked.Cap / blocked.TotalPax
    }

SEE ALSO:
  - eligibility/validate.go: Produces ValidationError and BlockedError
  - api/handlers.go: Maps errors to HTTP status codes
*/
package acm

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned when a training event is malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBlocked is returned when a hard participant cap is exceeded.
	ErrBlocked = errors.New("calculation blocked")

	// ErrInvalidConfig is returned when a rate or document table is rejected.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoSnapshot is returned when no configuration has been published yet.
	ErrNoSnapshot = errors.New("no configuration snapshot loaded")

	// ErrNoScenario is returned when the cost matrix has no row for a
	// generic scenario. The baseline matrix covers every triple.
	ErrNoScenario = errors.New("no cost matrix row")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError names the offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// BlockedError reports a participant-cap violation.
type BlockedError struct {
	Category CourseCategory
	Cap      int
	TotalPax int
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("participant cap exceeded: %s allows %d pax, got %d",
		e.Category.Label(), e.Cap, e.TotalPax)
}

func (e *BlockedError) Unwrap() error {
	return ErrBlocked
}

// ConfigError reports a rejected configuration value.
type ConfigError struct {
	Path   string // e.g. "inhouse.full_day"
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Path, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to the caller's input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrBlocked) ||
		errors.Is(err, ErrInvalidConfig)
}

// IsBlocked returns true for hard-cap violations.
func IsBlocked(err error) bool {
	return errors.Is(err, ErrBlocked)
}
