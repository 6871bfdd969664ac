// Package shared contains common domain types, errors, events, and the actor
// identity used across all domain packages. This package has zero external
// dependencies.
package shared

import (
	"errors"
	"fmt"
	"strings"
)

// Base error kinds. Every error returned by the core matches exactly one of
// them through errors.Is().
var (
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrConflict          = errors.New("conflict")
	ErrNotQualified      = errors.New("mentor not qualified")
	ErrValidation        = errors.New("validation error")

	ErrInvalidState = errors.New("invalid state")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "mentoria", "business", "progress"
	Op      string // Operation that failed, e.g., "Confirm", "Assign"
	Kind    error  // Base error kind for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// ValidationError reports missing or out-of-range fields. For the diagnostic
// form, Step holds the first failing step (1-based) and Fields the labels of
// every missing field within that step.
type ValidationError struct {
	Op      string
	Message string
	Step    int
	Fields  []string
}

// NewValidationError creates a ValidationError for the given fields.
func NewValidationError(op, message string, fields ...string) *ValidationError {
	return &ValidationError{Op: op, Message: message, Fields: fields}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation")
	if e.Op != "" {
		b.WriteString(".")
		b.WriteString(e.Op)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Step > 0 {
		fmt.Fprintf(&b, " (step %d)", e.Step)
	}
	if len(e.Fields) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Fields, ", "))
	}
	return b.String()
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// TransitionError is returned when a state machine guard rejects a transition.
// It names the status the entity was in and the transition that was attempted.
type TransitionError struct {
	Entity    string
	ID        string
	Current   string
	Attempted string
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s %s: cannot %s from status %s", e.Entity, e.ID, e.Attempted, e.Current)
}

// Is matches ErrInvalidTransition.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// Mentor/progress errors
var (
	ErrMentorNotFound     = NewDomainError("mentor", "Find", ErrNotFound, "mentor not found")
	ErrMentorExists       = NewDomainError("mentor", "Create", ErrConflict, "mentor already exists")
	ErrMaterialNotFound   = NewDomainError("material", "Find", ErrNotFound, "material not found")
	ErrDuplicateOrder     = NewDomainError("material", "Save", ErrConflict, "another material already uses this order")
	ErrMaterialLocked     = NewDomainError("progress", "Start", ErrInvalidState, "material is locked until the previous one is completed")
	ErrMentorNotQualified = NewDomainError("business", "AssignMentor", ErrNotQualified, "mentor has not completed the qualification requirements")
)

// Business errors
var (
	ErrBusinessNotFound   = NewDomainError("business", "Find", ErrNotFound, "business not found")
	ErrAlreadyAssigned    = NewDomainError("business", "AssignMentor", ErrConflict, "business already has a mentor")
	ErrBusinessUnassigned = NewDomainError("business", "Check", ErrInvalidState, "business has no assigned mentor")
)

// Mentoria errors
var (
	ErrSessionNotFound    = NewDomainError("mentoria", "Find", ErrNotFound, "mentoria session not found")
	ErrActiveSession      = NewDomainError("mentoria", "Schedule", ErrConflict, "business already has an active mentoria session")
	ErrDiagnosticNotFound = NewDomainError("mentoria", "FindDiagnostic", ErrNotFound, "diagnostic not found")
	ErrCheckoutNotFound   = NewDomainError("mentoria", "FindCheckout", ErrNotFound, "checkout not found")
)

// Authorization errors
var (
	ErrAdminOnly    = NewDomainError("auth", "Authorize", ErrForbidden, "operation requires the admin role")
	ErrNotOwnMentor = NewDomainError("auth", "Authorize", ErrForbidden, "mentors may only act on their own records")
	ErrMissingActor = NewDomainError("auth", "Authorize", ErrUnauthorized, "missing actor identity")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if the error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidTransition checks if the error is a state machine guard violation.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

// AsValidation extracts a *ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsTransition extracts a *TransitionError from err.
func AsTransition(err error) (*TransitionError, bool) {
	var te *TransitionError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
