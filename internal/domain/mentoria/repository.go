package mentoria

import (
	"context"
	"time"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/diagnostic"
)

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	BusinessID string
	MentorID   string
	Status     Status
}

// FinalizeParams carries a checkout. ValidateDiagnostic runs against the
// stored diagnostic (nil when none was saved) after the status guard passes
// and before anything is written.
type FinalizeParams struct {
	SessionID          string
	Checkout           *Checkout
	At                 time.Time
	ValidateDiagnostic func(*diagnostic.Diagnostic) error
}

// Repository stores sessions with their diagnostic and checkout. Every
// status change is a compare-and-set on the current status: when the session
// is not in one of the allowed source statuses the call fails with a
// *shared.TransitionError and nothing is written.
type Repository interface {
	// Create inserts s. Returns shared.ErrActiveSession when the business
	// already has a session in an active status.
	Create(ctx context.Context, s *Session) error

	GetByID(ctx context.Context, id string) (*Session, error)

	// List returns sessions ordered by scheduled date, most recent first.
	List(ctx context.Context, filter ListFilter) ([]*Session, error)

	// CountFinalized counts FINALIZADA sessions of a business.
	CountFinalized(ctx context.Context, businessID string) (int, error)

	// Transition applies confirm, checkin or cancel. reason is stored only
	// for cancel.
	Transition(ctx context.Context, id string, t Transition, reason string, at time.Time) (*Session, error)

	// Reschedule updates date and duration while the session allows it.
	Reschedule(ctx context.Context, id string, scheduledAt time.Time, durationMinutes int, at time.Time) (*Session, error)

	// SaveDiagnostic upserts the session's diagnostic while the session is
	// EM_ANDAMENTO. The first save sets CreatedAt.
	SaveDiagnostic(ctx context.Context, d *diagnostic.Diagnostic, at time.Time) (*diagnostic.Diagnostic, error)

	// GetDiagnostic returns shared.ErrDiagnosticNotFound when none was saved.
	GetDiagnostic(ctx context.Context, sessionID string) (*diagnostic.Diagnostic, error)

	// Finalize moves the session to FINALIZADA and stores the checkout in one
	// atomic step.
	Finalize(ctx context.Context, p FinalizeParams) (*Session, error)

	// GetCheckout returns shared.ErrCheckoutNotFound when the session was not
	// checked out.
	GetCheckout(ctx context.Context, sessionID string) (*Checkout, error)
}
