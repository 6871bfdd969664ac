package query

import (
	"context"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/diagnostic"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentoria"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// SessionDTO is a session with its diagnostic and checkout when present.
type SessionDTO struct {
	*mentoria.Session

	// ─────────────────────────────────────────────────────────────────────────
	// Diagnostic
	// ─────────────────────────────────────────────────────────────────────────

	Diagnostic *diagnostic.Diagnostic `json:"diagnostico,omitempty"`

	// Steps is the validation of each form step against the stored
	// diagnostic. Empty when no diagnostic was saved.
	Steps []diagnostic.StepResult `json:"etapas,omitempty"`

	// ─────────────────────────────────────────────────────────────────────────
	// Checkout
	// ─────────────────────────────────────────────────────────────────────────

	Checkout *mentoria.Checkout `json:"checkout,omitempty"`

	// AllowedTransitions lists what may be applied from the current status.
	AllowedTransitions []mentoria.Transition `json:"transicoes_permitidas"`
}

// GetSessionHandler reads one session.
type GetSessionHandler struct {
	sessions mentoria.Repository
}

// NewGetSessionHandler creates a new GetSessionHandler.
func NewGetSessionHandler(sessions mentoria.Repository) *GetSessionHandler {
	return &GetSessionHandler{sessions: sessions}
}

// Handle executes the query.
func (h *GetSessionHandler) Handle(ctx context.Context, actor shared.Actor, id string) (*SessionDTO, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	s, err := h.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.RequireSelfOrAdmin(s.MentorID); err != nil {
		return nil, err
	}

	dto := &SessionDTO{Session: s, AllowedTransitions: []mentoria.Transition{}}
	for _, t := range mentoria.Transitions() {
		if mentoria.Allows(t, s.Status) {
			dto.AllowedTransitions = append(dto.AllowedTransitions, t)
		}
	}

	d, err := h.sessions.GetDiagnostic(ctx, id)
	switch {
	case err == nil:
		dto.Diagnostic = d
		for n := 1; n <= diagnostic.StepCount; n++ {
			dto.Steps = append(dto.Steps, diagnostic.ValidateStep(n, d))
		}
	case !shared.IsNotFound(err):
		return nil, err
	}

	c, err := h.sessions.GetCheckout(ctx, id)
	switch {
	case err == nil:
		dto.Checkout = c
	case !shared.IsNotFound(err):
		return nil, err
	}
	return dto, nil
}

// ListSessionsQuery filters the listing. MentorID is forced to the actor for
// mentors.
type ListSessionsQuery struct {
	Actor      shared.Actor
	BusinessID string
	MentorID   string
	Status     mentoria.Status
}

// ListSessionsHandler lists sessions, most recent first.
type ListSessionsHandler struct {
	sessions mentoria.Repository
}

// NewListSessionsHandler creates a new ListSessionsHandler.
func NewListSessionsHandler(sessions mentoria.Repository) *ListSessionsHandler {
	return &ListSessionsHandler{sessions: sessions}
}

// Handle executes the query.
func (h *ListSessionsHandler) Handle(ctx context.Context, q ListSessionsQuery) ([]*mentoria.Session, error) {
	if err := q.Actor.Validate(); err != nil {
		return nil, err
	}
	filter := mentoria.ListFilter{BusinessID: q.BusinessID, MentorID: q.MentorID, Status: q.Status}
	if !q.Actor.IsAdmin() {
		filter.MentorID = q.Actor.ID
	}
	return h.sessions.List(ctx, filter)
}
