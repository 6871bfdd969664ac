package command

import (
	"context"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/diagnostic"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentoria"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
	"github.com/mentoria-hub/mentoria-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SAVE DIAGNOSTIC COMMAND
// Upserts the intake diagnostic of a session in progress. Drafts are accepted
// with empty fields; only rating ranges are checked. Required fields are
// enforced at checkout.
// ══════════════════════════════════════════════════════════════════════════════

// SaveDiagnosticCommand contains the diagnostic to store.
type SaveDiagnosticCommand struct {
	Actor      shared.Actor
	SessionID  string
	Diagnostic diagnostic.Diagnostic
}

// SaveDiagnosticResult contains the stored diagnostic and the validation of
// every step, so the caller can show progress.
type SaveDiagnosticResult struct {
	Diagnostic *diagnostic.Diagnostic
	Steps      []diagnostic.StepResult
	Complete   bool
}

// SaveDiagnosticHandler handles SaveDiagnosticCommand.
type SaveDiagnosticHandler struct {
	sessions mentoria.Repository
	rt       Runtime
}

// NewSaveDiagnosticHandler creates a new SaveDiagnosticHandler.
func NewSaveDiagnosticHandler(sessions mentoria.Repository, rt Runtime) *SaveDiagnosticHandler {
	return &SaveDiagnosticHandler{sessions: sessions, rt: rt.withDefaults()}
}

// Handle executes the command.
func (h *SaveDiagnosticHandler) Handle(ctx context.Context, cmd SaveDiagnosticCommand) (*SaveDiagnosticResult, error) {
	if err := cmd.Actor.Validate(); err != nil {
		return nil, err
	}

	s, err := h.sessions.GetByID(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}
	if err := authorizeSession(cmd.Actor, s, mentoria.TransitionSaveDiagnostic); err != nil {
		return nil, err
	}
	if err := s.Guard(mentoria.TransitionSaveDiagnostic); err != nil {
		return nil, err
	}

	d := cmd.Diagnostic
	d.SessionID = s.ID
	if err := diagnostic.ValidateRanges(&d); err != nil {
		return nil, err
	}

	now := h.rt.Clock()
	stored, err := h.sessions.SaveDiagnostic(ctx, &d, now)
	if err != nil {
		return nil, err
	}

	res := &SaveDiagnosticResult{Diagnostic: stored, Complete: true}
	for n := 1; n <= diagnostic.StepCount; n++ {
		r := diagnostic.ValidateStep(n, stored)
		res.Steps = append(res.Steps, r)
		res.Complete = res.Complete && r.Valid
	}

	h.rt.Logger.Info("diagnostic saved", logger.SessionID(s.ID), logger.Bool("complete", res.Complete))
	h.rt.publish(ctx, shared.NewEvent(shared.EventDiagnosticSaved, s.ID, cmd.Actor, now, map[string]interface{}{
		"negocio_id": s.BusinessID,
		"completo":   res.Complete,
	}))
	return res, nil
}
