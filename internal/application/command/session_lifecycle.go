package command

import (
	"context"
	"strings"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentoria"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
	"github.com/mentoria-hub/mentoria-hub/pkg/logger"
	"github.com/mentoria-hub/mentoria-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION LIFECYCLE COMMANDS
// confirm, checkin, cancel and reschedule. The repository applies each one as
// a compare-and-set on the current status; a stale status yields a
// TransitionError and nothing is written.
// ══════════════════════════════════════════════════════════════════════════════

var transitionEvents = map[mentoria.Transition]shared.EventType{
	mentoria.TransitionConfirm: shared.EventSessionConfirmed,
	mentoria.TransitionCheckin: shared.EventSessionCheckedIn,
	mentoria.TransitionCancel:  shared.EventSessionCancelled,
}

// authorizeSession checks the actor may apply t to s. Cancellation is an
// administrative action; everything else is open to the session's mentor.
func authorizeSession(actor shared.Actor, s *mentoria.Session, t mentoria.Transition) error {
	if t == mentoria.TransitionCancel {
		return actor.RequireAdmin()
	}
	return actor.RequireSelfOrAdmin(s.MentorID)
}

// TransitionSessionCommand applies confirm, checkin or cancel.
type TransitionSessionCommand struct {
	Actor      shared.Actor
	SessionID  string
	Transition mentoria.Transition

	// Reason is stored as motivo_cancelamento on cancel.
	Reason string
}

// Validate validates the command.
func (c TransitionSessionCommand) Validate() error {
	if err := c.Actor.Validate(); err != nil {
		return err
	}
	if c.SessionID == "" {
		return shared.NewValidationError("Transition", "session id is required", "mentoria_id")
	}
	if _, ok := transitionEvents[c.Transition]; !ok {
		return shared.NewValidationError("Transition", "unsupported transition "+string(c.Transition), "transicao")
	}
	return nil
}

// TransitionSessionHandler handles TransitionSessionCommand.
type TransitionSessionHandler struct {
	sessions mentoria.Repository
	rt       Runtime
}

// NewTransitionSessionHandler creates a new TransitionSessionHandler.
func NewTransitionSessionHandler(sessions mentoria.Repository, rt Runtime) *TransitionSessionHandler {
	return &TransitionSessionHandler{sessions: sessions, rt: rt.withDefaults()}
}

// Handle executes the command.
func (h *TransitionSessionHandler) Handle(ctx context.Context, cmd TransitionSessionCommand) (*mentoria.Session, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	current, err := h.sessions.GetByID(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}
	if err := authorizeSession(cmd.Actor, current, cmd.Transition); err != nil {
		return nil, err
	}

	now := h.rt.Clock()
	s, err := h.sessions.Transition(ctx, cmd.SessionID, cmd.Transition, strings.TrimSpace(cmd.Reason), now)
	if err != nil {
		if shared.IsInvalidTransition(err) {
			h.rt.Logger.Warn("session transition rejected",
				logger.SessionID(cmd.SessionID),
				logger.Operation(string(cmd.Transition)),
				logger.Err(err),
			)
		}
		return nil, err
	}

	h.rt.Logger.Info("session transitioned",
		logger.SessionID(s.ID),
		logger.Operation(string(cmd.Transition)),
		logger.String("status", string(s.Status)),
	)
	attrs := map[string]interface{}{
		"negocio_id": s.BusinessID,
		"mentor_id":  s.MentorID,
		"status":     string(s.Status),
	}
	if s.CancellationReason != "" {
		attrs["motivo_cancelamento"] = s.CancellationReason
	}
	h.rt.publish(ctx, shared.NewEvent(transitionEvents[cmd.Transition], s.ID, cmd.Actor, now, attrs))
	return s, nil
}

// RescheduleSessionCommand moves a session that has not started.
type RescheduleSessionCommand struct {
	Actor           shared.Actor
	SessionID       string
	ScheduledAt     string
	DurationMinutes int
}

// RescheduleSessionHandler handles RescheduleSessionCommand.
type RescheduleSessionHandler struct {
	sessions mentoria.Repository
	rt       Runtime
}

// NewRescheduleSessionHandler creates a new RescheduleSessionHandler.
func NewRescheduleSessionHandler(sessions mentoria.Repository, rt Runtime) *RescheduleSessionHandler {
	return &RescheduleSessionHandler{sessions: sessions, rt: rt.withDefaults()}
}

// Handle executes the command.
func (h *RescheduleSessionHandler) Handle(ctx context.Context, cmd RescheduleSessionCommand) (*mentoria.Session, error) {
	if err := cmd.Actor.Validate(); err != nil {
		return nil, err
	}

	current, err := h.sessions.GetByID(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}
	if err := authorizeSession(cmd.Actor, current, mentoria.TransitionReschedule); err != nil {
		return nil, err
	}
	if err := current.Guard(mentoria.TransitionReschedule); err != nil {
		return nil, err
	}

	at, err := timeutil.ParseSchedule(cmd.ScheduledAt)
	if err != nil {
		return nil, shared.NewValidationError("Reschedule", "invalid date", "data_agendada")
	}
	if err := mentoria.ValidateSchedule("Reschedule", at, cmd.DurationMinutes); err != nil {
		return nil, err
	}

	now := h.rt.Clock()
	s, err := h.sessions.Reschedule(ctx, cmd.SessionID, at, cmd.DurationMinutes, now)
	if err != nil {
		return nil, err
	}

	h.rt.Logger.Info("session rescheduled", logger.SessionID(s.ID), logger.Time("data_agendada", s.ScheduledAt))
	h.rt.publish(ctx, shared.NewEvent(shared.EventSessionRescheduled, s.ID, cmd.Actor, now, map[string]interface{}{
		"negocio_id":      s.BusinessID,
		"data_agendada":   s.ScheduledAt,
		"duracao_minutos": s.DurationMinutes,
	}))
	return s, nil
}
