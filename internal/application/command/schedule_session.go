package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/business"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentoria"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
	"github.com/mentoria-hub/mentoria-hub/pkg/logger"
	"github.com/mentoria-hub/mentoria-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULE SESSION COMMAND
// Opens a new session for a business with its current mentor. A business has
// at most one session that is not FINALIZADA or CANCELADA; the store enforces
// this atomically.
// ══════════════════════════════════════════════════════════════════════════════

// ScheduleMode selects how the session type is chosen.
type ScheduleMode int

const (
	// ScheduleFirst always opens a PRIMEIRA session.
	ScheduleFirst ScheduleMode = iota

	// ScheduleNext opens a FOLLOWUP when the business has at least one
	// finalized session, PRIMEIRA otherwise.
	ScheduleNext
)

// ScheduleSessionCommand contains the scheduling data.
type ScheduleSessionCommand struct {
	Actor      shared.Actor
	Mode       ScheduleMode
	BusinessID string

	// ScheduledAt is RFC3339 or local "2006-01-02T15:04" in the configured
	// timezone.
	ScheduledAt     string
	DurationMinutes int
}

// Validate validates the command.
func (c ScheduleSessionCommand) Validate() error {
	if err := c.Actor.Validate(); err != nil {
		return err
	}
	var fields []string
	if strings.TrimSpace(c.BusinessID) == "" {
		fields = append(fields, "negocio_id")
	}
	if _, err := timeutil.ParseSchedule(c.ScheduledAt); err != nil {
		fields = append(fields, "data_agendada")
	}
	if c.DurationMinutes < mentoria.MinDurationMinutes || c.DurationMinutes > mentoria.MaxDurationMinutes {
		fields = append(fields, "duracao_minutos")
	}
	if len(fields) > 0 {
		return shared.NewValidationError("Schedule", "invalid schedule", fields...)
	}
	return nil
}

// ScheduleSessionHandler handles ScheduleSessionCommand.
type ScheduleSessionHandler struct {
	businesses business.Repository
	sessions   mentoria.Repository
	rt         Runtime
}

// NewScheduleSessionHandler creates a new ScheduleSessionHandler.
func NewScheduleSessionHandler(businesses business.Repository, sessions mentoria.Repository, rt Runtime) *ScheduleSessionHandler {
	return &ScheduleSessionHandler{businesses: businesses, sessions: sessions, rt: rt.withDefaults()}
}

// Handle executes the command.
func (h *ScheduleSessionHandler) Handle(ctx context.Context, cmd ScheduleSessionCommand) (*mentoria.Session, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	scheduledAt, _ := timeutil.ParseSchedule(cmd.ScheduledAt)

	b, err := h.businesses.GetByID(ctx, cmd.BusinessID)
	if err != nil {
		return nil, err
	}
	if !b.HasMentor() {
		return nil, shared.ErrBusinessUnassigned
	}
	if err := cmd.Actor.RequireSelfOrAdmin(b.MentorIDOrEmpty()); err != nil {
		return nil, err
	}

	sessionType := mentoria.TypeFirst
	if cmd.Mode == ScheduleNext {
		n, err := h.sessions.CountFinalized(ctx, b.ID)
		if err != nil {
			return nil, fmt.Errorf("schedule_session: failed to count sessions: %w", err)
		}
		if n > 0 {
			sessionType = mentoria.TypeFollowUp
		}
	}

	now := h.rt.Clock()
	s, err := mentoria.NewSession(mentoria.ScheduleParams{
		ID:              h.rt.IDs(),
		BusinessID:      b.ID,
		MentorID:        b.MentorIDOrEmpty(),
		Type:            sessionType,
		ScheduledAt:     scheduledAt,
		DurationMinutes: cmd.DurationMinutes,
		Now:             now,
	})
	if err != nil {
		return nil, err
	}
	if err := h.sessions.Create(ctx, s); err != nil {
		return nil, err
	}

	h.rt.Logger.Info("session scheduled",
		logger.SessionID(s.ID),
		logger.BusinessID(s.BusinessID),
		logger.MentorID(s.MentorID),
		logger.String("tipo", string(s.Type)),
	)
	h.rt.publish(ctx, shared.NewEvent(shared.EventSessionScheduled, s.ID, cmd.Actor, now, map[string]interface{}{
		"negocio_id":    s.BusinessID,
		"mentor_id":     s.MentorID,
		"tipo":          string(s.Type),
		"data_agendada": s.ScheduledAt,
	}))
	return s, nil
}
