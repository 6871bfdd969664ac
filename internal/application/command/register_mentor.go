package command

import (
	"context"
	"fmt"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentor"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
	"github.com/mentoria-hub/mentoria-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MENTOR REGISTRY COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

// RegisterMentorCommand adds a mentor to the registry. ID may be set to the
// identity provider's subject; a UUID is generated otherwise.
type RegisterMentorCommand struct {
	Actor shared.Actor
	ID    string
	Name  string
	Email string
}

// RegisterMentorHandler handles RegisterMentorCommand.
type RegisterMentorHandler struct {
	mentors mentor.Repository
	rt      Runtime
}

// NewRegisterMentorHandler creates a new RegisterMentorHandler.
func NewRegisterMentorHandler(mentors mentor.Repository, rt Runtime) *RegisterMentorHandler {
	return &RegisterMentorHandler{mentors: mentors, rt: rt.withDefaults()}
}

// Handle executes the command.
func (h *RegisterMentorHandler) Handle(ctx context.Context, cmd RegisterMentorCommand) (*mentor.Mentor, error) {
	if err := cmd.Actor.RequireAdmin(); err != nil {
		return nil, err
	}
	id := cmd.ID
	if id == "" {
		id = h.rt.IDs()
	}
	m, err := mentor.New(id, cmd.Name, cmd.Email, h.rt.Clock())
	if err != nil {
		return nil, err
	}
	if err := h.mentors.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("register_mentor: %w", err)
	}
	h.rt.Logger.Info("mentor registered", logger.MentorID(m.ID))
	return m, nil
}

// AcceptProtocolCommand records that a mentor accepted the mentoring protocol.
type AcceptProtocolCommand struct {
	Actor    shared.Actor
	MentorID string
}

// AcceptProtocolHandler handles AcceptProtocolCommand.
type AcceptProtocolHandler struct {
	mentors mentor.Repository
	rt      Runtime
}

// NewAcceptProtocolHandler creates a new AcceptProtocolHandler.
func NewAcceptProtocolHandler(mentors mentor.Repository, rt Runtime) *AcceptProtocolHandler {
	return &AcceptProtocolHandler{mentors: mentors, rt: rt.withDefaults()}
}

// Handle executes the command. Accepting twice keeps the first timestamp.
func (h *AcceptProtocolHandler) Handle(ctx context.Context, cmd AcceptProtocolCommand) (*mentor.Mentor, error) {
	if err := cmd.Actor.RequireSelfOrAdmin(cmd.MentorID); err != nil {
		return nil, err
	}
	now := h.rt.Clock()
	m, err := h.mentors.AcceptProtocol(ctx, cmd.MentorID, now)
	if err != nil {
		return nil, err
	}
	if m.ProtocolAcceptedAt != nil && m.ProtocolAcceptedAt.Equal(now) {
		h.rt.Logger.Info("protocol accepted", logger.MentorID(m.ID))
		h.rt.publish(ctx, shared.NewEvent(shared.EventProtocolAccepted, m.ID, cmd.Actor, now, nil))
	}
	return m, nil
}
