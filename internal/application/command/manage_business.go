package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/business"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/qualification"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
	"github.com/mentoria-hub/mentoria-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// BUSINESS ASSIGNMENT COMMANDS
// Links mentee businesses to qualified mentors. The write is conditional on
// the business having no mentor, so two concurrent assignments cannot both
// succeed.
// ══════════════════════════════════════════════════════════════════════════════

// CreateBusinessCommand registers a business waiting for a mentor.
type CreateBusinessCommand struct {
	Actor shared.Actor
	Name  string
}

// CreateBusinessHandler handles CreateBusinessCommand.
type CreateBusinessHandler struct {
	businesses business.Repository
	rt         Runtime
}

// NewCreateBusinessHandler creates a new CreateBusinessHandler.
func NewCreateBusinessHandler(businesses business.Repository, rt Runtime) *CreateBusinessHandler {
	return &CreateBusinessHandler{businesses: businesses, rt: rt.withDefaults()}
}

// Handle executes the command.
func (h *CreateBusinessHandler) Handle(ctx context.Context, cmd CreateBusinessCommand) (*business.Business, error) {
	if err := cmd.Actor.RequireAdmin(); err != nil {
		return nil, err
	}
	b, err := business.New(h.rt.IDs(), cmd.Name, h.rt.Clock())
	if err != nil {
		return nil, err
	}
	if err := h.businesses.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create_business: %w", err)
	}
	h.rt.Logger.Info("business created", logger.BusinessID(b.ID))
	return b, nil
}

// AssignMentorCommand assigns a mentor to a business.
type AssignMentorCommand struct {
	Actor      shared.Actor
	BusinessID string
	MentorID   string
	Notes      string
}

// Validate validates the command.
func (c AssignMentorCommand) Validate() error {
	if err := c.Actor.RequireAdmin(); err != nil {
		return err
	}
	var fields []string
	if c.BusinessID == "" {
		fields = append(fields, "negocio_id")
	}
	if c.MentorID == "" {
		fields = append(fields, "mentor_id")
	}
	if len(fields) > 0 {
		return shared.NewValidationError("AssignMentor", "missing identifiers", fields...)
	}
	return nil
}

// AssignMentorHandler handles AssignMentorCommand.
type AssignMentorHandler struct {
	businesses business.Repository
	evaluator  *qualification.Evaluator
	rt         Runtime
}

// NewAssignMentorHandler creates a new AssignMentorHandler.
func NewAssignMentorHandler(businesses business.Repository, evaluator *qualification.Evaluator, rt Runtime) *AssignMentorHandler {
	return &AssignMentorHandler{businesses: businesses, evaluator: evaluator, rt: rt.withDefaults()}
}

// Handle executes the command.
func (h *AssignMentorHandler) Handle(ctx context.Context, cmd AssignMentorCommand) (*business.Business, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	b, err := h.businesses.GetByID(ctx, cmd.BusinessID)
	if err != nil {
		return nil, err
	}
	if b.HasMentor() {
		return nil, shared.ErrAlreadyAssigned
	}

	status, err := h.evaluator.Evaluate(ctx, cmd.MentorID)
	if err != nil {
		return nil, err
	}
	if !status.Qualified {
		return nil, shared.WrapError("business", "AssignMentor", shared.ErrNotQualified,
			"mentor has not completed the qualification requirements",
			errors.New(strings.Join(status.MissingRequirements, "; ")))
	}

	now := h.rt.Clock()
	b, err = h.businesses.AssignMentor(ctx, cmd.BusinessID, cmd.MentorID, strings.TrimSpace(cmd.Notes), now)
	if err != nil {
		return nil, err
	}

	h.rt.Logger.Info("mentor assigned", logger.BusinessID(b.ID), logger.MentorID(cmd.MentorID))
	h.rt.publish(ctx, shared.NewEvent(shared.EventMentorAssigned, b.ID, cmd.Actor, now, map[string]interface{}{
		"mentor_id": cmd.MentorID,
	}))
	return b, nil
}

// UnassignMentorCommand removes the mentor of a business.
type UnassignMentorCommand struct {
	Actor      shared.Actor
	BusinessID string
	Reason     string
}

// Validate validates the command.
func (c UnassignMentorCommand) Validate() error {
	if err := c.Actor.RequireAdmin(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Reason) == "" {
		return shared.NewValidationError("UnassignMentor", "reason is required", "motivo")
	}
	return nil
}

// UnassignMentorHandler handles UnassignMentorCommand.
type UnassignMentorHandler struct {
	businesses business.Repository
	rt         Runtime
}

// NewUnassignMentorHandler creates a new UnassignMentorHandler.
func NewUnassignMentorHandler(businesses business.Repository, rt Runtime) *UnassignMentorHandler {
	return &UnassignMentorHandler{businesses: businesses, rt: rt.withDefaults()}
}

// Handle executes the command. Sessions already scheduled keep the mentor
// they were scheduled with.
func (h *UnassignMentorHandler) Handle(ctx context.Context, cmd UnassignMentorCommand) (*business.Business, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	prev, err := h.businesses.GetByID(ctx, cmd.BusinessID)
	if err != nil {
		return nil, err
	}

	now := h.rt.Clock()
	b, err := h.businesses.UnassignMentor(ctx, cmd.BusinessID, strings.TrimSpace(cmd.Reason), now)
	if err != nil {
		return nil, err
	}

	h.rt.Logger.Info("mentor unassigned", logger.BusinessID(b.ID), logger.MentorID(prev.MentorIDOrEmpty()))
	h.rt.publish(ctx, shared.NewEvent(shared.EventMentorUnassigned, b.ID, cmd.Actor, now, map[string]interface{}{
		"mentor_id": prev.MentorIDOrEmpty(),
		"motivo":    strings.TrimSpace(cmd.Reason),
	}))
	return b, nil
}
