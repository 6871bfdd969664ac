package command

import (
	"context"
	"fmt"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/material"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentor"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/progress"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
	"github.com/mentoria-hub/mentoria-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE MATERIAL COMMAND
// Marks a material as completed with optional rating and feedback. A material
// that was never started is started and completed in the same call, and the
// sequential lock is not checked here.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteMaterialCommand contains the completion data.
type CompleteMaterialCommand struct {
	Actor      shared.Actor
	MentorID   string
	MaterialID string
	Feedback   string

	// Rating is optional; when set it must be in [1,5].
	Rating *int
}

// Validate validates the command.
func (c CompleteMaterialCommand) Validate() error {
	var fields []string
	if c.MentorID == "" {
		fields = append(fields, "mentor_id")
	}
	if c.MaterialID == "" {
		fields = append(fields, "material_id")
	}
	if len(fields) > 0 {
		return shared.NewValidationError("CompleteMaterial", "missing identifiers", fields...)
	}
	if err := (progress.CompleteParams{Rating: c.Rating}).Validate(); err != nil {
		return err
	}
	return c.Actor.RequireSelfOrAdmin(c.MentorID)
}

// CompleteMaterialResult contains the stored record.
type CompleteMaterialResult struct {
	Progress *progress.Progress
}

// CompleteMaterialHandler handles CompleteMaterialCommand.
type CompleteMaterialHandler struct {
	mentors   mentor.Repository
	materials material.Repository
	progress  progress.Repository
	rt        Runtime
}

// NewCompleteMaterialHandler creates a new CompleteMaterialHandler.
func NewCompleteMaterialHandler(
	mentors mentor.Repository,
	materials material.Repository,
	progressRepo progress.Repository,
	rt Runtime,
) *CompleteMaterialHandler {
	return &CompleteMaterialHandler{
		mentors:   mentors,
		materials: materials,
		progress:  progressRepo,
		rt:        rt.withDefaults(),
	}
}

// Handle executes the command.
func (h *CompleteMaterialHandler) Handle(ctx context.Context, cmd CompleteMaterialCommand) (*CompleteMaterialResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if _, err := h.mentors.GetByID(ctx, cmd.MentorID); err != nil {
		return nil, err
	}
	if _, err := h.materials.GetByID(ctx, cmd.MaterialID); err != nil {
		return nil, err
	}

	now := h.rt.Clock()
	p, err := h.progress.StartIfAbsent(ctx, progress.Start(cmd.MentorID, cmd.MaterialID, now))
	if err != nil {
		return nil, fmt.Errorf("complete_material: %w", err)
	}
	p.Complete(progress.CompleteParams{Feedback: cmd.Feedback, Rating: cmd.Rating}, now)

	p, err = h.progress.Save(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("complete_material: %w", err)
	}

	h.rt.Logger.Info("material completed", logger.MentorID(cmd.MentorID), logger.MaterialID(cmd.MaterialID))
	attrs := map[string]interface{}{"material_id": cmd.MaterialID}
	if p.Rating != nil {
		attrs["avaliacao"] = *p.Rating
	}
	h.rt.publish(ctx, shared.NewEvent(shared.EventMaterialCompleted, cmd.MentorID, cmd.Actor, now, attrs))
	return &CompleteMaterialResult{Progress: p}, nil
}
