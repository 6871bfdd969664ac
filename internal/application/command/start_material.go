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
// START MATERIAL COMMAND
// Marks a training material as started for a mentor. Idempotent: a second
// start returns the stored record with its original started_at. A material
// locked behind an uncompleted predecessor cannot be started.
// ══════════════════════════════════════════════════════════════════════════════

// StartMaterialCommand contains the data to start a material.
type StartMaterialCommand struct {
	Actor      shared.Actor
	MentorID   string
	MaterialID string
}

// Validate validates the command.
func (c StartMaterialCommand) Validate() error {
	var fields []string
	if c.MentorID == "" {
		fields = append(fields, "mentor_id")
	}
	if c.MaterialID == "" {
		fields = append(fields, "material_id")
	}
	if len(fields) > 0 {
		return shared.NewValidationError("StartMaterial", "missing identifiers", fields...)
	}
	return c.Actor.RequireSelfOrAdmin(c.MentorID)
}

// StartMaterialResult contains the stored progress record.
type StartMaterialResult struct {
	Progress *progress.Progress

	// AlreadyStarted is true when the call was a no-op.
	AlreadyStarted bool
}

// StartMaterialHandler handles StartMaterialCommand.
type StartMaterialHandler struct {
	mentors   mentor.Repository
	materials material.Repository
	progress  progress.Repository
	rt        Runtime
}

// NewStartMaterialHandler creates a new StartMaterialHandler.
func NewStartMaterialHandler(
	mentors mentor.Repository,
	materials material.Repository,
	progressRepo progress.Repository,
	rt Runtime,
) *StartMaterialHandler {
	return &StartMaterialHandler{
		mentors:   mentors,
		materials: materials,
		progress:  progressRepo,
		rt:        rt.withDefaults(),
	}
}

// Handle executes the command.
func (h *StartMaterialHandler) Handle(ctx context.Context, cmd StartMaterialCommand) (*StartMaterialResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if _, err := h.mentors.GetByID(ctx, cmd.MentorID); err != nil {
		return nil, err
	}
	if _, err := h.materials.GetByID(ctx, cmd.MaterialID); err != nil {
		return nil, err
	}

	existing, err := h.progress.Get(ctx, cmd.MentorID, cmd.MaterialID)
	if err != nil {
		return nil, fmt.Errorf("start_material: failed to read progress: %w", err)
	}
	if existing != nil && existing.Started {
		return &StartMaterialResult{Progress: existing, AlreadyStarted: true}, nil
	}

	catalog, err := material.LoadCatalog(ctx, h.materials)
	if err != nil {
		return nil, fmt.Errorf("start_material: failed to load catalog: %w", err)
	}
	records, err := h.progress.ListByMentor(ctx, cmd.MentorID)
	if err != nil {
		return nil, fmt.Errorf("start_material: failed to load progress: %w", err)
	}
	if progress.IsLocked(catalog, progress.NewSet(records), cmd.MaterialID) {
		return nil, shared.ErrMaterialLocked
	}

	now := h.rt.Clock()
	stored, err := h.progress.StartIfAbsent(ctx, progress.Start(cmd.MentorID, cmd.MaterialID, now))
	if err != nil {
		return nil, fmt.Errorf("start_material: %w", err)
	}
	if !stored.StartedAt.Equal(now) {
		return &StartMaterialResult{Progress: stored, AlreadyStarted: true}, nil
	}

	h.rt.Logger.Info("material started", logger.MentorID(cmd.MentorID), logger.MaterialID(cmd.MaterialID))
	h.rt.publish(ctx, shared.NewEvent(shared.EventMaterialStarted, cmd.MentorID, cmd.Actor, now, map[string]interface{}{
		"material_id": cmd.MaterialID,
	}))
	return &StartMaterialResult{Progress: stored}, nil
}
