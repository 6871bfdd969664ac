package command

import (
	"context"
	"fmt"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/material"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
	"github.com/mentoria-hub/mentoria-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MANAGE MATERIAL COMMANDS
// Admin maintenance of the training catalog. The order of a material is
// unique; a taken order is rejected with a conflict.
// ══════════════════════════════════════════════════════════════════════════════

// SaveMaterialCommand creates a material when ID is empty and replaces the
// existing one otherwise.
type SaveMaterialCommand struct {
	Actor shared.Actor

	ID              string
	Title           string
	Description     string
	Type            material.Type
	Mandatory       bool
	Order           int
	URL             string
	SizeBytes       int64
	DurationSeconds int
}

// Validate validates the command.
func (c SaveMaterialCommand) Validate() error {
	return c.Actor.RequireAdmin()
}

// SaveMaterialResult contains the stored material.
type SaveMaterialResult struct {
	Material *material.Material
	Created  bool
}

// SaveMaterialHandler handles SaveMaterialCommand.
type SaveMaterialHandler struct {
	materials material.Repository
	rt        Runtime
}

// NewSaveMaterialHandler creates a new SaveMaterialHandler.
func NewSaveMaterialHandler(materials material.Repository, rt Runtime) *SaveMaterialHandler {
	return &SaveMaterialHandler{materials: materials, rt: rt.withDefaults()}
}

// Handle executes the command.
func (h *SaveMaterialHandler) Handle(ctx context.Context, cmd SaveMaterialCommand) (*SaveMaterialResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	now := h.rt.Clock()

	if cmd.ID == "" {
		m, err := material.NewMaterial(material.NewMaterialParams{
			ID:              h.rt.IDs(),
			Title:           cmd.Title,
			Description:     cmd.Description,
			Type:            cmd.Type,
			Mandatory:       cmd.Mandatory,
			Order:           cmd.Order,
			URL:             cmd.URL,
			SizeBytes:       cmd.SizeBytes,
			DurationSeconds: cmd.DurationSeconds,
			Now:             now,
		})
		if err != nil {
			return nil, err
		}
		if err := h.materials.Create(ctx, m); err != nil {
			return nil, fmt.Errorf("save_material: %w", err)
		}
		h.rt.Logger.Info("material created", logger.MaterialID(m.ID), logger.Int("order", m.Order))
		return &SaveMaterialResult{Material: m, Created: true}, nil
	}

	m, err := h.materials.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	updated, err := material.NewMaterial(material.NewMaterialParams{
		ID:              m.ID,
		Title:           cmd.Title,
		Description:     cmd.Description,
		Type:            cmd.Type,
		Mandatory:       cmd.Mandatory,
		Order:           cmd.Order,
		URL:             cmd.URL,
		SizeBytes:       cmd.SizeBytes,
		DurationSeconds: cmd.DurationSeconds,
		Now:             now,
	})
	if err != nil {
		return nil, err
	}
	updated.CreatedAt = m.CreatedAt

	if err := h.materials.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("save_material: %w", err)
	}
	h.rt.Logger.Info("material updated", logger.MaterialID(updated.ID), logger.Int("order", updated.Order))
	return &SaveMaterialResult{Material: updated}, nil
}
