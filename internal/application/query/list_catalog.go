package query

import (
	"context"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/material"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentor"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG AND REGISTRY LISTINGS
// ══════════════════════════════════════════════════════════════════════════════

// MaterialListDTO is the ordered catalog.
type MaterialListDTO struct {
	Items    []*material.Material `json:"itens"`
	Warnings []string             `json:"avisos,omitempty"`
}

// ListMaterialsHandler lists the catalog in sequence order.
type ListMaterialsHandler struct {
	materials material.Repository
}

// NewListMaterialsHandler creates a new ListMaterialsHandler.
func NewListMaterialsHandler(materials material.Repository) *ListMaterialsHandler {
	return &ListMaterialsHandler{materials: materials}
}

// Handle executes the query.
func (h *ListMaterialsHandler) Handle(ctx context.Context, actor shared.Actor) (*MaterialListDTO, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	c, err := material.LoadCatalog(ctx, h.materials)
	if err != nil {
		return nil, err
	}
	return &MaterialListDTO{Items: c.Items(), Warnings: CatalogWarnings(c)}, nil
}

// ListMentorsHandler lists the mentor registry for admins.
type ListMentorsHandler struct {
	mentors mentor.Repository
}

// NewListMentorsHandler creates a new ListMentorsHandler.
func NewListMentorsHandler(mentors mentor.Repository) *ListMentorsHandler {
	return &ListMentorsHandler{mentors: mentors}
}

// Handle executes the query.
func (h *ListMentorsHandler) Handle(ctx context.Context, actor shared.Actor) ([]*mentor.Mentor, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	return h.mentors.List(ctx)
}
