// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/material"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentor"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/progress"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/qualification"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET MENTOR PROGRESS QUERY
// The mentor's training view: every material in catalog order with its
// progress and lock flag, the completion percentage and the qualification
// status. Everything is recomputed on each call.
// ══════════════════════════════════════════════════════════════════════════════

// GetMentorProgressQuery contains the query parameters.
type GetMentorProgressQuery struct {
	Actor    shared.Actor
	MentorID string
}

// MentorProgressDTO is the training view of one mentor.
type MentorProgressDTO struct {
	Mentor        *mentor.Mentor       `json:"mentor"`
	Progress      progress.Summary     `json:"progresso"`
	Qualification qualification.Status `json:"qualificacao"`

	// Warnings flags catalog data the lock relation cannot order reliably.
	Warnings []string `json:"avisos,omitempty"`
}

// GetMentorProgressHandler handles GetMentorProgressQuery.
type GetMentorProgressHandler struct {
	evaluator *qualification.Evaluator
}

// NewGetMentorProgressHandler creates a new GetMentorProgressHandler.
func NewGetMentorProgressHandler(evaluator *qualification.Evaluator) *GetMentorProgressHandler {
	return &GetMentorProgressHandler{evaluator: evaluator}
}

// Handle executes the query.
func (h *GetMentorProgressHandler) Handle(ctx context.Context, q GetMentorProgressQuery) (*MentorProgressDTO, error) {
	if err := q.Actor.RequireSelfOrAdmin(q.MentorID); err != nil {
		return nil, err
	}
	snap, err := h.evaluator.Load(ctx, q.MentorID)
	if err != nil {
		return nil, err
	}
	return &MentorProgressDTO{
		Mentor:        snap.Mentor,
		Progress:      progress.Summarize(snap.Catalog, snap.Progress),
		Qualification: snap.Status(),
		Warnings:      CatalogWarnings(snap.Catalog),
	}, nil
}

// GetQualificationQuery asks for the qualification status only.
type GetQualificationQuery struct {
	Actor    shared.Actor
	MentorID string
}

// GetQualificationHandler handles GetQualificationQuery.
type GetQualificationHandler struct {
	evaluator *qualification.Evaluator
}

// NewGetQualificationHandler creates a new GetQualificationHandler.
func NewGetQualificationHandler(evaluator *qualification.Evaluator) *GetQualificationHandler {
	return &GetQualificationHandler{evaluator: evaluator}
}

// Handle executes the query.
func (h *GetQualificationHandler) Handle(ctx context.Context, q GetQualificationQuery) (qualification.Status, error) {
	if err := q.Actor.RequireSelfOrAdmin(q.MentorID); err != nil {
		return qualification.Status{}, err
	}
	return h.evaluator.Evaluate(ctx, q.MentorID)
}

// CatalogWarnings describes duplicate orders in the catalog. Ties are broken
// by material id.
func CatalogWarnings(c *material.Catalog) []string {
	var out []string
	for _, order := range c.DuplicateOrders() {
		out = append(out, fmt.Sprintf("multiple materials share ordem %d; they are sequenced by id", order))
	}
	return out
}
