package query

import (
	"context"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/business"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// BUSINESS QUERIES
// Mentors only see the businesses assigned to them.
// ══════════════════════════════════════════════════════════════════════════════

// BusinessDTO is a business with its assignment history.
type BusinessDTO struct {
	*business.Business
	History []*business.Assignment `json:"historico"`
}

// GetBusinessHandler reads one business.
type GetBusinessHandler struct {
	businesses business.Repository
}

// NewGetBusinessHandler creates a new GetBusinessHandler.
func NewGetBusinessHandler(businesses business.Repository) *GetBusinessHandler {
	return &GetBusinessHandler{businesses: businesses}
}

// Handle executes the query.
func (h *GetBusinessHandler) Handle(ctx context.Context, actor shared.Actor, id string) (*BusinessDTO, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	b, err := h.businesses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.RequireSelfOrAdmin(b.MentorIDOrEmpty()); err != nil {
		return nil, err
	}
	hist, err := h.businesses.History(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BusinessDTO{Business: b, History: hist}, nil
}

// ListBusinessesQuery filters the listing. MentorID is forced to the actor for
// mentors.
type ListBusinessesQuery struct {
	Actor    shared.Actor
	MentorID string
	Status   business.Status
}

// ListBusinessesHandler lists businesses.
type ListBusinessesHandler struct {
	businesses business.Repository
}

// NewListBusinessesHandler creates a new ListBusinessesHandler.
func NewListBusinessesHandler(businesses business.Repository) *ListBusinessesHandler {
	return &ListBusinessesHandler{businesses: businesses}
}

// Handle executes the query.
func (h *ListBusinessesHandler) Handle(ctx context.Context, q ListBusinessesQuery) ([]*business.Business, error) {
	if err := q.Actor.Validate(); err != nil {
		return nil, err
	}
	filter := business.ListFilter{MentorID: q.MentorID, Status: q.Status}
	if !q.Actor.IsAdmin() {
		filter.MentorID = q.Actor.ID
	}
	return h.businesses.List(ctx, filter)
}
