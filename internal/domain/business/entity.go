// Package business holds the mentee businesses ("negócios") and their link to
// a mentor.
package business

import (
	"context"
	"strings"
	"time"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

// Status is the lifecycle status of a business in the program.
type Status string

const (
	StatusActive        Status = "ATIVO"
	StatusInactive      Status = "INATIVO"
	StatusMentorPending Status = "MENTOR_PENDENTE"
	StatusDisengaged    Status = "DESENGAJADO"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusMentorPending, StatusDisengaged:
		return true
	default:
		return false
	}
}

// Business is a mentee entity. MentorID is only ever set through assignment.
type Business struct {
	ID         string     `json:"id"`
	Name       string     `json:"nome"`
	Status     Status     `json:"status"`
	MentorID   *string    `json:"mentor_id,omitempty"`
	AssignedAt *time.Time `json:"atribuido_em,omitempty"`
	Notes      string     `json:"observacoes,omitempty"`
	CreatedAt  time.Time  `json:"criado_em"`
	UpdatedAt  time.Time  `json:"atualizado_em"`
}

// New builds an unassigned business waiting for a mentor.
func New(id, name string, now time.Time) (*Business, error) {
	b := &Business{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Status:    StatusMentorPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if b.Name == "" {
		return nil, shared.NewValidationError("CreateBusiness", "name is required", "nome")
	}
	return b, nil
}

// HasMentor reports whether a mentor is assigned.
func (b *Business) HasMentor() bool {
	return b.MentorID != nil && *b.MentorID != ""
}

// MentorIDOrEmpty returns the assigned mentor id or "".
func (b *Business) MentorIDOrEmpty() string {
	if b.MentorID == nil {
		return ""
	}
	return *b.MentorID
}

// Assignment is one entry of a business's mentor history.
type Assignment struct {
	BusinessID   string     `json:"negocio_id"`
	MentorID     string     `json:"mentor_id"`
	AssignedAt   time.Time  `json:"atribuido_em"`
	Notes        string     `json:"observacoes,omitempty"`
	UnassignedAt *time.Time `json:"desatribuido_em,omitempty"`
	Reason       string     `json:"motivo,omitempty"`
}

// ListFilter narrows List.
type ListFilter struct {
	MentorID string
	Status   Status
}

// Repository stores businesses.
type Repository interface {
	Create(ctx context.Context, b *Business) error
	GetByID(ctx context.Context, id string) (*Business, error)
	List(ctx context.Context, filter ListFilter) ([]*Business, error)

	// AssignMentor sets mentor_id, status ATIVO and assigned_at only if the
	// business has no mentor, and opens a history entry. Returns
	// shared.ErrAlreadyAssigned or shared.ErrBusinessNotFound otherwise.
	AssignMentor(ctx context.Context, id, mentorID, notes string, at time.Time) (*Business, error)

	// UnassignMentor clears the mentor, sets MENTOR_PENDENTE and closes the
	// open history entry with reason.
	UnassignMentor(ctx context.Context, id, reason string, at time.Time) (*Business, error)

	// History returns assignments, most recent first.
	History(ctx context.Context, id string) ([]*Assignment, error)
}
