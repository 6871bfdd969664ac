// Package progress tracks which training materials each mentor has started
// and completed, and derives the advisory sequential lock.
package progress

import (
	"strings"
	"time"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

// Rating bounds for material feedback.
const (
	MinRating = 1
	MaxRating = 5
)

// Progress is the record for one (mentor, material) pair. It is created on the
// first start (or a direct completion) and never deleted.
type Progress struct {
	MentorID    string     `json:"mentor_id"`
	MaterialID  string     `json:"material_id"`
	Started     bool       `json:"iniciado"`
	Completed   bool       `json:"concluido"`
	StartedAt   *time.Time `json:"iniciado_em,omitempty"`
	CompletedAt *time.Time `json:"concluido_em,omitempty"`
	Rating      *int       `json:"avaliacao,omitempty"`
	Feedback    string     `json:"feedback,omitempty"`
}

// Start builds a freshly started record.
func Start(mentorID, materialID string, now time.Time) *Progress {
	return &Progress{
		MentorID:   mentorID,
		MaterialID: materialID,
		Started:    true,
		StartedAt:  &now,
	}
}

// CompleteParams carries the optional completion feedback.
type CompleteParams struct {
	Feedback string
	Rating   *int
}

// Validate checks the rating range.
func (p CompleteParams) Validate() error {
	if p.Rating != nil && (*p.Rating < MinRating || *p.Rating > MaxRating) {
		return shared.NewValidationError("CompleteMaterial", "rating must be between 1 and 5", "avaliacao")
	}
	return nil
}

// Complete marks the record completed. A record that was never started is
// started at the same instant, keeping completed ⇒ started. The first
// completion timestamp is kept on repeated calls; feedback and rating are
// replaced when provided.
func (p *Progress) Complete(params CompleteParams, now time.Time) {
	if !p.Started {
		p.Started = true
		p.StartedAt = &now
	}
	if !p.Completed {
		p.Completed = true
		p.CompletedAt = &now
	}
	if params.Rating != nil {
		r := *params.Rating
		p.Rating = &r
	}
	if fb := strings.TrimSpace(params.Feedback); fb != "" {
		p.Feedback = fb
	}
}

// Set indexes a mentor's progress records by material id.
type Set map[string]*Progress

// NewSet builds a Set from records.
func NewSet(records []*Progress) Set {
	s := make(Set, len(records))
	for _, r := range records {
		if r != nil {
			s[r.MaterialID] = r
		}
	}
	return s
}

// IsStarted reports whether materialID has been started.
func (s Set) IsStarted(materialID string) bool {
	p, ok := s[materialID]
	return ok && p.Started
}

// IsCompleted reports whether materialID has been completed.
func (s Set) IsCompleted(materialID string) bool {
	p, ok := s[materialID]
	return ok && p.Completed
}
