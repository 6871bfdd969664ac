package qualification

import (
	"context"
	"fmt"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/material"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentor"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/progress"
)

// Snapshot is everything qualification is derived from, read at one point in
// time.
type Snapshot struct {
	Mentor   *mentor.Mentor
	Catalog  *material.Catalog
	Progress progress.Set
}

// Status computes the qualification of the snapshot.
func (s Snapshot) Status() Status {
	return Compute(s.Catalog, s.Progress, s.Mentor.ProtocolAccepted)
}

// Evaluator loads the inputs of Compute from the repositories.
type Evaluator struct {
	mentors   mentor.Repository
	materials material.Repository
	progress  progress.Repository
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(mentors mentor.Repository, materials material.Repository, progressRepo progress.Repository) *Evaluator {
	return &Evaluator{mentors: mentors, materials: materials, progress: progressRepo}
}

// Load reads the mentor, the catalog and the mentor's progress records.
func (e *Evaluator) Load(ctx context.Context, mentorID string) (*Snapshot, error) {
	m, err := e.mentors.GetByID(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	catalog, err := material.LoadCatalog(ctx, e.materials)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	records, err := e.progress.ListByMentor(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return &Snapshot{Mentor: m, Catalog: catalog, Progress: progress.NewSet(records)}, nil
}

// Evaluate returns the current qualification of mentorID.
func (e *Evaluator) Evaluate(ctx context.Context, mentorID string) (Status, error) {
	snap, err := e.Load(ctx, mentorID)
	if err != nil {
		return Status{}, err
	}
	return snap.Status(), nil
}
