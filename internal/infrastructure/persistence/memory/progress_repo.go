package memory

import (
	"context"
	"sync"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/progress"
)

type progressKey struct {
	mentorID   string
	materialID string
}

// ProgressRepository implements progress.Repository.
type ProgressRepository struct {
	mu      sync.RWMutex
	records map[progressKey]*progress.Progress
}

// NewProgressRepository creates an empty progress store.
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{records: make(map[progressKey]*progress.Progress)}
}

// Get implements progress.Repository.
func (r *ProgressRepository) Get(ctx context.Context, mentorID, materialID string) (*progress.Progress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.records[progressKey{mentorID, materialID}]
	if !ok {
		return nil, nil
	}
	return copyProgress(p), nil
}

// ListByMentor implements progress.Repository.
func (r *ProgressRepository) ListByMentor(ctx context.Context, mentorID string) ([]*progress.Progress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*progress.Progress
	for k, p := range r.records {
		if k.mentorID == mentorID {
			out = append(out, copyProgress(p))
		}
	}
	return out, nil
}

// StartIfAbsent implements progress.Repository.
func (r *ProgressRepository) StartIfAbsent(ctx context.Context, p *progress.Progress) (*progress.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := progressKey{p.MentorID, p.MaterialID}
	if existing, ok := r.records[key]; ok {
		return copyProgress(existing), nil
	}
	r.records[key] = copyProgress(p)
	return copyProgress(p), nil
}

// Save implements progress.Repository.
func (r *ProgressRepository) Save(ctx context.Context, p *progress.Progress) (*progress.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := progressKey{p.MentorID, p.MaterialID}
	next := copyProgress(p)
	if prev, ok := r.records[key]; ok {
		if prev.StartedAt != nil {
			next.StartedAt = copyTime(prev.StartedAt)
		}
		if prev.CompletedAt != nil {
			next.CompletedAt = copyTime(prev.CompletedAt)
		}
	}
	r.records[key] = next
	return copyProgress(next), nil
}

func copyProgress(p *progress.Progress) *progress.Progress {
	c := *p
	c.StartedAt = copyTime(p.StartedAt)
	c.CompletedAt = copyTime(p.CompletedAt)
	if p.Rating != nil {
		v := *p.Rating
		c.Rating = &v
	}
	return &c
}
