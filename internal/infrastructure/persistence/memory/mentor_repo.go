package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentor"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

// MentorRepository implements mentor.Repository.
type MentorRepository struct {
	mu      sync.RWMutex
	mentors map[string]*mentor.Mentor
}

// NewMentorRepository creates an empty mentor registry.
func NewMentorRepository() *MentorRepository {
	return &MentorRepository{mentors: make(map[string]*mentor.Mentor)}
}

// Create implements mentor.Repository.
func (r *MentorRepository) Create(ctx context.Context, m *mentor.Mentor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.mentors[m.ID]; exists {
		return shared.ErrMentorExists
	}
	for _, other := range r.mentors {
		if other.Email == m.Email {
			return shared.ErrMentorExists
		}
	}
	r.mentors[m.ID] = copyMentor(m)
	return nil
}

// GetByID implements mentor.Repository.
func (r *MentorRepository) GetByID(ctx context.Context, id string) (*mentor.Mentor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.mentors[id]
	if !ok {
		return nil, shared.ErrMentorNotFound
	}
	return copyMentor(m), nil
}

// List implements mentor.Repository.
func (r *MentorRepository) List(ctx context.Context) ([]*mentor.Mentor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*mentor.Mentor, 0, len(r.mentors))
	for _, m := range r.mentors {
		out = append(out, copyMentor(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// AcceptProtocol implements mentor.Repository.
func (r *MentorRepository) AcceptProtocol(ctx context.Context, id string, at time.Time) (*mentor.Mentor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.mentors[id]
	if !ok {
		return nil, shared.ErrMentorNotFound
	}
	m.AcceptProtocol(at)
	return copyMentor(m), nil
}

func copyMentor(m *mentor.Mentor) *mentor.Mentor {
	c := *m
	c.ProtocolAcceptedAt = copyTime(m.ProtocolAcceptedAt)
	return &c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
