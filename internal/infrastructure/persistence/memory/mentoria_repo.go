package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/diagnostic"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentoria"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

// MentoriaRepository implements mentoria.Repository. A single mutex guards
// sessions, diagnostics and checkouts so that every guard check and its write
// happen as one step.
type MentoriaRepository struct {
	mu          sync.RWMutex
	sessions    map[string]*mentoria.Session
	diagnostics map[string]diagnostic.Diagnostic
	checkouts   map[string]mentoria.Checkout
}

// NewMentoriaRepository creates an empty session store.
func NewMentoriaRepository() *MentoriaRepository {
	return &MentoriaRepository{
		sessions:    make(map[string]*mentoria.Session),
		diagnostics: make(map[string]diagnostic.Diagnostic),
		checkouts:   make(map[string]mentoria.Checkout),
	}
}

// Create implements mentoria.Repository.
func (r *MentoriaRepository) Create(ctx context.Context, s *mentoria.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[s.ID]; exists {
		return shared.NewDomainError("mentoria", "Create", shared.ErrConflict, "session already exists")
	}
	for _, other := range r.sessions {
		if other.BusinessID == s.BusinessID && other.Status.IsActive() {
			return shared.ErrActiveSession
		}
	}
	r.sessions[s.ID] = s.Clone()
	return nil
}

// GetByID implements mentoria.Repository.
func (r *MentoriaRepository) GetByID(ctx context.Context, id string) (*mentoria.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, shared.ErrSessionNotFound
	}
	return s.Clone(), nil
}

// List implements mentoria.Repository.
func (r *MentoriaRepository) List(ctx context.Context, filter mentoria.ListFilter) ([]*mentoria.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*mentoria.Session
	for _, s := range r.sessions {
		if filter.BusinessID != "" && s.BusinessID != filter.BusinessID {
			continue
		}
		if filter.MentorID != "" && s.MentorID != filter.MentorID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.After(out[j].ScheduledAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// CountFinalized implements mentoria.Repository.
func (r *MentoriaRepository) CountFinalized(ctx context.Context, businessID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.sessions {
		if s.BusinessID == businessID && s.Status == mentoria.StatusFinalized {
			n++
		}
	}
	return n, nil
}

// Transition implements mentoria.Repository.
func (r *MentoriaRepository) Transition(ctx context.Context, id string, t mentoria.Transition, reason string, at time.Time) (*mentoria.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, shared.ErrSessionNotFound
	}

	next := s.Clone()
	var err error
	switch t {
	case mentoria.TransitionConfirm:
		err = next.Confirm(at)
	case mentoria.TransitionCheckin:
		err = next.CheckIn(at)
	case mentoria.TransitionCancel:
		err = next.Cancel(reason, at)
	default:
		err = mentoria.Rejected(id, s.Status, t)
	}
	if err != nil {
		return nil, err
	}
	r.sessions[id] = next
	return next.Clone(), nil
}

// Reschedule implements mentoria.Repository.
func (r *MentoriaRepository) Reschedule(ctx context.Context, id string, scheduledAt time.Time, durationMinutes int, at time.Time) (*mentoria.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, shared.ErrSessionNotFound
	}
	next := s.Clone()
	if err := next.Reschedule(scheduledAt, durationMinutes, at); err != nil {
		return nil, err
	}
	r.sessions[id] = next
	return next.Clone(), nil
}

// SaveDiagnostic implements mentoria.Repository.
func (r *MentoriaRepository) SaveDiagnostic(ctx context.Context, d *diagnostic.Diagnostic, at time.Time) (*diagnostic.Diagnostic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[d.SessionID]
	if !ok {
		return nil, shared.ErrSessionNotFound
	}
	if err := s.Guard(mentoria.TransitionSaveDiagnostic); err != nil {
		return nil, err
	}

	stored := *d
	stored.UpdatedAt = at
	if prev, exists := r.diagnostics[d.SessionID]; exists {
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.CreatedAt = at
	}
	r.diagnostics[d.SessionID] = stored
	return &stored, nil
}

// GetDiagnostic implements mentoria.Repository.
func (r *MentoriaRepository) GetDiagnostic(ctx context.Context, sessionID string) (*diagnostic.Diagnostic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.diagnostics[sessionID]
	if !ok {
		return nil, shared.ErrDiagnosticNotFound
	}
	return &d, nil
}

// Finalize implements mentoria.Repository.
func (r *MentoriaRepository) Finalize(ctx context.Context, p mentoria.FinalizeParams) (*mentoria.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[p.SessionID]
	if !ok {
		return nil, shared.ErrSessionNotFound
	}
	if err := s.Guard(mentoria.TransitionCheckout); err != nil {
		return nil, err
	}
	if p.ValidateDiagnostic != nil {
		var d *diagnostic.Diagnostic
		if stored, exists := r.diagnostics[p.SessionID]; exists {
			d = &stored
		}
		if err := p.ValidateDiagnostic(d); err != nil {
			return nil, err
		}
	}

	next := s.Clone()
	if err := next.Finalize(p.At); err != nil {
		return nil, err
	}
	c := *p.Checkout
	c.SessionID = p.SessionID
	c.CreatedAt = p.At

	r.sessions[p.SessionID] = next
	r.checkouts[p.SessionID] = c
	return next.Clone(), nil
}

// GetCheckout implements mentoria.Repository.
func (r *MentoriaRepository) GetCheckout(ctx context.Context, sessionID string) (*mentoria.Checkout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.checkouts[sessionID]
	if !ok {
		return nil, shared.ErrCheckoutNotFound
	}
	return &c, nil
}
