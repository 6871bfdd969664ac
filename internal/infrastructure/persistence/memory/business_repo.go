package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/business"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

// BusinessRepository implements business.Repository.
type BusinessRepository struct {
	mu         sync.RWMutex
	businesses map[string]*business.Business
	history    map[string][]*business.Assignment
}

// NewBusinessRepository creates an empty business store.
func NewBusinessRepository() *BusinessRepository {
	return &BusinessRepository{
		businesses: make(map[string]*business.Business),
		history:    make(map[string][]*business.Assignment),
	}
}

// Create implements business.Repository.
func (r *BusinessRepository) Create(ctx context.Context, b *business.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.businesses[b.ID]; exists {
		return shared.NewDomainError("business", "Create", shared.ErrConflict, "business already exists")
	}
	r.businesses[b.ID] = copyBusiness(b)
	return nil
}

// GetByID implements business.Repository.
func (r *BusinessRepository) GetByID(ctx context.Context, id string) (*business.Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.businesses[id]
	if !ok {
		return nil, shared.ErrBusinessNotFound
	}
	return copyBusiness(b), nil
}

// List implements business.Repository.
func (r *BusinessRepository) List(ctx context.Context, filter business.ListFilter) ([]*business.Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*business.Business
	for _, b := range r.businesses {
		if filter.MentorID != "" && b.MentorIDOrEmpty() != filter.MentorID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, copyBusiness(b))
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

// AssignMentor implements business.Repository.
func (r *BusinessRepository) AssignMentor(ctx context.Context, id, mentorID, notes string, at time.Time) (*business.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.businesses[id]
	if !ok {
		return nil, shared.ErrBusinessNotFound
	}
	if b.HasMentor() {
		return nil, shared.ErrAlreadyAssigned
	}

	b.MentorID = &mentorID
	b.Status = business.StatusActive
	b.AssignedAt = &at
	b.Notes = notes
	b.UpdatedAt = at

	r.history[id] = append(r.history[id], &business.Assignment{
		BusinessID: id,
		MentorID:   mentorID,
		AssignedAt: at,
		Notes:      notes,
	})
	return copyBusiness(b), nil
}

// UnassignMentor implements business.Repository.
func (r *BusinessRepository) UnassignMentor(ctx context.Context, id, reason string, at time.Time) (*business.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.businesses[id]
	if !ok {
		return nil, shared.ErrBusinessNotFound
	}
	if !b.HasMentor() {
		return nil, shared.ErrBusinessUnassigned
	}

	b.MentorID = nil
	b.AssignedAt = nil
	b.Status = business.StatusMentorPending
	b.UpdatedAt = at

	for _, a := range r.history[id] {
		if a.UnassignedAt == nil {
			a.UnassignedAt = &at
			a.Reason = reason
		}
	}
	return copyBusiness(b), nil
}

// History implements business.Repository.
func (r *BusinessRepository) History(ctx context.Context, id string) ([]*business.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.businesses[id]; !ok {
		return nil, shared.ErrBusinessNotFound
	}
	entries := r.history[id]
	out := make([]*business.Assignment, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		a := *entries[i]
		a.UnassignedAt = copyTime(entries[i].UnassignedAt)
		out = append(out, &a)
	}
	return out, nil
}

func copyBusiness(b *business.Business) *business.Business {
	c := *b
	c.MentorID = copyString(b.MentorID)
	c.AssignedAt = copyTime(b.AssignedAt)
	return &c
}
