package memory

import (
	"context"
	"sync"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/material"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

// MaterialRepository implements material.Repository.
type MaterialRepository struct {
	mu        sync.RWMutex
	materials map[string]material.Material
}

// NewMaterialRepository creates an empty catalog.
func NewMaterialRepository() *MaterialRepository {
	return &MaterialRepository{materials: make(map[string]material.Material)}
}

// Create implements material.Repository.
func (r *MaterialRepository) Create(ctx context.Context, m *material.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.materials[m.ID]; exists {
		return shared.NewDomainError("material", "Create", shared.ErrConflict, "material already exists")
	}
	if r.orderTaken(m.Order, m.ID) {
		return shared.ErrDuplicateOrder
	}
	r.materials[m.ID] = *m
	return nil
}

// Update implements material.Repository.
func (r *MaterialRepository) Update(ctx context.Context, m *material.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.materials[m.ID]; !exists {
		return shared.ErrMaterialNotFound
	}
	if r.orderTaken(m.Order, m.ID) {
		return shared.ErrDuplicateOrder
	}
	r.materials[m.ID] = *m
	return nil
}

// GetByID implements material.Repository.
func (r *MaterialRepository) GetByID(ctx context.Context, id string) (*material.Material, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.materials[id]
	if !ok {
		return nil, shared.ErrMaterialNotFound
	}
	return &m, nil
}

// List implements material.Repository.
func (r *MaterialRepository) List(ctx context.Context) ([]*material.Material, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*material.Material, 0, len(r.materials))
	for _, m := range r.materials {
		m := m
		out = append(out, &m)
	}
	return out, nil
}

// Load stores materials without the order check. It mirrors legacy data that
// predates the unique constraint.
func (r *MaterialRepository) Load(materials ...*material.Material) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range materials {
		r.materials[m.ID] = *m
	}
}

func (r *MaterialRepository) orderTaken(order int, exceptID string) bool {
	for id, m := range r.materials {
		if id != exceptID && m.Order == order {
			return true
		}
	}
	return false
}
