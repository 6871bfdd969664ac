package material

import "context"

// Repository stores the material catalog.
type Repository interface {
	// Create stores a new material. Returns shared.ErrDuplicateOrder when the
	// order is already taken.
	Create(ctx context.Context, m *Material) error

	// Update replaces an existing material. Returns shared.ErrMaterialNotFound
	// or shared.ErrDuplicateOrder.
	Update(ctx context.Context, m *Material) error

	// GetByID returns shared.ErrMaterialNotFound when missing.
	GetByID(ctx context.Context, id string) (*Material, error)

	// List returns every material, unordered.
	List(ctx context.Context) ([]*Material, error)
}

// LoadCatalog reads the whole catalog into a snapshot.
func LoadCatalog(ctx context.Context, repo Repository) (*Catalog, error) {
	items, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return NewCatalog(items), nil
}
