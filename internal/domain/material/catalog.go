package material

import (
	"sort"
)

// Catalog is an immutable, ordered snapshot of the material catalog used for
// gating decisions. Materials are sorted by Order, then ID, so a snapshot with
// duplicate orders is still deterministic; DuplicateOrders reports them.
type Catalog struct {
	items []*Material
	index map[string]int
}

// NewCatalog builds a snapshot from materials in any order.
func NewCatalog(materials []*Material) *Catalog {
	items := make([]*Material, 0, len(materials))
	for _, m := range materials {
		if m != nil {
			items = append(items, m)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Order != items[j].Order {
			return items[i].Order < items[j].Order
		}
		return items[i].ID < items[j].ID
	})

	index := make(map[string]int, len(items))
	for i, m := range items {
		index[m.ID] = i
	}
	return &Catalog{items: items, index: index}
}

// Len returns the number of materials.
func (c *Catalog) Len() int { return len(c.items) }

// Items returns the materials in catalog order. Callers must not mutate them.
func (c *Catalog) Items() []*Material {
	out := make([]*Material, len(c.items))
	copy(out, c.items)
	return out
}

// At returns the material at position i.
func (c *Catalog) At(i int) *Material {
	if i < 0 || i >= len(c.items) {
		return nil
	}
	return c.items[i]
}

// Get returns the material with the given id.
func (c *Catalog) Get(id string) (*Material, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.items[i], true
}

// Position returns the catalog position of id, or -1.
func (c *Catalog) Position(id string) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// Previous returns the material immediately before id in catalog order.
func (c *Catalog) Previous(id string) (*Material, bool) {
	i := c.Position(id)
	if i <= 0 {
		return nil, false
	}
	return c.items[i-1], true
}

// Mandatory returns the mandatory materials in catalog order.
func (c *Catalog) Mandatory() []*Material {
	out := make([]*Material, 0, len(c.items))
	for _, m := range c.items {
		if m.Mandatory {
			out = append(out, m)
		}
	}
	return out
}

// DuplicateOrders returns every order value shared by more than one material.
// Sequencing between such materials is ambiguous; callers surface it as a
// catalog warning.
func (c *Catalog) DuplicateOrders() []int {
	seen := make(map[int]int, len(c.items))
	for _, m := range c.items {
		seen[m.Order]++
	}
	var dups []int
	for order, n := range seen {
		if n > 1 {
			dups = append(dups, order)
		}
	}
	sort.Ints(dups)
	return dups
}
