package progress

import (
	"github.com/mentoria-hub/mentoria-hub/internal/domain/material"
)

// IsLocked reports whether materialID is locked for the mentor whose progress
// is given. The material at catalog position i is locked when i > 0, the
// material at i-1 is not completed, and the mentor has neither started nor
// completed material i. Unknown materials are never locked.
//
// The lock is advisory: it is derived on every read and direct completion
// bypasses it.
func IsLocked(catalog *material.Catalog, set Set, materialID string) bool {
	i := catalog.Position(materialID)
	if i <= 0 {
		return false
	}
	prev := catalog.At(i - 1)
	if set.IsCompleted(prev.ID) {
		return false
	}
	return !set.IsStarted(materialID) && !set.IsCompleted(materialID)
}

// Item is one catalog row joined with the mentor's progress.
type Item struct {
	Material *material.Material `json:"material"`
	Progress *Progress          `json:"progresso,omitempty"`
	Locked   bool               `json:"bloqueado"`
}

// Summary is a mentor's view of the whole catalog.
type Summary struct {
	Items           []Item  `json:"itens"`
	Completed       int     `json:"concluidos"`
	Total           int     `json:"total"`
	PercentComplete float64 `json:"percentual"`
}

// Summarize joins catalog and progress in catalog order. PercentComplete is
// computed over all materials, mandatory or not.
func Summarize(catalog *material.Catalog, set Set) Summary {
	s := Summary{
		Items: make([]Item, 0, catalog.Len()),
		Total: catalog.Len(),
	}
	for _, m := range catalog.Items() {
		item := Item{
			Material: m,
			Progress: set[m.ID],
			Locked:   IsLocked(catalog, set, m.ID),
		}
		if set.IsCompleted(m.ID) {
			s.Completed++
		}
		s.Items = append(s.Items, item)
	}
	if s.Total > 0 {
		s.PercentComplete = float64(s.Completed) * 100 / float64(s.Total)
	}
	return s
}
