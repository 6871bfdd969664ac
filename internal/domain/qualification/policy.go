// Package qualification decides whether a mentor may be assigned businesses.
// Everything here is pure: the status is recomputed on every read from the
// catalog, the mentor's progress and the protocol acceptance flag.
package qualification

import (
	"fmt"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/material"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/progress"
)

// RequirementProtocol is reported while the protocol is not accepted.
const RequirementProtocol = "Complete protocol acceptance"

// Status is the derived qualification of a mentor. Completed and Total count
// mandatory materials only.
type Status struct {
	Qualified           bool     `json:"qualificado"`
	MissingRequirements []string `json:"requisitos_pendentes"`
	Completed           int      `json:"concluidos"`
	Total               int      `json:"total"`
}

// Compute derives the qualification status. A mentor is qualified iff the
// protocol is accepted and every mandatory material in the catalog is
// completed. Progress on optional materials, ratings and feedback never
// change the outcome.
func Compute(catalog *material.Catalog, set progress.Set, protocolAccepted bool) Status {
	mandatory := catalog.Mandatory()

	st := Status{
		Total:               len(mandatory),
		MissingRequirements: []string{},
	}
	for _, m := range mandatory {
		if set.IsCompleted(m.ID) {
			st.Completed++
		}
	}

	if !protocolAccepted {
		st.MissingRequirements = append(st.MissingRequirements, RequirementProtocol)
	}
	if remaining := st.Total - st.Completed; remaining > 0 {
		st.MissingRequirements = append(st.MissingRequirements, remainingMaterials(remaining))
	}

	st.Qualified = len(st.MissingRequirements) == 0
	return st
}

func remainingMaterials(n int) string {
	if n == 1 {
		return "Complete 1 remaining mandatory material"
	}
	return fmt.Sprintf("Complete %d remaining mandatory materials", n)
}
