package mentoria

import (
	"strings"
	"time"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

// Score bounds for checkout ratings.
const (
	MinScore = 0
	MaxScore = 10
)

// NextStep is what happens after a session closes.
type NextStep string

const (
	NextStepNewSession NextStep = "NOVA_MENTORIA"
	NextStepFinish     NextStep = "FINALIZAR"
)

// IsValid reports whether n is a known next step.
func (n NextStep) IsValid() bool {
	return n == NextStepNewSession || n == NextStepFinish
}

// Checkout is the end-of-session scoring record. A session has at most one.
type Checkout struct {
	SessionID    string    `json:"mentoria_id"`
	SessionScore int       `json:"nota_mentoria"`
	MentorScore  int       `json:"nota_mentor"`
	ProgramScore int       `json:"nota_programa"`
	Notes        string    `json:"observacoes,omitempty"`
	NextSteps    NextStep  `json:"proximos_passos"`
	CreatedAt    time.Time `json:"criado_em"`
}

// CheckoutParams carries the raw checkout input. Scores are pointers so that
// an absent score is told apart from a zero.
type CheckoutParams struct {
	SessionID    string
	SessionScore *int
	MentorScore  *int
	ProgramScore *int
	Notes        string
	NextSteps    NextStep
	Now          time.Time
}

// NewCheckout validates p. Every score is required and within [0,10];
// proximos_passos is required.
func NewCheckout(p CheckoutParams) (*Checkout, error) {
	var fields []string
	check := func(name string, v *int) int {
		if v == nil || *v < MinScore || *v > MaxScore {
			fields = append(fields, name)
			return 0
		}
		return *v
	}

	c := &Checkout{
		SessionID:    p.SessionID,
		SessionScore: check("nota_mentoria", p.SessionScore),
		MentorScore:  check("nota_mentor", p.MentorScore),
		ProgramScore: check("nota_programa", p.ProgramScore),
		Notes:        strings.TrimSpace(p.Notes),
		NextSteps:    p.NextSteps,
		CreatedAt:    p.Now,
	}
	if !c.NextSteps.IsValid() {
		fields = append(fields, "proximos_passos")
	}
	if len(fields) > 0 {
		return nil, shared.NewValidationError("Checkout", "invalid checkout", fields...)
	}
	return c, nil
}
