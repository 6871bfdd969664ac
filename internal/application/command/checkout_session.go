package command

import (
	"context"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/diagnostic"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentoria"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
	"github.com/mentoria-hub/mentoria-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHECKOUT SESSION COMMAND
// Closes a session in progress. The stored diagnostic must pass all five
// steps and the checkout scores must be present; status change and checkout
// record are written together.
// ══════════════════════════════════════════════════════════════════════════════

// CheckoutSessionCommand contains the checkout form.
type CheckoutSessionCommand struct {
	Actor        shared.Actor
	SessionID    string
	SessionScore *int
	MentorScore  *int
	ProgramScore *int
	Notes        string
	NextSteps    mentoria.NextStep
}

// CheckoutSessionResult contains the finalized session and its checkout.
type CheckoutSessionResult struct {
	Session  *mentoria.Session
	Checkout *mentoria.Checkout
}

// CheckoutSessionHandler handles CheckoutSessionCommand.
type CheckoutSessionHandler struct {
	sessions mentoria.Repository
	rt       Runtime
}

// NewCheckoutSessionHandler creates a new CheckoutSessionHandler.
func NewCheckoutSessionHandler(sessions mentoria.Repository, rt Runtime) *CheckoutSessionHandler {
	return &CheckoutSessionHandler{sessions: sessions, rt: rt.withDefaults()}
}

// Handle executes the command.
func (h *CheckoutSessionHandler) Handle(ctx context.Context, cmd CheckoutSessionCommand) (*CheckoutSessionResult, error) {
	if err := cmd.Actor.Validate(); err != nil {
		return nil, err
	}

	s, err := h.sessions.GetByID(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}
	if err := authorizeSession(cmd.Actor, s, mentoria.TransitionCheckout); err != nil {
		return nil, err
	}
	if err := s.Guard(mentoria.TransitionCheckout); err != nil {
		return nil, err
	}

	now := h.rt.Clock()
	c, err := mentoria.NewCheckout(mentoria.CheckoutParams{
		SessionID:    s.ID,
		SessionScore: cmd.SessionScore,
		MentorScore:  cmd.MentorScore,
		ProgramScore: cmd.ProgramScore,
		Notes:        cmd.Notes,
		NextSteps:    cmd.NextSteps,
		Now:          now,
	})
	if err != nil {
		return nil, err
	}

	s, err = h.sessions.Finalize(ctx, mentoria.FinalizeParams{
		SessionID:          s.ID,
		Checkout:           c,
		At:                 now,
		ValidateDiagnostic: validateForCheckout,
	})
	if err != nil {
		if ve, ok := shared.AsValidation(err); ok && ve.Step > 0 {
			h.rt.Logger.Info("checkout blocked by incomplete diagnostic",
				logger.SessionID(cmd.SessionID),
				logger.Int("step", ve.Step),
			)
		}
		return nil, err
	}

	h.rt.Logger.Info("session finalized",
		logger.SessionID(s.ID),
		logger.BusinessID(s.BusinessID),
		logger.String("proximos_passos", string(c.NextSteps)),
	)
	h.rt.publish(ctx, shared.NewEvent(shared.EventSessionFinalized, s.ID, cmd.Actor, now, map[string]interface{}{
		"negocio_id":      s.BusinessID,
		"mentor_id":       s.MentorID,
		"nota_mentoria":   c.SessionScore,
		"nota_mentor":     c.MentorScore,
		"nota_programa":   c.ProgramScore,
		"proximos_passos": string(c.NextSteps),
	}))
	return &CheckoutSessionResult{Session: s, Checkout: c}, nil
}

func validateForCheckout(d *diagnostic.Diagnostic) error {
	if r, ok := diagnostic.ValidateAll(d); !ok {
		return r.Err("Checkout")
	}
	return nil
}
