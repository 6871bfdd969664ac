package mentoria

import "github.com/mentoria-hub/mentoria-hub/internal/domain/shared"

// Transition names an operation of the session state machine.
type Transition string

const (
	TransitionConfirm        Transition = "confirm"
	TransitionCheckin        Transition = "checkin"
	TransitionSaveDiagnostic Transition = "save_diagnostic"
	TransitionCheckout       Transition = "checkout"
	TransitionReschedule     Transition = "reschedule"
	TransitionCancel         Transition = "cancel"
)

type rule struct {
	from []Status
	// to is empty when the transition leaves status unchanged.
	to Status
}

var rules = map[Transition]rule{
	TransitionConfirm:        {from: []Status{StatusAvailable}, to: StatusConfirmed},
	TransitionCheckin:        {from: []Status{StatusConfirmed}, to: StatusInProgress},
	TransitionSaveDiagnostic: {from: []Status{StatusInProgress}},
	TransitionCheckout:       {from: []Status{StatusInProgress}, to: StatusFinalized},
	TransitionReschedule:     {from: []Status{StatusAvailable, StatusConfirmed}},
	TransitionCancel:         {from: []Status{StatusAvailable, StatusConfirmed, StatusInProgress}, to: StatusCancelled},
}

// Transitions lists every transition in a stable order.
func Transitions() []Transition {
	return []Transition{
		TransitionConfirm,
		TransitionCheckin,
		TransitionSaveDiagnostic,
		TransitionCheckout,
		TransitionReschedule,
		TransitionCancel,
	}
}

// AllowedFrom returns the source statuses of t. The result must not be
// modified.
func AllowedFrom(t Transition) []Status {
	return rules[t].from
}

// Target returns the status t moves to. ok is false when t keeps the current
// status or is unknown.
func Target(t Transition) (Status, bool) {
	r, found := rules[t]
	if !found || r.to == "" {
		return "", false
	}
	return r.to, true
}

// Allows reports whether t may be applied from status.
func Allows(t Transition, status Status) bool {
	for _, s := range rules[t].from {
		if s == status {
			return true
		}
	}
	return false
}

// Guard returns a *shared.TransitionError when t is not allowed from the
// session's current status.
func (s *Session) Guard(t Transition) error {
	if Allows(t, s.Status) {
		return nil
	}
	return Rejected(s.ID, s.Status, t)
}

// Rejected builds the error for a refused transition.
func Rejected(id string, current Status, t Transition) error {
	return &shared.TransitionError{
		Entity:    "mentoria",
		ID:        id,
		Current:   string(current),
		Attempted: string(t),
	}
}
