// Package mentoria holds the mentoring session aggregate: its state machine,
// the end-of-session checkout and the persistence port that applies every
// transition atomically.
package mentoria

import (
	"strings"
	"time"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

// Duration bounds for a session, in minutes.
const (
	MinDurationMinutes = 15
	MaxDurationMinutes = 480
)

// Type distinguishes the first session of a business from follow-ups.
type Type string

const (
	TypeFirst    Type = "PRIMEIRA"
	TypeFollowUp Type = "FOLLOWUP"
)

// Status is the lifecycle status of a session.
type Status string

const (
	StatusAvailable  Status = "DISPONIVEL"
	StatusConfirmed  Status = "CONFIRMADA"
	StatusInProgress Status = "EM_ANDAMENTO"
	StatusFinalized  Status = "FINALIZADA"
	StatusCancelled  Status = "CANCELADA"
)

// ActiveStatuses are the statuses that block scheduling another session for
// the same business.
var ActiveStatuses = []Status{StatusAvailable, StatusConfirmed, StatusInProgress}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusConfirmed, StatusInProgress, StatusFinalized, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusFinalized || s == StatusCancelled
}

// IsActive reports whether s counts as the business's open session.
func (s Status) IsActive() bool {
	return s.IsValid() && !s.IsTerminal()
}

// Session is one scheduled mentoring engagement between a mentor and a
// business. MentorID is the business's mentor at scheduling time.
type Session struct {
	ID                 string     `json:"id"`
	BusinessID         string     `json:"negocio_id"`
	MentorID           string     `json:"mentor_id"`
	Type               Type       `json:"tipo"`
	Status             Status     `json:"status"`
	ScheduledAt        time.Time  `json:"data_agendada"`
	DurationMinutes    int        `json:"duracao_minutos"`
	ConfirmedAt        *time.Time `json:"confirmada_em,omitempty"`
	CheckinAt          *time.Time `json:"checkin_em,omitempty"`
	FinalizedAt        *time.Time `json:"finalizada_em,omitempty"`
	CancelledAt        *time.Time `json:"cancelada_em,omitempty"`
	CancellationReason string     `json:"motivo_cancelamento,omitempty"`
	CreatedAt          time.Time  `json:"criado_em"`
	UpdatedAt          time.Time  `json:"atualizado_em"`
}

// ScheduleParams holds the inputs of a new session.
type ScheduleParams struct {
	ID              string
	BusinessID      string
	MentorID        string
	Type            Type
	ScheduledAt     time.Time
	DurationMinutes int
	Now             time.Time
}

// NewSession validates p and returns a session in DISPONIVEL.
func NewSession(p ScheduleParams) (*Session, error) {
	var fields []string
	if p.ID == "" {
		fields = append(fields, "id")
	}
	if strings.TrimSpace(p.BusinessID) == "" {
		fields = append(fields, "negocio_id")
	}
	if strings.TrimSpace(p.MentorID) == "" {
		fields = append(fields, "mentor_id")
	}
	if p.Type != TypeFirst && p.Type != TypeFollowUp {
		fields = append(fields, "tipo")
	}
	fields = append(fields, scheduleFields(p.ScheduledAt, p.DurationMinutes)...)
	if len(fields) > 0 {
		return nil, shared.NewValidationError("Schedule", "invalid session", fields...)
	}

	return &Session{
		ID:              p.ID,
		BusinessID:      p.BusinessID,
		MentorID:        p.MentorID,
		Type:            p.Type,
		Status:          StatusAvailable,
		ScheduledAt:     p.ScheduledAt.UTC(),
		DurationMinutes: p.DurationMinutes,
		CreatedAt:       p.Now,
		UpdatedAt:       p.Now,
	}, nil
}

// ValidateSchedule checks a scheduled date and duration.
func ValidateSchedule(op string, at time.Time, durationMinutes int) error {
	if fields := scheduleFields(at, durationMinutes); len(fields) > 0 {
		return shared.NewValidationError(op, "invalid schedule", fields...)
	}
	return nil
}

func scheduleFields(at time.Time, durationMinutes int) []string {
	var fields []string
	if at.IsZero() {
		fields = append(fields, "data_agendada")
	}
	if durationMinutes < MinDurationMinutes || durationMinutes > MaxDurationMinutes {
		fields = append(fields, "duracao_minutos")
	}
	return fields
}

// Confirm moves DISPONIVEL to CONFIRMADA.
func (s *Session) Confirm(now time.Time) error {
	if err := s.Guard(TransitionConfirm); err != nil {
		return err
	}
	now = s.NotBefore(now)
	s.Status = StatusConfirmed
	s.ConfirmedAt = &now
	s.UpdatedAt = now
	return nil
}

// CheckIn moves CONFIRMADA to EM_ANDAMENTO.
func (s *Session) CheckIn(now time.Time) error {
	if err := s.Guard(TransitionCheckin); err != nil {
		return err
	}
	now = s.NotBefore(now)
	s.Status = StatusInProgress
	s.CheckinAt = &now
	s.UpdatedAt = now
	return nil
}

// Finalize moves EM_ANDAMENTO to FINALIZADA.
func (s *Session) Finalize(now time.Time) error {
	if err := s.Guard(TransitionCheckout); err != nil {
		return err
	}
	now = s.NotBefore(now)
	s.Status = StatusFinalized
	s.FinalizedAt = &now
	s.UpdatedAt = now
	return nil
}

// NotBefore returns now, or the latest lifecycle timestamp already recorded
// when that is later. Transition stamps stay ordered even when instances
// disagree on the clock.
func (s *Session) NotBefore(now time.Time) time.Time {
	latest := s.CreatedAt
	for _, t := range []*time.Time{s.ConfirmedAt, s.CheckinAt} {
		if t != nil && t.After(latest) {
			latest = *t
		}
	}
	if now.Before(latest) {
		return latest
	}
	return now
}

// Reschedule changes the date and duration while DISPONIVEL or CONFIRMADA.
func (s *Session) Reschedule(at time.Time, durationMinutes int, now time.Time) error {
	if err := s.Guard(TransitionReschedule); err != nil {
		return err
	}
	if err := ValidateSchedule("Reschedule", at, durationMinutes); err != nil {
		return err
	}
	s.ScheduledAt = at.UTC()
	s.DurationMinutes = durationMinutes
	s.UpdatedAt = now
	return nil
}

// Cancel moves any non-terminal session to CANCELADA.
func (s *Session) Cancel(reason string, now time.Time) error {
	if err := s.Guard(TransitionCancel); err != nil {
		return err
	}
	now = s.NotBefore(now)
	s.Status = StatusCancelled
	s.CancelledAt = &now
	s.CancellationReason = strings.TrimSpace(reason)
	s.UpdatedAt = now
	return nil
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	c := *s
	c.ConfirmedAt = cloneTime(s.ConfirmedAt)
	c.CheckinAt = cloneTime(s.CheckinAt)
	c.FinalizedAt = cloneTime(s.FinalizedAt)
	c.CancelledAt = cloneTime(s.CancelledAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
