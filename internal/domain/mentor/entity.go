// Package mentor holds the mentor registry and the protocol acceptance flag
// that feeds qualification.
package mentor

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

// Mentor is a person who runs mentoring sessions.
type Mentor struct {
	ID                 string     `json:"id"`
	Name               string     `json:"nome"`
	Email              string     `json:"email"`
	ProtocolAccepted   bool       `json:"protocolo_aceito"`
	ProtocolAcceptedAt *time.Time `json:"protocolo_aceito_em,omitempty"`
	CreatedAt          time.Time  `json:"criado_em"`
}

// New validates and builds a Mentor.
func New(id, name, email string, now time.Time) (*Mentor, error) {
	m := &Mentor{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: now,
	}

	var fields []string
	if m.ID == "" {
		fields = append(fields, "id")
	}
	if m.Name == "" {
		fields = append(fields, "nome")
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		fields = append(fields, "email")
	}
	if len(fields) > 0 {
		return nil, shared.NewValidationError("CreateMentor", "invalid mentor", fields...)
	}
	return m, nil
}

// AcceptProtocol sets the flag. The first acceptance time is kept.
func (m *Mentor) AcceptProtocol(now time.Time) {
	if m.ProtocolAccepted {
		return
	}
	m.ProtocolAccepted = true
	m.ProtocolAcceptedAt = &now
}

// Repository stores mentors.
type Repository interface {
	Create(ctx context.Context, m *Mentor) error
	GetByID(ctx context.Context, id string) (*Mentor, error)
	List(ctx context.Context) ([]*Mentor, error)

	// AcceptProtocol sets protocol_accepted for id if it is not yet set and
	// returns the stored mentor.
	AcceptProtocol(ctx context.Context, id string, at time.Time) (*Mentor, error)
}
