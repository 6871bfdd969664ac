package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/diagnostic"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentoria"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

// MentoriaRepository implements mentoria.Repository.
type MentoriaRepository struct {
	conn *Connection
}

// NewMentoriaRepository creates a new MentoriaRepository.
func NewMentoriaRepository(conn *Connection) *MentoriaRepository {
	return &MentoriaRepository{conn: conn}
}

const sessionColumns = `id, negocio_id, mentor_id, tipo, status, data_agendada, duracao_minutos,
	confirmada_em, checkin_em, finalizada_em, cancelada_em, motivo_cancelamento, criado_em, atualizado_em`

// ─────────────────────────────────────────────────────────────────────────────
// Sessions
// ─────────────────────────────────────────────────────────────────────────────

// Create implements mentoria.Repository. The partial unique index on
// negocio_id rejects a second active session.
func (r *MentoriaRepository) Create(ctx context.Context, s *mentoria.Session) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO mentorias (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		s.ID, s.BusinessID, s.MentorID, string(s.Type), string(s.Status), s.ScheduledAt, s.DurationMinutes,
		s.ConfirmedAt, s.CheckinAt, s.FinalizedAt, s.CancelledAt, s.CancellationReason, s.CreatedAt, s.UpdatedAt,
	)
	switch {
	case err == nil:
		return nil
	case violatedConstraint(err) == constraintActiveSession:
		return shared.ErrActiveSession
	case IsUniqueViolation(err):
		return shared.NewDomainError("mentoria", "Create", shared.ErrConflict, "session already exists")
	case IsForeignKeyViolation(err):
		return shared.ErrBusinessNotFound
	default:
		return fmt.Errorf("failed to create session: %w", err)
	}
}

// GetByID implements mentoria.Repository.
func (r *MentoriaRepository) GetByID(ctx context.Context, id string) (*mentoria.Session, error) {
	return r.get(ctx, r.conn, id, "")
}

func (r *MentoriaRepository) get(ctx context.Context, q Querier, id, lock string) (*mentoria.Session, error) {
	s, err := scanSession(q.QueryRow(ctx, `SELECT `+sessionColumns+` FROM mentorias WHERE id = $1 `+lock, id))
	if IsNoRows(err) {
		return nil, shared.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// List implements mentoria.Repository.
func (r *MentoriaRepository) List(ctx context.Context, filter mentoria.ListFilter) ([]*mentoria.Session, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(cond string, v interface{}) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.BusinessID != "" {
		add("negocio_id = $%d", filter.BusinessID)
	}
	if filter.MentorID != "" {
		add("mentor_id = $%d", filter.MentorID)
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}

	query := `SELECT ` + sessionColumns + ` FROM mentorias`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY data_agendada DESC, id"

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []*mentoria.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountFinalized implements mentoria.Repository.
func (r *MentoriaRepository) CountFinalized(ctx context.Context, businessID string) (int, error) {
	var n int
	err := r.conn.QueryRow(ctx, `SELECT count(*) FROM mentorias WHERE negocio_id = $1 AND status = $2`,
		businessID, string(mentoria.StatusFinalized)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}

// transitionColumn is the timestamp column each status-changing transition
// stamps.
var transitionColumn = map[mentoria.Transition]string{
	mentoria.TransitionConfirm: "confirmada_em",
	mentoria.TransitionCheckin: "checkin_em",
	mentoria.TransitionCancel:  "cancelada_em",
}

// stampNotBefore mirrors Session.NotBefore in SQL. The right-hand side of SET
// reads the row as it was before the update.
const stampNotBefore = `GREATEST($4::timestamptz, criado_em, confirmada_em, checkin_em)`

// Transition implements mentoria.Repository as a compare-and-set on status.
// When no row matches, the session is re-read to report either not-found or
// the status that refused the transition.
func (r *MentoriaRepository) Transition(ctx context.Context, id string, t mentoria.Transition, reason string, at time.Time) (*mentoria.Session, error) {
	column, ok := transitionColumn[t]
	target, hasTarget := mentoria.Target(t)
	if !ok || !hasTarget {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, mentoria.Rejected(id, current.Status, t)
	}

	var motivo interface{}
	if t == mentoria.TransitionCancel {
		motivo = strings.TrimSpace(reason)
	}

	// GREATEST skips NULLs, so the stamp never precedes an earlier one
	// written by an instance with a faster clock.
	s, err := scanSession(r.conn.QueryRow(ctx, `
		UPDATE mentorias
		SET status = $3,
		    `+column+` = `+stampNotBefore+`,
		    atualizado_em = `+stampNotBefore+`,
		    motivo_cancelamento = COALESCE($5, motivo_cancelamento)
		WHERE id = $1 AND status = ANY($2)
		RETURNING `+sessionColumns,
		id, statusStrings(mentoria.AllowedFrom(t)), string(target), at, motivo))
	if IsNoRows(err) {
		return nil, r.rejected(ctx, r.conn, id, t)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply %s: %w", t, err)
	}
	return s, nil
}

// Reschedule implements mentoria.Repository.
func (r *MentoriaRepository) Reschedule(ctx context.Context, id string, scheduledAt time.Time, durationMinutes int, at time.Time) (*mentoria.Session, error) {
	var out *mentoria.Session
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		s, err := r.get(ctx, tx, id, "FOR UPDATE")
		if err != nil {
			return err
		}
		if err := s.Reschedule(scheduledAt, durationMinutes, at); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE mentorias SET data_agendada = $2, duracao_minutos = $3, atualizado_em = $4 WHERE id = $1`,
			id, s.ScheduledAt, s.DurationMinutes, s.UpdatedAt); err != nil {
			return fmt.Errorf("failed to reschedule session: %w", err)
		}
		out = s
		return nil
	})
	return out, err
}

func (r *MentoriaRepository) rejected(ctx context.Context, q Querier, id string, t mentoria.Transition) error {
	current, err := r.get(ctx, q, id, "")
	if err != nil {
		return err
	}
	return mentoria.Rejected(id, current.Status, t)
}

// ─────────────────────────────────────────────────────────────────────────────
// Diagnostic
// ─────────────────────────────────────────────────────────────────────────────

// SaveDiagnostic implements mentoria.Repository. The session row is held
// FOR SHARE so a concurrent checkout or cancel cannot slip between the guard
// and the upsert.
func (r *MentoriaRepository) SaveDiagnostic(ctx context.Context, d *diagnostic.Diagnostic, at time.Time) (*diagnostic.Diagnostic, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode diagnostic: %w", err)
	}

	var out *diagnostic.Diagnostic
	err = r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		s, err := r.get(ctx, tx, d.SessionID, "FOR SHARE")
		if err != nil {
			return err
		}
		if err := s.Guard(mentoria.TransitionSaveDiagnostic); err != nil {
			return err
		}

		stored, err := scanDiagnostic(tx.QueryRow(ctx, `
			INSERT INTO diagnosticos (mentoria_id, dados, criado_em, atualizado_em)
			VALUES ($1, $2, $3, $3)
			ON CONFLICT (mentoria_id) DO UPDATE SET dados = EXCLUDED.dados, atualizado_em = EXCLUDED.atualizado_em
			RETURNING mentoria_id, dados, criado_em, atualizado_em`,
			d.SessionID, data, at))
		if err != nil {
			return fmt.Errorf("failed to save diagnostic: %w", err)
		}
		out = stored
		return nil
	})
	return out, err
}

// GetDiagnostic implements mentoria.Repository.
func (r *MentoriaRepository) GetDiagnostic(ctx context.Context, sessionID string) (*diagnostic.Diagnostic, error) {
	return r.getDiagnostic(ctx, r.conn, sessionID)
}

func (r *MentoriaRepository) getDiagnostic(ctx context.Context, q Querier, sessionID string) (*diagnostic.Diagnostic, error) {
	d, err := scanDiagnostic(q.QueryRow(ctx, `
		SELECT mentoria_id, dados, criado_em, atualizado_em FROM diagnosticos WHERE mentoria_id = $1`, sessionID))
	if IsNoRows(err) {
		return nil, shared.ErrDiagnosticNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get diagnostic: %w", err)
	}
	return d, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Checkout
// ─────────────────────────────────────────────────────────────────────────────

// Finalize implements mentoria.Repository. The session row is locked, the
// status guard and the diagnostic check run against the locked state, and
// the status change and checkout insert commit together.
func (r *MentoriaRepository) Finalize(ctx context.Context, p mentoria.FinalizeParams) (*mentoria.Session, error) {
	var out *mentoria.Session
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		s, err := r.get(ctx, tx, p.SessionID, "FOR UPDATE")
		if err != nil {
			return err
		}
		if err := s.Guard(mentoria.TransitionCheckout); err != nil {
			return err
		}

		if p.ValidateDiagnostic != nil {
			d, err := r.getDiagnostic(ctx, tx, p.SessionID)
			if err != nil && !shared.IsNotFound(err) {
				return err
			}
			if err := p.ValidateDiagnostic(d); err != nil {
				return err
			}
		}

		if err := s.Finalize(p.At); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE mentorias SET status = $2, finalizada_em = $3, atualizado_em = $3 WHERE id = $1`,
			s.ID, string(s.Status), *s.FinalizedAt); err != nil {
			return fmt.Errorf("failed to finalize session: %w", err)
		}

		c := p.Checkout
		if _, err := tx.Exec(ctx, `
			INSERT INTO checkouts (mentoria_id, nota_mentoria, nota_mentor, nota_programa, observacoes, proximos_passos, criado_em)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.SessionID, c.SessionScore, c.MentorScore, c.ProgramScore, c.Notes, string(c.NextSteps), *s.FinalizedAt); err != nil {
			if IsUniqueViolation(err) {
				return shared.NewDomainError("mentoria", "Checkout", shared.ErrConflict, "session already has a checkout")
			}
			return fmt.Errorf("failed to store checkout: %w", err)
		}
		out = s
		return nil
	})
	return out, err
}

// GetCheckout implements mentoria.Repository.
func (r *MentoriaRepository) GetCheckout(ctx context.Context, sessionID string) (*mentoria.Checkout, error) {
	var (
		c    mentoria.Checkout
		next string
	)
	err := r.conn.QueryRow(ctx, `
		SELECT mentoria_id, nota_mentoria, nota_mentor, nota_programa, observacoes, proximos_passos, criado_em
		FROM checkouts WHERE mentoria_id = $1`, sessionID).
		Scan(&c.SessionID, &c.SessionScore, &c.MentorScore, &c.ProgramScore, &c.Notes, &next, &c.CreatedAt)
	if IsNoRows(err) {
		return nil, shared.ErrCheckoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checkout: %w", err)
	}
	c.NextSteps = mentoria.NextStep(next)
	return &c, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

func scanSession(row pgx.Row) (*mentoria.Session, error) {
	var (
		s           mentoria.Session
		typ, status string
	)
	err := row.Scan(&s.ID, &s.BusinessID, &s.MentorID, &typ, &status, &s.ScheduledAt, &s.DurationMinutes,
		&s.ConfirmedAt, &s.CheckinAt, &s.FinalizedAt, &s.CancelledAt, &s.CancellationReason, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Type = mentoria.Type(typ)
	s.Status = mentoria.Status(status)
	s.ScheduledAt = s.ScheduledAt.UTC()
	return &s, nil
}

func scanDiagnostic(row pgx.Row) (*diagnostic.Diagnostic, error) {
	var (
		d         diagnostic.Diagnostic
		sessionID string
		data      []byte
		created   time.Time
		updated   time.Time
	)
	if err := row.Scan(&sessionID, &data, &created, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode diagnostic: %w", err)
	}
	d.SessionID = sessionID
	d.CreatedAt = created
	d.UpdatedAt = updated
	return &d, nil
}

func statusStrings(in []mentoria.Status) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
