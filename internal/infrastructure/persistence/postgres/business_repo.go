package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/business"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

// BusinessRepository implements business.Repository.
type BusinessRepository struct {
	conn *Connection
}

// NewBusinessRepository creates a new BusinessRepository.
func NewBusinessRepository(conn *Connection) *BusinessRepository {
	return &BusinessRepository{conn: conn}
}

const businessColumns = `id, nome, status, mentor_id, atribuido_em, observacoes, criado_em, atualizado_em`

// Create implements business.Repository.
func (r *BusinessRepository) Create(ctx context.Context, b *business.Business) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO negocios (`+businessColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.Name, string(b.Status), b.MentorID, b.AssignedAt, b.Notes, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.NewDomainError("business", "Create", shared.ErrConflict, "business already exists")
		}
		return fmt.Errorf("failed to create business: %w", err)
	}
	return nil
}

// GetByID implements business.Repository.
func (r *BusinessRepository) GetByID(ctx context.Context, id string) (*business.Business, error) {
	b, err := scanBusiness(r.conn.QueryRow(ctx, `SELECT `+businessColumns+` FROM negocios WHERE id = $1`, id))
	if IsNoRows(err) {
		return nil, shared.ErrBusinessNotFound
	}
	return b, err
}

// List implements business.Repository.
func (r *BusinessRepository) List(ctx context.Context, filter business.ListFilter) ([]*business.Business, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.MentorID != "" {
		args = append(args, filter.MentorID)
		where = append(where, fmt.Sprintf("mentor_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + businessColumns + ` FROM negocios`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY lower(nome), id"

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}
	defer rows.Close()

	var out []*business.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// AssignMentor implements business.Repository. The conditional UPDATE only
// matches an unassigned business; the history row is written in the same
// transaction.
func (r *BusinessRepository) AssignMentor(ctx context.Context, id, mentorID, notes string, at time.Time) (*business.Business, error) {
	var out *business.Business
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		b, err := scanBusiness(tx.QueryRow(ctx, `
			UPDATE negocios
			SET mentor_id = $2, status = $3, atribuido_em = $4, observacoes = $5, atualizado_em = $4
			WHERE id = $1 AND mentor_id IS NULL
			RETURNING `+businessColumns,
			id, mentorID, string(business.StatusActive), at, notes))
		if IsNoRows(err) {
			return r.missOrConflict(ctx, tx, id, shared.ErrAlreadyAssigned)
		}
		if err != nil {
			if IsForeignKeyViolation(err) {
				return shared.ErrMentorNotFound
			}
			return fmt.Errorf("failed to assign mentor: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO negocio_atribuicoes (negocio_id, mentor_id, atribuido_em, observacoes)
			VALUES ($1, $2, $3, $4)`, id, mentorID, at, notes); err != nil {
			return fmt.Errorf("failed to record assignment: %w", err)
		}
		out = b
		return nil
	})
	return out, err
}

// UnassignMentor implements business.Repository.
func (r *BusinessRepository) UnassignMentor(ctx context.Context, id, reason string, at time.Time) (*business.Business, error) {
	var out *business.Business
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		b, err := scanBusiness(tx.QueryRow(ctx, `
			UPDATE negocios
			SET mentor_id = NULL, atribuido_em = NULL, status = $2, atualizado_em = $3
			WHERE id = $1 AND mentor_id IS NOT NULL
			RETURNING `+businessColumns,
			id, string(business.StatusMentorPending), at))
		if IsNoRows(err) {
			return r.missOrConflict(ctx, tx, id, shared.ErrBusinessUnassigned)
		}
		if err != nil {
			return fmt.Errorf("failed to unassign mentor: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE negocio_atribuicoes SET desatribuido_em = $2, motivo = $3
			WHERE negocio_id = $1 AND desatribuido_em IS NULL`, id, at, reason); err != nil {
			return fmt.Errorf("failed to close assignment: %w", err)
		}
		out = b
		return nil
	})
	return out, err
}

// missOrConflict tells a missing business apart from one that failed the
// update condition.
func (r *BusinessRepository) missOrConflict(ctx context.Context, q Querier, id string, conflict error) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM negocios WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check business: %w", err)
	}
	if !exists {
		return shared.ErrBusinessNotFound
	}
	return conflict
}

// History implements business.Repository.
func (r *BusinessRepository) History(ctx context.Context, id string) ([]*business.Assignment, error) {
	if err := r.missOrConflict(ctx, r.conn, id, nil); err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(ctx, `
		SELECT negocio_id, mentor_id, atribuido_em, observacoes, desatribuido_em, motivo
		FROM negocio_atribuicoes
		WHERE negocio_id = $1
		ORDER BY atribuido_em DESC, id DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var out []*business.Assignment
	for rows.Next() {
		var a business.Assignment
		if err := rows.Scan(&a.BusinessID, &a.MentorID, &a.AssignedAt, &a.Notes, &a.UnassignedAt, &a.Reason); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func scanBusiness(row pgx.Row) (*business.Business, error) {
	var b business.Business
	var status string
	if err := row.Scan(&b.ID, &b.Name, &status, &b.MentorID, &b.AssignedAt, &b.Notes, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Status = business.Status(status)
	return &b, nil
}
