package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/material"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentor"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/progress"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MATERIAL REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// MaterialRepository implements material.Repository.
type MaterialRepository struct {
	conn *Connection
}

// NewMaterialRepository creates a new MaterialRepository.
func NewMaterialRepository(conn *Connection) *MaterialRepository {
	return &MaterialRepository{conn: conn}
}

const materialColumns = `id, titulo, descricao, tipo, obrigatorio, ordem, url,
	tamanho_bytes, duracao_segundos, criado_em, atualizado_em`

// Create implements material.Repository.
func (r *MaterialRepository) Create(ctx context.Context, m *material.Material) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO materiais (`+materialColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.Title, m.Description, string(m.Type), m.Mandatory, m.Order, m.URL,
		m.SizeBytes, m.DurationSeconds, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return mapMaterialError("Create", err)
	}
	return nil
}

// Update implements material.Repository.
func (r *MaterialRepository) Update(ctx context.Context, m *material.Material) error {
	tag, err := r.conn.Exec(ctx, `
		UPDATE materiais
		SET titulo = $2, descricao = $3, tipo = $4, obrigatorio = $5, ordem = $6, url = $7,
		    tamanho_bytes = $8, duracao_segundos = $9, atualizado_em = $10
		WHERE id = $1`,
		m.ID, m.Title, m.Description, string(m.Type), m.Mandatory, m.Order, m.URL,
		m.SizeBytes, m.DurationSeconds, m.UpdatedAt,
	)
	if err != nil {
		return mapMaterialError("Update", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrMaterialNotFound
	}
	return nil
}

// GetByID implements material.Repository.
func (r *MaterialRepository) GetByID(ctx context.Context, id string) (*material.Material, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+materialColumns+` FROM materiais WHERE id = $1`, id)
	m, err := scanMaterial(row)
	if IsNoRows(err) {
		return nil, shared.ErrMaterialNotFound
	}
	return m, err
}

// List implements material.Repository.
func (r *MaterialRepository) List(ctx context.Context) ([]*material.Material, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+materialColumns+` FROM materiais ORDER BY ordem, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	defer rows.Close()

	var out []*material.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMaterial(row pgx.Row) (*material.Material, error) {
	var m material.Material
	var typ string
	err := row.Scan(&m.ID, &m.Title, &m.Description, &typ, &m.Mandatory, &m.Order, &m.URL,
		&m.SizeBytes, &m.DurationSeconds, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.Type = material.Type(typ)
	return &m, nil
}

func mapMaterialError(op string, err error) error {
	switch {
	case violatedConstraint(err) == constraintMaterialOrder:
		return shared.ErrDuplicateOrder
	case IsUniqueViolation(err):
		return shared.NewDomainError("material", op, shared.ErrConflict, "material already exists")
	default:
		return fmt.Errorf("failed to %s material: %w", op, err)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// ProgressRepository implements progress.Repository.
type ProgressRepository struct {
	conn *Connection
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(conn *Connection) *ProgressRepository {
	return &ProgressRepository{conn: conn}
}

const progressColumns = `mentor_id, material_id, iniciado, concluido, iniciado_em, concluido_em, avaliacao, feedback`

// Get implements progress.Repository.
func (r *ProgressRepository) Get(ctx context.Context, mentorID, materialID string) (*progress.Progress, error) {
	row := r.conn.QueryRow(ctx, `
		SELECT `+progressColumns+` FROM progresso_materiais
		WHERE mentor_id = $1 AND material_id = $2`, mentorID, materialID)
	p, err := scanProgress(row)
	if IsNoRows(err) {
		return nil, nil
	}
	return p, err
}

// ListByMentor implements progress.Repository.
func (r *ProgressRepository) ListByMentor(ctx context.Context, mentorID string) ([]*progress.Progress, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT `+progressColumns+` FROM progresso_materiais
		WHERE mentor_id = $1 ORDER BY material_id`, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer rows.Close()

	var out []*progress.Progress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// StartIfAbsent implements progress.Repository. The no-op DO UPDATE makes
// RETURNING yield the surviving row when another start won the race.
func (r *ProgressRepository) StartIfAbsent(ctx context.Context, p *progress.Progress) (*progress.Progress, error) {
	row := r.conn.QueryRow(ctx, `
		INSERT INTO progresso_materiais (mentor_id, material_id, iniciado, iniciado_em)
		VALUES ($1, $2, TRUE, $3)
		ON CONFLICT (mentor_id, material_id) DO UPDATE SET mentor_id = EXCLUDED.mentor_id
		RETURNING `+progressColumns,
		p.MentorID, p.MaterialID, p.StartedAt,
	)
	stored, err := scanProgress(row)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return nil, shared.NewDomainError("progress", "Start", shared.ErrNotFound, "mentor or material not found")
		}
		return nil, fmt.Errorf("failed to start material: %w", err)
	}
	return stored, nil
}

// Save implements progress.Repository. A repeated completion keeps the first
// concluido_em.
func (r *ProgressRepository) Save(ctx context.Context, p *progress.Progress) (*progress.Progress, error) {
	stored, err := scanProgress(r.conn.QueryRow(ctx, `
		INSERT INTO progresso_materiais (`+progressColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (mentor_id, material_id) DO UPDATE SET
			iniciado = EXCLUDED.iniciado,
			concluido = EXCLUDED.concluido,
			iniciado_em = COALESCE(progresso_materiais.iniciado_em, EXCLUDED.iniciado_em),
			concluido_em = COALESCE(progresso_materiais.concluido_em, EXCLUDED.concluido_em),
			avaliacao = EXCLUDED.avaliacao,
			feedback = EXCLUDED.feedback
		RETURNING `+progressColumns,
		p.MentorID, p.MaterialID, p.Started, p.Completed, p.StartedAt, p.CompletedAt, p.Rating, p.Feedback,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}
	return stored, nil
}

func scanProgress(row pgx.Row) (*progress.Progress, error) {
	var p progress.Progress
	var rating *int16
	err := row.Scan(&p.MentorID, &p.MaterialID, &p.Started, &p.Completed, &p.StartedAt, &p.CompletedAt, &rating, &p.Feedback)
	if err != nil {
		return nil, err
	}
	if rating != nil {
		v := int(*rating)
		p.Rating = &v
	}
	return &p, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MENTOR REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// MentorRepository implements mentor.Repository.
type MentorRepository struct {
	conn *Connection
}

// NewMentorRepository creates a new MentorRepository.
func NewMentorRepository(conn *Connection) *MentorRepository {
	return &MentorRepository{conn: conn}
}

const mentorColumns = `id, nome, email, protocolo_aceito, protocolo_aceito_em, criado_em`

// Create implements mentor.Repository.
func (r *MentorRepository) Create(ctx context.Context, m *mentor.Mentor) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO mentores (`+mentorColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.Name, m.Email, m.ProtocolAccepted, m.ProtocolAcceptedAt, m.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrMentorExists
		}
		return fmt.Errorf("failed to create mentor: %w", err)
	}
	return nil
}

// GetByID implements mentor.Repository.
func (r *MentorRepository) GetByID(ctx context.Context, id string) (*mentor.Mentor, error) {
	m, err := scanMentor(r.conn.QueryRow(ctx, `SELECT `+mentorColumns+` FROM mentores WHERE id = $1`, id))
	if IsNoRows(err) {
		return nil, shared.ErrMentorNotFound
	}
	return m, err
}

// List implements mentor.Repository.
func (r *MentorRepository) List(ctx context.Context) ([]*mentor.Mentor, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+mentorColumns+` FROM mentores ORDER BY lower(nome), id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentors: %w", err)
	}
	defer rows.Close()

	var out []*mentor.Mentor
	for rows.Next() {
		m, err := scanMentor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AcceptProtocol implements mentor.Repository.
func (r *MentorRepository) AcceptProtocol(ctx context.Context, id string, at time.Time) (*mentor.Mentor, error) {
	m, err := scanMentor(r.conn.QueryRow(ctx, `
		UPDATE mentores
		SET protocolo_aceito = TRUE, protocolo_aceito_em = COALESCE(protocolo_aceito_em, $2)
		WHERE id = $1
		RETURNING `+mentorColumns, id, at))
	if IsNoRows(err) {
		return nil, shared.ErrMentorNotFound
	}
	return m, err
}

func scanMentor(row pgx.Row) (*mentor.Mentor, error) {
	var m mentor.Mentor
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.ProtocolAccepted, &m.ProtocolAcceptedAt, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
