package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATOR
// ══════════════════════════════════════════════════════════════════════════════

// Migration is one versioned schema change.
type Migration struct {
	Version   int       `json:"version"`
	Name      string    `json:"name"`
	UpSQL     string    `json:"-"`
	DownSQL   string    `json:"-"`
	AppliedAt time.Time `json:"applied_at,omitempty"`
	IsApplied bool      `json:"applied"`
}

// Migrator applies the embedded migrations.
type Migrator struct {
	conn       *Connection
	migrations []Migration
	tableName  string
}

// NewMigrator creates a migrator with the embedded migrations.
func NewMigrator(conn *Connection) *Migrator {
	return &Migrator{
		conn:       conn,
		migrations: GetMigrations(),
		tableName:  "schema_migrations",
	}
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.conn.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, m.tableName))
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func (m *Migrator) applied(ctx context.Context) (map[int]time.Time, error) {
	rows, err := m.conn.Query(ctx, fmt.Sprintf("SELECT version, applied_at FROM %s ORDER BY version", m.tableName))
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var at time.Time
		if err := rows.Scan(&version, &at); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[version] = at
	}
	return applied, rows.Err()
}

// Migrate applies all pending migrations in version order and returns how
// many were applied.
func (m *Migrator) Migrate(ctx context.Context) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, mig := range m.migrations {
		if _, ok := applied[mig.Version]; ok {
			continue
		}
		err := m.conn.WithTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, fmt.Sprintf("INSERT INTO %s (version, name) VALUES ($1, $2)", m.tableName), mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return count, fmt.Errorf("%w: version %d: %v", ErrMigrationFailed, mig.Version, err)
		}
		count++
	}
	return count, nil
}

// Rollback reverts the last applied migration. It returns the reverted
// version, or 0 when nothing was applied.
func (m *Migrator) Rollback(ctx context.Context) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	last := 0
	for v := range applied {
		if v > last {
			last = v
		}
	}
	if last == 0 {
		return 0, nil
	}

	var target *Migration
	for i := range m.migrations {
		if m.migrations[i].Version == last {
			target = &m.migrations[i]
			break
		}
	}
	if target == nil || target.DownSQL == "" {
		return 0, fmt.Errorf("%w: missing down SQL for migration %d", ErrMigrationFailed, last)
	}

	err = m.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, target.DownSQL); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE version = $1", m.tableName), last)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%w: rollback %d: %v", ErrMigrationFailed, last, err)
	}
	return last, nil
}

// Status returns every known migration with its applied state.
func (m *Migrator) Status(ctx context.Context) ([]Migration, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Migration, len(m.migrations))
	copy(out, m.migrations)
	for i := range out {
		if at, ok := applied[out[i].Version]; ok {
			out[i].IsApplied = true
			out[i].AppliedAt = at
		}
	}
	return out, nil
}

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_catalog", UpSQL: migration001Up, DownSQL: migration001Down},
		{Version: 2, Name: "create_businesses", UpSQL: migration002Up, DownSQL: migration002Down},
		{Version: 3, Name: "create_mentorias", UpSQL: migration003Up, DownSQL: migration003Down},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: MENTORS AND MATERIAL CATALOG
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
CREATE TABLE IF NOT EXISTS mentores (
    id TEXT PRIMARY KEY,
    nome VARCHAR(200) NOT NULL,
    email VARCHAR(320) NOT NULL,
    protocolo_aceito BOOLEAN NOT NULL DEFAULT FALSE,
    protocolo_aceito_em TIMESTAMPTZ,
    criado_em TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CONSTRAINT mentores_email_key UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS materiais (
    id TEXT PRIMARY KEY,
    titulo VARCHAR(300) NOT NULL,
    descricao TEXT NOT NULL DEFAULT '',
    tipo VARCHAR(20) NOT NULL,
    obrigatorio BOOLEAN NOT NULL DEFAULT TRUE,
    ordem INTEGER NOT NULL,
    url TEXT NOT NULL DEFAULT '',
    tamanho_bytes BIGINT NOT NULL DEFAULT 0,
    duracao_segundos INTEGER NOT NULL DEFAULT 0,
    criado_em TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    atualizado_em TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CONSTRAINT materiais_ordem_key UNIQUE (ordem),
    CONSTRAINT valid_tipo CHECK (tipo IN ('PDF', 'VIDEO', 'LINK', 'PRESENTATION')),
    CONSTRAINT valid_ordem CHECK (ordem >= 0)
);

CREATE TABLE IF NOT EXISTS progresso_materiais (
    mentor_id TEXT NOT NULL REFERENCES mentores(id) ON DELETE CASCADE,
    material_id TEXT NOT NULL REFERENCES materiais(id) ON DELETE CASCADE,
    iniciado BOOLEAN NOT NULL DEFAULT FALSE,
    concluido BOOLEAN NOT NULL DEFAULT FALSE,
    iniciado_em TIMESTAMPTZ,
    concluido_em TIMESTAMPTZ,
    avaliacao SMALLINT,
    feedback TEXT NOT NULL DEFAULT '',

    PRIMARY KEY (mentor_id, material_id),
    CONSTRAINT concluido_implica_iniciado CHECK (NOT concluido OR iniciado),
    CONSTRAINT valid_avaliacao CHECK (avaliacao IS NULL OR avaliacao BETWEEN 1 AND 5)
);
`

const migration001Down = `
DROP TABLE IF EXISTS progresso_materiais;
DROP TABLE IF EXISTS materiais;
DROP TABLE IF EXISTS mentores;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: BUSINESSES AND ASSIGNMENT HISTORY
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
CREATE TABLE IF NOT EXISTS negocios (
    id TEXT PRIMARY KEY,
    nome VARCHAR(300) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'MENTOR_PENDENTE',
    mentor_id TEXT REFERENCES mentores(id),
    atribuido_em TIMESTAMPTZ,
    observacoes TEXT NOT NULL DEFAULT '',
    criado_em TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    atualizado_em TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_status CHECK (status IN ('ATIVO', 'INATIVO', 'MENTOR_PENDENTE', 'DESENGAJADO'))
);

CREATE INDEX IF NOT EXISTS idx_negocios_mentor_id ON negocios(mentor_id);

CREATE TABLE IF NOT EXISTS negocio_atribuicoes (
    id BIGSERIAL PRIMARY KEY,
    negocio_id TEXT NOT NULL REFERENCES negocios(id) ON DELETE CASCADE,
    mentor_id TEXT NOT NULL REFERENCES mentores(id),
    atribuido_em TIMESTAMPTZ NOT NULL,
    observacoes TEXT NOT NULL DEFAULT '',
    desatribuido_em TIMESTAMPTZ,
    motivo TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_negocio_atribuicoes_negocio ON negocio_atribuicoes(negocio_id, atribuido_em DESC);
`

const migration002Down = `
DROP TABLE IF EXISTS negocio_atribuicoes;
DROP TABLE IF EXISTS negocios;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: MENTORIA SESSIONS, DIAGNOSTICS AND CHECKOUTS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
CREATE TABLE IF NOT EXISTS mentorias (
    id TEXT PRIMARY KEY,
    negocio_id TEXT NOT NULL REFERENCES negocios(id) ON DELETE CASCADE,
    mentor_id TEXT NOT NULL REFERENCES mentores(id),
    tipo VARCHAR(20) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'DISPONIVEL',
    data_agendada TIMESTAMPTZ NOT NULL,
    duracao_minutos INTEGER NOT NULL,
    confirmada_em TIMESTAMPTZ,
    checkin_em TIMESTAMPTZ,
    finalizada_em TIMESTAMPTZ,
    cancelada_em TIMESTAMPTZ,
    motivo_cancelamento TEXT NOT NULL DEFAULT '',
    criado_em TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    atualizado_em TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_tipo CHECK (tipo IN ('PRIMEIRA', 'FOLLOWUP')),
    CONSTRAINT valid_status CHECK (status IN ('DISPONIVEL', 'CONFIRMADA', 'EM_ANDAMENTO', 'FINALIZADA', 'CANCELADA')),
    CONSTRAINT valid_duracao CHECK (duracao_minutos BETWEEN 15 AND 480)
);

-- At most one active session per business.
CREATE UNIQUE INDEX IF NOT EXISTS mentorias_negocio_ativa_idx ON mentorias(negocio_id)
    WHERE status IN ('DISPONIVEL', 'CONFIRMADA', 'EM_ANDAMENTO');

CREATE INDEX IF NOT EXISTS idx_mentorias_mentor ON mentorias(mentor_id, data_agendada DESC);
CREATE INDEX IF NOT EXISTS idx_mentorias_negocio ON mentorias(negocio_id, data_agendada DESC);

CREATE TABLE IF NOT EXISTS diagnosticos (
    mentoria_id TEXT PRIMARY KEY REFERENCES mentorias(id) ON DELETE CASCADE,
    dados JSONB NOT NULL,
    criado_em TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    atualizado_em TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS checkouts (
    mentoria_id TEXT PRIMARY KEY REFERENCES mentorias(id) ON DELETE CASCADE,
    nota_mentoria SMALLINT NOT NULL,
    nota_mentor SMALLINT NOT NULL,
    nota_programa SMALLINT NOT NULL,
    observacoes TEXT NOT NULL DEFAULT '',
    proximos_passos VARCHAR(20) NOT NULL,
    criado_em TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_notas CHECK (
        nota_mentoria BETWEEN 0 AND 10 AND nota_mentor BETWEEN 0 AND 10 AND nota_programa BETWEEN 0 AND 10
    ),
    CONSTRAINT valid_proximos_passos CHECK (proximos_passos IN ('NOVA_MENTORIA', 'FINALIZAR'))
);
`

const migration003Down = `
DROP TABLE IF EXISTS checkouts;
DROP TABLE IF EXISTS diagnosticos;
DROP TABLE IF EXISTS mentorias;
`
