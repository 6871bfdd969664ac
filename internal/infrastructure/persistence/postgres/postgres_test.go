package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentoria"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

func TestConfig_DSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Password = "secret"
	assert.Equal(t, "host=localhost port=5432 dbname=mentoria user=postgres password=secret sslmode=disable connect_timeout=10", cfg.DSN())

	cfg.URL = "postgres://u:p@db:5432/mentoria?sslmode=require"
	assert.Equal(t, cfg.URL, cfg.DSN())
}

func TestConfig_PoolConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxConns = 7

	pc, err := cfg.PoolConfig()
	require.NoError(t, err)
	assert.Equal(t, int32(7), pc.MaxConns)
	assert.Equal(t, time.Hour, pc.MaxConnLifetime)
}

func TestGetMigrations_OrderedAndReversible(t *testing.T) {
	migs := GetMigrations()
	require.NotEmpty(t, migs)
	for i, m := range migs {
		assert.Equal(t, i+1, m.Version)
		assert.NotEmpty(t, m.UpSQL, m.Name)
		assert.NotEmpty(t, m.DownSQL, m.Name)
	}
	assert.Contains(t, migs[2].UpSQL, constraintActiveSession)
	assert.Contains(t, migs[0].UpSQL, constraintMaterialOrder)
}

func TestErrorHelpers(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: constraintActiveSession}
	wrapped := fmt.Errorf("insert: %w", unique)

	assert.True(t, IsUniqueViolation(wrapped))
	assert.Equal(t, constraintActiveSession, violatedConstraint(wrapped))
	assert.False(t, IsForeignKeyViolation(wrapped))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsNoRows(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
	assert.Empty(t, violatedConstraint(errors.New("boom")))
}

func TestIsAuthFailure(t *testing.T) {
	assert.True(t, IsAuthFailure(fmt.Errorf("postgres: failed to ping database: %w", &pgconn.PgError{Code: "28P01"})))
	assert.True(t, IsAuthFailure(&pgconn.PgError{Code: "28000"}))
	assert.True(t, IsAuthFailure(&pgconn.PgError{Code: "3D000"}))

	assert.False(t, IsAuthFailure(&pgconn.PgError{Code: "57P03"}))
	assert.False(t, IsAuthFailure(errors.New("dial tcp: connection refused")))
	assert.False(t, IsAuthFailure(nil))
}

func TestMapMaterialError(t *testing.T) {
	err := mapMaterialError("Create", &pgconn.PgError{Code: "23505", ConstraintName: constraintMaterialOrder})
	assert.ErrorIs(t, err, shared.ErrDuplicateOrder)

	err = mapMaterialError("Create", &pgconn.PgError{Code: "23505", ConstraintName: "materiais_pkey"})
	assert.True(t, shared.IsConflict(err))
	assert.NotErrorIs(t, err, shared.ErrDuplicateOrder)
}

func TestTransitionColumns_CoverStatusChangingTransitions(t *testing.T) {
	for _, tr := range []mentoria.Transition{mentoria.TransitionConfirm, mentoria.TransitionCheckin, mentoria.TransitionCancel} {
		_, ok := transitionColumn[tr]
		assert.True(t, ok, tr)
		_, hasTarget := mentoria.Target(tr)
		assert.True(t, hasTarget, tr)
	}
	assert.Equal(t, []string{"DISPONIVEL", "CONFIRMADA"}, statusStrings(mentoria.AllowedFrom(mentoria.TransitionReschedule)))
}
