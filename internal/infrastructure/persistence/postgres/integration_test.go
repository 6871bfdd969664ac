package postgres

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/business"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/diagnostic"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/material"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentor"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentoria"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/progress"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

// These tests run against a real database and are skipped unless
// MENTORIA_TEST_DATABASE_URL points at one. Every table is truncated first.
const testDatabaseEnv = "MENTORIA_TEST_DATABASE_URL"

var t0 = time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv(testDatabaseEnv)
	if url == "" {
		t.Skipf("%s not set", testDatabaseEnv)
	}

	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.URL = url
	cfg.MaxConns = 20
	conn, err := NewConnection(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	_, err = NewMigrator(conn).Migrate(ctx)
	require.NoError(t, err)
	_, err = conn.Exec(ctx, `TRUNCATE checkouts, diagnosticos, mentorias, negocio_atribuicoes, negocios,
		progresso_materiais, materiais, mentores CASCADE`)
	require.NoError(t, err)

	return NewStore(conn)
}

// seedAssigned creates mentor m1 and business b1 assigned to it.
func seedAssigned(t *testing.T, st *Store) {
	t.Helper()
	ctx := context.Background()
	m, err := mentor.New("m1", "Carla", "carla@example.com", t0)
	require.NoError(t, err)
	require.NoError(t, st.Mentors.Create(ctx, m))
	b, err := business.New("b1", "Padaria Sol", t0)
	require.NoError(t, err)
	require.NoError(t, st.Businesses.Create(ctx, b))
	_, err = st.Businesses.AssignMentor(ctx, "b1", "m1", "", t0)
	require.NoError(t, err)
}

func createSession(t *testing.T, st *Store, id string) error {
	t.Helper()
	s, err := mentoria.NewSession(mentoria.ScheduleParams{
		ID: id, BusinessID: "b1", MentorID: "m1", Type: mentoria.TypeFirst,
		ScheduledAt: t0.Add(24 * time.Hour), DurationMinutes: 60, Now: t0,
	})
	require.NoError(t, err)
	return st.Sessions.Create(context.Background(), s)
}

func moveToInProgress(t *testing.T, st *Store, id string) {
	t.Helper()
	ctx := context.Background()
	_, err := st.Sessions.Transition(ctx, id, mentoria.TransitionConfirm, "", t0)
	require.NoError(t, err)
	_, err = st.Sessions.Transition(ctx, id, mentoria.TransitionCheckin, "", t0.Add(time.Minute))
	require.NoError(t, err)
}

func finishCheckout(t *testing.T) *mentoria.Checkout {
	t.Helper()
	eight := 8
	c, err := mentoria.NewCheckout(mentoria.CheckoutParams{
		SessionScore: &eight, MentorScore: &eight, ProgramScore: &eight, NextSteps: mentoria.NextStepFinish,
	})
	require.NoError(t, err)
	return c
}

func checkDiagnostic(d *diagnostic.Diagnostic) error {
	if r, ok := diagnostic.ValidateAll(d); !ok {
		return r.Err("Checkout")
	}
	return nil
}

func TestIntegration_ConcurrentConfirmHasOneWinner(t *testing.T) {
	st := openTestStore(t)
	seedAssigned(t, st)
	require.NoError(t, createSession(t, st, "s1"))

	var ok, rejected int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := st.Sessions.Transition(context.Background(), "s1", mentoria.TransitionConfirm, "", t0)
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case shared.IsInvalidTransition(err):
				atomic.AddInt32(&rejected, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok)
	assert.Equal(t, int32(9), rejected)

	s, err := st.Sessions.GetByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, mentoria.StatusConfirmed, s.Status)
}

func TestIntegration_TransitionRejectionNamesCurrentStatus(t *testing.T) {
	st := openTestStore(t)
	seedAssigned(t, st)
	require.NoError(t, createSession(t, st, "s1"))
	ctx := context.Background()

	_, err := st.Sessions.Transition(ctx, "s1", mentoria.TransitionCheckin, "", t0)
	te, ok := shared.AsTransition(err)
	require.True(t, ok)
	assert.Equal(t, string(mentoria.StatusAvailable), te.Current)
	assert.Equal(t, string(mentoria.TransitionCheckin), te.Attempted)

	_, err = st.Sessions.Transition(ctx, "missing", mentoria.TransitionConfirm, "", t0)
	assert.True(t, shared.IsNotFound(err))

	_, err = st.Sessions.Finalize(ctx, mentoria.FinalizeParams{SessionID: "s1", Checkout: finishCheckout(t), At: t0})
	assert.True(t, shared.IsInvalidTransition(err))
	_, err = st.Sessions.GetCheckout(ctx, "s1")
	assert.True(t, shared.IsNotFound(err))
}

func TestIntegration_SecondActiveSessionIsRejected(t *testing.T) {
	st := openTestStore(t)
	seedAssigned(t, st)
	ctx := context.Background()
	require.NoError(t, createSession(t, st, "s1"))

	_, err := st.Sessions.Transition(ctx, "s1", mentoria.TransitionConfirm, "", t0)
	require.NoError(t, err)

	err = createSession(t, st, "s2")
	assert.True(t, shared.IsConflict(err))
	assert.ErrorIs(t, err, shared.ErrActiveSession)

	_, err = st.Sessions.Transition(ctx, "s1", mentoria.TransitionCancel, "remarcado", t0)
	require.NoError(t, err)
	assert.NoError(t, createSession(t, st, "s2"))

	s, err := st.Sessions.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "remarcado", s.CancellationReason)
}

func TestIntegration_IncompleteDiagnosticLeavesNoCheckout(t *testing.T) {
	st := openTestStore(t)
	seedAssigned(t, st)
	ctx := context.Background()
	require.NoError(t, createSession(t, st, "s1"))

	_, err := st.Sessions.SaveDiagnostic(ctx, &diagnostic.Diagnostic{SessionID: "s1", Name: "Ana"}, t0)
	assert.True(t, shared.IsInvalidTransition(err))

	moveToInProgress(t, st, "s1")

	_, err = st.Sessions.SaveDiagnostic(ctx, &diagnostic.Diagnostic{SessionID: "s1", Name: "Ana"}, t0)
	require.NoError(t, err)
	saved, err := st.Sessions.SaveDiagnostic(ctx, &diagnostic.Diagnostic{SessionID: "s1", Name: "Ana Lima", MaturitySales: 3}, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, saved.CreatedAt.Equal(t0))

	got, err := st.Sessions.GetDiagnostic(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", got.Name)
	assert.Equal(t, 3, got.MaturitySales)

	_, err = st.Sessions.Finalize(ctx, mentoria.FinalizeParams{
		SessionID: "s1", Checkout: finishCheckout(t), At: t0.Add(time.Hour), ValidateDiagnostic: checkDiagnostic,
	})
	ve, ok := shared.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, 1, ve.Step)

	_, err = st.Sessions.GetCheckout(ctx, "s1")
	assert.True(t, shared.IsNotFound(err))
	s, err := st.Sessions.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, mentoria.StatusInProgress, s.Status)
	assert.Nil(t, s.FinalizedAt)
}

func TestIntegration_FinalizeCommitsStatusAndCheckout(t *testing.T) {
	st := openTestStore(t)
	seedAssigned(t, st)
	ctx := context.Background()
	require.NoError(t, createSession(t, st, "s1"))
	moveToInProgress(t, st, "s1")

	s, err := st.Sessions.Finalize(ctx, mentoria.FinalizeParams{SessionID: "s1", Checkout: finishCheckout(t), At: t0.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, mentoria.StatusFinalized, s.Status)

	c, err := st.Sessions.GetCheckout(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, mentoria.NextStepFinish, c.NextSteps)

	n, err := st.Sessions.CountFinalized(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIntegration_TransitionStampsNeverGoBackwards(t *testing.T) {
	st := openTestStore(t)
	seedAssigned(t, st)
	ctx := context.Background()
	require.NoError(t, createSession(t, st, "s1"))

	ahead := t0.Add(10 * time.Minute)
	_, err := st.Sessions.Transition(ctx, "s1", mentoria.TransitionConfirm, "", ahead)
	require.NoError(t, err)

	s, err := st.Sessions.Transition(ctx, "s1", mentoria.TransitionCheckin, "", t0.Add(time.Minute))
	require.NoError(t, err)
	require.NotNil(t, s.CheckinAt)
	assert.True(t, s.CheckinAt.Equal(ahead), "checkin_em = %s", s.CheckinAt)

	s, err = st.Sessions.Finalize(ctx, mentoria.FinalizeParams{SessionID: "s1", Checkout: finishCheckout(t), At: t0})
	require.NoError(t, err)
	assert.False(t, s.FinalizedAt.Before(*s.CheckinAt))
}

func TestIntegration_AssignMentorOnlyWhenUnassigned(t *testing.T) {
	st := openTestStore(t)
	seedAssigned(t, st)
	ctx := context.Background()

	other, err := mentor.New("m2", "Rui", "rui@example.com", t0)
	require.NoError(t, err)
	require.NoError(t, st.Mentors.Create(ctx, other))

	_, err = st.Businesses.AssignMentor(ctx, "b1", "m2", "", t0)
	assert.ErrorIs(t, err, shared.ErrAlreadyAssigned)

	b, err := st.Businesses.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "m1", b.MentorIDOrEmpty())

	_, err = st.Businesses.UnassignMentor(ctx, "b1", "troca de mentor", t0.Add(time.Hour))
	require.NoError(t, err)
	b, err = st.Businesses.AssignMentor(ctx, "b1", "m2", "", t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, business.StatusActive, b.Status)

	history, err := st.Businesses.History(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "m2", history[0].MentorID)
	assert.Equal(t, "troca de mentor", history[1].Reason)
}

func TestIntegration_ProgressKeepsFirstCompletion(t *testing.T) {
	st := openTestStore(t)
	seedAssigned(t, st)
	ctx := context.Background()

	m, err := material.NewMaterial(material.NewMaterialParams{ID: "a", Title: "Boas-vindas", Type: material.TypeVideo, Mandatory: true, Order: 1, Now: t0})
	require.NoError(t, err)
	require.NoError(t, st.Materials.Create(ctx, m))

	first := progress.Start("m1", "a", t0)
	first.Complete(progress.CompleteParams{}, t0)
	_, err = st.Progress.Save(ctx, first)
	require.NoError(t, err)

	later := t0.Add(time.Hour)
	again := progress.Start("m1", "a", later)
	rating := 5
	again.Complete(progress.CompleteParams{Rating: &rating, Feedback: "excelente"}, later)
	stored, err := st.Progress.Save(ctx, again)
	require.NoError(t, err)

	assert.True(t, stored.StartedAt.Equal(t0))
	assert.True(t, stored.CompletedAt.Equal(t0))
	require.NotNil(t, stored.Rating)
	assert.Equal(t, 5, *stored.Rating)
	assert.Equal(t, "excelente", stored.Feedback)
}
