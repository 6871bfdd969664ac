package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/diagnostic"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentoria"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

var now = time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC)

func schedule(t *testing.T, repo *MentoriaRepository, id, businessID string) *mentoria.Session {
	t.Helper()
	s, err := mentoria.NewSession(mentoria.ScheduleParams{
		ID: id, BusinessID: businessID, MentorID: "m1", Type: mentoria.TypeFirst,
		ScheduledAt: now, DurationMinutes: 60, Now: now,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), s))
	return s
}

func TestMentoriaRepository_OneActiveSessionPerBusiness(t *testing.T) {
	ctx := context.Background()
	repo := NewMentoriaRepository()
	schedule(t, repo, "s1", "b1")

	s2, _ := mentoria.NewSession(mentoria.ScheduleParams{ID: "s2", BusinessID: "b1", MentorID: "m1", Type: mentoria.TypeFirst, ScheduledAt: now, DurationMinutes: 60})
	assert.True(t, shared.IsConflict(repo.Create(ctx, s2)))

	_, err := repo.Transition(ctx, "s1", mentoria.TransitionCancel, "remarcado", now)
	require.NoError(t, err)
	assert.NoError(t, repo.Create(ctx, s2))
}

func TestMentoriaRepository_ConcurrentConfirmHasOneWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewMentoriaRepository()
	schedule(t, repo, "s1", "b1")

	var ok, rejected int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Transition(ctx, "s1", mentoria.TransitionConfirm, "", now)
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
	assert.Equal(t, int32(15), rejected)
}

func TestMentoriaRepository_TransitionErrors(t *testing.T) {
	ctx := context.Background()
	repo := NewMentoriaRepository()
	schedule(t, repo, "s1", "b1")

	_, err := repo.Transition(ctx, "missing", mentoria.TransitionConfirm, "", now)
	assert.True(t, shared.IsNotFound(err))

	_, err = repo.Transition(ctx, "s1", mentoria.TransitionCheckin, "", now)
	te, ok := shared.AsTransition(err)
	require.True(t, ok)
	assert.Equal(t, "DISPONIVEL", te.Current)

	s, _ := repo.GetByID(ctx, "s1")
	assert.Equal(t, mentoria.StatusAvailable, s.Status)
}

func TestMentoriaRepository_DiagnosticUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewMentoriaRepository()
	schedule(t, repo, "s1", "b1")

	_, err := repo.SaveDiagnostic(ctx, &diagnostic.Diagnostic{SessionID: "s1"}, now)
	assert.True(t, shared.IsInvalidTransition(err))

	_, err = repo.Transition(ctx, "s1", mentoria.TransitionConfirm, "", now)
	require.NoError(t, err)
	_, err = repo.Transition(ctx, "s1", mentoria.TransitionCheckin, "", now)
	require.NoError(t, err)

	_, err = repo.SaveDiagnostic(ctx, &diagnostic.Diagnostic{SessionID: "s1", Name: "Ana"}, now)
	require.NoError(t, err)
	saved, err := repo.SaveDiagnostic(ctx, &diagnostic.Diagnostic{SessionID: "s1", Name: "Ana Lima", Sector: "Varejo"}, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, now, saved.CreatedAt)

	got, err := repo.GetDiagnostic(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", got.Name)
	assert.Equal(t, "Varejo", got.Sector)
	assert.Len(t, repo.diagnostics, 1)
}

func TestMentoriaRepository_FinalizeIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := NewMentoriaRepository()
	schedule(t, repo, "s1", "b1")

	zero := 0
	c, err := mentoria.NewCheckout(mentoria.CheckoutParams{SessionScore: &zero, MentorScore: &zero, ProgramScore: &zero, NextSteps: mentoria.NextStepFinish})
	require.NoError(t, err)

	_, err = repo.Finalize(ctx, mentoria.FinalizeParams{SessionID: "s1", Checkout: c, At: now})
	assert.True(t, shared.IsInvalidTransition(err))

	_, _ = repo.Transition(ctx, "s1", mentoria.TransitionConfirm, "", now)
	_, _ = repo.Transition(ctx, "s1", mentoria.TransitionCheckin, "", now)

	boom := errors.New("diagnostic incomplete")
	_, err = repo.Finalize(ctx, mentoria.FinalizeParams{
		SessionID: "s1", Checkout: c, At: now,
		ValidateDiagnostic: func(d *diagnostic.Diagnostic) error {
			assert.Nil(t, d)
			return boom
		},
	})
	assert.ErrorIs(t, err, boom)
	_, err = repo.GetCheckout(ctx, "s1")
	assert.True(t, shared.IsNotFound(err))

	s, err := repo.Finalize(ctx, mentoria.FinalizeParams{SessionID: "s1", Checkout: c, At: now})
	require.NoError(t, err)
	assert.Equal(t, mentoria.StatusFinalized, s.Status)

	stored, err := repo.GetCheckout(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", stored.SessionID)

	n, _ := repo.CountFinalized(ctx, "b1")
	assert.Equal(t, 1, n)
}
