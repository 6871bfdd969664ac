package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/business"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/material"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

func TestBusinessRepository_AssignmentHistory(t *testing.T) {
	ctx := context.Background()
	repo := NewBusinessRepository()
	b, err := business.New("b1", "Padaria Sol", now)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.AssignMentor(ctx, "b1", "m1", "primeira atribuição", now)
	require.NoError(t, err)
	assert.Equal(t, business.StatusActive, got.Status)
	assert.Equal(t, "m1", got.MentorIDOrEmpty())

	_, err = repo.AssignMentor(ctx, "b1", "m2", "", now)
	assert.True(t, shared.IsConflict(err))

	got, err = repo.UnassignMentor(ctx, "b1", "mentor saiu", now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, got.HasMentor())
	assert.Equal(t, business.StatusMentorPending, got.Status)

	_, err = repo.UnassignMentor(ctx, "b1", "again", now)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	_, err = repo.AssignMentor(ctx, "b1", "m2", "", now.Add(2*time.Hour))
	require.NoError(t, err)

	hist, err := repo.History(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "m2", hist[0].MentorID)
	assert.Nil(t, hist[0].UnassignedAt)
	assert.Equal(t, "mentor saiu", hist[1].Reason)

	list, err := repo.List(ctx, business.ListFilter{MentorID: "m2"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMaterialRepository_UniqueOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMaterialRepository()

	require.NoError(t, repo.Create(ctx, &material.Material{ID: "a", Order: 1}))
	assert.ErrorIs(t, repo.Create(ctx, &material.Material{ID: "b", Order: 1}), shared.ErrConflict)
	require.NoError(t, repo.Create(ctx, &material.Material{ID: "b", Order: 2}))

	assert.ErrorIs(t, repo.Update(ctx, &material.Material{ID: "b", Order: 1}), shared.ErrConflict)
	assert.NoError(t, repo.Update(ctx, &material.Material{ID: "b", Order: 2, Title: "novo"}))
	assert.True(t, shared.IsNotFound(repo.Update(ctx, &material.Material{ID: "zz", Order: 9})))
}
