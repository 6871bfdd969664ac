package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/business"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

func TestAssignMentor_UnqualifiedAlwaysFails(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(7)
	m := f.mentor("mentor-1")

	// Every material done but protocol not accepted.
	h := NewCompleteMaterialHandler(f.store.Mentors, f.store.Materials, f.store.Progress, f.rt)
	for _, id := range []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7"} {
		_, err := h.Handle(f.ctx, CompleteMaterialCommand{Actor: m, MentorID: m.ID, MaterialID: id})
		require.NoError(t, err)
	}

	b, err := NewCreateBusinessHandler(f.store.Businesses, f.rt).Handle(f.ctx, CreateBusinessCommand{Actor: admin, Name: "Oficina Norte"})
	require.NoError(t, err)
	assert.Equal(t, business.StatusMentorPending, b.Status)

	assign := NewAssignMentorHandler(f.store.Businesses, f.evaluator(), f.rt)
	_, err = assign.Handle(f.ctx, AssignMentorCommand{Actor: admin, BusinessID: b.ID, MentorID: m.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrNotQualified)
	assert.Contains(t, err.Error(), "Complete protocol acceptance")

	stored, _ := f.store.Businesses.GetByID(f.ctx, b.ID)
	assert.False(t, stored.HasMentor())
}

func TestAssignMentor_SuccessThenConflict(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(2)
	m := f.mentor("mentor-1")
	f.qualify(m)

	b := f.assignedBusiness(m)
	assert.Equal(t, business.StatusActive, b.Status)
	assert.Equal(t, now, *b.AssignedAt)

	other := f.mentor("mentor-2")
	f.qualify(other)
	_, err := NewAssignMentorHandler(f.store.Businesses, f.evaluator(), f.rt).Handle(f.ctx, AssignMentorCommand{
		Actor: admin, BusinessID: b.ID, MentorID: other.ID,
	})
	assert.True(t, shared.IsConflict(err))

	_, err = NewAssignMentorHandler(f.store.Businesses, f.evaluator(), f.rt).Handle(f.ctx, AssignMentorCommand{
		Actor: m, BusinessID: b.ID, MentorID: m.ID,
	})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestUnassignMentor(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(1)
	m := f.mentor("mentor-1")
	f.qualify(m)
	b := f.assignedBusiness(m)

	h := NewUnassignMentorHandler(f.store.Businesses, f.rt)
	_, err := h.Handle(f.ctx, UnassignMentorCommand{Actor: admin, BusinessID: b.ID, Reason: "  "})
	assert.True(t, shared.IsValidation(err))

	got, err := h.Handle(f.ctx, UnassignMentorCommand{Actor: admin, BusinessID: b.ID, Reason: "mudança de região"})
	require.NoError(t, err)
	assert.False(t, got.HasMentor())
	assert.Equal(t, business.StatusMentorPending, got.Status)

	hist, err := f.store.Businesses.History(f.ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "mudança de região", hist[0].Reason)

	assert.Contains(t, f.pub.types(), shared.EventMentorUnassigned)
}
