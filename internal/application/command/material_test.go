package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/material"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
	"github.com/mentoria-hub/mentoria-hub/pkg/timeutil"
)

func TestStartMaterial_IdempotentKeepsFirstStartedAt(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(3)
	m := f.mentor("mentor-1")

	h := NewStartMaterialHandler(f.store.Mentors, f.store.Materials, f.store.Progress, f.rt)
	first, err := h.Handle(f.ctx, StartMaterialCommand{Actor: m, MentorID: m.ID, MaterialID: "m1"})
	require.NoError(t, err)
	assert.False(t, first.AlreadyStarted)

	later := f.rt
	later.Clock = timeutil.FixedClock(now.Add(time.Hour))
	h = NewStartMaterialHandler(f.store.Mentors, f.store.Materials, f.store.Progress, later)
	second, err := h.Handle(f.ctx, StartMaterialCommand{Actor: m, MentorID: m.ID, MaterialID: "m1"})
	require.NoError(t, err)
	assert.True(t, second.AlreadyStarted)
	assert.Equal(t, *first.Progress.StartedAt, *second.Progress.StartedAt)

	assert.Equal(t, []shared.EventType{shared.EventMaterialStarted}, f.pub.types())
}

func TestStartMaterial_LockedAndUnknown(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(3)
	m := f.mentor("mentor-1")
	h := NewStartMaterialHandler(f.store.Mentors, f.store.Materials, f.store.Progress, f.rt)

	_, err := h.Handle(f.ctx, StartMaterialCommand{Actor: m, MentorID: m.ID, MaterialID: "m2"})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	_, err = h.Handle(f.ctx, StartMaterialCommand{Actor: m, MentorID: m.ID, MaterialID: "nope"})
	assert.True(t, shared.IsNotFound(err))

	other := shared.Actor{ID: "mentor-2", Role: shared.RoleMentor}
	_, err = h.Handle(f.ctx, StartMaterialCommand{Actor: other, MentorID: m.ID, MaterialID: "m1"})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestCompleteMaterial_AutoStartsAndBypassesLock(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(3)
	m := f.mentor("mentor-1")

	h := NewCompleteMaterialHandler(f.store.Mentors, f.store.Materials, f.store.Progress, f.rt)
	res, err := h.Handle(f.ctx, CompleteMaterialCommand{Actor: m, MentorID: m.ID, MaterialID: "m3", Rating: intPtr(5), Feedback: " ótimo "})
	require.NoError(t, err)
	assert.True(t, res.Progress.Started)
	assert.True(t, res.Progress.Completed)
	assert.Equal(t, now, *res.Progress.CompletedAt)
	assert.Equal(t, "ótimo", res.Progress.Feedback)

	_, err = h.Handle(f.ctx, CompleteMaterialCommand{Actor: m, MentorID: m.ID, MaterialID: "m1", Rating: intPtr(6)})
	assert.True(t, shared.IsValidation(err))
	stored, _ := f.store.Progress.Get(f.ctx, m.ID, "m1")
	assert.Nil(t, stored)
}

func TestSaveMaterial_AdminOnlyAndUniqueOrder(t *testing.T) {
	f := newFixture(t)
	h := NewSaveMaterialHandler(f.store.Materials, f.rt)

	res, err := h.Handle(f.ctx, SaveMaterialCommand{Actor: admin, Title: "Protocolo", Type: material.TypePDF, Mandatory: true, Order: 1})
	require.NoError(t, err)
	assert.True(t, res.Created)

	_, err = h.Handle(f.ctx, SaveMaterialCommand{Actor: admin, Title: "Outro", Type: material.TypeLink, Order: 1})
	assert.True(t, shared.IsConflict(err))

	_, err = h.Handle(f.ctx, SaveMaterialCommand{Actor: shared.Actor{ID: "m", Role: shared.RoleMentor}, Title: "x", Type: material.TypeLink, Order: 2})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	upd, err := h.Handle(f.ctx, SaveMaterialCommand{Actor: admin, ID: res.Material.ID, Title: "Protocolo v2", Type: material.TypePDF, Mandatory: true, Order: 1})
	require.NoError(t, err)
	assert.False(t, upd.Created)
	assert.Equal(t, "Protocolo v2", upd.Material.Title)
}

func TestAcceptProtocol_KeepsFirstTimestamp(t *testing.T) {
	f := newFixture(t)
	m := f.mentor("mentor-1")

	first, err := NewAcceptProtocolHandler(f.store.Mentors, f.rt).Handle(f.ctx, AcceptProtocolCommand{Actor: m, MentorID: m.ID})
	require.NoError(t, err)

	later := f.rt
	later.Clock = timeutil.FixedClock(now.Add(24 * time.Hour))
	second, err := NewAcceptProtocolHandler(f.store.Mentors, later).Handle(f.ctx, AcceptProtocolCommand{Actor: admin, MentorID: m.ID})
	require.NoError(t, err)
	assert.Equal(t, *first.ProtocolAcceptedAt, *second.ProtocolAcceptedAt)
	assert.Equal(t, []shared.EventType{shared.EventProtocolAccepted}, f.pub.types())
}
