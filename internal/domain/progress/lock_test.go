package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/material"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func catalogOf(ids ...string) *material.Catalog {
	items := make([]*material.Material, len(ids))
	for i, id := range ids {
		items[i] = &material.Material{ID: id, Title: id, Type: material.TypePDF, Mandatory: true, Order: i + 1}
	}
	return material.NewCatalog(items)
}

func TestIsLocked(t *testing.T) {
	cat := catalogOf("m1", "m2", "m3")

	tests := []struct {
		name     string
		set      Set
		material string
		want     bool
	}{
		{"first material never locked", Set{}, "m1", false},
		{"previous not completed", Set{}, "m2", true},
		{"previous only started", NewSet([]*Progress{Start("x", "m1", t0)}), "m2", true},
		{"previous completed", NewSet([]*Progress{completed("m1")}), "m2", false},
		{"own progress started unlocks", NewSet([]*Progress{Start("x", "m3", t0)}), "m3", false},
		{"own progress completed unlocks", NewSet([]*Progress{completed("m3")}), "m3", false},
		{"unknown material", Set{}, "nope", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsLocked(cat, tc.set, tc.material))
		})
	}
}

func TestIsLocked_UsesCatalogOrderNotInsertionOrder(t *testing.T) {
	cat := material.NewCatalog([]*material.Material{
		{ID: "late", Order: 3, Type: material.TypeLink},
		{ID: "early", Order: 1, Type: material.TypeLink},
		{ID: "mid", Order: 2, Type: material.TypeLink},
	})

	set := NewSet([]*Progress{completed("early")})
	assert.False(t, IsLocked(cat, set, "mid"))
	assert.True(t, IsLocked(cat, set, "late"))
}

func TestComplete_AutoStartsAndKeepsFirstTimestamp(t *testing.T) {
	p := &Progress{MentorID: "x", MaterialID: "m1"}
	rating := 4

	p.Complete(CompleteParams{Rating: &rating, Feedback: " útil "}, t0)
	assert.True(t, p.Started)
	assert.True(t, p.Completed)
	assert.Equal(t, t0, *p.StartedAt)
	assert.Equal(t, t0, *p.CompletedAt)
	assert.Equal(t, "útil", p.Feedback)

	later := t0.Add(time.Hour)
	p.Complete(CompleteParams{}, later)
	assert.Equal(t, t0, *p.CompletedAt)
	assert.Equal(t, 4, *p.Rating)
}

func TestCompleteParams_Validate(t *testing.T) {
	for _, r := range []int{0, 6, -1} {
		r := r
		assert.Error(t, CompleteParams{Rating: &r}.Validate(), "rating %d", r)
	}
	for _, r := range []int{1, 3, 5} {
		r := r
		assert.NoError(t, CompleteParams{Rating: &r}.Validate(), "rating %d", r)
	}
	assert.NoError(t, CompleteParams{}.Validate())
}

func TestSummarize(t *testing.T) {
	cat := catalogOf("m1", "m2", "m3", "m4")
	set := NewSet([]*Progress{completed("m1"), Start("x", "m2", t0)})

	s := Summarize(cat, set)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Completed)
	assert.InDelta(t, 25.0, s.PercentComplete, 0.001)
	assert.Len(t, s.Items, 4)
	assert.False(t, s.Items[1].Locked)
	assert.True(t, s.Items[2].Locked)
	assert.True(t, s.Items[3].Locked)
}

func completed(materialID string) *Progress {
	p := Start("x", materialID, t0)
	p.Complete(CompleteParams{}, t0)
	return p
}
