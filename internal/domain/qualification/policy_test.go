package qualification

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/material"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/progress"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// sevenMandatoryPlusOptional mirrors the onboarding track: 7 mandatory items
// and one optional extra.
func sevenMandatoryPlusOptional() *material.Catalog {
	var items []*material.Material
	for i := 1; i <= 7; i++ {
		items = append(items, &material.Material{ID: fmt.Sprintf("m%d", i), Type: material.TypeVideo, Mandatory: true, Order: i})
	}
	items = append(items, &material.Material{ID: "extra", Type: material.TypeLink, Mandatory: false, Order: 8})
	return material.NewCatalog(items)
}

func completeAll(ids ...string) progress.Set {
	var recs []*progress.Progress
	for _, id := range ids {
		p := progress.Start("mentor", id, now)
		p.Complete(progress.CompleteParams{}, now)
		recs = append(recs, p)
	}
	return progress.NewSet(recs)
}

func TestCompute_AllMandatoryButNoProtocol(t *testing.T) {
	st := Compute(sevenMandatoryPlusOptional(), completeAll("m1", "m2", "m3", "m4", "m5", "m6", "m7"), false)

	assert.False(t, st.Qualified)
	assert.Equal(t, []string{RequirementProtocol}, st.MissingRequirements)
	assert.Equal(t, 7, st.Completed)
	assert.Equal(t, 7, st.Total)
}

func TestCompute_Qualified(t *testing.T) {
	st := Compute(sevenMandatoryPlusOptional(), completeAll("m1", "m2", "m3", "m4", "m5", "m6", "m7"), true)

	assert.True(t, st.Qualified)
	assert.Empty(t, st.MissingRequirements)
}

func TestCompute_RemainingMaterials(t *testing.T) {
	st := Compute(sevenMandatoryPlusOptional(), completeAll("m1", "m2", "extra"), true)

	assert.False(t, st.Qualified)
	assert.Equal(t, []string{"Complete 5 remaining mandatory materials"}, st.MissingRequirements)
	assert.Equal(t, 2, st.Completed)

	st = Compute(sevenMandatoryPlusOptional(), completeAll("m1", "m2", "m3", "m4", "m5", "m6"), false)
	assert.Equal(t, []string{RequirementProtocol, "Complete 1 remaining mandatory material"}, st.MissingRequirements)
}

func TestCompute_StartedIsNotCompleted(t *testing.T) {
	cat := material.NewCatalog([]*material.Material{{ID: "only", Mandatory: true, Order: 1, Type: material.TypePDF}})
	set := progress.NewSet([]*progress.Progress{progress.Start("mentor", "only", now)})

	assert.False(t, Compute(cat, set, true).Qualified)
}

func TestCompute_OptionalAndForeignRecordsNeverFlip(t *testing.T) {
	cat := sevenMandatoryPlusOptional()
	base := completeAll("m1", "m2", "m3", "m4", "m5", "m6", "m7")
	want := Compute(cat, base, true)

	noisy := completeAll("m1", "m2", "m3", "m4", "m5", "m6", "m7", "extra", "deleted-material")
	rating := 1
	noisy["m3"].Rating = &rating
	noisy["m3"].Feedback = "ruim"

	assert.Equal(t, want.Qualified, Compute(cat, noisy, true).Qualified)
}

func TestCompute_EmptyCatalog(t *testing.T) {
	cat := material.NewCatalog(nil)

	assert.True(t, Compute(cat, progress.Set{}, true).Qualified)
	assert.False(t, Compute(cat, progress.Set{}, false).Qualified)
}
