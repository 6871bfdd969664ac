package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentoria-hub/mentoria-hub/internal/application"
	"github.com/mentoria-hub/mentoria-hub/internal/application/command"
	"github.com/mentoria-hub/mentoria-hub/internal/infrastructure/persistence/memory"
)

const catalogYAML = `
materiais:
  - titulo: Protocolo de mentoria
    tipo: PDF
    obrigatorio: true
    ordem: 1
  - titulo: Boas-vindas
    tipo: VIDEO
    obrigatorio: true
    ordem: 2
    duracao_segundos: 420
  - titulo: Leituras extras
    tipo: LINK
    ordem: 3
    url: https://example.com/leituras
`

func newServices() *application.Services {
	st := memory.NewStore()
	return application.NewServices(application.Repositories{
		Materials:  st.Materials,
		Progress:   st.Progress,
		Mentors:    st.Mentors,
		Businesses: st.Businesses,
		Sessions:   st.Sessions,
	}, command.Runtime{})
}

func TestParseCatalog(t *testing.T) {
	items, err := parseCatalog(strings.NewReader(catalogYAML))
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Boas-vindas", items[1].Title)
	assert.Equal(t, 420, items[1].DurationSeconds)
	assert.False(t, items[2].Mandatory)

	_, err = parseCatalog(strings.NewReader("materiais:\n  - titel: typo\n"))
	assert.Error(t, err)

	_, err = parseCatalog(strings.NewReader(""))
	assert.Error(t, err)
}

func TestSeedMaterials_UpsertsByOrder(t *testing.T) {
	ctx := context.Background()
	services := newServices()
	items, err := parseCatalog(strings.NewReader(catalogYAML))
	require.NoError(t, err)

	created, updated, err := seedMaterials(ctx, services, items)
	require.NoError(t, err)
	assert.Equal(t, 3, created)
	assert.Zero(t, updated)

	items[0].Title = "Protocolo de mentoria v2"
	created, updated, err = seedMaterials(ctx, services, items)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, 3, updated)

	list, err := services.ListMaterials.Handle(ctx, cliActor)
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	assert.Equal(t, "Protocolo de mentoria v2", list.Items[0].Title)
}

func TestSeedMaterials_StopsAtInvalidItem(t *testing.T) {
	items := []seedMaterial{
		{Title: "Ok", Type: "PDF", Order: 1},
		{Title: "", Type: "AUDIO", Order: 2},
	}

	created, _, err := seedMaterials(context.Background(), newServices(), items)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "material 2")
	assert.Equal(t, 1, created)
}
