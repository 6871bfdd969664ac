package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mentoria-hub/mentoria-hub/internal/application"
	"github.com/mentoria-hub/mentoria-hub/internal/application/command"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/material"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
	"github.com/mentoria-hub/mentoria-hub/pkg/logger"
)

// cliActor is the identity the operator tooling acts as.
var cliActor = shared.Actor{ID: "cli", Role: shared.RoleAdmin}

var seedCmd = &cobra.Command{
	Use:   "seed-materials <catalog.yaml>",
	Short: "Create or update training materials from a YAML file",
	Long: `Load the training catalog from a YAML file. A material whose ordem
already exists in the catalog is updated in place; any other is created.

  materiais:
    - titulo: Protocolo de mentoria
      tipo: PDF
      obrigatorio: true
      ordem: 1
      url: https://cdn.example.com/protocolo.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

// catalogFile is the seed file layout.
type catalogFile struct {
	Materials []seedMaterial `yaml:"materiais"`
}

type seedMaterial struct {
	Title           string        `yaml:"titulo"`
	Description     string        `yaml:"descricao"`
	Type            material.Type `yaml:"tipo"`
	Mandatory       bool          `yaml:"obrigatorio"`
	Order           int           `yaml:"ordem"`
	URL             string        `yaml:"url"`
	SizeBytes       int64         `yaml:"tamanho_bytes"`
	DurationSeconds int           `yaml:"duracao_segundos"`
}

func runSeed(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	items, err := parseCatalog(f)
	if err != nil {
		return err
	}

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := openStorage(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	services := application.NewServices(store.Repos, command.Runtime{Logger: log})
	created, updated, err := seedMaterials(cmd.Context(), services, items)
	if err != nil {
		return err
	}

	log.Info("catalog seeded", logger.Int("created", created), logger.Int("updated", updated))
	fmt.Fprintf(cmd.OutOrStdout(), "%d created, %d updated\n", created, updated)
	return nil
}

// parseCatalog decodes a seed file. Unknown keys are rejected so typos do not
// silently drop fields.
func parseCatalog(r io.Reader) ([]seedMaterial, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file catalogFile
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("seed file is empty")
		}
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if len(file.Materials) == 0 {
		return nil, fmt.Errorf("seed file has no materiais")
	}
	return file.Materials, nil
}

// seedMaterials upserts items keyed by ordem. It stops at the first failure;
// materials stored before it are kept.
func seedMaterials(ctx context.Context, services *application.Services, items []seedMaterial) (created, updated int, err error) {
	list, err := services.ListMaterials.Handle(ctx, cliActor)
	if err != nil {
		return 0, 0, err
	}
	byOrder := make(map[int]string, len(list.Items))
	for _, m := range list.Items {
		if _, seen := byOrder[m.Order]; !seen {
			byOrder[m.Order] = m.ID
		}
	}

	for i, item := range items {
		res, err := services.SaveMaterial.Handle(ctx, command.SaveMaterialCommand{
			Actor:           cliActor,
			ID:              byOrder[item.Order],
			Title:           item.Title,
			Description:     item.Description,
			Type:            item.Type,
			Mandatory:       item.Mandatory,
			Order:           item.Order,
			URL:             item.URL,
			SizeBytes:       item.SizeBytes,
			DurationSeconds: item.DurationSeconds,
		})
		if err != nil {
			return created, updated, fmt.Errorf("material %d (%q): %w", i+1, item.Title, err)
		}
		byOrder[res.Material.Order] = res.Material.ID
		if res.Created {
			created++
		} else {
			updated++
		}
	}
	return created, updated, nil
}
