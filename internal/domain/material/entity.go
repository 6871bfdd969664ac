// Package material holds the training material catalog: the ordered list of
// onboarding items a mentor works through before being qualified.
package material

import (
	"strings"
	"time"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

// Type is the kind of content a material points to.
type Type string

const (
	TypePDF          Type = "PDF"
	TypeVideo        Type = "VIDEO"
	TypeLink         Type = "LINK"
	TypePresentation Type = "PRESENTATION"
)

// IsValid reports whether t is a known material type.
func (t Type) IsValid() bool {
	switch t {
	case TypePDF, TypeVideo, TypeLink, TypePresentation:
		return true
	default:
		return false
	}
}

// Material is one training item. Order defines the sequential-unlock relation.
// The file fields are opaque metadata; the core never reads file bytes.
type Material struct {
	ID              string    `json:"id"`
	Title           string    `json:"titulo"`
	Description     string    `json:"descricao,omitempty"`
	Type            Type      `json:"tipo"`
	Mandatory       bool      `json:"obrigatorio"`
	Order           int       `json:"ordem"`
	URL             string    `json:"url,omitempty"`
	SizeBytes       int64     `json:"tamanho_bytes,omitempty"`
	DurationSeconds int       `json:"duracao_segundos,omitempty"`
	CreatedAt       time.Time `json:"criado_em"`
	UpdatedAt       time.Time `json:"atualizado_em"`
}

// NewMaterialParams contains the data for a new material.
type NewMaterialParams struct {
	ID              string
	Title           string
	Description     string
	Type            Type
	Mandatory       bool
	Order           int
	URL             string
	SizeBytes       int64
	DurationSeconds int
	Now             time.Time
}

// NewMaterial validates params and builds a Material.
func NewMaterial(p NewMaterialParams) (*Material, error) {
	m := &Material{
		ID:              p.ID,
		Title:           strings.TrimSpace(p.Title),
		Description:     strings.TrimSpace(p.Description),
		Type:            p.Type,
		Mandatory:       p.Mandatory,
		Order:           p.Order,
		URL:             strings.TrimSpace(p.URL),
		SizeBytes:       p.SizeBytes,
		DurationSeconds: p.DurationSeconds,
		CreatedAt:       p.Now,
		UpdatedAt:       p.Now,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks field-level invariants.
func (m *Material) Validate() error {
	var fields []string
	if m.ID == "" {
		fields = append(fields, "id")
	}
	if m.Title == "" {
		fields = append(fields, "titulo")
	}
	if !m.Type.IsValid() {
		fields = append(fields, "tipo")
	}
	if m.Order < 0 {
		fields = append(fields, "ordem")
	}
	if m.SizeBytes < 0 {
		fields = append(fields, "tamanho_bytes")
	}
	if m.DurationSeconds < 0 {
		fields = append(fields, "duracao_segundos")
	}
	if len(fields) > 0 {
		return shared.NewValidationError("Material", "invalid material", fields...)
	}
	return nil
}
