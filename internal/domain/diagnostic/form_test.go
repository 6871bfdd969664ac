package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

func complete() *Diagnostic {
	return &Diagnostic{
		Name:           "Maria Souza",
		Email:          "maria@example.com",
		WhatsApp:       "+55 11 99999-0000",
		BusinessStatus: "Em operação",
		TimeOperating:  "2 anos",
		Sector:         "Alimentação",

		MaturityManagement: 3,
		MaturityFinance:    0,
		MaturitySales:      5,

		MainPain:        PainSales,
		PainDescription: "Poucas vendas recorrentes",
		PainImpact:      "Caixa apertado",
		PainAttempts:    "Promoções",
		PainExpectation: "Plano comercial",

		InvestmentProfile: InvestmentModerate,
		DropoutMotive:     "Falta de tempo",

		Extroversion: 4,
		Empathy:      0,
	}
}

func TestValidateStep_RequiredFields(t *testing.T) {
	d := complete()
	d.Email = "   "
	d.Sector = ""

	r := ValidateStep(1, d)
	assert.False(t, r.Valid)
	assert.Equal(t, "Identificação", r.Name)
	assert.Equal(t, []string{"E-mail", "Setor"}, r.Labels())
	assert.Equal(t, "email", r.MissingFields[0].Key)
}

func TestValidateStep_ZeroRatingsAreValid(t *testing.T) {
	d := &Diagnostic{}

	assert.True(t, ValidateStep(2, d).Valid)
	assert.True(t, ValidateStep(5, d).Valid)
	assert.False(t, ValidateStep(1, d).Valid)
	assert.False(t, ValidateStep(0, d).Valid)
	assert.False(t, ValidateStep(6, d).Valid)
}

func TestValidateStep_RatingsOutOfRange(t *testing.T) {
	d := complete()
	d.MaturityPeople = 6
	d.Discipline = 5

	r := ValidateStep(2, d)
	assert.False(t, r.Valid)
	assert.Equal(t, []string{"Maturidade em pessoas"}, r.Labels())

	assert.False(t, ValidateStep(5, d).Valid)
	require.Error(t, ValidateRanges(d))

	d.MaturityPeople, d.Discipline = 5, 4
	assert.NoError(t, ValidateRanges(d))
}

func TestValidateAll_FirstFailingStepWins(t *testing.T) {
	d := complete()
	d.PainImpact = ""
	d.DropoutMotive = ""

	r, ok := ValidateAll(d)
	require.False(t, ok)
	assert.Equal(t, 3, r.Step)
	assert.Equal(t, []string{"Impacto da dor"}, r.Labels())

	err := r.Err("Checkout")
	ve, isVE := shared.AsValidation(err)
	require.True(t, isVE)
	assert.Equal(t, 3, ve.Step)
	assert.True(t, shared.IsValidation(err))

	_, ok = ValidateAll(complete())
	assert.True(t, ok)
}

func TestValidateAll_NilDiagnosticFailsStepOne(t *testing.T) {
	r, ok := ValidateAll(nil)
	require.False(t, ok)
	assert.Equal(t, 1, r.Step)
	assert.Len(t, r.MissingFields, 6)
}

func TestForm_SubmitRevalidatesEverything(t *testing.T) {
	d := complete()
	f := NewForm(d)

	for i := 0; i < StepCount; i++ {
		require.True(t, f.Next().Valid)
	}
	assert.Equal(t, StepCount, f.ActiveStep)

	// Stale state: step 1 emptied after the user moved past it.
	d.Name = ""
	err := f.Submit()
	require.Error(t, err)
	assert.Equal(t, 1, f.ActiveStep)

	ve, _ := shared.AsValidation(err)
	assert.Equal(t, []string{"Nome"}, ve.Fields)

	d.Name = "Maria"
	assert.NoError(t, f.Submit())
}

func TestForm_NextStaysOnInvalidStep(t *testing.T) {
	f := NewForm(nil)

	r := f.Next()
	assert.False(t, r.Valid)
	assert.Equal(t, 1, f.ActiveStep)

	f.Back()
	assert.Equal(t, 1, f.ActiveStep)
}

func TestSteps(t *testing.T) {
	assert.Equal(t, []string{"Identificação", "Maturidade", "Dores", "Perfil psicométrico", "Personalidade"}, Steps())
}
