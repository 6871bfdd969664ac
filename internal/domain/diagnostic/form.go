package diagnostic

import (
	"strings"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
)

// StepCount is the number of steps in the diagnostic form.
const StepCount = 5

// Field identifies a form field by wire key and human-readable label.
type Field struct {
	Key   string `json:"campo"`
	Label string `json:"rotulo"`
}

type textField struct {
	Field
	get func(*Diagnostic) string
}

type ratingField struct {
	Field
	get func(*Diagnostic) int
}

// step describes one form step. Text fields are required; rating fields are
// range-checked only, since 0 is a legitimate answer.
type step struct {
	number    int
	name      string
	required  []textField
	ratings   []ratingField
	maxRating int
}

var steps = [StepCount]step{
	{
		number: 1,
		name:   "Identificação",
		required: []textField{
			{Field{"nome", "Nome"}, func(d *Diagnostic) string { return d.Name }},
			{Field{"email", "E-mail"}, func(d *Diagnostic) string { return d.Email }},
			{Field{"whatsapp", "WhatsApp"}, func(d *Diagnostic) string { return d.WhatsApp }},
			{Field{"status_negocio", "Status do negócio"}, func(d *Diagnostic) string { return d.BusinessStatus }},
			{Field{"tempo_operacao", "Tempo de operação"}, func(d *Diagnostic) string { return d.TimeOperating }},
			{Field{"setor", "Setor"}, func(d *Diagnostic) string { return d.Sector }},
		},
	},
	{
		number:    2,
		name:      "Maturidade",
		maxRating: 5,
		ratings: []ratingField{
			{Field{"maturidade_gestao", "Maturidade em gestão"}, func(d *Diagnostic) int { return d.MaturityManagement }},
			{Field{"maturidade_financeira", "Maturidade financeira"}, func(d *Diagnostic) int { return d.MaturityFinance }},
			{Field{"maturidade_marketing", "Maturidade em marketing"}, func(d *Diagnostic) int { return d.MaturityMarketing }},
			{Field{"maturidade_vendas", "Maturidade em vendas"}, func(d *Diagnostic) int { return d.MaturitySales }},
			{Field{"maturidade_operacoes", "Maturidade em operações"}, func(d *Diagnostic) int { return d.MaturityOperations }},
			{Field{"maturidade_pessoas", "Maturidade em pessoas"}, func(d *Diagnostic) int { return d.MaturityPeople }},
			{Field{"maturidade_inovacao", "Maturidade em inovação"}, func(d *Diagnostic) int { return d.MaturityInnovation }},
		},
	},
	{
		number: 3,
		name:   "Dores",
		required: []textField{
			{Field{"dor_principal", "Dor principal"}, func(d *Diagnostic) string { return d.MainPain }},
			{Field{"dor_descricao", "Descrição da dor"}, func(d *Diagnostic) string { return d.PainDescription }},
			{Field{"dor_impacto", "Impacto da dor"}, func(d *Diagnostic) string { return d.PainImpact }},
			{Field{"dor_tentativas", "O que já foi tentado"}, func(d *Diagnostic) string { return d.PainAttempts }},
			{Field{"dor_expectativa", "Expectativa com a mentoria"}, func(d *Diagnostic) string { return d.PainExpectation }},
		},
	},
	{
		number: 4,
		name:   "Perfil psicométrico",
		required: []textField{
			{Field{"perfil_investimento", "Perfil de investimento"}, func(d *Diagnostic) string { return d.InvestmentProfile }},
			{Field{"motivo_desistencia", "Motivo de desistência"}, func(d *Diagnostic) string { return d.DropoutMotive }},
		},
	},
	{
		number:    5,
		name:      "Personalidade",
		maxRating: 4,
		ratings: []ratingField{
			{Field{"perfil_extroversao", "Extroversão"}, func(d *Diagnostic) int { return d.Extroversion }},
			{Field{"perfil_organizacao", "Organização"}, func(d *Diagnostic) int { return d.Organization }},
			{Field{"perfil_resiliencia", "Resiliência"}, func(d *Diagnostic) int { return d.Resilience }},
			{Field{"perfil_criatividade", "Criatividade"}, func(d *Diagnostic) int { return d.Creativity }},
			{Field{"perfil_lideranca", "Liderança"}, func(d *Diagnostic) int { return d.Leadership }},
			{Field{"perfil_comunicacao", "Comunicação"}, func(d *Diagnostic) int { return d.Communication }},
			{Field{"perfil_disciplina", "Disciplina"}, func(d *Diagnostic) int { return d.Discipline }},
			{Field{"perfil_empatia", "Empatia"}, func(d *Diagnostic) int { return d.Empathy }},
		},
	},
}

// StepResult is the outcome of validating one step.
type StepResult struct {
	Step          int     `json:"etapa"`
	Name          string  `json:"nome"`
	Valid         bool    `json:"valida"`
	MissingFields []Field `json:"campos_faltantes,omitempty"`
	OutOfRange    []Field `json:"campos_invalidos,omitempty"`
}

// Labels returns the labels of the missing fields, or of the out-of-range
// fields when nothing is missing.
func (r StepResult) Labels() []string {
	src := r.MissingFields
	if len(src) == 0 {
		src = r.OutOfRange
	}
	out := make([]string, len(src))
	for i, f := range src {
		out[i] = f.Label
	}
	return out
}

// Err converts an invalid result into a *shared.ValidationError.
func (r StepResult) Err(op string) error {
	if r.Valid {
		return nil
	}
	msg := "required fields missing in step " + r.Name
	if len(r.MissingFields) == 0 {
		msg = "ratings out of range in step " + r.Name
	}
	return &shared.ValidationError{Op: op, Message: msg, Step: r.Step, Fields: r.Labels()}
}

// ValidateStep validates step n (1-based) of d. A nil diagnostic is treated
// as an empty one. Empty and whitespace-only text counts as missing.
func ValidateStep(n int, d *Diagnostic) StepResult {
	if d == nil {
		d = &Diagnostic{}
	}
	if n < 1 || n > StepCount {
		return StepResult{Step: n, Valid: false}
	}
	s := steps[n-1]

	res := StepResult{Step: s.number, Name: s.name}
	for _, f := range s.required {
		if strings.TrimSpace(f.get(d)) == "" {
			res.MissingFields = append(res.MissingFields, f.Field)
		}
	}
	for _, f := range s.ratings {
		if v := f.get(d); v < 0 || v > s.maxRating {
			res.OutOfRange = append(res.OutOfRange, f.Field)
		}
	}
	res.Valid = len(res.MissingFields) == 0 && len(res.OutOfRange) == 0
	return res
}

// ValidateAll validates every step from 1 to StepCount in order and returns
// the first failing step. ok is true when all steps pass.
func ValidateAll(d *Diagnostic) (first StepResult, ok bool) {
	for n := 1; n <= StepCount; n++ {
		if r := ValidateStep(n, d); !r.Valid {
			return r, false
		}
	}
	return StepResult{}, true
}

// ValidateRanges checks only the rating ranges. Drafts are saved with this
// check; required fields are enforced at checkout.
func ValidateRanges(d *Diagnostic) error {
	var fields []string
	for _, s := range steps {
		for _, f := range s.ratings {
			if v := f.get(d); v < 0 || v > s.maxRating {
				fields = append(fields, f.Label)
			}
		}
	}
	if len(fields) > 0 {
		return shared.NewValidationError("SaveDiagnostic", "ratings out of range", fields...)
	}
	return nil
}

// Steps returns the step names in order.
func Steps() []string {
	out := make([]string, StepCount)
	for i, s := range steps {
		out[i] = s.name
	}
	return out
}

// Form tracks a diagnostic being filled step by step. Next only checks the
// active step; Submit re-checks every step and jumps back to the first one
// that fails.
type Form struct {
	Data       *Diagnostic
	ActiveStep int
}

// NewForm starts a form at step 1.
func NewForm(d *Diagnostic) *Form {
	if d == nil {
		d = &Diagnostic{}
	}
	return &Form{Data: d, ActiveStep: 1}
}

// Next advances to the following step when the active step is valid.
func (f *Form) Next() StepResult {
	r := ValidateStep(f.ActiveStep, f.Data)
	if r.Valid && f.ActiveStep < StepCount {
		f.ActiveStep++
	}
	return r
}

// Back moves to the previous step without validating.
func (f *Form) Back() {
	if f.ActiveStep > 1 {
		f.ActiveStep--
	}
}

// Submit validates the whole form. On failure the active step moves to the
// first failing step and a *shared.ValidationError is returned.
func (f *Form) Submit() error {
	r, ok := ValidateAll(f.Data)
	if ok {
		return nil
	}
	f.ActiveStep = r.Step
	return r.Err("SubmitDiagnostic")
}
