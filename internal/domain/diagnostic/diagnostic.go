// Package diagnostic holds the structured intake assessment captured during
// a mentoria session and the step-by-step validation rules of its form.
package diagnostic

import "time"

// Diagnostic is the intake assessment of one session. It is created on the
// first save and overwritten by later saves until checkout.
type Diagnostic struct {
	SessionID string `json:"mentoria_id"`

	// Step 1: identificação
	Name           string `json:"nome"`
	Email          string `json:"email"`
	WhatsApp       string `json:"whatsapp"`
	BusinessStatus string `json:"status_negocio"`
	TimeOperating  string `json:"tempo_operacao"`
	Sector         string `json:"setor"`

	// Step 2: maturidade (0-5)
	MaturityManagement int `json:"maturidade_gestao"`
	MaturityFinance    int `json:"maturidade_financeira"`
	MaturityMarketing  int `json:"maturidade_marketing"`
	MaturitySales      int `json:"maturidade_vendas"`
	MaturityOperations int `json:"maturidade_operacoes"`
	MaturityPeople     int `json:"maturidade_pessoas"`
	MaturityInnovation int `json:"maturidade_inovacao"`

	// Step 3: dores
	MainPain        string `json:"dor_principal"`
	PainDescription string `json:"dor_descricao"`
	PainImpact      string `json:"dor_impacto"`
	PainAttempts    string `json:"dor_tentativas"`
	PainExpectation string `json:"dor_expectativa"`

	// Step 4: perfil psicométrico
	InvestmentProfile string `json:"perfil_investimento"`
	DropoutMotive     string `json:"motivo_desistencia"`

	// Step 5: personalidade (0-4)
	Extroversion  int `json:"perfil_extroversao"`
	Organization  int `json:"perfil_organizacao"`
	Resilience    int `json:"perfil_resiliencia"`
	Creativity    int `json:"perfil_criatividade"`
	Leadership    int `json:"perfil_lideranca"`
	Communication int `json:"perfil_comunicacao"`
	Discipline    int `json:"perfil_disciplina"`
	Empathy       int `json:"perfil_empatia"`

	CreatedAt time.Time `json:"criado_em"`
	UpdatedAt time.Time `json:"atualizado_em"`
}

// Main pain categories offered by the form.
const (
	PainSales      = "VENDAS"
	PainFinance    = "FINANCAS"
	PainMarketing  = "MARKETING"
	PainManagement = "GESTAO"
	PainPeople     = "PESSOAS"
	PainOther      = "OUTRO"
)

// Investment profiles offered by the form.
const (
	InvestmentConservative = "CONSERVADOR"
	InvestmentModerate     = "MODERADO"
	InvestmentAggressive   = "ARROJADO"
)
