package models

import "time"

// InvestmentType enumerates the supported investment categories.
type InvestmentType string

const (
	RendaFixa InvestmentType = "RENDA_FIXA"
	Acoes     InvestmentType = "ACOES"
	Fundos    InvestmentType = "FUNDOS"
	Cripto    InvestmentType = "CRIPTO"
)

func (t InvestmentType) Valid() bool {
	switch t {
	case RendaFixa, Acoes, Fundos, Cripto:
		return true
	}
	return false
}

// Investor profiles drive the projected-return rate on the gateway side.
const (
	PerfilConservador = "CONSERVADOR"
	PerfilModerado    = "MODERADO"
	PerfilArrojado    = "ARROJADO"
)

// Client is the write model persisted in the clients table.
// JSON field names follow the storage wire format consumed by the gateway
// and the frontend.
type Client struct {
	ID                     int64    `json:"id"`
	Nome                   string   `json:"nome"`
	Telefone               int64    `json:"telefone"`
	Email                  string   `json:"email"`
	DataNascimento         *Date    `json:"data_nascimento"`
	Correntista            bool     `json:"correntista"`
	ScoreCredito           *float64 `json:"score_credito"`
	SaldoCC                *float64 `json:"saldo_cc"`
	PatrimonioInvestimento float64  `json:"patrimonio_investimento"`
	PerfilInvestidor       string   `json:"perfil_investidor"`
	PasswordHash           string   `json:"-"`
}

// View projects the write model into the read shape returned by the API.
// The credit score falls back to saldo_cc * 0.1 when no explicit score is
// stored, and stays null when the balance is null too.
func (c *Client) View() *ClientView {
	score := c.ScoreCredito
	if score == nil && c.SaldoCC != nil {
		derived := *c.SaldoCC * 0.1
		score = &derived
	}
	return &ClientView{
		ID:                     c.ID,
		Nome:                   c.Nome,
		Telefone:               c.Telefone,
		Email:                  c.Email,
		DataNascimento:         c.DataNascimento,
		Correntista:            c.Correntista,
		ScoreCredito:           score,
		SaldoCC:                c.SaldoCC,
		PatrimonioInvestimento: c.PatrimonioInvestimento,
		PerfilInvestidor:       c.PerfilInvestidor,
	}
}

// ClientView is the read-optimised projection of a client. It never carries
// the password hash and its score_credito may be derived rather than stored.
type ClientView struct {
	ID                     int64    `json:"id"`
	Nome                   string   `json:"nome"`
	Telefone               int64    `json:"telefone"`
	Email                  string   `json:"email"`
	DataNascimento         *Date    `json:"data_nascimento"`
	Correntista            bool     `json:"correntista"`
	ScoreCredito           *float64 `json:"score_credito"`
	SaldoCC                *float64 `json:"saldo_cc"`
	PatrimonioInvestimento float64  `json:"patrimonio_investimento"`
	PerfilInvestidor       string   `json:"perfil_investidor"`
}

// ClientPatch is the explicit partial-update shape for clients. Only fields
// the caller actually set are non-nil; everything else is left untouched by
// the merge. PatrimonioInvestimentoDelta is applied as current+delta, but an
// absolute PatrimonioInvestimento in the same patch wins over the delta.
type ClientPatch struct {
	Nome                        *string  `json:"nome" validate:"omitempty,min=1,max=255"`
	Telefone                    *int64   `json:"telefone" validate:"omitempty,gte=0"`
	Email                       *string  `json:"email" validate:"omitempty,email"`
	DataNascimento              *Date    `json:"data_nascimento" validate:"omitempty,adult"`
	Correntista                 *bool    `json:"correntista"`
	ScoreCredito                *float64 `json:"score_credito" validate:"omitempty,gte=0"`
	SaldoCC                     *float64 `json:"saldo_cc" validate:"omitempty,gte=0"`
	PatrimonioInvestimento      *float64 `json:"patrimonio_investimento" validate:"omitempty,gte=0"`
	PatrimonioInvestimentoDelta *float64 `json:"patrimonio_investimento_delta"`
	PerfilInvestidor            *string  `json:"perfil_investidor" validate:"omitempty,oneof=CONSERVADOR MODERADO ARROJADO"`
	Senha                       *string  `json:"senha"`
}

// Empty reports whether the patch carries no changes at all.
func (p *ClientPatch) Empty() bool {
	return p.Nome == nil && p.Telefone == nil && p.Email == nil &&
		p.DataNascimento == nil && p.Correntista == nil && p.ScoreCredito == nil &&
		p.SaldoCC == nil && p.PatrimonioInvestimento == nil &&
		p.PatrimonioInvestimentoDelta == nil && p.PerfilInvestidor == nil && p.Senha == nil
}

// Investment is a position funded from a client's investable balance.
type Investment struct {
	ID               int64          `json:"id"`
	ClienteID        int64          `json:"cliente_id"`
	TipoInvestimento InvestmentType `json:"tipo_investimento"`
	Ticker           *string        `json:"ticker"`
	ValorInvestido   float64        `json:"valor_investido"`
	Rentabilidade    float64        `json:"rentabilidade"`
	Ativo            bool           `json:"ativo"`
	DataAplicacao    time.Time      `json:"data_aplicacao"`
}

// InvestmentPatch is the explicit partial-update shape for investments.
type InvestmentPatch struct {
	TipoInvestimento *InvestmentType `json:"tipo_investimento"`
	Ticker           *string         `json:"ticker"`
	ValorInvestido   *float64        `json:"valor_investido" validate:"omitempty,gt=0"`
	Rentabilidade    *float64        `json:"rentabilidade"`
	Ativo            *bool           `json:"ativo"`
}

// Empty reports whether the patch carries no changes at all.
func (p *InvestmentPatch) Empty() bool {
	return p.TipoInvestimento == nil && p.Ticker == nil && p.ValorInvestido == nil &&
		p.Rentabilidade == nil && p.Ativo == nil
}

// TotalInvestido is the per-client invested-total projection kept in Redis.
type TotalInvestido struct {
	ClienteID      int64   `json:"cliente_id"`
	TotalInvestido float64 `json:"total_investido"`
}
