package cqrs

import "github.com/LucasLorenaa/projeto-javer-services/shared/models"

type CreateClientCommand struct {
	Nome                   string
	Telefone               int64
	Email                  string
	DataNascimento         *models.Date
	Correntista            bool
	ScoreCredito           *float64
	SaldoCC                *float64
	PatrimonioInvestimento *float64
	PerfilInvestidor       string
	Senha                  string
}

type UpdateClientCommand struct {
	ClientID int64
	Patch    models.ClientPatch
}

type DeleteClientCommand struct {
	ClientID int64
}

type ResetPasswordCommand struct {
	Email     string
	SenhaNova string
}

type CreateInvestmentCommand struct {
	ClienteID        int64
	TipoInvestimento models.InvestmentType
	Ticker           *string
	ValorInvestido   float64
	Rentabilidade    float64
	Ativo            *bool
}

type UpdateInvestmentCommand struct {
	InvestmentID int64
	Patch        models.InvestmentPatch
}

type DeleteInvestmentCommand struct {
	InvestmentID int64
}
