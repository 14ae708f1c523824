package events

import "time"

// Event types
const (
	ClientCreated = "client.created"
	ClientUpdated = "client.updated"
	ClientDeleted = "client.deleted"

	InvestmentCreated = "investment.created"
	InvestmentUpdated = "investment.updated"
	InvestmentDeleted = "investment.deleted"

	PatrimonyTransferred = "patrimony.transferred"
)

// Stream names
const (
	ClientEventsStream     = "client.events"
	InvestmentEventsStream = "investment.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Client events
type ClientCreatedEvent struct {
	ClientID int64  `json:"clientId"`
	Email    string `json:"email"`
	Nome     string `json:"nome"`
}

type ClientUpdatedEvent struct {
	ClientID int64  `json:"clientId"`
	Email    string `json:"email"`
	Nome     string `json:"nome"`
}

type ClientDeletedEvent struct {
	ClientID int64 `json:"clientId"`
}

// Investment events
type InvestmentCreatedEvent struct {
	InvestmentID     int64   `json:"investmentId"`
	ClienteID        int64   `json:"clienteId"`
	TipoInvestimento string  `json:"tipoInvestimento"`
	ValorInvestido   float64 `json:"valorInvestido"`
}

type InvestmentUpdatedEvent struct {
	InvestmentID int64 `json:"investmentId"`
	ClienteID    int64 `json:"clienteId"`
}

type InvestmentDeletedEvent struct {
	InvestmentID   int64   `json:"investmentId"`
	ClienteID      int64   `json:"clienteId"`
	ValorInvestido float64 `json:"valorInvestido"`
	Refunded       bool    `json:"refunded"`
}

// PatrimonyTransferredEvent records a movement between a client's investable
// balance and an investment, in either direction.
type PatrimonyTransferredEvent struct {
	ClienteID  int64   `json:"clienteId"`
	Amount     float64 `json:"amount"`
	NewBalance float64 `json:"newBalance"`
	Direction  string  `json:"direction"` // "invest" or "refund"
}
