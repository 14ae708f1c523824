package cqrs

// ---------- Client queries ----------

// GetClientQuery fetches a single client by ID.
type GetClientQuery struct {
	ClientID int64
}

// ListClientsQuery fetches every client. No pagination.
type ListClientsQuery struct{}

// LoginQuery authenticates an email/password pair.
type LoginQuery struct {
	Email string
	Senha string
}

// ---------- Investment queries ----------

// GetInvestmentQuery fetches a single investment.
type GetInvestmentQuery struct {
	InvestmentID int64
}

// ListInvestmentsQuery fetches all investments, most recent first.
type ListInvestmentsQuery struct{}

// ListClientInvestmentsQuery fetches a client's investments, most recent first.
type ListClientInvestmentsQuery struct {
	ClienteID int64
}

// TotalInvestedQuery sums a client's active invested amounts.
type TotalInvestedQuery struct {
	ClienteID int64
}
