package query

import (
	"context"

	"github.com/LucasLorenaa/projeto-javer-services/shared/cqrs"
	"github.com/LucasLorenaa/projeto-javer-services/shared/models"
)

type investmentReadStore interface {
	GetView(ctx context.Context, id int64) (*models.Investment, error)
	ListViews(ctx context.Context) ([]models.Investment, error)
	ListClientViews(ctx context.Context, clienteID int64) ([]models.Investment, error)
	TotalInvested(ctx context.Context, clienteID int64) (*models.TotalInvestido, error)
}

type clientExistenceStore interface {
	GetView(ctx context.Context, id int64) (*models.ClientView, error)
}

// InvestmentQueryService serves the read side for investments.
type InvestmentQueryService struct {
	reads   investmentReadStore
	clients clientExistenceStore
}

func NewInvestmentQueryService(reads investmentReadStore, clients clientExistenceStore) *InvestmentQueryService {
	return &InvestmentQueryService{reads: reads, clients: clients}
}

// GetInvestment returns a single investment.
func (s *InvestmentQueryService) GetInvestment(ctx context.Context, q cqrs.GetInvestmentQuery) (*models.Investment, error) {
	return s.reads.GetView(ctx, q.InvestmentID)
}

// ListInvestments returns every investment, most recent first.
func (s *InvestmentQueryService) ListInvestments(ctx context.Context, q cqrs.ListInvestmentsQuery) ([]models.Investment, error) {
	return s.reads.ListViews(ctx)
}

// ListClientInvestments returns a client's investments, most recent first.
func (s *InvestmentQueryService) ListClientInvestments(ctx context.Context, q cqrs.ListClientInvestmentsQuery) ([]models.Investment, error) {
	return s.reads.ListClientViews(ctx, q.ClienteID)
}

// TotalInvested returns the client's active invested total; 0 when the
// client has no investments. The SUM alone cannot tell a client without
// investments from a client that does not exist, so existence is checked
// first and an unknown client is a not-found error.
func (s *InvestmentQueryService) TotalInvested(ctx context.Context, q cqrs.TotalInvestedQuery) (*models.TotalInvestido, error) {
	if _, err := s.clients.GetView(ctx, q.ClienteID); err != nil {
		return nil, err
	}
	return s.reads.TotalInvested(ctx, q.ClienteID)
}
