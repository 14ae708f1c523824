package repository

import (
	"context"
	"fmt"

	"github.com/LucasLorenaa/projeto-javer-services/shared/models"
	"github.com/LucasLorenaa/projeto-javer-services/shared/redis"
)

// InvestmentReadRepository serves investment lookups and the per-client
// invested-total projection, Redis-first with a Postgres fallback.
type InvestmentReadRepository struct {
	investments *InvestmentRepository
	views       *redis.ViewCache[models.Investment]
	totals      *redis.ViewCache[models.TotalInvestido]
}

func NewInvestmentReadRepository(
	investments *InvestmentRepository,
	views *redis.ViewCache[models.Investment],
	totals *redis.ViewCache[models.TotalInvestido],
) *InvestmentReadRepository {
	return &InvestmentReadRepository{investments: investments, views: views, totals: totals}
}

func investmentViewKey(id int64) string {
	return fmt.Sprintf("investment:view:%d", id)
}

func investedTotalKey(clienteID int64) string {
	return fmt.Sprintf("client:invested:%d", clienteID)
}

// GetView returns a single investment.
func (r *InvestmentReadRepository) GetView(ctx context.Context, id int64) (*models.Investment, error) {
	if inv, ok := r.views.Get(ctx, investmentViewKey(id)); ok {
		return inv, nil
	}

	inv, err := r.investments.GetByID(id)
	if err != nil {
		return nil, err
	}

	r.views.Set(ctx, investmentViewKey(id), inv)
	return inv, nil
}

// ListViews returns every investment straight from Postgres.
func (r *InvestmentReadRepository) ListViews(ctx context.Context) ([]models.Investment, error) {
	return r.investments.ListAll()
}

// ListClientViews returns a client's investments straight from Postgres.
func (r *InvestmentReadRepository) ListClientViews(ctx context.Context, clienteID int64) ([]models.Investment, error) {
	return r.investments.ListByCliente(clienteID)
}

// TotalInvested returns the client's active invested total, serving the
// cached projection when present. A client without investments reports 0.
func (r *InvestmentReadRepository) TotalInvested(ctx context.Context, clienteID int64) (*models.TotalInvestido, error) {
	if total, ok := r.totals.Get(ctx, investedTotalKey(clienteID)); ok {
		return total, nil
	}
	return r.RefreshTotal(ctx, clienteID)
}

// RefreshTotal recomputes the invested-total projection from Postgres and
// rewrites the cache. The command side calls it synchronously after every
// investment mutation so reads observe exact totals immediately.
func (r *InvestmentReadRepository) RefreshTotal(ctx context.Context, clienteID int64) (*models.TotalInvestido, error) {
	sum, err := r.investments.TotalInvested(clienteID)
	if err != nil {
		return nil, err
	}

	total := &models.TotalInvestido{ClienteID: clienteID, TotalInvestido: sum}
	r.totals.Set(ctx, investedTotalKey(clienteID), total)
	return total, nil
}

// PurgeClient drops every cached investment view owned by the client along
// with its invested-total projection. The command side calls it right before
// the client row is deleted, while the investments are still listable.
func (r *InvestmentReadRepository) PurgeClient(ctx context.Context, clienteID int64) error {
	invs, err := r.investments.ListByCliente(clienteID)
	if err != nil {
		return err
	}

	for i := range invs {
		r.views.Delete(ctx, investmentViewKey(invs[i].ID))
	}
	r.totals.Delete(ctx, investedTotalKey(clienteID))
	return nil
}

// CacheView stores a freshly written investment.
func (r *InvestmentReadRepository) CacheView(ctx context.Context, inv *models.Investment) {
	r.views.Set(ctx, investmentViewKey(inv.ID), inv)
}

// Invalidate drops the cached view for an investment.
func (r *InvestmentReadRepository) Invalidate(ctx context.Context, id int64) {
	r.views.Delete(ctx, investmentViewKey(id))
}
