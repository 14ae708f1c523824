package query

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/LucasLorenaa/projeto-javer-services/shared/apperr"
	"github.com/LucasLorenaa/projeto-javer-services/shared/cqrs"
	"github.com/LucasLorenaa/projeto-javer-services/shared/models"
)

type mockInvestmentReadStore struct {
	getFn        func(int64) (*models.Investment, error)
	listFn       func() ([]models.Investment, error)
	listClientFn func(int64) ([]models.Investment, error)
	totalFn      func(int64) (*models.TotalInvestido, error)
	totalCalled  bool
}

func (m *mockInvestmentReadStore) GetView(_ context.Context, id int64) (*models.Investment, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockInvestmentReadStore) ListViews(_ context.Context) ([]models.Investment, error) {
	if m.listFn != nil {
		return m.listFn()
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockInvestmentReadStore) ListClientViews(_ context.Context, clienteID int64) ([]models.Investment, error) {
	if m.listClientFn != nil {
		return m.listClientFn(clienteID)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockInvestmentReadStore) TotalInvested(_ context.Context, clienteID int64) (*models.TotalInvestido, error) {
	m.totalCalled = true
	if m.totalFn != nil {
		return m.totalFn(clienteID)
	}
	return nil, fmt.Errorf("not configured")
}

type mockClientExistenceStore struct {
	getViewFn func(int64) (*models.ClientView, error)
}

func (m *mockClientExistenceStore) GetView(_ context.Context, id int64) (*models.ClientView, error) {
	if m.getViewFn != nil {
		return m.getViewFn(id)
	}
	return &models.ClientView{ID: id, Nome: "Maria"}, nil
}

func TestTotalInvestedUnknownClient(t *testing.T) {
	reads := &mockInvestmentReadStore{
		totalFn: func(clienteID int64) (*models.TotalInvestido, error) {
			return &models.TotalInvestido{ClienteID: clienteID}, nil
		},
	}
	clients := &mockClientExistenceStore{getViewFn: func(int64) (*models.ClientView, error) {
		return nil, apperr.ErrNotFound
	}}
	svc := NewInvestmentQueryService(reads, clients)

	_, err := svc.TotalInvested(context.Background(), cqrs.TotalInvestedQuery{ClienteID: 999})

	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("an unknown client must be not-found, got %v", err)
	}
	if reads.totalCalled {
		t.Error("the sum must not run for a client that does not exist")
	}
}

func TestTotalInvestedExistingClient(t *testing.T) {
	reads := &mockInvestmentReadStore{
		totalFn: func(clienteID int64) (*models.TotalInvestido, error) {
			return &models.TotalInvestido{ClienteID: clienteID, TotalInvestido: 1250.75}, nil
		},
	}
	svc := NewInvestmentQueryService(reads, &mockClientExistenceStore{})

	total, err := svc.TotalInvested(context.Background(), cqrs.TotalInvestedQuery{ClienteID: 1})
	if err != nil {
		t.Fatalf("TotalInvested: %v", err)
	}
	if total.ClienteID != 1 || total.TotalInvestido != 1250.75 {
		t.Errorf("unexpected total: %+v", total)
	}
}

func TestTotalInvestedClientWithoutInvestments(t *testing.T) {
	reads := &mockInvestmentReadStore{
		totalFn: func(clienteID int64) (*models.TotalInvestido, error) {
			return &models.TotalInvestido{ClienteID: clienteID, TotalInvestido: 0}, nil
		},
	}
	svc := NewInvestmentQueryService(reads, &mockClientExistenceStore{})

	total, err := svc.TotalInvested(context.Background(), cqrs.TotalInvestedQuery{ClienteID: 1})
	if err != nil {
		t.Fatalf("an existing client with no investments totals zero, got %v", err)
	}
	if total.TotalInvestido != 0 {
		t.Errorf("expected zero total, got %v", total.TotalInvestido)
	}
}

func TestGetInvestmentPassesThrough(t *testing.T) {
	reads := &mockInvestmentReadStore{getFn: func(id int64) (*models.Investment, error) {
		return &models.Investment{ID: id, ClienteID: 1, TipoInvestimento: models.Acoes, ValorInvestido: 300}, nil
	}}
	svc := NewInvestmentQueryService(reads, &mockClientExistenceStore{})

	inv, err := svc.GetInvestment(context.Background(), cqrs.GetInvestmentQuery{InvestmentID: 10})
	if err != nil {
		t.Fatalf("GetInvestment: %v", err)
	}
	if inv.ID != 10 {
		t.Errorf("unexpected investment: %+v", inv)
	}
}
