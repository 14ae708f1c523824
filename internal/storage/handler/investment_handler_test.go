package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LucasLorenaa/projeto-javer-services/shared/apperr"
	"github.com/LucasLorenaa/projeto-javer-services/shared/cqrs"
	"github.com/LucasLorenaa/projeto-javer-services/shared/models"
)

// ---- mock implementations ----

type mockInvestmentCommander struct {
	createFn func(cqrs.CreateInvestmentCommand) (*models.Investment, error)
	updateFn func(cqrs.UpdateInvestmentCommand) (*models.Investment, error)
	deleteFn func(cqrs.DeleteInvestmentCommand) error
}

func (m *mockInvestmentCommander) CreateInvestment(_ context.Context, cmd cqrs.CreateInvestmentCommand) (*models.Investment, error) {
	if m.createFn != nil {
		return m.createFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockInvestmentCommander) UpdateInvestment(_ context.Context, cmd cqrs.UpdateInvestmentCommand) (*models.Investment, error) {
	if m.updateFn != nil {
		return m.updateFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockInvestmentCommander) DeleteInvestment(_ context.Context, cmd cqrs.DeleteInvestmentCommand) error {
	if m.deleteFn != nil {
		return m.deleteFn(cmd)
	}
	return fmt.Errorf("not configured")
}

type mockInvestmentQuerier struct {
	getFn        func(cqrs.GetInvestmentQuery) (*models.Investment, error)
	listFn       func(cqrs.ListInvestmentsQuery) ([]models.Investment, error)
	listClientFn func(cqrs.ListClientInvestmentsQuery) ([]models.Investment, error)
	totalFn      func(cqrs.TotalInvestedQuery) (*models.TotalInvestido, error)
}

func (m *mockInvestmentQuerier) GetInvestment(_ context.Context, q cqrs.GetInvestmentQuery) (*models.Investment, error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockInvestmentQuerier) ListInvestments(_ context.Context, q cqrs.ListInvestmentsQuery) ([]models.Investment, error) {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockInvestmentQuerier) ListClientInvestments(_ context.Context, q cqrs.ListClientInvestmentsQuery) ([]models.Investment, error) {
	if m.listClientFn != nil {
		return m.listClientFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockInvestmentQuerier) TotalInvested(_ context.Context, q cqrs.TotalInvestedQuery) (*models.TotalInvestido, error) {
	if m.totalFn != nil {
		return m.totalFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func newInvestmentTestRouter(cmds InvestmentCommander, qrys InvestmentQuerier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewInvestmentHandler(cmds, qrys).RegisterRoutes(r)
	return r
}

func aTestInvestment() *models.Investment {
	ticker := "PETR4.SA"
	return &models.Investment{
		ID: 10, ClienteID: 1, TipoInvestimento: models.Acoes,
		Ticker: &ticker, ValorInvestido: 500.0, Rentabilidade: 2.5,
		Ativo: true, DataAplicacao: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func aValidInvestmentBody() map[string]interface{} {
	return map[string]interface{}{
		"cliente_id":        1,
		"tipo_investimento": "ACOES",
		"ticker":            "PETR4.SA",
		"valor_investido":   500.0,
	}
}

// ---- tests ----

func TestCreateInvestment(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		createFn       func(cqrs.CreateInvestmentCommand) (*models.Investment, error)
		expectedStatus int
	}{
		{
			name:           "success - investment created",
			body:           aValidInvestmentBody(),
			createFn:       func(cmd cqrs.CreateInvestmentCommand) (*models.Investment, error) { return aTestInvestment(), nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - missing amount",
			body:           map[string]interface{}{"cliente_id": 1, "tipo_investimento": "ACOES"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - zero amount",
			body:           map[string]interface{}{"cliente_id": 1, "tipo_investimento": "ACOES", "valor_investido": 0},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - unknown investment type",
			body:           map[string]interface{}{"cliente_id": 1, "tipo_investimento": "IMOVEIS", "valor_investido": 500.0},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "not found - unknown client",
			body: aValidInvestmentBody(),
			createFn: func(cmd cqrs.CreateInvestmentCommand) (*models.Investment, error) {
				return nil, apperr.ErrNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "bad request - insufficient funds",
			body: aValidInvestmentBody(),
			createFn: func(cmd cqrs.CreateInvestmentCommand) (*models.Investment, error) {
				return nil, &apperr.InsufficientFundsError{Available: 100, Requested: 500}
			},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockInvestmentCommander{createFn: tt.createFn}
			router := newInvestmentTestRouter(cmds, &mockInvestmentQuerier{})
			w := doRequest(router, http.MethodPost, "/investments", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestInsufficientFundsMessageCarriesAmounts(t *testing.T) {
	cmds := &mockInvestmentCommander{createFn: func(cmd cqrs.CreateInvestmentCommand) (*models.Investment, error) {
		return nil, &apperr.InsufficientFundsError{Available: 100.5, Requested: 500}
	}}
	router := newInvestmentTestRouter(cmds, &mockInvestmentQuerier{})
	w := doRequest(router, http.MethodPost, "/investments", aValidInvestmentBody())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	want := "insufficient funds: available 100.50, requested 500.00"
	if resp["message"] != want {
		t.Errorf("expected message %q, got %q", want, resp["message"])
	}
}

func TestGetInvestment(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		getFn          func(cqrs.GetInvestmentQuery) (*models.Investment, error)
		expectedStatus int
	}{
		{
			name:           "success - fetch investment",
			url:            "/investments/10",
			getFn:          func(q cqrs.GetInvestmentQuery) (*models.Investment, error) { return aTestInvestment(), nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not found - unknown id",
			url:            "/investments/99",
			getFn:          func(q cqrs.GetInvestmentQuery) (*models.Investment, error) { return nil, apperr.ErrNotFound },
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newInvestmentTestRouter(&mockInvestmentCommander{}, &mockInvestmentQuerier{getFn: tt.getFn})
			w := doRequest(router, http.MethodGet, tt.url, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestListInvestmentsByClient(t *testing.T) {
	listClientFn := func(q cqrs.ListClientInvestmentsQuery) ([]models.Investment, error) {
		if q.ClienteID != 1 {
			t.Errorf("expected cliente_id 1, got %d", q.ClienteID)
		}
		return []models.Investment{*aTestInvestment()}, nil
	}
	router := newInvestmentTestRouter(&mockInvestmentCommander{}, &mockInvestmentQuerier{listClientFn: listClientFn})
	w := doRequest(router, http.MethodGet, "/investments/cliente/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}
}

func TestTotalInvested(t *testing.T) {
	totalFn := func(q cqrs.TotalInvestedQuery) (*models.TotalInvestido, error) {
		return &models.TotalInvestido{ClienteID: 1, TotalInvestido: 1250.75}, nil
	}
	router := newInvestmentTestRouter(&mockInvestmentCommander{}, &mockInvestmentQuerier{totalFn: totalFn})
	w := doRequest(router, http.MethodGet, "/investments/cliente/1/total", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}

	var resp models.TotalInvestido
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.TotalInvestido != 1250.75 {
		t.Errorf("expected total 1250.75, got %v", resp.TotalInvestido)
	}
}

func TestTotalInvestedUnknownClient(t *testing.T) {
	totalFn := func(q cqrs.TotalInvestedQuery) (*models.TotalInvestido, error) {
		return nil, apperr.ErrNotFound
	}
	router := newInvestmentTestRouter(&mockInvestmentCommander{}, &mockInvestmentQuerier{totalFn: totalFn})

	w := doRequest(router, http.MethodGet, "/investments/cliente/999/total", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("an unknown client must answer 404, got %d; body: %s", w.Code, w.Body.String())
	}
}

func TestUpdateInvestment(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		updateFn       func(cqrs.UpdateInvestmentCommand) (*models.Investment, error)
		expectedStatus int
	}{
		{
			name:           "success - deactivate investment",
			body:           map[string]interface{}{"ativo": false},
			updateFn:       func(cmd cqrs.UpdateInvestmentCommand) (*models.Investment, error) { return aTestInvestment(), nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "bad request - unknown investment type",
			body:           map[string]interface{}{"tipo_investimento": "IMOVEIS"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "not found - unknown id",
			body:           map[string]interface{}{"ativo": false},
			updateFn:       func(cmd cqrs.UpdateInvestmentCommand) (*models.Investment, error) { return nil, apperr.ErrNotFound },
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockInvestmentCommander{updateFn: tt.updateFn}
			router := newInvestmentTestRouter(cmds, &mockInvestmentQuerier{})
			w := doRequest(router, http.MethodPut, "/investments/10", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestDeleteInvestment(t *testing.T) {
	tests := []struct {
		name           string
		deleteFn       func(cqrs.DeleteInvestmentCommand) error
		expectedStatus int
	}{
		{
			name:           "success - delete returns 204",
			deleteFn:       func(cmd cqrs.DeleteInvestmentCommand) error { return nil },
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "not found - unknown investment",
			deleteFn:       func(cmd cqrs.DeleteInvestmentCommand) error { return apperr.ErrNotFound },
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockInvestmentCommander{deleteFn: tt.deleteFn}
			router := newInvestmentTestRouter(cmds, &mockInvestmentQuerier{})
			w := doRequest(router, http.MethodDelete, "/investments/10", nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d", tt.name, tt.expectedStatus, w.Code)
			}
		})
	}
}
