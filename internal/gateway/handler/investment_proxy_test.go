package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type mockTickerValidator struct {
	valid    bool
	received string
}

func (m *mockTickerValidator) ValidateTicker(_ context.Context, ticker string) bool {
	m.received = ticker
	return m.valid
}

func postInvestment(t *testing.T, storageURL string, validator TickerValidator, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	p := NewInvestmentProxy(storageURL, validator)
	r.POST("/investments", p.Forward)

	req, _ := http.NewRequest(http.MethodPost, "/investments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestForwardRejectsUnknownTicker(t *testing.T) {
	validator := &mockTickerValidator{valid: false}

	w := postInvestment(t, "http://storage.invalid", validator,
		`{"cliente_id": 1, "tipo_investimento": "ACOES", "valor_investido": 500, "ticker": "XPTO3.SA"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Ticker 'XPTO3.SA' not found") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
	if validator.received != "XPTO3.SA" {
		t.Errorf("validator saw %q", validator.received)
	}
}

func TestForwardRejectsMalformedBody(t *testing.T) {
	validator := &mockTickerValidator{valid: true}

	w := postInvestment(t, "http://storage.invalid", validator, `{"ticker":`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if validator.received != "" {
		t.Error("validator should not run for a malformed body")
	}
}

func TestForwardPassesValidTickerBodyIntact(t *testing.T) {
	var forwarded string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		forwarded = string(body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer upstream.Close()

	validator := &mockTickerValidator{valid: true}
	body := `{"cliente_id": 1, "tipo_investimento": "ACOES", "valor_investido": 500, "ticker": "PETR4.SA"}`

	w := postInvestment(t, upstream.URL, validator, body)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 from upstream, got %d", w.Code)
	}
	if forwarded != body {
		t.Errorf("body altered in flight: %s", forwarded)
	}
}

func TestForwardSkipsValidationWithoutTicker(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer upstream.Close()

	validator := &mockTickerValidator{valid: false}

	w := postInvestment(t, upstream.URL, validator,
		`{"cliente_id": 1, "tipo_investimento": "RENDA_FIXA", "valor_investido": 500}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if validator.received != "" {
		t.Error("validator should not run when no ticker is present")
	}
}
