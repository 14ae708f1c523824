package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/LucasLorenaa/projeto-javer-services/internal/gateway/market"
	"github.com/LucasLorenaa/projeto-javer-services/shared/apperr"
	"github.com/LucasLorenaa/projeto-javer-services/shared/middleware"
	"github.com/LucasLorenaa/projeto-javer-services/shared/models"
)

// Annual return rate per investor profile over the active invested total.
var profileRates = map[string]float64{
	models.PerfilConservador: 0.08,
	models.PerfilModerado:    0.12,
	models.PerfilArrojado:    0.18,
}

// StorageAPI is the slice of the storage surface the analytics handlers read.
type StorageAPI interface {
	GetClient(ctx context.Context, id int64) (*models.ClientView, error)
	ListClientInvestments(ctx context.Context, clienteID int64) ([]models.Investment, error)
	TotalInvested(ctx context.Context, clienteID int64) (*models.TotalInvestido, error)
}

// QuoteProvider serves market snapshots for the /analises/mercado route.
type QuoteProvider interface {
	GetQuote(ctx context.Context, ticker string) *market.Quote
}

// AnalyticsHandler serves the derived read-only views computed over storage
// responses: credit score, consolidated patrimony, return projection,
// portfolio allocation and market quotes.
type AnalyticsHandler struct {
	storage StorageAPI
	quotes  QuoteProvider
}

func NewAnalyticsHandler(storage StorageAPI, quotes QuoteProvider) *AnalyticsHandler {
	return &AnalyticsHandler{storage: storage, quotes: quotes}
}

type ScoreResponse struct {
	ID             int64    `json:"id"`
	Nome           string   `json:"nome"`
	SaldoCC        *float64 `json:"saldo_cc"`
	ScoreCalculado *float64 `json:"score_calculado"`
}

type PatrimonioResponse struct {
	ClienteID              int64   `json:"cliente_id"`
	Nome                   string  `json:"nome"`
	SaldoConta             float64 `json:"saldo_conta"`
	PatrimonioInvestimento float64 `json:"patrimonio_investimento"`
	TotalInvestimentos     float64 `json:"total_investimentos"`
	PatrimonioTotal        float64 `json:"patrimonio_total"`
}

type ProjecaoResponse struct {
	ClienteID        int64   `json:"cliente_id"`
	Nome             string  `json:"nome"`
	PerfilInvestidor string  `json:"perfil_investidor"`
	PatrimonioTotal  float64 `json:"patrimonio_total"`
	ProjecaoAnual    float64 `json:"projecao_anual"`
	TaxaRetorno      float64 `json:"taxa_retorno"`
}

type AlocacaoTipo struct {
	Quantidade         int     `json:"quantidade"`
	Total              float64 `json:"total"`
	Ativos             int     `json:"ativos"`
	PercentualCarteira float64 `json:"percentual_carteira"`
}

type CarteiraResponse struct {
	ClienteID           int64                   `json:"cliente_id"`
	TotalInvestido      float64                 `json:"total_investido"`
	NumeroInvestimentos int                     `json:"numero_investimentos"`
	AlocacaoPorTipo     map[string]AlocacaoTipo `json:"alocacao_por_tipo"`
}

type MercadoResponse struct {
	Ticker              string  `json:"ticker"`
	PrecoAtual          float64 `json:"preco_atual"`
	VariacaoDia         float64 `json:"variacao_dia"`
	VariacaoPercentual  float64 `json:"variacao_percentual"`
	Volume              int64   `json:"volume"`
	HistoricoDisponivel bool    `json:"historico_disponivel"`
}

// Score answers GET /clients/:id/score. The score is always derived from the
// current balance, independent of any stored score_credito, and stays null
// for a client without a balance.
func (h *AnalyticsHandler) Score(c *gin.Context) {
	view, ok := h.fetchClient(c)
	if !ok {
		return
	}

	var score *float64
	if view.SaldoCC != nil {
		derived := *view.SaldoCC * 0.1
		score = &derived
	}

	c.JSON(http.StatusOK, ScoreResponse{
		ID:             view.ID,
		Nome:           view.Nome,
		SaldoCC:        view.SaldoCC,
		ScoreCalculado: score,
	})
}

// Patrimonio answers GET /calculos/patrimonio/:id: account balance plus
// investable balance plus active invested total.
func (h *AnalyticsHandler) Patrimonio(c *gin.Context) {
	view, ok := h.fetchClient(c)
	if !ok {
		return
	}

	total, err := h.storage.TotalInvested(c.Request.Context(), view.ID)
	if err != nil {
		respondStorageError(c, err)
		return
	}

	var saldo float64
	if view.SaldoCC != nil {
		saldo = *view.SaldoCC
	}

	c.JSON(http.StatusOK, PatrimonioResponse{
		ClienteID:              view.ID,
		Nome:                   view.Nome,
		SaldoConta:             saldo,
		PatrimonioInvestimento: view.PatrimonioInvestimento,
		TotalInvestimentos:     total.TotalInvestido,
		PatrimonioTotal:        saldo + view.PatrimonioInvestimento + total.TotalInvestido,
	})
}

// Projecao answers GET /calculos/projecao/:id: the yearly return projected
// over the active invested total at the profile's rate.
func (h *AnalyticsHandler) Projecao(c *gin.Context) {
	view, ok := h.fetchClient(c)
	if !ok {
		return
	}

	total, err := h.storage.TotalInvested(c.Request.Context(), view.ID)
	if err != nil {
		respondStorageError(c, err)
		return
	}

	perfil := view.PerfilInvestidor
	rate, ok2 := profileRates[perfil]
	if !ok2 {
		perfil = models.PerfilConservador
		rate = profileRates[perfil]
	}

	c.JSON(http.StatusOK, ProjecaoResponse{
		ClienteID:        view.ID,
		Nome:             view.Nome,
		PerfilInvestidor: perfil,
		PatrimonioTotal:  total.TotalInvestido,
		ProjecaoAnual:    round2(total.TotalInvestido * rate),
		TaxaRetorno:      rate * 100,
	})
}

// Carteira answers GET /analises/carteira/:id: allocation per investment
// type with each type's share of the portfolio.
func (h *AnalyticsHandler) Carteira(c *gin.Context) {
	view, ok := h.fetchClient(c)
	if !ok {
		return
	}

	investments, err := h.storage.ListClientInvestments(c.Request.Context(), view.ID)
	if err != nil {
		respondStorageError(c, err)
		return
	}

	type bucket struct {
		quantidade int
		total      float64
		ativos     int
	}
	porTipo := make(map[string]*bucket)
	var totalInvestido float64

	for _, inv := range investments {
		tipo := string(inv.TipoInvestimento)
		b, exists := porTipo[tipo]
		if !exists {
			b = &bucket{}
			porTipo[tipo] = b
		}
		b.quantidade++
		b.total += inv.ValorInvestido
		totalInvestido += inv.ValorInvestido
		if inv.Ativo {
			b.ativos++
		}
	}

	alocacao := make(map[string]AlocacaoTipo, len(porTipo))
	for tipo, b := range porTipo {
		var percentual float64
		if totalInvestido > 0 {
			percentual = round2(b.total / totalInvestido * 100)
		}
		alocacao[tipo] = AlocacaoTipo{
			Quantidade:         b.quantidade,
			Total:              round2(b.total),
			Ativos:             b.ativos,
			PercentualCarteira: percentual,
		}
	}

	c.JSON(http.StatusOK, CarteiraResponse{
		ClienteID:           view.ID,
		TotalInvestido:      round2(totalInvestido),
		NumeroInvestimentos: len(investments),
		AlocacaoPorTipo:     alocacao,
	})
}

// Mercado answers GET /analises/mercado/:ticker with the current quote. The
// market service degrades to a synthetic snapshot on upstream failure, so
// the route always answers 200.
func (h *AnalyticsHandler) Mercado(c *gin.Context) {
	ticker := c.Param("ticker")
	quote := h.quotes.GetQuote(c.Request.Context(), ticker)

	c.JSON(http.StatusOK, MercadoResponse{
		Ticker:              quote.Ticker,
		PrecoAtual:          quote.PrecoAtual,
		VariacaoDia:         quote.VariacaoDia,
		VariacaoPercentual:  quote.VariacaoPercentual,
		Volume:              quote.Volume,
		HistoricoDisponivel: !quote.Fallback,
	})
}

func (h *AnalyticsHandler) fetchClient(c *gin.Context) (*models.ClientView, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid id")
		return nil, false
	}

	view, err := h.storage.GetClient(c.Request.Context(), id)
	if err != nil {
		respondStorageError(c, err)
		return nil, false
	}
	return view, true
}

func respondStorageError(c *gin.Context, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		middleware.RespondWithError(c, http.StatusNotFound, "Client not found")
		return
	}
	middleware.RespondWithError(c, http.StatusBadGateway, "Storage service unavailable")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
