package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LucasLorenaa/projeto-javer-services/shared/cqrs"
	"github.com/LucasLorenaa/projeto-javer-services/shared/middleware"
	"github.com/LucasLorenaa/projeto-javer-services/shared/models"
)

// InvestmentCommander is the write side consumed by InvestmentHandler.
type InvestmentCommander interface {
	CreateInvestment(ctx context.Context, cmd cqrs.CreateInvestmentCommand) (*models.Investment, error)
	UpdateInvestment(ctx context.Context, cmd cqrs.UpdateInvestmentCommand) (*models.Investment, error)
	DeleteInvestment(ctx context.Context, cmd cqrs.DeleteInvestmentCommand) error
}

// InvestmentQuerier is the read side consumed by InvestmentHandler.
type InvestmentQuerier interface {
	GetInvestment(ctx context.Context, q cqrs.GetInvestmentQuery) (*models.Investment, error)
	ListInvestments(ctx context.Context, q cqrs.ListInvestmentsQuery) ([]models.Investment, error)
	ListClientInvestments(ctx context.Context, q cqrs.ListClientInvestmentsQuery) ([]models.Investment, error)
	TotalInvested(ctx context.Context, q cqrs.TotalInvestedQuery) (*models.TotalInvestido, error)
}

type InvestmentHandler struct {
	commands InvestmentCommander
	queries  InvestmentQuerier
}

func NewInvestmentHandler(commands InvestmentCommander, queries InvestmentQuerier) *InvestmentHandler {
	return &InvestmentHandler{commands: commands, queries: queries}
}

// CreateInvestmentRequest funds a new position from the client's investable
// balance.
type CreateInvestmentRequest struct {
	ClienteID        int64                 `json:"cliente_id" validate:"required,gt=0"`
	TipoInvestimento models.InvestmentType `json:"tipo_investimento" validate:"required,oneof=RENDA_FIXA ACOES FUNDOS CRIPTO"`
	Ticker           *string               `json:"ticker" validate:"omitempty,min=1,max=20"`
	ValorInvestido   float64               `json:"valor_investido" validate:"required,gt=0"`
	Rentabilidade    float64               `json:"rentabilidade"`
	Ativo            *bool                 `json:"ativo"`
}

func (h *InvestmentHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/investments", h.Create)
	router.GET("/investments", h.List)
	router.GET("/investments/:id", h.Get)
	router.PUT("/investments/:id", h.Update)
	router.DELETE("/investments/:id", h.Delete)
	router.GET("/investments/cliente/:id", h.ListByClient)
	router.GET("/investments/cliente/:id/total", h.TotalInvested)
}

func (h *InvestmentHandler) Create(c *gin.Context) {
	var req CreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	inv, err := h.commands.CreateInvestment(c.Request.Context(), cqrs.CreateInvestmentCommand{
		ClienteID:        req.ClienteID,
		TipoInvestimento: req.TipoInvestimento,
		Ticker:           req.Ticker,
		ValorInvestido:   req.ValorInvestido,
		Rentabilidade:    req.Rentabilidade,
		Ativo:            req.Ativo,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, inv)
}

func (h *InvestmentHandler) List(c *gin.Context) {
	investments, err := h.queries.ListInvestments(c.Request.Context(), cqrs.ListInvestmentsQuery{})
	if err != nil {
		respondError(c, err)
		return
	}

	if investments == nil {
		investments = []models.Investment{}
	}
	c.JSON(http.StatusOK, investments)
}

func (h *InvestmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	inv, err := h.queries.GetInvestment(c.Request.Context(), cqrs.GetInvestmentQuery{InvestmentID: id})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

func (h *InvestmentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var patch models.InvestmentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if patch.TipoInvestimento != nil && !patch.TipoInvestimento.Valid() {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid tipo_investimento")
		return
	}

	if validationErrors := middleware.ValidateRequest(patch); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	inv, err := h.commands.UpdateInvestment(c.Request.Context(), cqrs.UpdateInvestmentCommand{
		InvestmentID: id,
		Patch:        patch,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

func (h *InvestmentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.commands.DeleteInvestment(c.Request.Context(), cqrs.DeleteInvestmentCommand{InvestmentID: id}); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *InvestmentHandler) ListByClient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	investments, err := h.queries.ListClientInvestments(c.Request.Context(), cqrs.ListClientInvestmentsQuery{ClienteID: id})
	if err != nil {
		respondError(c, err)
		return
	}

	if investments == nil {
		investments = []models.Investment{}
	}
	c.JSON(http.StatusOK, investments)
}

func (h *InvestmentHandler) TotalInvested(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	total, err := h.queries.TotalInvested(c.Request.Context(), cqrs.TotalInvestedQuery{ClienteID: id})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, total)
}
