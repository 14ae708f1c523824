package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/LucasLorenaa/projeto-javer-services/shared/apperr"
	"github.com/LucasLorenaa/projeto-javer-services/shared/cqrs"
	"github.com/LucasLorenaa/projeto-javer-services/shared/middleware"
	"github.com/LucasLorenaa/projeto-javer-services/shared/models"
)

// ClientCommander is the write side consumed by ClientHandler.
type ClientCommander interface {
	CreateClient(ctx context.Context, cmd cqrs.CreateClientCommand) (*models.ClientView, error)
	UpdateClient(ctx context.Context, cmd cqrs.UpdateClientCommand) (*models.ClientView, error)
	DeleteClient(ctx context.Context, cmd cqrs.DeleteClientCommand) error
	ResetPassword(ctx context.Context, cmd cqrs.ResetPasswordCommand) error
}

// ClientQuerier is the read side consumed by ClientHandler.
type ClientQuerier interface {
	GetClient(ctx context.Context, q cqrs.GetClientQuery) (*models.ClientView, error)
	ListClients(ctx context.Context, q cqrs.ListClientsQuery) ([]models.ClientView, error)
	Authenticate(ctx context.Context, q cqrs.LoginQuery) (*models.ClientView, string, error)
}

type ClientHandler struct {
	commands ClientCommander
	queries  ClientQuerier
}

func NewClientHandler(commands ClientCommander, queries ClientQuerier) *ClientHandler {
	return &ClientHandler{commands: commands, queries: queries}
}

// CreateClientRequest is the registration payload. data_nascimento uses the
// "2006-01-02" date format and must place the client at 18 years or older.
type CreateClientRequest struct {
	Nome                   string       `json:"nome" validate:"required,min=1,max=255"`
	Telefone               int64        `json:"telefone" validate:"required,gte=0"`
	Email                  string       `json:"email" validate:"required,email"`
	DataNascimento         *models.Date `json:"data_nascimento" validate:"omitempty,adult"`
	Correntista            bool         `json:"correntista"`
	ScoreCredito           *float64     `json:"score_credito" validate:"omitempty,gte=0"`
	SaldoCC                *float64     `json:"saldo_cc" validate:"omitempty,gte=0"`
	PatrimonioInvestimento *float64     `json:"patrimonio_investimento" validate:"omitempty,gte=0"`
	PerfilInvestidor       string       `json:"perfil_investidor" validate:"omitempty,oneof=CONSERVADOR MODERADO ARROJADO"`
	Senha                  string       `json:"senha" validate:"required"`
}

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

type ResetPasswordRequest struct {
	Email     string `json:"email" validate:"required,email"`
	SenhaNova string `json:"senha_nova" validate:"required"`
}

// LoginResponse carries the client view plus the bearer token for the
// gateway's guarded routes.
type LoginResponse struct {
	*models.ClientView
	Token string `json:"token"`
}

func (h *ClientHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/register", h.Create)
	router.POST("/clients", h.Create)
	router.POST("/login", h.Login)
	router.GET("/clients", h.List)
	router.GET("/clients/:id", h.Get)
	router.PUT("/clients/:id", h.Update)
	router.DELETE("/clients/:id", h.Delete)
	router.PUT("/password", h.ResetPassword)
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.commands.CreateClient(c.Request.Context(), cqrs.CreateClientCommand{
		Nome:                   req.Nome,
		Telefone:               req.Telefone,
		Email:                  req.Email,
		DataNascimento:         req.DataNascimento,
		Correntista:            req.Correntista,
		ScoreCredito:           req.ScoreCredito,
		SaldoCC:                req.SaldoCC,
		PatrimonioInvestimento: req.PatrimonioInvestimento,
		PerfilInvestidor:       req.PerfilInvestidor,
		Senha:                  req.Senha,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *ClientHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, token, err := h.queries.Authenticate(c.Request.Context(), cqrs.LoginQuery{
		Email: req.Email,
		Senha: req.Senha,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{ClientView: view, Token: token})
}

func (h *ClientHandler) List(c *gin.Context) {
	views, err := h.queries.ListClients(c.Request.Context(), cqrs.ListClientsQuery{})
	if err != nil {
		respondError(c, err)
		return
	}

	if views == nil {
		views = []models.ClientView{}
	}
	c.JSON(http.StatusOK, views)
}

func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	view, err := h.queries.GetClient(c.Request.Context(), cqrs.GetClientQuery{ClientID: id})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var patch models.ClientPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := middleware.ValidateRequest(patch); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.commands.UpdateClient(c.Request.Context(), cqrs.UpdateClientCommand{
		ClientID: id,
		Patch:    patch,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.commands.DeleteClient(c.Request.Context(), cqrs.DeleteClientCommand{ClientID: id}); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ClientHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	err := h.commands.ResetPassword(c.Request.Context(), cqrs.ResetPasswordCommand{
		Email:     req.Email,
		SenhaNova: req.SenhaNova,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

// respondError maps domain errors to status codes. Anything unmapped is a 500
// with a generic message so internals never leak to the client.
func respondError(c *gin.Context, err error) {
	var conflict *apperr.ConflictError
	var weak *apperr.WeakPasswordError
	var funds *apperr.InsufficientFundsError

	switch {
	case errors.Is(err, apperr.ErrNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, "Not found")
	case errors.Is(err, apperr.ErrInvalidCredentials):
		middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.As(err, &conflict):
		middleware.RespondWithError(c, http.StatusConflict, conflict.Error())
	case errors.As(err, &weak):
		middleware.RespondWithError(c, http.StatusBadRequest, weak.Error())
	case errors.Is(err, apperr.ErrPasswordBreached):
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &funds):
		middleware.RespondWithError(c, http.StatusBadRequest, funds.Error())
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
