package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LucasLorenaa/projeto-javer-services/shared/middleware"
	"github.com/LucasLorenaa/projeto-javer-services/shared/models"
)

// ClientProxy rejects malformed client payloads at the edge so bad requests
// never reach the storage service.
type ClientProxy struct {
	proxy gin.HandlerFunc
}

func NewClientProxy(storageURL string) *ClientProxy {
	return &ClientProxy{proxy: ProxyTo(storageURL)}
}

// createClientPayload mirrors the storage registration contract, including
// the adult check on data_nascimento.
type createClientPayload struct {
	Nome                   string       `json:"nome" validate:"required,min=1,max=255"`
	Telefone               int64        `json:"telefone" validate:"required,gte=0"`
	Email                  string       `json:"email" validate:"required,email"`
	DataNascimento         *models.Date `json:"data_nascimento" validate:"omitempty,adult"`
	ScoreCredito           *float64     `json:"score_credito" validate:"omitempty,gte=0"`
	SaldoCC                *float64     `json:"saldo_cc" validate:"omitempty,gte=0"`
	PatrimonioInvestimento *float64     `json:"patrimonio_investimento" validate:"omitempty,gte=0"`
	PerfilInvestidor       string       `json:"perfil_investidor" validate:"omitempty,oneof=CONSERVADOR MODERADO ARROJADO"`
	Senha                  string       `json:"senha" validate:"required"`
}

// ForwardCreate validates a registration payload and proxies it.
func (p *ClientProxy) ForwardCreate(c *gin.Context) {
	var payload createClientPayload
	if !p.bindAndValidate(c, &payload) {
		return
	}
	p.proxy(c)
}

// ForwardUpdate validates a client patch and proxies it.
func (p *ClientProxy) ForwardUpdate(c *gin.Context) {
	var patch models.ClientPatch
	if !p.bindAndValidate(c, &patch) {
		return
	}
	p.proxy(c)
}

// bindAndValidate inspects the body without consuming it: the bytes are
// restored so the proxy forwards the original payload untouched.
func (p *ClientProxy) bindAndValidate(c *gin.Context, target any) bool {
	var bodyBytes []byte
	if c.Request.Body != nil {
		bodyBytes, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if validationErrors := middleware.ValidateRequest(target); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return false
	}
	return true
}
