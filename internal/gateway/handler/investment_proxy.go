package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LucasLorenaa/projeto-javer-services/shared/middleware"
)

// TickerValidator confirms a ticker is tradable before the investment
// reaches the storage service.
type TickerValidator interface {
	ValidateTicker(ctx context.Context, ticker string) bool
}

// InvestmentProxy guards investment writes: a payload naming an unknown
// ticker is rejected at the edge, everything else forwards untouched.
type InvestmentProxy struct {
	proxy  gin.HandlerFunc
	market TickerValidator
}

func NewInvestmentProxy(storageURL string, market TickerValidator) *InvestmentProxy {
	return &InvestmentProxy{proxy: ProxyTo(storageURL), market: market}
}

// Forward validates the ticker, if present, and hands the request to the
// proxy. The body is restored after inspection so the proxy forwards it
// byte-for-byte.
func (p *InvestmentProxy) Forward(c *gin.Context) {
	var bodyBytes []byte
	if c.Request.Body != nil {
		bodyBytes, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	}

	var payload struct {
		Ticker *string `json:"ticker"`
	}
	if err := json.Unmarshal(bodyBytes, &payload); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.Ticker != nil && *payload.Ticker != "" {
		if !p.market.ValidateTicker(c.Request.Context(), *payload.Ticker) {
			middleware.RespondWithError(c, http.StatusBadRequest,
				fmt.Sprintf("Ticker '%s' not found", *payload.Ticker))
			return
		}
	}

	p.proxy(c)
}
