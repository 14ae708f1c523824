package market

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LucasLorenaa/projeto-javer-services/shared/redis"
)

const defaultChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// quoteTTL keeps quotes fresh within a minute while shielding the upstream
// API from per-request traffic.
const quoteTTL = 60 * time.Second

// knownTickers is the optimistic allowlist used when the upstream API cannot
// confirm a ticker (offline, rate-limited).
var knownTickers = map[string]bool{
	"AAPL":     true,
	"MSFT":     true,
	"PETR4.SA": true,
	"^BVSP":    true,
	"^GSPC":    true,
	"^DJI":     true,
	"^IXIC":    true,
	"BTC-USD":  true,
	"ETH-USD":  true,
}

// fallbackBasePrices anchors the synthetic daily snapshot per ticker.
var fallbackBasePrices = map[string]float64{
	"^BVSP":    128000.0,
	"^GSPC":    5200.0,
	"^DJI":     39200.0,
	"^IXIC":    17800.0,
	"BTC-USD":  47000.0,
	"ETH-USD":  2400.0,
	"AAPL":     190.0,
	"MSFT":     380.0,
	"PETR4.SA": 38.0,
}

// Quote is the market snapshot for a single ticker. Fallback marks synthetic
// quotes generated while the upstream API is unavailable.
type Quote struct {
	Ticker             string  `json:"ticker"`
	PrecoAtual         float64 `json:"preco_atual"`
	PrecoAnterior      float64 `json:"preco_anterior"`
	VariacaoDia        float64 `json:"variacao_dia"`
	VariacaoPercentual float64 `json:"variacao_percentual"`
	Volume             int64   `json:"volume"`
	Moeda              string  `json:"moeda"`
	Nome               string  `json:"nome"`
	Fallback           bool    `json:"fallback,omitempty"`
}

// Service fetches quotes from the Yahoo Finance chart API with a 60-second
// Redis cache in front and a deterministic per-ticker-per-day synthetic
// snapshot when the API is unreachable.
type Service struct {
	chartURL string
	client   *http.Client
	cache    *redis.ViewCache[Quote]
	now      func() time.Time
}

func NewService(cache *redis.ViewCache[Quote]) *Service {
	return NewServiceWithURL(defaultChartURL, cache)
}

func NewServiceWithURL(chartURL string, cache *redis.ViewCache[Quote]) *Service {
	return &Service{
		chartURL: strings.TrimSuffix(chartURL, "/"),
		client:   &http.Client{Timeout: 5 * time.Second},
		cache:    cache,
		now:      time.Now,
	}
}

// GetQuote returns the current snapshot for ticker. It never fails for
// transient upstream problems: the synthetic fallback keeps the dashboard
// populated until Yahoo answers again.
func (s *Service) GetQuote(ctx context.Context, ticker string) *Quote {
	key := "market:quote:" + ticker
	if s.cache != nil {
		if quote, ok := s.cache.Get(ctx, key); ok {
			return quote
		}
	}

	quote, err := s.fetchQuote(ctx, ticker)
	if err != nil {
		log.Printf("yahoo chart API failed for %s, serving fallback: %v", ticker, err)
		quote = s.fallbackQuote(ticker)
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, quote)
	}
	return quote
}

// ValidateTicker reports whether a ticker is tradable. A successful upstream
// lookup confirms it; otherwise the known-ticker allowlist answers
// optimistically so offline operation does not block investment creation.
func (s *Service) ValidateTicker(ctx context.Context, ticker string) bool {
	if _, err := s.fetchQuote(ctx, ticker); err == nil {
		return true
	}
	return knownTickers[strings.ToUpper(ticker)]
}

// chartResponse covers the slice of the Yahoo chart payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency            string  `json:"currency"`
				RegularMarketPrice  float64 `json:"regularMarketPrice"`
				ChartPreviousClose  float64 `json:"chartPreviousClose"`
				RegularMarketVolume int64   `json:"regularMarketVolume"`
				LongName            string  `json:"longName"`
				ShortName           string  `json:"shortName"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (s *Service) fetchQuote(ctx context.Context, ticker string) (*Quote, error) {
	reqURL := fmt.Sprintf("%s/%s?range=2d&interval=1d", s.chartURL, url.PathEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart API returned status %d", resp.StatusCode)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %w", err)
	}
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s", payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart API returned no result for %s", ticker)
	}

	meta := payload.Chart.Result[0].Meta
	if meta.RegularMarketPrice == 0 {
		return nil, fmt.Errorf("chart API returned no price for %s", ticker)
	}

	precoAtual := round2(meta.RegularMarketPrice)
	precoAnterior := round2(meta.ChartPreviousClose)
	variacaoDia := round2(precoAtual - precoAnterior)
	var variacaoPercentual float64
	if precoAnterior != 0 {
		variacaoPercentual = round2(variacaoDia / precoAnterior * 100)
	}

	nome := meta.LongName
	if nome == "" {
		nome = meta.ShortName
	}
	if nome == "" {
		nome = ticker
	}
	moeda := meta.Currency
	if moeda == "" {
		moeda = "USD"
	}

	return &Quote{
		Ticker:             ticker,
		PrecoAtual:         precoAtual,
		PrecoAnterior:      precoAnterior,
		VariacaoDia:        variacaoDia,
		VariacaoPercentual: variacaoPercentual,
		Volume:             meta.RegularMarketVolume,
		Moeda:              moeda,
		Nome:               nome,
	}, nil
}

// fallbackQuote builds a stable synthetic snapshot: the same ticker yields
// the same numbers for the whole day, so repeated reads do not flicker.
func (s *Service) fallbackQuote(ticker string) *Quote {
	seed := fnv.New64a()
	fmt.Fprintf(seed, "%s-%s", ticker, s.now().Format("2006-01-02"))
	rnd := rand.New(rand.NewSource(int64(seed.Sum64())))

	base, ok := fallbackBasePrices[ticker]
	if !ok {
		base = 100.0 + uniform(rnd, -10, 10)
	}

	drift := uniform(rnd, -0.02, 0.02)
	precoAtual := round2(base * (1 + drift))
	variacaoPercentual := round2(drift * 100)
	variacaoDia := round2(precoAtual * variacaoPercentual / 100)
	volume := int64(math.Abs(rnd.NormFloat64()*200_000 + 1_000_000))

	return &Quote{
		Ticker:             ticker,
		PrecoAtual:         precoAtual,
		PrecoAnterior:      round2(base),
		VariacaoDia:        variacaoDia,
		VariacaoPercentual: variacaoPercentual,
		Volume:             volume,
		Moeda:              "USD",
		Nome:               ticker,
		Fallback:           true,
	}
}

func uniform(rnd *rand.Rand, lo, hi float64) float64 {
	return lo + rnd.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
