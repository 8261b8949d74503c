package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"SharePulse/internal/domain/models"
	domsvc "SharePulse/internal/domain/service"
	svccache "SharePulse/internal/service/cache"
	"SharePulse/internal/service/ratelimit"
	xhttp "SharePulse/pkg/http"
	"SharePulse/pkg/logger"
	"SharePulse/pkg/util"
)

// Config holds provider settings for the REST client.
type Config struct {
	BaseURL         string
	APIKey          string
	PriceScale      float64
	RequestsPerSec  float64
	Burst           float64
	SeriesTTL       time.Duration
	FundamentalsTTL time.Duration
}

// Client fetches daily history and fundamentals over the provider's
// REST API. Responses are cached and requests are rate limited per
// host. Provider prices arrive in cents and are rescaled to rand here,
// at the boundary.
type Client struct {
	cfg     Config
	http    *xhttp.Client
	cache   svccache.BytesCache
	limiter *ratelimit.Limiter
	logger  *logger.Logger
}

// New creates a MarketData client.
func New(cfg Config, hc *xhttp.Client, bc svccache.BytesCache, lim *ratelimit.Limiter, lgr *logger.Logger) *Client {
	if cfg.PriceScale <= 0 {
		cfg.PriceScale = 100
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.SeriesTTL <= 0 {
		cfg.SeriesTTL = 15 * time.Minute
	}
	if cfg.FundamentalsTTL <= 0 {
		cfg.FundamentalsTTL = time.Hour
	}
	if bc == nil {
		bc = svccache.NewTTLCache()
	}
	if lim == nil {
		lim = ratelimit.New()
	}
	return &Client{cfg: cfg, http: hc, cache: bc, limiter: lim, logger: lgr}
}

type wireBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type historyResponse struct {
	Symbol string    `json:"symbol"`
	Bars   []wireBar `json:"bars"`
}

type fundamentalsResponse struct {
	Symbol  string             `json:"symbol"`
	Metrics map[string]float64 `json:"metrics"`
}

// History returns daily bars for symbol over the provider range string
// (e.g. "1y", "5y"). Bars come back in ascending date order with prices
// rescaled to rand.
func (c *Client) History(ctx context.Context, symbol, rng string) ([]models.Bar, error) {
	key := fmt.Sprintf("history:%s:%s", symbol, rng)
	if b, ok, _ := c.cache.GetBytes(key); ok {
		var bars []models.Bar
		if err := json.Unmarshal(b, &bars); err == nil {
			return bars, nil
		}
	}

	if err := c.throttle(ctx); err != nil {
		return nil, err
	}

	var resp historyResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.cfg.BaseURL + "/v1/history",
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"range":  {rng},
		},
		Headers: c.authHeaders(),
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", symbol, err)
	}

	bars := make([]models.Bar, 0, len(resp.Bars))
	for _, wb := range resp.Bars {
		date, ok := util.ParseTime(wb.Date)
		if !ok {
			c.logger.Warn("skipping bar with bad date",
				logger.String("symbol", symbol),
				logger.String("date", wb.Date))
			continue
		}
		bars = append(bars, models.Bar{
			Symbol: symbol,
			Date:   util.DayStart(date),
			Open:   wb.Open / c.cfg.PriceScale,
			High:   wb.High / c.cfg.PriceScale,
			Low:    wb.Low / c.cfg.PriceScale,
			Close:  wb.Close / c.cfg.PriceScale,
			Volume: wb.Volume,
		})
	}

	if data, err := json.Marshal(bars); err == nil {
		_ = c.cache.SetBytes(key, data, c.cfg.SeriesTTL)
	}

	return bars, nil
}

// Fundamentals returns the provider's metrics map for symbol. A missing
// metric is simply absent from the map.
func (c *Client) Fundamentals(ctx context.Context, symbol string) (models.Fundamentals, error) {
	key := fmt.Sprintf("fundamentals:%s", symbol)
	if b, ok, _ := c.cache.GetBytes(key); ok {
		var f models.Fundamentals
		if err := json.Unmarshal(b, &f); err == nil {
			return f, nil
		}
	}

	if err := c.throttle(ctx); err != nil {
		return nil, err
	}

	var resp fundamentalsResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.cfg.BaseURL + "/v1/fundamentals",
		QueryParams: map[string][]string{
			"symbol": {symbol},
		},
		Headers: c.authHeaders(),
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fundamentals %s: %w", symbol, err)
	}

	f := models.Fundamentals(resp.Metrics)
	if f == nil {
		f = models.Fundamentals{}
	}

	if data, err := json.Marshal(f); err == nil {
		_ = c.cache.SetBytes(key, data, c.cfg.FundamentalsTTL)
	}

	return f, nil
}

func (c *Client) throttle(ctx context.Context) error {
	deadline := time.Now().Add(5 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if !c.limiter.Wait("provider", c.cfg.Burst, c.cfg.RequestsPerSec, deadline) {
		return fmt.Errorf("provider rate limit exceeded")
	}
	return nil
}

func (c *Client) authHeaders() map[string]string {
	if c.cfg.APIKey == "" {
		return nil
	}
	return map[string]string{"X-Api-Key": c.cfg.APIKey}
}

var _ domsvc.MarketData = (*Client)(nil)
