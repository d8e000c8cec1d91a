package coingecko

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/alejandrodnm/holderscan/internal/adapters/httpclient"
	"github.com/alejandrodnm/holderscan/internal/domain"
)

const (
	defaultBase = "https://api.coingecko.com/api/v3"

	simplePricePath = "/simple/price"
	historyPathFmt  = "/coins/%s/history"

	// CoinGecko espera la fecha como DD-MM-YYYY.
	historyDateLayout = "02-01-2006"

	demoKeyHeader = "x-cg-demo-api-key"
)

// Client implementa ports.PriceOracle sobre la API pública de CoinGecko.
type Client struct {
	http *httpclient.Client
	base string
}

// NewClient crea un Client. Si base está vacío usa la API pública.
// apiKey es opcional (plan demo).
func NewClient(base, apiKey string, cfg httpclient.Config, opts ...httpclient.Option) *Client {
	if base == "" {
		base = defaultBase
	}
	if cfg.Name == "" {
		cfg.Name = "coingecko"
	}
	if apiKey != "" {
		opts = append(opts, httpclient.WithHeader(demoKeyHeader, apiKey))
	}
	return &Client{
		http: httpclient.New(cfg, opts...),
		base: strings.TrimRight(base, "/"),
	}
}

// CurrentPrice devuelve el precio spot de tokenID en currency.
func (c *Client) CurrentPrice(ctx context.Context, tokenID, currency string) (float64, error) {
	if currency == "" {
		currency = "usd"
	}
	params := url.Values{
		"ids":           {tokenID},
		"vs_currencies": {currency},
	}

	var resp simplePriceResponse
	if err := c.http.Get(ctx, c.base+simplePricePath, params, &resp); err != nil {
		return 0, fmt.Errorf("coingecko.CurrentPrice: %w", err)
	}

	price, ok := resp[tokenID][currency]
	if !ok || price == nil {
		return 0, fmt.Errorf("coingecko.CurrentPrice: %s/%s: %w", tokenID, currency, domain.ErrPriceUnavailable)
	}
	return *price, nil
}

// HistoricalPrice devuelve el precio USD del día calendario (UTC) de date.
func (c *Client) HistoricalPrice(ctx context.Context, date time.Time, tokenID string) (float64, error) {
	day := date.UTC().Format(historyDateLayout)
	params := url.Values{
		"date":         {day},
		"localization": {"false"},
	}
	endpoint := c.base + fmt.Sprintf(historyPathFmt, url.PathEscape(tokenID))

	var resp historyResponse
	if err := c.http.Get(ctx, endpoint, params, &resp); err != nil {
		return 0, fmt.Errorf("coingecko.HistoricalPrice: %w", err)
	}

	if resp.MarketData == nil || resp.MarketData.CurrentPrice.USD == nil {
		return 0, fmt.Errorf("coingecko.HistoricalPrice: %s on %s: %w", tokenID, day, domain.ErrPriceUnavailable)
	}

	slog.Debug("historical price fetched",
		"token", tokenID,
		"date", day,
		"usd", *resp.MarketData.CurrentPrice.USD,
	)
	return *resp.MarketData.CurrentPrice.USD, nil
}
