package market

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultBinanceURL = "https://api.binance.com"
	defaultQuoteURL   = "https://query1.finance.yahoo.com"
)

// Client fetches quotes from read-only pricing endpoints.
type Client struct {
	httpClient *http.Client
	binanceURL string
	quoteURL   string
}

// Option configures a Client.
type Option func(*Client)

// WithBinanceURL sets the crypto ticker base URL (for testing).
func WithBinanceURL(u string) Option {
	return func(c *Client) {
		c.binanceURL = strings.TrimRight(u, "/")
	}
}

// WithQuoteURL sets the index quote base URL (for testing).
func WithQuoteURL(u string) Option {
	return func(c *Client) {
		c.quoteURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a new market data client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		binanceURL: defaultBinanceURL,
		quoteURL:   defaultQuoteURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tickerResponse struct {
	LastPrice          string `json:"lastPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
}

// Crypto returns the 24h ticker for a crypto pair such as BTCUSDT.
func (c *Client) Crypto(ctx context.Context, symbol string) Result {
	q, err := c.fetchTicker(ctx, symbol)
	if err != nil {
		slog.Warn("crypto quote unavailable", "symbol", symbol, "error", err)
		return Unavailable(err)
	}
	return Available(q)
}

func (c *Client) fetchTicker(ctx context.Context, symbol string) (Quote, error) {
	endpoint := c.binanceURL + "/api/v3/ticker/24hr?symbol=" + url.QueryEscape(symbol)

	var ticker tickerResponse
	if err := c.getJSON(ctx, endpoint, &ticker); err != nil {
		return Quote{}, err
	}

	if ticker.LastPrice == "" || ticker.PriceChangePercent == "" {
		return Quote{}, fmt.Errorf("ticker %s: %w", symbol, ErrMissingField)
	}
	price, err := decimal.NewFromString(ticker.LastPrice)
	if err != nil {
		return Quote{}, fmt.Errorf("parse lastPrice %q: %w", ticker.LastPrice, err)
	}
	change, err := decimal.NewFromString(ticker.PriceChangePercent)
	if err != nil {
		return Quote{}, fmt.Errorf("parse priceChangePercent %q: %w", ticker.PriceChangePercent, err)
	}

	return Quote{
		Price:         price.InexactFloat64(),
		PercentChange: change.InexactFloat64(),
	}, nil
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string   `json:"symbol"`
			RegularMarketPrice         *float64 `json:"regularMarketPrice"`
			RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// Indices fetches several index symbols in one request. Every requested
// symbol has an entry in the returned map; missing ones are unavailable.
func (c *Client) Indices(ctx context.Context, symbols ...string) map[string]Result {
	results := make(map[string]Result, len(symbols))
	if len(symbols) == 0 {
		return results
	}

	endpoint := c.quoteURL + "/v7/finance/quote?symbols=" + url.QueryEscape(strings.Join(symbols, ","))

	var resp quoteResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		slog.Warn("index quotes unavailable", "symbols", symbols, "error", err)
		for _, s := range symbols {
			results[s] = Unavailable(err)
		}
		return results
	}

	for _, r := range resp.QuoteResponse.Result {
		if r.RegularMarketPrice == nil || r.RegularMarketChangePercent == nil {
			results[r.Symbol] = Unavailable(fmt.Errorf("quote %s: %w", r.Symbol, ErrMissingField))
			continue
		}
		results[r.Symbol] = Available(Quote{
			Price:         *r.RegularMarketPrice,
			PercentChange: *r.RegularMarketChangePercent,
		})
	}

	for _, s := range symbols {
		res, ok := results[s]
		if !ok {
			res = Unavailable(fmt.Errorf("quote %s: %w", s, ErrMissingField))
			results[s] = res
		}
		if err := res.Err(); err != nil {
			slog.Warn("index quote unavailable", "symbol", s, "error", err)
		}
	}
	return results
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; MacroRadar/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
