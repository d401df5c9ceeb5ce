package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"stocksy/internal/interfaces"
	"stocksy/internal/types"
)

// Client talks to the Finnhub REST API for symbol search and quotes.
type Client struct {
	client *resty.Client
	apiKey string
}

var (
	_ interfaces.SymbolSearcher = (*Client)(nil)
	_ interfaces.QuoteProvider  = (*Client)(nil)
)

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetTimeout(timeout)

	return &Client{client: client, apiKey: apiKey}
}

type searchResponse struct {
	Count  int            `json:"count"`
	Result []searchResult `json:"result"`
}

type searchResult struct {
	Description   string `json:"description"`
	DisplaySymbol string `json:"displaySymbol"`
	Symbol        string `json:"symbol"`
	Type          string `json:"type"`
}

// SearchSymbol returns the top search hit for term.
func (c *Client) SearchSymbol(ctx context.Context, term string) (types.ResolvedTarget, error) {
	if c.apiKey == "" {
		return types.ResolvedTarget{}, fmt.Errorf("finnhub API key not configured")
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     term,
			"token": c.apiKey,
		}).
		Get("/search")
	if err != nil {
		return types.ResolvedTarget{}, fmt.Errorf("finnhub search %q: %w", term, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return types.ResolvedTarget{}, fmt.Errorf("finnhub search API error %d: %s", resp.StatusCode(), resp.String())
	}

	var out searchResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return types.ResolvedTarget{}, fmt.Errorf("failed to parse finnhub search response: %w", err)
	}
	if len(out.Result) == 0 {
		return types.ResolvedTarget{}, fmt.Errorf("no finnhub match for %q", term)
	}

	top := out.Result[0]
	symbol := top.Symbol
	if symbol == "" {
		symbol = top.DisplaySymbol
	}
	return types.ResolvedTarget{Symbol: strings.ToUpper(symbol), CompanyName: top.Description}, nil
}

type quoteResponse struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PrevClose     float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

// Quote returns the latest quote. Finnhub answers unknown symbols with an
// all-zero payload; that is reported as an error.
func (c *Client) Quote(ctx context.Context, symbol string) (types.Quote, error) {
	if c.apiKey == "" {
		return types.Quote{}, fmt.Errorf("finnhub API key not configured")
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"token":  c.apiKey,
		}).
		Get("/quote")
	if err != nil {
		return types.Quote{}, fmt.Errorf("finnhub quote %s: %w", symbol, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return types.Quote{}, fmt.Errorf("finnhub quote API error %d: %s", resp.StatusCode(), resp.String())
	}

	var q quoteResponse
	if err := json.Unmarshal(resp.Body(), &q); err != nil {
		return types.Quote{}, fmt.Errorf("failed to parse finnhub quote response: %w", err)
	}
	if q.Current == 0 && q.Timestamp == 0 {
		return types.Quote{}, fmt.Errorf("no finnhub quote for %s", symbol)
	}

	return types.Quote{
		CurrentPrice:  ptr(q.Current),
		Change:        ptr(q.Change),
		ChangePercent: ptr(q.ChangePercent),
		High:          ptr(q.High),
		Low:           ptr(q.Low),
		Open:          ptr(q.Open),
		PrevClose:     ptr(q.PrevClose),
		Trend:         types.TrendFromChange(q.Change),
	}, nil
}

func ptr(v float64) *float64 { return &v }
