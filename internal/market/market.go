// Package market fetches currency rates and stock quotes from external
// providers. Both lookups apply their own timeout and surface failures
// as errors for the report assembler to degrade gracefully.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/finview-dev/finview/internal/report"
)

const requestTimeout = 10 * time.Second

// Client calls the rate and quote providers.
type Client struct {
	httpClient *http.Client
	ratesURL   string
	quotesURL  string
	apiKey     string
}

// NewClient creates a market Client. ratesURL serves the central-bank
// daily rates document; quotesURL is the quote API endpoint taking
// apiKey per request.
func NewClient(ratesURL, quotesURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		ratesURL:   ratesURL,
		quotesURL:  quotesURL,
		apiKey:     apiKey,
	}
}

// dailyRates is the shape of the central-bank rates document.
type dailyRates struct {
	Valute map[string]struct {
		Value float64 `json:"Value"`
	} `json:"Valute"`
}

// globalQuote is the shape of the quote API response.
type globalQuote struct {
	Quote struct {
		Price string `json:"05. price"`
	} `json:"Global Quote"`
}

// CurrencyRates fetches the daily rates document once and extracts the
// requested currency codes, preserving their order.
func (c *Client) CurrencyRates(ctx context.Context, codes []string) ([]report.CurrencyRate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ratesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building rates request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching rates: unexpected status %s", resp.Status)
	}

	var doc dailyRates
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding rates: %w", err)
	}
	if doc.Valute == nil {
		return nil, fmt.Errorf("decoding rates: missing Valute section")
	}

	rates := make([]report.CurrencyRate, 0, len(codes))
	for _, code := range codes {
		entry, ok := doc.Valute[code]
		if !ok {
			return nil, fmt.Errorf("currency %q not in rates document", code)
		}
		rates = append(rates, report.CurrencyRate{Currency: code, Rate: entry.Value})
	}
	return rates, nil
}

// StockPrice fetches one ticker's latest quote.
func (c *Client) StockPrice(ctx context.Context, ticker string) (float64, error) {
	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", ticker)
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.quotesURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("building quote request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching quote for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetching quote for %s: unexpected status %s", ticker, resp.Status)
	}

	var doc globalQuote
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return 0, fmt.Errorf("decoding quote for %s: %w", ticker, err)
	}
	if doc.Quote.Price == "" {
		return 0, fmt.Errorf("quote for %s missing price", ticker)
	}

	price, err := strconv.ParseFloat(doc.Quote.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing quote price %q for %s: %w", doc.Quote.Price, ticker, err)
	}
	return price, nil
}
