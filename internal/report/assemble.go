package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finview-dev/finview/internal/model"
	"github.com/finview-dev/finview/internal/settings"
	"github.com/finview-dev/finview/internal/timerange"
)

// CurrencyRate is one currency entry of the dashboard documents.
type CurrencyRate struct {
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
}

// StockPrice is one ticker entry of the dashboard documents.
type StockPrice struct {
	Stock string  `json:"stock"`
	Price float64 `json:"price"`
}

// Ports for the assembler's external collaborators.
type (
	// Loader supplies status-filtered ledger rows.
	Loader interface {
		Load() ([]model.Transaction, error)
	}

	// RateFetcher looks up currency rates from a market-data provider.
	RateFetcher interface {
		CurrencyRates(ctx context.Context, codes []string) ([]CurrencyRate, error)
	}

	// QuoteFetcher looks up one stock quote from a market-data provider.
	QuoteFetcher interface {
		StockPrice(ctx context.Context, ticker string) (float64, error)
	}
)

// MainReport is the dashboard document. CurrencyRates and StockPrices
// hold a list on success and a message string when the lookup failed.
type MainReport struct {
	Greeting        string           `json:"greeting"`
	Cards           []CardSummary    `json:"cards"`
	TopTransactions []TopTransaction `json:"top_transactions"`
	CurrencyRates   any              `json:"currency_rates"`
	StockPrices     any              `json:"stock_prices"`
}

// FlowSummary is one side (expenses or income) of the events document.
type FlowSummary struct {
	TotalAmount float64          `json:"total_amount"`
	Main        []CategoryAmount `json:"main"`
}

// EventsReport is the events document.
type EventsReport struct {
	Expenses      FlowSummary `json:"expenses"`
	Income        FlowSummary `json:"income"`
	CurrencyRates any         `json:"currency_rates"`
	StockPrices   any         `json:"stock_prices"`
}

// CashbackReport is the cashback analysis document.
type CashbackReport struct {
	Cashback []CashbackEntry `json:"cashback"`
}

// Assembler composes ledger rows, aggregators and market lookups into
// report documents. Every document is computed fresh per call.
type Assembler struct {
	loader   Loader
	settings settings.Settings
	rates    RateFetcher
	quotes   QuoteFetcher
	log      *slog.Logger

	// Now supplies the wall clock for greeting selection. Tests override it.
	Now func() time.Time
}

// NewAssembler creates an Assembler.
func NewAssembler(loader Loader, st settings.Settings, rates RateFetcher, quotes QuoteFetcher, logger *slog.Logger) *Assembler {
	return &Assembler{
		loader:   loader,
		settings: st,
		rates:    rates,
		quotes:   quotes,
		log:      logger,
		Now:      time.Now,
	}
}

// Main builds the dashboard document for the range ending at dateStr.
func (a *Assembler) Main(ctx context.Context, dateStr string, kind model.RangeKind) (MainReport, error) {
	rows, err := a.loader.Load()
	if err != nil {
		return MainReport{}, err
	}

	inRange, err := timerange.FilterByRange(rows, dateStr, kind)
	if err != nil {
		return MainReport{}, err
	}

	greeting, err := Greeting(a.Now().Hour())
	if err != nil {
		return MainReport{}, err
	}

	rates, err := a.currencyRates(ctx)
	if err != nil {
		return MainReport{}, err
	}
	quotes, err := a.stockPrices(ctx)
	if err != nil {
		return MainReport{}, err
	}

	return MainReport{
		Greeting:        greeting,
		Cards:           CardsSummary(inRange),
		TopTransactions: TopTransactions(inRange),
		CurrencyRates:   rates,
		StockPrices:     quotes,
	}, nil
}

// Events builds the events document for the range ending at dateStr.
func (a *Assembler) Events(ctx context.Context, dateStr string, kind model.RangeKind) (EventsReport, error) {
	rows, err := a.loader.Load()
	if err != nil {
		return EventsReport{}, err
	}

	inRange, err := timerange.FilterByRange(rows, dateStr, kind)
	if err != nil {
		return EventsReport{}, err
	}

	rates, err := a.currencyRates(ctx)
	if err != nil {
		return EventsReport{}, err
	}
	quotes, err := a.stockPrices(ctx)
	if err != nil {
		return EventsReport{}, err
	}

	return EventsReport{
		Expenses: FlowSummary{
			TotalAmount: TotalExpenses(inRange).InexactFloat64(),
			Main:        CategoryBreakdown(inRange, false),
		},
		Income: FlowSummary{
			TotalAmount: TotalIncome(inRange).InexactFloat64(),
			Main:        CategoryBreakdown(inRange, true),
		},
		CurrencyRates: rates,
		StockPrices:   quotes,
	}, nil
}

// Cashback builds the cashback analysis document for a calendar month.
func (a *Assembler) Cashback(year, month int) (CashbackReport, error) {
	rows, err := a.loader.Load()
	if err != nil {
		return CashbackReport{}, err
	}

	entries, err := CashbackByCategory(rows, year, month)
	if err != nil {
		return CashbackReport{}, err
	}
	return CashbackReport{Cashback: entries}, nil
}

// Search runs one of the search predicates over the whole ledger. The
// queries "cellphone" and "transfer" select the phone and initials
// patterns; anything else is a free-text search.
func (a *Assembler) Search(query string) ([]model.Transaction, error) {
	rows, err := a.loader.Load()
	if err != nil {
		return nil, err
	}

	var matches []model.Transaction
	switch query {
	case "cellphone":
		matches = SearchPhoneMentions(rows)
	case "transfer":
		matches = SearchPersonInitials(rows)
	default:
		matches = SearchByText(rows, query)
	}
	if matches == nil {
		matches = []model.Transaction{}
	}
	return matches, nil
}

// Spending builds the trailing-three-months category spend document.
func (a *Assembler) Spending(category, dateStr string) (SpendingReport, error) {
	rows, err := a.loader.Load()
	if err != nil {
		return SpendingReport{}, err
	}
	return SpendingByCategory(rows, category, dateStr)
}

// currencyRates resolves the configured currencies. Settings errors
// propagate; provider failures degrade to a message string so partial
// reports still succeed.
func (a *Assembler) currencyRates(ctx context.Context) (any, error) {
	codes, err := a.settings.List(settings.KeyCurrencies)
	if err != nil {
		return nil, err
	}

	rates, err := a.rates.CurrencyRates(ctx, codes)
	if err != nil {
		a.log.Warn("currency rate lookup failed", "error", err)
		return fmt.Sprintf("Ошибка получения курса валют. Код ошибки: %v", err), nil
	}
	return rates, nil
}

// stockPrices resolves the configured tickers, one provider call each.
func (a *Assembler) stockPrices(ctx context.Context) (any, error) {
	tickers, err := a.settings.List(settings.KeyStocks)
	if err != nil {
		return nil, err
	}

	prices := make([]StockPrice, 0, len(tickers))
	for _, ticker := range tickers {
		price, err := a.quotes.StockPrice(ctx, ticker)
		if err != nil {
			a.log.Warn("stock quote lookup failed", "ticker", ticker, "error", err)
			return fmt.Sprintf("Ошибка получения стоимости акций. Код ошибки: %v", err), nil
		}
		prices = append(prices, StockPrice{Stock: ticker, Price: price})
	}
	return prices, nil
}
