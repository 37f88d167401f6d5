package report

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finview-dev/finview/internal/model"
	"github.com/finview-dev/finview/internal/settings"
)

type fakeLoader struct {
	rows []model.Transaction
	err  error
}

func (f fakeLoader) Load() ([]model.Transaction, error) { return f.rows, f.err }

type fakeRates struct {
	rates []CurrencyRate
	err   error
}

func (f fakeRates) CurrencyRates(context.Context, []string) ([]CurrencyRate, error) {
	return f.rates, f.err
}

type fakeQuotes struct {
	prices map[string]float64
	err    error
}

func (f fakeQuotes) StockPrice(_ context.Context, ticker string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.prices[ticker], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSettings() settings.Settings {
	return settings.Settings{
		settings.KeyCurrencies: {"USD"},
		settings.KeyStocks:     {"AAPL"},
	}
}

func fixedClock(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2023, 1, 15, hour, 0, 0, 0, time.UTC)
	}
}

func testRows() []model.Transaction {
	return []model.Transaction{
		{Date: "10.01.2023 09:00:00", Status: model.StatusSettled, Amount: dec("-160.89"), Card: "*7197", Category: "Супермаркеты", Description: "Колхоз", Cashback: dec("1.60")},
		{Date: "12.01.2023 14:00:00", Status: model.StatusSettled, Amount: dec("-500.00"), Card: "*7197", Category: "Транспорт", Description: "Такси"},
		{Date: "13.01.2023 18:00:00", Status: model.StatusSettled, Amount: dec("30000.00"), Card: "*5091", Category: "Зарплата", Description: "Аванс"},
	}
}

func newTestAssembler(loader Loader, rates RateFetcher, quotes QuoteFetcher) *Assembler {
	asm := NewAssembler(loader, testSettings(), rates, quotes, discardLogger())
	asm.Now = fixedClock(10)
	return asm
}

func TestMain_FullDocument(t *testing.T) {
	asm := newTestAssembler(
		fakeLoader{rows: testRows()},
		fakeRates{rates: []CurrencyRate{{Currency: "USD", Rate: 91.2}}},
		fakeQuotes{prices: map[string]float64{"AAPL": 150.12}},
	)

	doc, err := asm.Main(context.Background(), "2023-01-31 23:59:59", model.RangeMonth)
	require.NoError(t, err)

	assert.Equal(t, "Доброе утро", doc.Greeting)
	require.Len(t, doc.Cards, 1)
	assert.Equal(t, "7197", doc.Cards[0].LastDigits)
	assert.Equal(t, 660.89, doc.Cards[0].TotalSpent)
	require.Len(t, doc.TopTransactions, 2)
	assert.Equal(t, 500.0, doc.TopTransactions[0].Amount)
	assert.Equal(t, []CurrencyRate{{Currency: "USD", Rate: 91.2}}, doc.CurrencyRates)
	assert.Equal(t, []StockPrice{{Stock: "AAPL", Price: 150.12}}, doc.StockPrices)
}

func TestMain_RateFailureBecomesPlaceholder(t *testing.T) {
	asm := newTestAssembler(
		fakeLoader{rows: testRows()},
		fakeRates{err: errors.New("network error")},
		fakeQuotes{prices: map[string]float64{"AAPL": 150.12}},
	)

	doc, err := asm.Main(context.Background(), "2023-01-31 23:59:59", model.RangeMonth)
	require.NoError(t, err, "a failed lookup must not abort the report")

	msg, ok := doc.CurrencyRates.(string)
	require.True(t, ok, "currency_rates should degrade to a message string")
	assert.Contains(t, msg, "Ошибка получения курса валют")
	// The other lookup still succeeded.
	assert.Equal(t, []StockPrice{{Stock: "AAPL", Price: 150.12}}, doc.StockPrices)
}

func TestMain_QuoteFailureBecomesPlaceholder(t *testing.T) {
	asm := newTestAssembler(
		fakeLoader{rows: testRows()},
		fakeRates{rates: []CurrencyRate{{Currency: "USD", Rate: 91.2}}},
		fakeQuotes{err: errors.New("rate limited")},
	)

	doc, err := asm.Main(context.Background(), "2023-01-31 23:59:59", model.RangeMonth)
	require.NoError(t, err)

	msg, ok := doc.StockPrices.(string)
	require.True(t, ok)
	assert.Contains(t, msg, "Ошибка получения стоимости акций")
}

func TestMain_LoaderErrorPropagates(t *testing.T) {
	asm := newTestAssembler(fakeLoader{err: errors.New("no ledger")}, fakeRates{}, fakeQuotes{})
	_, err := asm.Main(context.Background(), "2023-01-31 23:59:59", model.RangeMonth)
	assert.ErrorContains(t, err, "no ledger")
}

func TestMain_MissingSettingsKeyPropagates(t *testing.T) {
	asm := NewAssembler(
		fakeLoader{rows: testRows()},
		settings.Settings{"theme": {"dark"}},
		fakeRates{}, fakeQuotes{}, discardLogger(),
	)
	asm.Now = fixedClock(10)

	_, err := asm.Main(context.Background(), "2023-01-31 23:59:59", model.RangeMonth)
	assert.ErrorIs(t, err, settings.ErrMissingKey)
}

func TestEvents(t *testing.T) {
	asm := newTestAssembler(
		fakeLoader{rows: testRows()},
		fakeRates{rates: []CurrencyRate{{Currency: "USD", Rate: 91.2}}},
		fakeQuotes{prices: map[string]float64{"AAPL": 150.12}},
	)

	doc, err := asm.Events(context.Background(), "2023-01-31 23:59:59", model.RangeMonth)
	require.NoError(t, err)

	assert.Equal(t, 660.89, doc.Expenses.TotalAmount)
	assert.Equal(t, 30000.0, doc.Income.TotalAmount)
	// Both breakdowns finish with the Other bucket.
	require.NotEmpty(t, doc.Expenses.Main)
	assert.Equal(t, OtherCategory, doc.Expenses.Main[len(doc.Expenses.Main)-1].Category)
	require.NotEmpty(t, doc.Income.Main)
	assert.Equal(t, OtherCategory, doc.Income.Main[len(doc.Income.Main)-1].Category)
}

func TestCashbackDocument(t *testing.T) {
	asm := newTestAssembler(fakeLoader{rows: testRows()}, fakeRates{}, fakeQuotes{})

	doc, err := asm.Cashback(2023, 1)
	require.NoError(t, err)
	require.Len(t, doc.Cashback, 1)
	assert.Equal(t, CashbackEntry{Category: "Супермаркеты", Amount: 1.60}, doc.Cashback[0])
}

func TestSearchDispatch(t *testing.T) {
	rows := []model.Transaction{
		{Date: "10.01.2023 09:00:00", Status: model.StatusSettled, Amount: dec("-100"), Description: "Call 89991234567"},
		{Date: "11.01.2023 09:00:00", Status: model.StatusSettled, Amount: dec("-100"), Description: "Иванов И."},
		{Date: "12.01.2023 09:00:00", Status: model.StatusSettled, Amount: dec("-100"), Description: "Такси", Category: "Транспорт"},
	}
	asm := newTestAssembler(fakeLoader{rows: rows}, fakeRates{}, fakeQuotes{})

	phones, err := asm.Search("cellphone")
	require.NoError(t, err)
	require.Len(t, phones, 1)
	assert.Equal(t, "Call 89991234567", phones[0].Description)

	transfers, err := asm.Search("transfer")
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, "Иванов И.", transfers[0].Description)

	text, err := asm.Search("такси")
	require.NoError(t, err)
	require.Len(t, text, 1)
	assert.Equal(t, "Такси", text[0].Description)
}

func TestSearch_NoMatchesReturnsEmptySlice(t *testing.T) {
	asm := newTestAssembler(fakeLoader{rows: testRows()}, fakeRates{}, fakeQuotes{})
	got, err := asm.Search("ничего")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSpendingDocument(t *testing.T) {
	asm := newTestAssembler(fakeLoader{rows: testRows()}, fakeRates{}, fakeQuotes{})

	doc, err := asm.Spending("Транспорт", "2023-01-31 23:59:59")
	require.NoError(t, err)
	assert.Equal(t, -500.0, doc.Total)
}
