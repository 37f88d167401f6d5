// Package report turns filtered ledger rows into the fixed-shape JSON
// report documents.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finview-dev/finview/internal/model"
	"github.com/finview-dev/finview/internal/timerange"
)

// topCount is how many transactions the dashboard highlights.
const topCount = 5

// mainCategories is how many categories the events report ranks before
// folding the rest into the "Остальное" bucket.
const mainCategories = 7

// OtherCategory is the synthetic bucket for categories below the top ranks.
const OtherCategory = "Остальное"

var oneHundred = decimal.NewFromInt(100)

// CardSummary is the per-card dashboard entry.
type CardSummary struct {
	LastDigits string  `json:"last_digits"`
	TotalSpent float64 `json:"total_spent"`
	Cashback   float64 `json:"cashback"`
}

// TopTransaction is one of the largest expenses shown on the dashboard.
type TopTransaction struct {
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// CategoryAmount is one category row of the events report.
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// CashbackEntry is one category row of the cashback report. The field
// names are part of the published document shape.
type CashbackEntry struct {
	Category string  `json:"Категория"`
	Amount   float64 `json:"Кэшбэк"`
}

// CardsSummary groups expense rows by card and sums the absolute spend.
// Cashback is estimated at 1 per 100 spent. Cards without expense rows
// are not emitted. Cards are ordered by identifier.
func CardsSummary(rows []model.Transaction) []CardSummary {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range rows {
		if !tx.IsExpense() {
			continue
		}
		totals[tx.Card] = totals[tx.Card].Add(tx.Amount.Abs())
	}

	cards := make([]string, 0, len(totals))
	for card := range totals {
		cards = append(cards, card)
	}
	sort.Strings(cards)

	out := make([]CardSummary, 0, len(cards))
	for _, card := range cards {
		total := totals[card]
		out = append(out, CardSummary{
			LastDigits: lastDigits(card),
			TotalSpent: total.Round(2).InexactFloat64(),
			Cashback:   total.Div(oneHundred).Round(2).InexactFloat64(),
		})
	}
	return out
}

func lastDigits(card string) string {
	if len(card) == 0 {
		return ""
	}
	return card[1:]
}

// TopTransactions returns the five largest expenses, largest first.
// Equal amounts keep their original relative order. Amounts are
// reported as positive magnitudes and dates truncated to the day.
func TopTransactions(rows []model.Transaction) []TopTransaction {
	var expenses []model.Transaction
	for _, tx := range rows {
		if tx.IsExpense() {
			expenses = append(expenses, tx)
		}
	}

	// Raw amounts are negative, so ascending order puts the largest
	// expense first.
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Amount.LessThan(expenses[j].Amount)
	})

	if len(expenses) > topCount {
		expenses = expenses[:topCount]
	}

	out := make([]TopTransaction, 0, len(expenses))
	for _, tx := range expenses {
		date := tx.Date
		if len(date) > 10 {
			date = date[:10]
		}
		out = append(out, TopTransaction{
			Date:        date,
			Amount:      tx.Amount.Neg().Round(2).InexactFloat64(),
			Category:    tx.Category,
			Description: tx.Description,
		})
	}
	return out
}

// CategoryBreakdown groups rows by category and ranks the sums
// descending. With positive false it covers expenses (flipped to
// positive magnitudes), with positive true it covers income. The top
// seven categories are returned followed by an "Остальное" entry
// summing every remaining category, present even when its sum is zero.
func CategoryBreakdown(rows []model.Transaction, positive bool) []CategoryAmount {
	sums := make(map[string]decimal.Decimal)
	var order []string
	for _, tx := range rows {
		if positive && !tx.IsIncome() {
			continue
		}
		if !positive && !tx.IsExpense() {
			continue
		}
		amount := tx.Amount
		if !positive {
			amount = amount.Neg()
		}
		if _, seen := sums[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		sums[tx.Category] = sums[tx.Category].Add(amount)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return sums[order[i]].GreaterThan(sums[order[j]])
	})

	out := make([]CategoryAmount, 0, mainCategories+1)
	other := decimal.Zero
	for i, category := range order {
		if i < mainCategories {
			out = append(out, CategoryAmount{
				Category: category,
				Amount:   sums[category].Round(2).InexactFloat64(),
			})
			continue
		}
		other = other.Add(sums[category])
	}
	out = append(out, CategoryAmount{
		Category: OtherCategory,
		Amount:   other.Round(2).InexactFloat64(),
	})
	return out
}

// CashbackByCategory sums cashback per category for the given calendar
// month. Only settled rows with positive cashback count. Categories
// are ordered by name.
func CashbackByCategory(rows []model.Transaction, year, month int) ([]CashbackEntry, error) {
	if year < 1 || month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid cashback month %04d-%02d", year, month)
	}

	// Day 0 of the following month normalizes to this month's last day.
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	endStr := fmt.Sprintf("%04d-%02d-%02d 23:59:59", year, month, lastDay)

	inMonth, err := timerange.FilterByRange(rows, endStr, model.RangeMonth)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]decimal.Decimal)
	for _, tx := range inMonth {
		if tx.Status != model.StatusSettled || !tx.Cashback.IsPositive() {
			continue
		}
		sums[tx.Category] = sums[tx.Category].Add(tx.Cashback)
	}

	categories := make([]string, 0, len(sums))
	for category := range sums {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	out := make([]CashbackEntry, 0, len(categories))
	for _, category := range categories {
		out = append(out, CashbackEntry{
			Category: category,
			Amount:   sums[category].Round(2).InexactFloat64(),
		})
	}
	return out, nil
}

// TotalExpenses sums expense rows as a positive magnitude, rounded to
// two decimal places.
func TotalExpenses(rows []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range rows {
		if tx.IsExpense() {
			total = total.Add(tx.Amount)
		}
	}
	return total.Neg().Round(2)
}

// TotalIncome sums income rows, rounded to two decimal places.
func TotalIncome(rows []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range rows {
		if tx.IsIncome() {
			total = total.Add(tx.Amount)
		}
	}
	return total.Round(2)
}

// SpendingReport summarizes category spend over the trailing three months.
type SpendingReport struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	From     string  `json:"from"`
	To       string  `json:"to"`
}

// SpendingByCategory sums settled expense rows in the given category
// between three months before the reference date and the date itself,
// both inclusive. The total keeps the ledger's negative sign.
func SpendingByCategory(rows []model.Transaction, category, endStr string) (SpendingReport, error) {
	end, err := timerange.ParseReference(endStr)
	if err != nil {
		return SpendingReport{}, err
	}
	start := end.AddDate(0, -3, 0)

	total := decimal.Zero
	for _, tx := range rows {
		if tx.Status != model.StatusSettled || tx.Category != category || tx.Amount.IsPositive() {
			continue
		}
		at, err := timerange.ParseOperation(tx.Date)
		if err != nil {
			return SpendingReport{}, err
		}
		if at.Before(start) || at.After(end) {
			continue
		}
		total = total.Add(tx.Amount)
	}

	return SpendingReport{
		Category: category,
		Total:    total.Round(2).InexactFloat64(),
		From:     start.Format("2006-01-02"),
		To:       end.Format("2006-01-02"),
	}, nil
}
