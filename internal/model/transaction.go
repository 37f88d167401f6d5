package model

import "github.com/shopspring/decimal"

// Status is the settlement state of a transaction row.
type Status string

const (
	StatusSettled Status = "OK"
	StatusFailed  Status = "FAILED"
)

// Transaction represents one row of the bank ledger export.
// Date stays a raw string until range filtering parses it.
type Transaction struct {
	Date        string          `json:"date"` // "02.01.2006 15:04:05"
	Status      Status          `json:"status"`
	Amount      decimal.Decimal `json:"amount"` // negative = expense, positive = income
	Card        string          `json:"card"`   // masked, e.g. "*7197"
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Cashback    decimal.Decimal `json:"cashback"` // zero if the export cell was empty
}

// IsExpense reports whether the row is an expense (negative amount).
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// IsIncome reports whether the row is income (positive amount).
func (t Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}
