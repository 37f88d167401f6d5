package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finview-dev/finview/internal/model"
)

// Header is the CSV header for the ledger export.
const Header = "date,status,amount,card,category,description,cashback"

const (
	numFields   = 7
	colDate     = 0
	colStatus   = 1
	colAmount   = 2
	colCard     = 3
	colCategory = 4
	colDesc     = 5
	colCashback = 6
)

// ReadTransactions reads all rows from a ledger CSV reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txs []model.Transaction
	for i, rec := range records[1:] {
		tx, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// WriteTransactions writes rows to a ledger CSV writer (including header).
func WriteTransactions(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txs {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row ([]string).
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colDate] = tx.Date
	row[colStatus] = string(tx.Status)
	row[colAmount] = tx.Amount.StringFixed(2)
	row[colCard] = tx.Card
	row[colCategory] = tx.Category
	row[colDesc] = tx.Description

	if !tx.Cashback.IsZero() {
		row[colCashback] = tx.Cashback.StringFixed(2)
	}

	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	var cashback decimal.Decimal
	if record[colCashback] != "" {
		cashback, err = decimal.NewFromString(record[colCashback])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing cashback %q: %w", record[colCashback], err)
		}
	}

	return model.Transaction{
		Date:        record[colDate],
		Status:      model.Status(record[colStatus]),
		Amount:      amount,
		Card:        record[colCard],
		Category:    record[colCategory],
		Description: record[colDesc],
		Cashback:    cashback,
	}, nil
}
