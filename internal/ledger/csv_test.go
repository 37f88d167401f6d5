package ledger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finview-dev/finview/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestRoundTrip(t *testing.T) {
	txs := []model.Transaction{
		{
			Date:        "31.12.2021 16:44:00",
			Status:      model.StatusSettled,
			Amount:      dec("-160.89"),
			Card:        "*7197",
			Category:    "Супермаркеты",
			Description: "Колхоз",
			Cashback:    dec("1.60"),
		},
		{
			Date:        "01.01.2022 12:49:53",
			Status:      model.StatusFailed,
			Amount:      dec("3000.00"),
			Card:        "*5091",
			Category:    "Переводы",
			Description: "Перевод Кредитная карта",
		},
	}

	var buf bytes.Buffer
	err := WriteTransactions(&buf, txs)
	require.NoError(t, err)

	// Verify header is present.
	assert.True(t, strings.HasPrefix(buf.String(), "date,"))

	got, err := ReadTransactions(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i := range txs {
		assert.Equal(t, txs[i].Date, got[i].Date)
		assert.Equal(t, txs[i].Status, got[i].Status)
		assert.True(t, txs[i].Amount.Equal(got[i].Amount), "amount mismatch row %d", i)
		assert.Equal(t, txs[i].Card, got[i].Card)
		assert.Equal(t, txs[i].Category, got[i].Category)
		assert.Equal(t, txs[i].Description, got[i].Description)
		assert.True(t, txs[i].Cashback.Equal(got[i].Cashback), "cashback mismatch row %d", i)
	}
}

func TestEmptyCashbackCell(t *testing.T) {
	tx := model.Transaction{
		Date:     "01.01.2022 12:00:00",
		Status:   model.StatusSettled,
		Amount:   dec("-99.90"),
		Card:     "*1234",
		Category: "Еда",
	}

	row := MarshalTransaction(tx)
	assert.Empty(t, row[colCashback])

	got, err := UnmarshalTransaction(row)
	require.NoError(t, err)
	assert.True(t, got.Cashback.IsZero())
}

func TestAmountKeepsTrailingZero(t *testing.T) {
	tx := model.Transaction{
		Date:   "01.01.2022 12:00:00",
		Status: model.StatusSettled,
		Amount: dec("-127.50"),
		Card:   "*1234",
	}

	row := MarshalTransaction(tx)
	assert.Equal(t, "-127.50", row[colAmount], "StringFixed(2) should preserve trailing zero")
}

func TestSpecialCharactersInDescription(t *testing.T) {
	tx := model.Transaction{
		Date:        "05.03.2022 18:21:10",
		Status:      model.StatusSettled,
		Amount:      dec("-500.00"),
		Card:        "*7197",
		Category:    "Переводы",
		Description: `Перевод, "Иванов И." — и прочее & ещё`,
	}

	var buf bytes.Buffer
	err := WriteTransactions(&buf, []model.Transaction{tx})
	require.NoError(t, err)

	got, err := ReadTransactions(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, tx.Description, got[0].Description)
}

func TestUnmarshalTransaction_BadAmount(t *testing.T) {
	row := []string{"01.01.2022 12:00:00", "OK", "not-a-number", "*1234", "Еда", "x", ""}
	_, err := UnmarshalTransaction(row)
	assert.ErrorContains(t, err, "parsing amount")
}

func TestUnmarshalTransaction_WrongFieldCount(t *testing.T) {
	_, err := UnmarshalTransaction([]string{"a", "b"})
	assert.ErrorContains(t, err, "expected 7 fields")
}

func TestReadTransactions_Empty(t *testing.T) {
	txs, err := ReadTransactions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, txs)
}

func TestReadTransactions_HeaderOnly(t *testing.T) {
	txs, err := ReadTransactions(strings.NewReader(Header + "\n"))
	require.NoError(t, err)
	assert.Empty(t, txs)
}
