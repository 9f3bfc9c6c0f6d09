package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saldoboek/saldoboek/internal/model"
)

func txn(month time.Month, day int, account, category, amount string) model.StoredTransaction {
	return model.StoredTransaction{
		Category: category,
		Transaction: model.Transaction{
			Date:             time.Date(2024, month, day, 0, 0, 0, 0, time.UTC),
			AccountID:        account,
			CounterpartyName: "Party",
			Description:      "desc, with comma",
			Amount:           decimal.RequireFromString(amount),
			Currency:         "EUR",
			AccountType:      model.AccountChecking,
		},
	}
}

func TestFormatEuro(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "€0,00"},
		{"5", "€5,00"},
		{"999.99", "€999,99"},
		{"1234.56", "€1.234,56"},
		{"1234567.8", "€1.234.567,80"},
		{"-1234.56", "€-1.234,56"},
		{"-0.001", "€0,00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatEuro(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestSummarize(t *testing.T) {
	txns := []model.StoredTransaction{
		txn(time.January, 2, "NL01", "Salary", "2500.00"),
		txn(time.January, 3, "NL01", "Groceries", "-100.25"),
		txn(time.February, 1, "NL02", "Groceries", "-50.00"),
		txn(time.February, 9, "NL02", "Refunds", "10.00"),
	}

	s := Summarize(2024, txns)
	assert.Equal(t, "2510.00", s.Income.StringFixed(2))
	assert.Equal(t, "150.25", s.Expenses.StringFixed(2))
	assert.Equal(t, "2359.75", s.Net.StringFixed(2))
	assert.Equal(t, 4, s.Transactions)
	assert.Equal(t, 3, s.Categories)
	assert.Equal(t, 2, s.Accounts)

	require.Len(t, s.ByCategory, 3)
	assert.Equal(t, "Salary", s.ByCategory[0].Category)
	assert.Equal(t, "Groceries", s.ByCategory[1].Category)
	assert.Equal(t, 2, s.ByCategory[1].Count)
	assert.Equal(t, "-150.25", s.ByCategory[1].Total.StringFixed(2))

	require.Len(t, s.Months, 2)
	assert.Equal(t, time.January, s.Months[0].Month)
	assert.Equal(t, "100.25", s.Months[0].Expenses.StringFixed(2))
	assert.Equal(t, "10.00", s.Months[1].Income.StringFixed(2))
}

func TestSummaryWrite(t *testing.T) {
	var buf bytes.Buffer
	Summarize(2024, []model.StoredTransaction{
		txn(time.March, 1, "NL01", "Housing", "-1234.56"),
	}).Write(&buf)

	out := buf.String()
	assert.Contains(t, out, "=== Summary 2024 ===")
	assert.Contains(t, out, "Total expenses:  €1.234,56")
	assert.Contains(t, out, "Net result:      €-1.234,56")
	assert.Contains(t, out, "March")
	assert.Contains(t, out, "Housing")
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(2024, nil)
	assert.True(t, s.Net.IsZero())
	assert.Empty(t, s.ByCategory)

	var buf bytes.Buffer
	s.Write(&buf)
	assert.NotContains(t, buf.String(), "Per month")
}

func TestWriteTransactions(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTransactions(&buf, []model.StoredTransaction{
		txn(time.January, 2, "NL01", "Groceries", "-12.5"),
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, Header, lines[0])
	assert.Equal(t, `2024-01-02,NL01,checking,,Party,"desc, with comma",-12.50,0.00,EUR,Groceries`, lines[1])
}
