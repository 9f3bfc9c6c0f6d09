package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/saldoboek/saldoboek/internal/model"
)

// Header is the CSV header for transaction exports.
const Header = "date,account,account_type,counter_account,counterparty,description,amount,balance_before,currency,category"

const (
	numFields      = 10
	colDate        = 0
	colAccount     = 1
	colAccountType = 2
	colCounter     = 3
	colParty       = 4
	colDesc        = 5
	colAmount      = 6
	colBalance     = 7
	colCurrency    = 8
	colCategory    = 9
)

// WriteTransactions writes txns as CSV, including the header.
func WriteTransactions(w io.Writer, txns []model.StoredTransaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a stored transaction to a CSV row.
func MarshalTransaction(t model.StoredTransaction) []string {
	row := make([]string, numFields)
	row[colDate] = t.Date.Format(model.DateFormat)
	row[colAccount] = t.AccountID
	row[colAccountType] = string(t.AccountType)
	row[colCounter] = t.CounterAccountID
	row[colParty] = t.CounterpartyName
	row[colDesc] = t.Description
	row[colAmount] = t.Amount.StringFixed(2)
	row[colBalance] = t.BalanceBefore.StringFixed(2)
	row[colCurrency] = t.Currency
	row[colCategory] = t.Category
	return row
}
