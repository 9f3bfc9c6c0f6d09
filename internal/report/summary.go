// Package report summarizes a year of transactions and exports them.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saldoboek/saldoboek/internal/model"
)

// CategoryTotal is the amount booked on one category.
type CategoryTotal struct {
	Category string
	Count    int
	Total    decimal.Decimal
}

// MonthTotal is income and expenses for one calendar month.
type MonthTotal struct {
	Month    time.Month
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// Summary is the yearly overview.
type Summary struct {
	Year         int
	Income       decimal.Decimal
	Expenses     decimal.Decimal // positive
	Net          decimal.Decimal
	Transactions int
	Categories   int
	Accounts     int
	ByCategory   []CategoryTotal // largest absolute total first
	Months       []MonthTotal    // only months with transactions
}

// Summarize computes the yearly summary from txns.
func Summarize(year int, txns []model.StoredTransaction) Summary {
	s := Summary{Year: year, Transactions: len(txns)}

	byCat := map[string]*CategoryTotal{}
	byMonth := map[time.Month]*MonthTotal{}
	accounts := map[string]struct{}{}

	for _, t := range txns {
		accounts[t.AccountID] = struct{}{}

		ct, ok := byCat[t.Category]
		if !ok {
			ct = &CategoryTotal{Category: t.Category}
			byCat[t.Category] = ct
		}
		ct.Count++
		ct.Total = ct.Total.Add(t.Amount)

		mt, ok := byMonth[t.Date.Month()]
		if !ok {
			mt = &MonthTotal{Month: t.Date.Month()}
			byMonth[t.Date.Month()] = mt
		}

		switch {
		case t.Amount.IsPositive():
			s.Income = s.Income.Add(t.Amount)
			mt.Income = mt.Income.Add(t.Amount)
		case t.Amount.IsNegative():
			s.Expenses = s.Expenses.Sub(t.Amount)
			mt.Expenses = mt.Expenses.Sub(t.Amount)
		}
	}
	s.Net = s.Income.Sub(s.Expenses)
	s.Categories = len(byCat)
	s.Accounts = len(accounts)

	for _, ct := range byCat {
		s.ByCategory = append(s.ByCategory, *ct)
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		a, b := s.ByCategory[i].Total.Abs(), s.ByCategory[j].Total.Abs()
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return s.ByCategory[i].Category < s.ByCategory[j].Category
	})

	for _, mt := range byMonth {
		s.Months = append(s.Months, *mt)
	}
	sort.Slice(s.Months, func(i, j int) bool { return s.Months[i].Month < s.Months[j].Month })
	return s
}

// FormatEuro formats d the Dutch way: €1.234,56 and €-1.234,56.
func FormatEuro(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if d.Round(2).IsNegative() {
		sign = "-"
	}
	return "€" + sign + b.String() + "," + frac
}

// Write prints s in a human-readable layout.
func (s Summary) Write(w io.Writer) {
	fmt.Fprintf(w, "=== Summary %d ===\n", s.Year)
	fmt.Fprintf(w, "Total income:    %s\n", FormatEuro(s.Income))
	fmt.Fprintf(w, "Total expenses:  %s\n", FormatEuro(s.Expenses))
	fmt.Fprintf(w, "Net result:      %s\n", FormatEuro(s.Net))
	fmt.Fprintf(w, "Transactions:    %d\n", s.Transactions)
	fmt.Fprintf(w, "Categories:      %d\n", s.Categories)
	fmt.Fprintf(w, "Accounts:        %d\n", s.Accounts)

	if len(s.Months) > 0 {
		fmt.Fprintln(w, "\nPer month:")
		for _, m := range s.Months {
			fmt.Fprintf(w, "  %-10s income %14s  expenses %14s\n", m.Month, FormatEuro(m.Income), FormatEuro(m.Expenses))
		}
	}
	if len(s.ByCategory) > 0 {
		fmt.Fprintln(w, "\nPer category:")
		for _, c := range s.ByCategory {
			fmt.Fprintf(w, "  %-24s %5d  %14s\n", c.Category, c.Count, FormatEuro(c.Total))
		}
	}
}
