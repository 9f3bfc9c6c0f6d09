package importer

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/saldoboek/saldoboek/internal/model"
)

// ParseResult is the outcome of parsing one statement file.
type ParseResult struct {
	Path         string
	Format       string
	Encoding     string
	Transactions []model.Transaction
	Dropped      int // rows without a valid date or amount
}

// Span returns the earliest and latest transaction dates. ok is false when
// there are no transactions.
func (r *ParseResult) Span() (first, last time.Time, ok bool) {
	for i, t := range r.Transactions {
		if i == 0 || t.Date.Before(first) {
			first = t.Date
		}
		if i == 0 || t.Date.After(last) {
			last = t.Date
		}
	}
	return first, last, len(r.Transactions) > 0
}

// Summary is a one-line description for display.
func (r *ParseResult) Summary() string {
	name := filepath.Base(r.Path)
	first, last, ok := r.Span()
	if !ok {
		return fmt.Sprintf("%s: no transactions", name)
	}
	s := fmt.Sprintf("%s: %d transactions from %s to %s (%s)", name, len(r.Transactions),
		first.Format(model.DateFormat), last.Format(model.DateFormat), r.Encoding)
	if r.Dropped > 0 {
		s += fmt.Sprintf(", %d rows dropped", r.Dropped)
	}
	return s
}
