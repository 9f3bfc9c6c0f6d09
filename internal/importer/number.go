package importer

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errEmptyAmount = errors.New("empty amount")

// ParseLocaleAmount parses a Dutch-formatted amount such as "1.234,56" or
// "-12,00": dots are thousands separators and the comma is the decimal mark.
func ParseLocaleAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errEmptyAmount
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return decimal.NewFromString(strings.TrimPrefix(s, "+"))
}

// ParseAmount accepts both plain decimals ("-12.50") and Dutch-formatted
// amounts. Text containing a comma is treated as Dutch formatting.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errEmptyAmount
	}
	if strings.Contains(s, ",") {
		return ParseLocaleAmount(s)
	}
	return decimal.NewFromString(strings.TrimPrefix(s, "+"))
}
