package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies the bank account a statement belongs to.
type AccountType string

const (
	AccountChecking AccountType = "checking"
	AccountSavings  AccountType = "savings"
)

// Uncategorized is the category assigned when no rule matches.
const Uncategorized = "Uncategorized"

// DefaultCurrency is used when a statement does not carry a currency column.
const DefaultCurrency = "EUR"

// DateFormat is the storage and display format for transaction dates.
const DateFormat = "2006-01-02"

// Transaction is one normalized statement row, identical for every bank dialect.
type Transaction struct {
	Date             time.Time // calendar date, UTC midnight
	AccountID        string    // own IBAN/BBAN
	CounterAccountID string    // empty if the bank did not supply one
	CounterpartyName string
	Description      string
	Amount           decimal.Decimal // negative = expense, positive = income
	BalanceBefore    decimal.Decimal
	Currency         string
	AccountType      AccountType
}

// StoredTransaction is a Transaction persisted for a user.
type StoredTransaction struct {
	Transaction
	ID         int64
	UserID     int64
	Category   string
	ImportedAt time.Time
}

// DedupKey identifies a transaction for duplicate detection. Balance and
// category are not part of it.
type DedupKey struct {
	Date        time.Time
	AccountID   string
	Amount      decimal.Decimal
	Description string
	UserID      int64
}

// Key returns the dedup key of t for the given user.
func (t Transaction) Key(userID int64) DedupKey {
	return DedupKey{
		Date:        t.Date,
		AccountID:   t.AccountID,
		Amount:      t.Amount,
		Description: t.Description,
		UserID:      userID,
	}
}

// AmountCents returns the amount in minor units. Amounts are compared at
// cent precision.
func (k DedupKey) AmountCents() int64 {
	return Cents(k.Amount)
}

// Cents converts a decimal amount to minor units, rounding half away from zero.
func Cents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

// FromCents converts minor units back to a decimal amount.
func FromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}
