package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/saldoboek/saldoboek/internal/model"
)

const transactionColumns = `id, user_id, date, account, counter_account, counterparty, description,
	amount_cents, balance_before_cents, currency, category, account_type, imported_at`

// InsertTransaction stores t and returns its id. An empty category is
// stored as Uncategorized.
func (db *DB) InsertTransaction(ctx context.Context, t model.StoredTransaction) (int64, error) {
	if t.Category == "" {
		t.Category = model.Uncategorized
	}
	if t.ImportedAt.IsZero() {
		t.ImportedAt = time.Now().UTC()
	}
	result, err := db.ExecContext(ctx, `
		INSERT INTO transactions (
			user_id, date, account, counter_account, counterparty, description,
			amount_cents, balance_before_cents, currency, category, account_type, imported_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.UserID, t.Date.Format(model.DateFormat), t.AccountID, t.CounterAccountID, t.CounterpartyName,
		t.Description, model.Cents(t.Amount), model.Cents(t.BalanceBefore), t.Currency, t.Category,
		string(t.AccountType), t.ImportedAt)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	return result.LastInsertId()
}

// Exists reports whether a transaction with the same dedup key is stored.
func (db *DB) Exists(ctx context.Context, key model.DedupKey) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM transactions
		WHERE user_id = ? AND date = ? AND account = ? AND amount_cents = ? AND description = ?
	`, key.UserID, key.Date.Format(model.DateFormat), key.AccountID, key.AmountCents(), key.Description).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query transaction exists: %w", err)
	}
	return n > 0, nil
}

// UpdateCategory sets the category of the transactions matching key and
// returns how many rows changed.
func (db *DB) UpdateCategory(ctx context.Context, key model.DedupKey, category string) (int64, error) {
	result, err := db.ExecContext(ctx, `
		UPDATE transactions SET category = ?
		WHERE user_id = ? AND date = ? AND account = ? AND amount_cents = ? AND description = ?
	`, category, key.UserID, key.Date.Format(model.DateFormat), key.AccountID, key.AmountCents(), key.Description)
	if err != nil {
		return 0, fmt.Errorf("update transaction category: %w", err)
	}
	return result.RowsAffected()
}

// UpdateCategoryByID sets the category of one of the user's transactions.
func (db *DB) UpdateCategoryByID(ctx context.Context, id, userID int64, category string) error {
	result, err := db.ExecContext(ctx, `UPDATE transactions SET category = ? WHERE id = ? AND user_id = ?`,
		category, id, userID)
	if err != nil {
		return fmt.Errorf("update transaction category: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction category: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %d not found", id)
	}
	return nil
}

// ListTransactions returns the user's transactions ordered by date. An
// empty category returns all of them.
func (db *DB) ListTransactions(ctx context.Context, userID int64, category string) ([]model.StoredTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = ?`
	args := []any{userID}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY date, id`
	return db.queryTransactions(ctx, query, args...)
}

// TransactionsForYear returns the user's transactions dated in year,
// ordered by date then id.
func (db *DB) TransactionsForYear(ctx context.Context, userID int64, year int) ([]model.StoredTransaction, error) {
	return db.queryTransactions(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE user_id = ? AND date >= ? AND date < ?
		ORDER BY date, id
	`, userID, fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-01-01", year+1))
}

// Recent returns the user's n most recent transactions, newest first.
func (db *DB) Recent(ctx context.Context, userID int64, n int) ([]model.StoredTransaction, error) {
	return db.queryTransactions(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE user_id = ?
		ORDER BY date DESC, id DESC
		LIMIT ?
	`, userID, n)
}

func (db *DB) queryTransactions(ctx context.Context, query string, args ...any) ([]model.StoredTransaction, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.StoredTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func scanTransaction(rows *sql.Rows) (model.StoredTransaction, error) {
	var (
		t                     model.StoredTransaction
		date, accountType     string
		amount, balanceBefore int64
	)
	if err := rows.Scan(&t.ID, &t.UserID, &date, &t.AccountID, &t.CounterAccountID, &t.CounterpartyName,
		&t.Description, &amount, &balanceBefore, &t.Currency, &t.Category, &accountType, &t.ImportedAt); err != nil {
		return t, fmt.Errorf("scan transaction: %w", err)
	}
	d, err := time.Parse(model.DateFormat, date)
	if err != nil {
		return t, fmt.Errorf("parse transaction %d date %q: %w", t.ID, date, err)
	}
	t.Date = d
	t.Amount = model.FromCents(amount)
	t.BalanceBefore = model.FromCents(balanceBefore)
	t.AccountType = model.AccountType(accountType)
	return t, nil
}
