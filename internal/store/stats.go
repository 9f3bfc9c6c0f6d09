package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saldoboek/saldoboek/internal/model"
)

// GroupStat is a count and amount total for one group of transactions.
type GroupStat struct {
	Name  string
	Count int
	Total decimal.Decimal
}

// Stats summarizes a user's stored transactions.
type Stats struct {
	Total         int
	First, Last   time.Time // zero when there are no transactions
	AccountTypes  []GroupStat
	Accounts      []GroupStat
	TopCategories []GroupStat // by count, at most topCategories
}

const topCategories = 10

// Stats computes totals for userID.
func (db *DB) Stats(ctx context.Context, userID int64) (*Stats, error) {
	s := &Stats{}

	var first, last sql.NullString
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*), MIN(date), MAX(date) FROM transactions WHERE user_id = ?
	`, userID).Scan(&s.Total, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	if first.Valid {
		if s.First, err = time.Parse(model.DateFormat, first.String); err != nil {
			return nil, fmt.Errorf("parse first date: %w", err)
		}
	}
	if last.Valid {
		if s.Last, err = time.Parse(model.DateFormat, last.String); err != nil {
			return nil, fmt.Errorf("parse last date: %w", err)
		}
	}

	if s.AccountTypes, err = db.groupStats(ctx, `
		SELECT account_type, COUNT(*), SUM(amount_cents) FROM transactions
		WHERE user_id = ? GROUP BY account_type ORDER BY account_type
	`, userID); err != nil {
		return nil, err
	}
	if s.Accounts, err = db.groupStats(ctx, `
		SELECT account, COUNT(*), SUM(amount_cents) FROM transactions
		WHERE user_id = ? GROUP BY account ORDER BY account
	`, userID); err != nil {
		return nil, err
	}
	if s.TopCategories, err = db.groupStats(ctx, `
		SELECT category, COUNT(*), SUM(amount_cents) FROM transactions
		WHERE user_id = ? GROUP BY category ORDER BY COUNT(*) DESC, category LIMIT ?
	`, userID, topCategories); err != nil {
		return nil, err
	}
	return s, nil
}

func (db *DB) groupStats(ctx context.Context, query string, args ...any) ([]GroupStat, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query group stats: %w", err)
	}
	defer rows.Close()

	var out []GroupStat
	for rows.Next() {
		var g GroupStat
		var cents int64
		if err := rows.Scan(&g.Name, &g.Count, &cents); err != nil {
			return nil, fmt.Errorf("scan group stats: %w", err)
		}
		g.Total = model.FromCents(cents)
		out = append(out, g)
	}
	return out, rows.Err()
}
