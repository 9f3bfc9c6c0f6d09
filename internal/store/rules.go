package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/saldoboek/saldoboek/internal/model"
)

// ListActiveRules returns the active global rules and the active rules of
// userID in insertion order.
func (db *DB) ListActiveRules(ctx context.Context, userID int64) ([]model.Rule, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, search_term, category, active, user_id
		FROM categorization_rules
		WHERE active = 1 AND (user_id IS NULL OR user_id = ?)
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	var rules []model.Rule
	for rows.Next() {
		var r model.Rule
		var uid sql.NullInt64
		if err := rows.Scan(&r.ID, &r.SearchTerm, &r.Category, &r.Active, &uid); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		if uid.Valid {
			r.UserID = &uid.Int64
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// HasUserRule reports whether userID owns a rule with term. Global rules
// are not considered.
func (db *DB) HasUserRule(ctx context.Context, term string, userID int64) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM categorization_rules WHERE search_term = ? AND user_id = ?
	`, term, userID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query user rule: %w", err)
	}
	return n > 0, nil
}

// InsertRule stores r and returns its id. A nil UserID makes a global rule.
func (db *DB) InsertRule(ctx context.Context, r model.Rule) (int64, error) {
	result, err := db.ExecContext(ctx, `
		INSERT INTO categorization_rules (user_id, search_term, category, active) VALUES (?, ?, ?, ?)
	`, nullableID(r.UserID), r.SearchTerm, r.Category, r.Active)
	if isUniqueViolation(err) {
		return 0, fmt.Errorf("insert rule %q: %w", r.SearchTerm, ErrConflict)
	}
	if err != nil {
		return 0, fmt.Errorf("insert rule: %w", err)
	}
	return result.LastInsertId()
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
