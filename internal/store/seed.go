package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/saldoboek/saldoboek/internal/model"
)

// SeedResult counts the rows a Seed call added.
type SeedResult struct {
	Categories int
	Rules      int
}

// Seed inserts categories and global rules, ignoring ones already present,
// so it can be run again after the seed files change.
func (db *DB) Seed(ctx context.Context, cats []model.Category, rules []model.Rule) (SeedResult, error) {
	var res SeedResult
	for _, c := range cats {
		result, err := db.ExecContext(ctx, `
			INSERT OR IGNORE INTO categories (name, type, description) VALUES (?, ?, ?)
		`, c.Name, string(c.Type), c.Description)
		if err != nil {
			return res, fmt.Errorf("seed category %q: %w", c.Name, err)
		}
		n, _ := result.RowsAffected()
		res.Categories += int(n)
	}
	for _, r := range rules {
		term := strings.ToLower(strings.TrimSpace(r.SearchTerm))
		if term == "" {
			continue
		}
		result, err := db.ExecContext(ctx, `
			INSERT OR IGNORE INTO categorization_rules (user_id, search_term, category, active) VALUES (?, ?, ?, 1)
		`, nullableID(r.UserID), term, r.Category)
		if err != nil {
			return res, fmt.Errorf("seed rule %q: %w", term, err)
		}
		n, _ := result.RowsAffected()
		res.Rules += int(n)
	}
	return res, nil
}
