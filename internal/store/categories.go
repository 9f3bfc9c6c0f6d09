package store

import (
	"context"
	"fmt"

	"github.com/saldoboek/saldoboek/internal/model"
)

// Categories returns all categories ordered by type then name.
func (db *DB) Categories(ctx context.Context) ([]model.Category, error) {
	rows, err := db.QueryContext(ctx, `SELECT name, type, description FROM categories ORDER BY type, name`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var cats []model.Category
	for rows.Next() {
		var c model.Category
		var typ string
		if err := rows.Scan(&c.Name, &typ, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = model.CategoryType(typ)
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// CategoryExists reports whether a category with name exists, ignoring case.
func (db *DB) CategoryExists(ctx context.Context, name string) (bool, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE name = ? COLLATE NOCASE`, name).Scan(&n); err != nil {
		return false, fmt.Errorf("query category exists: %w", err)
	}
	return n > 0, nil
}

// InsertCategory stores c. A name collision returns ErrConflict.
func (db *DB) InsertCategory(ctx context.Context, c model.Category) error {
	_, err := db.ExecContext(ctx, `INSERT INTO categories (name, type, description) VALUES (?, ?, ?)`,
		c.Name, string(c.Type), c.Description)
	if isUniqueViolation(err) {
		return fmt.Errorf("insert category %q: %w", c.Name, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}
