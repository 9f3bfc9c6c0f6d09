package categorize

import (
	"context"
	"fmt"
	"strings"

	"github.com/saldoboek/saldoboek/internal/model"
)

// CategoryStore persists categories.
type CategoryStore interface {
	Categories(ctx context.Context) ([]model.Category, error)
	CategoryExists(ctx context.Context, name string) (bool, error)
	InsertCategory(ctx context.Context, c model.Category) error
}

// CreateCategory validates c and stores it. The name is trimmed.
func CreateCategory(ctx context.Context, store CategoryStore, c model.Category) (model.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
	if c.Name == "" {
		return c, fmt.Errorf("%w: empty name", ErrInvalidCategory)
	}
	if c.Type != model.CategoryIncome && c.Type != model.CategoryExpense {
		return c, fmt.Errorf("%w: type %q", ErrInvalidCategory, c.Type)
	}

	exists, err := store.CategoryExists(ctx, c.Name)
	if err != nil {
		return c, fmt.Errorf("checking category %q: %w", c.Name, err)
	}
	if exists {
		return c, fmt.Errorf("%q: %w", c.Name, ErrCategoryAlreadyExists)
	}
	if err := store.InsertCategory(ctx, c); err != nil {
		return c, fmt.Errorf("inserting category %q: %w", c.Name, err)
	}
	return c, nil
}
