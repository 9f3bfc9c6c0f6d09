package categorize

import (
	"context"
	"fmt"

	"github.com/saldoboek/saldoboek/internal/model"
)

// TransactionSource lists and updates a user's stored transactions.
type TransactionSource interface {
	// ListTransactions returns the user's transactions; an empty category
	// means all of them.
	ListTransactions(ctx context.Context, userID int64, category string) ([]model.StoredTransaction, error)
	UpdateCategoryByID(ctx context.Context, id, userID int64, category string) error
}

// Change records one recategorized transaction.
type Change struct {
	Transaction model.StoredTransaction
	From        string
	To          string
}

// Recategorize re-runs the engine over the transactions in category (all
// transactions when category is empty) and updates only those whose
// category changes. Transactions no rule matches are left alone.
func Recategorize(ctx context.Context, e *Engine, src TransactionSource, category string) ([]Change, error) {
	txns, err := src.ListTransactions(ctx, e.UserID(), category)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	var changes []Change
	for _, t := range txns {
		to, ok := e.Categorize(t.CounterpartyName, t.Description)
		if !ok || to == t.Category {
			continue
		}
		if err := src.UpdateCategoryByID(ctx, t.ID, t.UserID, to); err != nil {
			return changes, fmt.Errorf("updating transaction %d: %w", t.ID, err)
		}
		changes = append(changes, Change{Transaction: t, From: t.Category, To: to})
	}
	return changes, nil
}

// PendingUncategorized returns the user's uncategorized transactions as
// pending items, ready for a Resolver.
func PendingUncategorized(ctx context.Context, src TransactionSource, userID int64) ([]Pending, error) {
	txns, err := src.ListTransactions(ctx, userID, model.Uncategorized)
	if err != nil {
		return nil, fmt.Errorf("listing uncategorized transactions: %w", err)
	}
	items := make([]Pending, 0, len(txns))
	for _, t := range txns {
		items = append(items, PendingFrom(t))
	}
	return items, nil
}
