package categorize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saldoboek/saldoboek/internal/category"
	"github.com/saldoboek/saldoboek/internal/logger"
	"github.com/saldoboek/saldoboek/internal/model"
)

// Pending is a stored transaction still waiting for a category.
type Pending struct {
	// ID is the row id when known; zero means update by Key.
	ID               int64
	Key              model.DedupKey
	CounterAccountID string
	CounterpartyName string
	Currency         string
}

// PendingFrom builds a Pending item for a persisted transaction.
func PendingFrom(t model.StoredTransaction) Pending {
	return Pending{
		ID:               t.ID,
		Key:              t.Key(t.UserID),
		CounterAccountID: t.CounterAccountID,
		CounterpartyName: t.CounterpartyName,
		Currency:         t.Currency,
	}
}

func (p Pending) Date() time.Time         { return p.Key.Date }
func (p Pending) Amount() decimal.Decimal { return p.Key.Amount }

// NoticeKind classifies a Notice.
type NoticeKind int

const (
	// NoticeItem announces the next item; Position and Total are set.
	NoticeItem NoticeKind = iota + 1
	// NoticeRejected reports a choice that could not be applied; the item
	// is asked again.
	NoticeRejected
	NoticeCategorized
	NoticeRuleAdded
	NoticeRuleRejected
	NoticeCategoryCreated
)

// Notice is feedback from the resolver to the user.
type Notice struct {
	Kind     NoticeKind
	Position int
	Total    int
	Category string
	Term     string
	Err      error
}

// Chooser produces a decision per pending item and displays feedback.
type Chooser interface {
	Choose(ctx context.Context, item Pending, categories []model.Category) (UserChoice, error)
	Notify(n Notice)
}

// TransactionUpdater changes the category of stored transactions.
type TransactionUpdater interface {
	UpdateCategory(ctx context.Context, key model.DedupKey, category string) (int64, error)
	UpdateCategoryByID(ctx context.Context, id, userID int64, category string) error
}

// ResolveResult counts the outcome of a Resolve pass.
type ResolveResult struct {
	Resolved int
	Skipped  int
	Aborted  bool
}

// Resolver walks pending items and applies the user's choices.
type Resolver struct {
	engine     *Engine
	categories CategoryStore
	txns       TransactionUpdater
	chooser    Chooser

	// MatchAmountSign offers only income categories for positive amounts
	// and only expense categories otherwise.
	MatchAmountSign bool
}

// NewResolver creates a Resolver.
func NewResolver(engine *Engine, categories CategoryStore, txns TransactionUpdater, chooser Chooser) *Resolver {
	return &Resolver{engine: engine, categories: categories, txns: txns, chooser: chooser}
}

// Resolve asks for a decision on each item in order. Quit stops the pass;
// items not yet handled keep their current category.
func (r *Resolver) Resolve(ctx context.Context, items []Pending) (ResolveResult, error) {
	var res ResolveResult
	if len(items) == 0 {
		return res, nil
	}
	log := logger.FromContext(ctx)

	cats, err := r.categories.Categories(ctx)
	if err != nil {
		return res, fmt.Errorf("loading categories: %w", err)
	}

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		r.chooser.Notify(Notice{Kind: NoticeItem, Position: i + 1, Total: len(items)})

		offered := r.offer(cats, item)
		created, err := r.resolveOne(ctx, item, offered, &res)
		if err != nil {
			return res, err
		}
		if res.Aborted {
			log.Info().Int("resolved", res.Resolved).Int("remaining", len(items)-i).Msg("manual categorization stopped")
			return res, nil
		}
		if created {
			if cats, err = r.categories.Categories(ctx); err != nil {
				return res, fmt.Errorf("loading categories: %w", err)
			}
		}
	}

	log.Info().Int("resolved", res.Resolved).Int("skipped", res.Skipped).Msg("manual categorization finished")
	return res, nil
}

// resolveOne loops until item is handled. It reports whether a new
// category was created.
func (r *Resolver) resolveOne(ctx context.Context, item Pending, offered []model.Category, res *ResolveResult) (bool, error) {
	for {
		created := false
		choice, err := r.chooser.Choose(ctx, item, offered)
		if err != nil {
			return false, fmt.Errorf("reading choice: %w", err)
		}

		var name string
		switch choice.Kind {
		case ChoiceQuit:
			res.Aborted = true
			return false, nil

		case ChoiceSkip:
			res.Skipped++
			return false, nil

		case ChoicePick:
			if choice.Index < 1 || choice.Index > len(offered) {
				r.chooser.Notify(Notice{Kind: NoticeRejected, Err: fmt.Errorf("%w: %d is not between 1 and %d", ErrInvalidChoice, choice.Index, len(offered))})
				continue
			}
			name = offered[choice.Index-1].Name

		case ChoiceNew:
			if choice.NewCategory == nil {
				r.chooser.Notify(Notice{Kind: NoticeRejected, Err: fmt.Errorf("%w: no category given", ErrInvalidCategory)})
				continue
			}
			c, err := CreateCategory(ctx, r.categories, *choice.NewCategory)
			if errors.Is(err, ErrCategoryAlreadyExists) || errors.Is(err, ErrInvalidCategory) {
				r.chooser.Notify(Notice{Kind: NoticeRejected, Err: err})
				continue
			}
			if err != nil {
				return false, err
			}
			r.chooser.Notify(Notice{Kind: NoticeCategoryCreated, Category: c.Name})
			name = c.Name
			created = true

		default:
			r.chooser.Notify(Notice{Kind: NoticeRejected, Err: ErrInvalidChoice})
			continue
		}

		if err := r.apply(ctx, item, name); err != nil {
			return created, err
		}
		res.Resolved++
		r.chooser.Notify(Notice{Kind: NoticeCategorized, Category: name})

		if choice.RuleTerm != "" {
			r.addRule(ctx, choice.RuleTerm, name)
		}
		return created, nil
	}
}

func (r *Resolver) apply(ctx context.Context, item Pending, name string) error {
	if item.ID != 0 {
		if err := r.txns.UpdateCategoryByID(ctx, item.ID, item.Key.UserID, name); err != nil {
			return fmt.Errorf("updating transaction %d: %w", item.ID, err)
		}
		return nil
	}
	if _, err := r.txns.UpdateCategory(ctx, item.Key, name); err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}
	return nil
}

// addRule reports duplicate or empty terms instead of failing the pass.
func (r *Resolver) addRule(ctx context.Context, term, name string) {
	rule, err := r.engine.AddRule(ctx, term, name)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("term", term).Msg("rule not added")
		r.chooser.Notify(Notice{Kind: NoticeRuleRejected, Term: term, Category: name, Err: err})
		return
	}
	r.chooser.Notify(Notice{Kind: NoticeRuleAdded, Term: rule.SearchTerm, Category: name})
}

func (r *Resolver) offer(cats []model.Category, item Pending) []model.Category {
	if !r.MatchAmountSign {
		return cats
	}
	return category.NewService(cats).ForAmount(item.Amount())
}
