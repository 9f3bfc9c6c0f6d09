package categorize

import (
	"context"
	"fmt"
	"strings"

	"github.com/saldoboek/saldoboek/internal/model"
)

// RuleStore persists categorization rules.
type RuleStore interface {
	ListActiveRules(ctx context.Context, userID int64) ([]model.Rule, error)
	HasUserRule(ctx context.Context, term string, userID int64) (bool, error)
	InsertRule(ctx context.Context, r model.Rule) (int64, error)
}

// Engine assigns categories by keyword rules. It owns an ordered in-memory
// copy of the active rules for one user, one entry per term; the store is
// assumed to have no other writers while the engine lives.
type Engine struct {
	store  RuleStore
	userID int64
	rules  []model.Rule
	byTerm map[string]int // term -> index in rules
}

// NewEngine loads the global rules and the rules owned by userID.
func NewEngine(ctx context.Context, store RuleStore, userID int64) (*Engine, error) {
	rules, err := store.ListActiveRules(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	e := &Engine{store: store, userID: userID, byTerm: make(map[string]int, len(rules))}
	for _, r := range rules {
		r.SearchTerm = strings.ToLower(r.SearchTerm)
		e.put(r)
	}
	return e, nil
}

// put adds r to the cache. A user rule takes over the entry of a global
// rule with the same term and keeps its position.
func (e *Engine) put(r model.Rule) {
	i, ok := e.byTerm[r.SearchTerm]
	if !ok {
		e.byTerm[r.SearchTerm] = len(e.rules)
		e.rules = append(e.rules, r)
		return
	}
	if r.Global() && !e.rules[i].Global() {
		return
	}
	e.rules[i] = r
}

// UserID returns the user whose rules are loaded.
func (e *Engine) UserID() int64 { return e.userID }

// Rules returns the cached rules in match order.
func (e *Engine) Rules() []model.Rule {
	out := make([]model.Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Categorize returns the category of the first rule whose term occurs in
// "{party} {description}", compared case-insensitively.
func (e *Engine) Categorize(party, description string) (string, bool) {
	text := strings.ToLower(party + " " + description)
	for _, r := range e.rules {
		if strings.Contains(text, r.SearchTerm) {
			return r.Category, true
		}
	}
	return "", false
}

// AddRule stores a user-owned rule and makes it visible to the next
// Categorize call. Only the user's own rules are checked for a duplicate
// term; a global rule with the same term is overridden for this user.
func (e *Engine) AddRule(ctx context.Context, term, category string) (model.Rule, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return model.Rule{}, ErrEmptyRuleTerm
	}

	exists, err := e.store.HasUserRule(ctx, term, e.userID)
	if err != nil {
		return model.Rule{}, fmt.Errorf("checking rule %q: %w", term, err)
	}
	if exists {
		return model.Rule{}, fmt.Errorf("%q: %w", term, ErrDuplicateRuleTerm)
	}

	uid := e.userID
	r := model.Rule{SearchTerm: term, Category: category, Active: true, UserID: &uid}
	id, err := e.store.InsertRule(ctx, r)
	if err != nil {
		return model.Rule{}, fmt.Errorf("inserting rule %q: %w", term, err)
	}
	r.ID = id
	e.put(r)
	return r, nil
}
