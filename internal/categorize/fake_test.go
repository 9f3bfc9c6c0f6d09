package categorize

import (
	"context"
	"errors"
	"sort"

	"github.com/saldoboek/saldoboek/internal/model"
)

// memStore is an in-memory store for engine and resolver tests.
type memStore struct {
	rules  []model.Rule
	cats   []model.Category
	txns   []model.StoredTransaction
	nextID int64
}

func (m *memStore) ListActiveRules(_ context.Context, userID int64) ([]model.Rule, error) {
	var out []model.Rule
	for _, r := range m.rules {
		if r.Active && (r.UserID == nil || *r.UserID == userID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) HasUserRule(_ context.Context, term string, userID int64) (bool, error) {
	for _, r := range m.rules {
		if r.SearchTerm == term && r.UserID != nil && *r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) InsertRule(_ context.Context, r model.Rule) (int64, error) {
	m.nextID++
	r.ID = m.nextID
	m.rules = append(m.rules, r)
	return r.ID, nil
}

func (m *memStore) Categories(_ context.Context) ([]model.Category, error) {
	out := append([]model.Category(nil), m.cats...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) CategoryExists(_ context.Context, name string) (bool, error) {
	for _, c := range m.cats {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) InsertCategory(_ context.Context, c model.Category) error {
	m.cats = append(m.cats, c)
	return nil
}

func (m *memStore) UpdateCategory(_ context.Context, key model.DedupKey, category string) (int64, error) {
	var n int64
	for i, t := range m.txns {
		k := t.Key(t.UserID)
		if k.Date.Equal(key.Date) && k.AccountID == key.AccountID && k.AmountCents() == key.AmountCents() &&
			k.Description == key.Description && k.UserID == key.UserID {
			m.txns[i].Category = category
			n++
		}
	}
	return n, nil
}

func (m *memStore) UpdateCategoryByID(_ context.Context, id, userID int64, category string) error {
	for i, t := range m.txns {
		if t.ID == id && t.UserID == userID {
			m.txns[i].Category = category
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memStore) ListTransactions(_ context.Context, userID int64, category string) ([]model.StoredTransaction, error) {
	var out []model.StoredTransaction
	for _, t := range m.txns {
		if t.UserID == userID && (category == "" || t.Category == category) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) category(id int64) string {
	for _, t := range m.txns {
		if t.ID == id {
			return t.Category
		}
	}
	return ""
}

func globalRule(id int64, term, category string) model.Rule {
	return model.Rule{ID: id, SearchTerm: term, Category: category, Active: true}
}

func userRule(id int64, term, category string, userID int64) model.Rule {
	return model.Rule{ID: id, SearchTerm: term, Category: category, Active: true, UserID: &userID}
}

// scriptedChooser replays fixed choices and records notices.
type scriptedChooser struct {
	choices []UserChoice
	offered [][]model.Category
	notices []Notice
}

func (s *scriptedChooser) Choose(_ context.Context, _ Pending, cats []model.Category) (UserChoice, error) {
	s.offered = append(s.offered, cats)
	if len(s.choices) == 0 {
		return UserChoice{}, errors.New("no more choices")
	}
	c := s.choices[0]
	s.choices = s.choices[1:]
	return c, nil
}

func (s *scriptedChooser) Notify(n Notice) {
	s.notices = append(s.notices, n)
}

func (s *scriptedChooser) kinds() []NoticeKind {
	var out []NoticeKind
	for _, n := range s.notices {
		if n.Kind != NoticeItem {
			out = append(out, n.Kind)
		}
	}
	return out
}
