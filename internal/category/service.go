package category

import (
	"strings"

	"github.com/saldoboek/saldoboek/internal/model"
	"github.com/shopspring/decimal"
)

// Service provides in-memory lookup over a category list.
type Service struct {
	cats   []model.Category
	byName map[string]model.Category
}

// NewService creates a Service from a slice of categories. Names are
// matched case-insensitively.
func NewService(cats []model.Category) *Service {
	byName := make(map[string]model.Category, len(cats))
	for _, c := range cats {
		byName[strings.ToLower(c.Name)] = c
	}
	return &Service{cats: cats, byName: byName}
}

// All returns all categories in their original order.
func (s *Service) All() []model.Category {
	return s.cats
}

// Get returns a category by name.
func (s *Service) Get(name string) (model.Category, bool) {
	c, ok := s.byName[strings.ToLower(name)]
	return c, ok
}

// Exists reports whether a category name exists.
func (s *Service) Exists(name string) bool {
	_, ok := s.byName[strings.ToLower(name)]
	return ok
}

// ByType returns all categories of the given type.
func (s *Service) ByType(t model.CategoryType) []model.Category {
	var result []model.Category
	for _, c := range s.cats {
		if c.Type == t {
			result = append(result, c)
		}
	}
	return result
}

// ForAmount returns the categories that fit the sign of amount: income for
// positive amounts, expense otherwise.
func (s *Service) ForAmount(amount decimal.Decimal) []model.Category {
	if amount.IsPositive() {
		return s.ByType(model.CategoryIncome)
	}
	return s.ByType(model.CategoryExpense)
}
