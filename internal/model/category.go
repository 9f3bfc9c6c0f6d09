package model

// CategoryType tells whether a category collects income or expenses.
type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

// Category is a spending/income bucket. Rules and transactions refer to it by
// name, not by id.
type Category struct {
	Name        string
	Type        CategoryType
	Description string
}

// Rule maps a lower-cased search term to a category. A nil UserID makes the
// rule global.
type Rule struct {
	ID         int64
	SearchTerm string
	Category   string
	Active     bool
	UserID     *int64
}

// Global reports whether the rule applies to every user.
func (r Rule) Global() bool { return r.UserID == nil }

// User owns transactions and personal rules.
type User struct {
	ID   int64
	Name string
}
