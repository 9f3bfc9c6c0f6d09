package config

import "github.com/saldoboek/saldoboek/internal/model"

// DefaultCategories is the category seed written by `saldoboek init`.
func DefaultCategories() []model.Category {
	return []model.Category{
		{Name: "Groceries", Type: model.CategoryExpense, Description: "Supermarkets and food shopping"},
		{Name: "Housing", Type: model.CategoryExpense, Description: "Rent, mortgage and service costs"},
		{Name: "Utilities", Type: model.CategoryExpense, Description: "Energy, water and internet"},
		{Name: "Insurance", Type: model.CategoryExpense, Description: "Health and other insurance"},
		{Name: "Transport", Type: model.CategoryExpense, Description: "Public transport, fuel and parking"},
		{Name: "Subscriptions", Type: model.CategoryExpense, Description: "Streaming and other subscriptions"},
		{Name: "Dining", Type: model.CategoryExpense, Description: "Restaurants, cafes and takeaway"},
		{Name: "Savings transfer", Type: model.CategoryExpense, Description: "Money moved to savings"},
		{Name: "Salary", Type: model.CategoryIncome, Description: "Wages and salary"},
		{Name: "Refunds", Type: model.CategoryIncome, Description: "Refunds and reimbursements"},
		{Name: "Interest", Type: model.CategoryIncome, Description: "Interest on savings"},
	}
}

// DefaultRules is the rule seed written by `saldoboek init`.
func DefaultRules() []RuleSeed {
	return []RuleSeed{
		{Term: "albert heijn", Category: "Groceries"},
		{Term: "jumbo", Category: "Groceries"},
		{Term: "lidl", Category: "Groceries"},
		{Term: "ns groep", Category: "Transport"},
		{Term: "netflix", Category: "Subscriptions"},
		{Term: "spotify", Category: "Subscriptions"},
		{Term: "thuisbezorgd", Category: "Dining"},
		{Term: "salaris", Category: "Salary"},
		{Term: "rente", Category: "Interest"},
	}
}
