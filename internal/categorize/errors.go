package categorize

import "errors"

var (
	// ErrDuplicateRuleTerm means the user already owns a rule with this term.
	ErrDuplicateRuleTerm = errors.New("rule term already exists for this user")
	// ErrEmptyRuleTerm means the search term was blank after trimming.
	ErrEmptyRuleTerm = errors.New("rule term is empty")
	// ErrCategoryAlreadyExists means a category with this name exists.
	ErrCategoryAlreadyExists = errors.New("category already exists")
	// ErrInvalidCategory means the category name or type is unusable.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrInvalidChoice means a response could not be mapped to an action.
	ErrInvalidChoice = errors.New("invalid choice")
)
