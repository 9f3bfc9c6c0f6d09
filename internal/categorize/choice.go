package categorize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/saldoboek/saldoboek/internal/model"
)

// ChoiceKind is the action picked for one uncategorized transaction.
type ChoiceKind int

const (
	ChoicePick ChoiceKind = iota + 1
	ChoiceNew
	ChoiceSkip
	ChoiceQuit
)

func (k ChoiceKind) String() string {
	switch k {
	case ChoicePick:
		return "pick"
	case ChoiceNew:
		return "new"
	case ChoiceSkip:
		return "skip"
	case ChoiceQuit:
		return "quit"
	}
	return "unknown"
}

// UserChoice is a decision for one pending transaction.
type UserChoice struct {
	Kind ChoiceKind
	// Index is the 1-based position in the offered categories (ChoicePick).
	Index int
	// NewCategory is the category to create (ChoiceNew).
	NewCategory *model.Category
	// RuleTerm, when set, adds a rule mapping the term to the chosen category.
	RuleTerm string
}

// ParseChoice maps a typed response to a choice kind. A number selects a
// category by position; n, s and q create, skip and quit.
func ParseChoice(s string) (UserChoice, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "n", "new":
		return UserChoice{Kind: ChoiceNew}, nil
	case "s", "skip":
		return UserChoice{Kind: ChoiceSkip}, nil
	case "q", "quit":
		return UserChoice{Kind: ChoiceQuit}, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return UserChoice{}, fmt.Errorf("%w: %q", ErrInvalidChoice, s)
	}
	return UserChoice{Kind: ChoicePick, Index: n}, nil
}
