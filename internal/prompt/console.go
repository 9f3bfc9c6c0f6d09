// Package prompt implements the interactive terminal questions asked
// during import and categorization.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/saldoboek/saldoboek/internal/categorize"
	"github.com/saldoboek/saldoboek/internal/model"
)

// ErrInputClosed is returned when input ends while a question is open.
var ErrInputClosed = errors.New("input closed")

var (
	counterColor = color.New(color.BgBlue, color.FgWhite)
	dateColor    = color.New(color.BgYellow, color.FgBlack)
	debitColor   = color.New(color.BgRed, color.FgWhite)
	creditColor  = color.New(color.BgGreen, color.FgBlack)
	okColor      = color.New(color.FgGreen)
	errColor     = color.New(color.FgRed)
)

// Console asks questions on a line-based terminal.
type Console struct {
	in  *bufio.Reader
	out io.Writer

	pos, total int
}

// New creates a Console reading answers from in and writing to out.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

func (c *Console) ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(c.out, question)
	line, err := c.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Both y and j count as yes.
func (c *Console) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := c.ask(ctx, question+" (y/n): ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "j", "ja":
		return true, nil
	}
	return false, nil
}

// AccountType asks whether path is a checking or savings statement.
func (c *Console) AccountType(ctx context.Context, path string) (model.AccountType, error) {
	for {
		answer, err := c.ask(ctx, fmt.Sprintf("Account type for %s? (b = checking, s = savings): ", filepath.Base(path)))
		if err != nil {
			return "", err
		}
		switch strings.ToLower(answer) {
		case "b":
			return model.AccountChecking, nil
		case "s":
			return model.AccountSavings, nil
		}
		errColor.Fprintln(c.out, "Invalid input, enter b or s.")
	}
}

// Choose shows item and asks what to do with it.
func (c *Console) Choose(ctx context.Context, item categorize.Pending, cats []model.Category) (categorize.UserChoice, error) {
	c.printItem(item)
	for i, cat := range cats {
		fmt.Fprintf(c.out, "  %2d. %s (%s)\n", i+1, cat.Name, cat.Type)
	}

	for {
		answer, err := c.ask(ctx, "Choice (number, n = new category, s = skip, q = quit): ")
		if err != nil {
			return categorize.UserChoice{}, err
		}
		choice, err := categorize.ParseChoice(answer)
		if err != nil {
			errColor.Fprintln(c.out, "Invalid input.")
			continue
		}

		switch choice.Kind {
		case categorize.ChoicePick:
			if choice.Index > len(cats) {
				errColor.Fprintln(c.out, "Invalid number.")
				continue
			}
		case categorize.ChoiceNew:
			cat, err := c.askCategory(ctx)
			if err != nil {
				return categorize.UserChoice{}, err
			}
			if cat == nil {
				return categorize.UserChoice{Kind: categorize.ChoiceSkip}, nil
			}
			choice.NewCategory = cat
		default:
			return choice, nil
		}

		term, err := c.askRuleTerm(ctx)
		if err != nil {
			return categorize.UserChoice{}, err
		}
		choice.RuleTerm = term
		return choice, nil
	}
}

// askCategory returns nil when no name is given.
func (c *Console) askCategory(ctx context.Context) (*model.Category, error) {
	name, err := c.ask(ctx, "Name of the new category: ")
	if err != nil || name == "" {
		return nil, err
	}
	typ, err := c.ask(ctx, "Type (1 = income, 2 = expense): ")
	if err != nil {
		return nil, err
	}
	desc, err := c.ask(ctx, "Description (optional): ")
	if err != nil {
		return nil, err
	}

	cat := &model.Category{Name: name, Type: model.CategoryExpense, Description: desc}
	if typ == "1" {
		cat.Type = model.CategoryIncome
	}
	return cat, nil
}

func (c *Console) askRuleTerm(ctx context.Context) (string, error) {
	ok, err := c.Confirm(ctx, "Add a rule to recognize this next time?")
	if err != nil || !ok {
		return "", err
	}
	return c.ask(ctx, "Search term: ")
}

func (c *Console) printItem(item categorize.Pending) {
	fmt.Fprintf(c.out, "\n%s\n", strings.Repeat("=", 60))
	if c.total > 0 {
		counterColor.Fprintf(c.out, " [%d of %d] ", c.pos, c.total)
	}
	dateColor.Fprintf(c.out, " %s ", item.Date().Format(model.DateFormat))
	amountColor := debitColor
	if item.Amount().IsPositive() {
		amountColor = creditColor
	}
	amountColor.Fprintf(c.out, " %s %s ", item.Amount().StringFixed(2), item.Currency)
	fmt.Fprintln(c.out)

	fmt.Fprintf(c.out, "Account:         %s\n", item.Key.AccountID)
	fmt.Fprintf(c.out, "Counter account: %s\n", item.CounterAccountID)
	fmt.Fprintf(c.out, "Name:            %s\n", item.CounterpartyName)
	fmt.Fprintf(c.out, "Description:     %s\n", item.Key.Description)
}

// Notify prints resolver feedback.
func (c *Console) Notify(n categorize.Notice) {
	switch n.Kind {
	case categorize.NoticeItem:
		c.pos, c.total = n.Position, n.Total
	case categorize.NoticeRejected:
		errColor.Fprintf(c.out, "%v\n", n.Err)
	case categorize.NoticeCategoryCreated:
		okColor.Fprintf(c.out, "Category '%s' created\n", n.Category)
	case categorize.NoticeCategorized:
		okColor.Fprintf(c.out, "Categorized as '%s'\n", n.Category)
	case categorize.NoticeRuleAdded:
		okColor.Fprintf(c.out, "Rule added: '%s' -> '%s'\n", n.Term, n.Category)
	case categorize.NoticeRuleRejected:
		errColor.Fprintf(c.out, "Rule not added: %v\n", n.Err)
	}
}
