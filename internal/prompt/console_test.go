package prompt

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saldoboek/saldoboek/internal/categorize"
	"github.com/saldoboek/saldoboek/internal/model"
)

var testCats = []model.Category{
	{Name: "Groceries", Type: model.CategoryExpense},
	{Name: "Salary", Type: model.CategoryIncome},
}

func testItem() categorize.Pending {
	return categorize.Pending{
		Key: model.DedupKey{
			Date:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			AccountID:   "NL01SNSB0123456789",
			Amount:      decimal.RequireFromString("-2.50"),
			Description: "koffie",
			UserID:      1,
		},
		CounterpartyName: "Kiosk Centraal",
		Currency:         "EUR",
	}
}

func newConsole(input string) (*Console, *bytes.Buffer) {
	var out bytes.Buffer
	return New(strings.NewReader(input), &out), &out
}

func TestAccountType(t *testing.T) {
	c, out := newConsole("x\nS\n")
	acct, err := c.AccountType(context.Background(), "/tmp/sns.csv")
	require.NoError(t, err)
	assert.Equal(t, model.AccountSavings, acct)
	assert.Contains(t, out.String(), "sns.csv")
	assert.Contains(t, out.String(), "Invalid input")

	c, _ = newConsole("b\n")
	acct, err = c.AccountType(context.Background(), "rabo.csv")
	require.NoError(t, err)
	assert.Equal(t, model.AccountChecking, acct)
}

func TestAccountType_InputClosed(t *testing.T) {
	c, _ := newConsole("")
	_, err := c.AccountType(context.Background(), "sns.csv")
	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestAsk_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c, _ := newConsole("b\n")
	_, err := c.AccountType(ctx, "sns.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChoose_PickWithRule(t *testing.T) {
	c, out := newConsole("7\nabc\n1\nj\nkiosk\n")
	c.Notify(categorize.Notice{Kind: categorize.NoticeItem, Position: 2, Total: 5})

	choice, err := c.Choose(context.Background(), testItem(), testCats)
	require.NoError(t, err)
	assert.Equal(t, categorize.UserChoice{Kind: categorize.ChoicePick, Index: 1, RuleTerm: "kiosk"}, choice)

	s := out.String()
	assert.Contains(t, s, "2 of 5")
	assert.Contains(t, s, "Kiosk Centraal")
	assert.Contains(t, s, "-2.50 EUR")
	assert.Contains(t, s, " 1. Groceries (expense)")
	assert.Contains(t, s, "Invalid number.")
	assert.Contains(t, s, "Invalid input.")
}

func TestChoose_PickWithoutRule(t *testing.T) {
	c, _ := newConsole("2\nn\n")
	choice, err := c.Choose(context.Background(), testItem(), testCats)
	require.NoError(t, err)
	assert.Equal(t, categorize.UserChoice{Kind: categorize.ChoicePick, Index: 2}, choice)
}

func TestChoose_New(t *testing.T) {
	c, _ := newConsole("n\nPets\n2\nVet and food\ny\ndierenarts\n")
	choice, err := c.Choose(context.Background(), testItem(), testCats)
	require.NoError(t, err)
	assert.Equal(t, categorize.ChoiceNew, choice.Kind)
	require.NotNil(t, choice.NewCategory)
	assert.Equal(t, model.Category{Name: "Pets", Type: model.CategoryExpense, Description: "Vet and food"}, *choice.NewCategory)
	assert.Equal(t, "dierenarts", choice.RuleTerm)
}

func TestChoose_NewIncome(t *testing.T) {
	c, _ := newConsole("n\nGifts\n1\n\nn\n")
	choice, err := c.Choose(context.Background(), testItem(), testCats)
	require.NoError(t, err)
	require.NotNil(t, choice.NewCategory)
	assert.Equal(t, model.CategoryIncome, choice.NewCategory.Type)
	assert.Empty(t, choice.RuleTerm)
}

func TestChoose_NewWithoutNameSkips(t *testing.T) {
	c, _ := newConsole("n\n\n")
	choice, err := c.Choose(context.Background(), testItem(), testCats)
	require.NoError(t, err)
	assert.Equal(t, categorize.ChoiceSkip, choice.Kind)
}

func TestChoose_SkipQuit(t *testing.T) {
	c, _ := newConsole("s\nq")
	choice, err := c.Choose(context.Background(), testItem(), testCats)
	require.NoError(t, err)
	assert.Equal(t, categorize.ChoiceSkip, choice.Kind)

	choice, err = c.Choose(context.Background(), testItem(), testCats)
	require.NoError(t, err)
	assert.Equal(t, categorize.ChoiceQuit, choice.Kind, "last line without newline")
}

func TestConfirm(t *testing.T) {
	c, _ := newConsole("ja\nnee\nY\n")
	for _, want := range []bool{true, false, true} {
		ok, err := c.Confirm(context.Background(), "Continue?")
		require.NoError(t, err)
		assert.Equal(t, want, ok)
	}
}

func TestNotify(t *testing.T) {
	c, out := newConsole("")
	c.Notify(categorize.Notice{Kind: categorize.NoticeCategorized, Category: "Dining"})
	c.Notify(categorize.Notice{Kind: categorize.NoticeRuleAdded, Term: "kiosk", Category: "Dining"})
	c.Notify(categorize.Notice{Kind: categorize.NoticeRuleRejected, Err: categorize.ErrDuplicateRuleTerm})

	s := out.String()
	assert.Contains(t, s, "Categorized as 'Dining'")
	assert.Contains(t, s, "'kiosk' -> 'Dining'")
	assert.Contains(t, s, categorize.ErrDuplicateRuleTerm.Error())
}

func TestResolverWithConsole(t *testing.T) {
	// The console is the chooser of a real resolver pass.
	store := &memStore{cats: append([]model.Category(nil), testCats...)}
	engine, err := categorize.NewEngine(context.Background(), store, 1)
	require.NoError(t, err)

	c, out := newConsole("1\ny\nkiosk\n")
	r := categorize.NewResolver(engine, store, store, c)

	res, err := r.Resolve(context.Background(), []categorize.Pending{testItem()})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Resolved)
	assert.Equal(t, "Groceries", store.updated)
	assert.Contains(t, out.String(), "1 of 1")
	assert.Contains(t, out.String(), "Rule added")
}

type memStore struct {
	cats    []model.Category
	rules   []model.Rule
	updated string
}

func (m *memStore) ListActiveRules(context.Context, int64) ([]model.Rule, error) {
	return m.rules, nil
}

func (m *memStore) HasUserRule(context.Context, string, int64) (bool, error) {
	return false, nil
}

func (m *memStore) InsertRule(_ context.Context, r model.Rule) (int64, error) {
	m.rules = append(m.rules, r)
	return int64(len(m.rules)), nil
}

func (m *memStore) Categories(context.Context) ([]model.Category, error) {
	return m.cats, nil
}

func (m *memStore) CategoryExists(context.Context, string) (bool, error) {
	return false, nil
}

func (m *memStore) InsertCategory(_ context.Context, c model.Category) error {
	m.cats = append(m.cats, c)
	return nil
}

func (m *memStore) UpdateCategory(_ context.Context, _ model.DedupKey, cat string) (int64, error) {
	m.updated = cat
	return 1, nil
}

func (m *memStore) UpdateCategoryByID(context.Context, int64, int64, string) error {
	return nil
}
