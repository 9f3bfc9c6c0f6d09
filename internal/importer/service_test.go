package importer

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saldoboek/saldoboek/internal/categorize"
	"github.com/saldoboek/saldoboek/internal/model"
	"github.com/saldoboek/saldoboek/internal/store"
)

type scriptedChooser struct {
	choices []categorize.UserChoice
	seen    []categorize.Pending
}

func (s *scriptedChooser) Choose(_ context.Context, item categorize.Pending, _ []model.Category) (categorize.UserChoice, error) {
	s.seen = append(s.seen, item)
	if len(s.choices) == 0 {
		return categorize.UserChoice{}, errors.New("no more choices")
	}
	c := s.choices[0]
	s.choices = s.choices[1:]
	return c, nil
}

func (s *scriptedChooser) Notify(categorize.Notice) {}

type fixture struct {
	db      *store.DB
	userID  int64
	chooser *scriptedChooser
	out     bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db, err := store.Open(filepath.Join(t.TempDir(), "saldoboek.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Init(ctx))

	_, err = db.Seed(ctx,
		[]model.Category{
			{Name: "Dining", Type: model.CategoryExpense},
			{Name: "Groceries", Type: model.CategoryExpense},
			{Name: "Salary", Type: model.CategoryIncome},
		},
		[]model.Rule{{SearchTerm: "albert heijn", Category: "Groceries"}},
	)
	require.NoError(t, err)

	uid, err := db.CreateUser(ctx, "anna")
	require.NoError(t, err)
	return &fixture{db: db, userID: uid, chooser: &scriptedChooser{}}
}

func (f *fixture) service(t *testing.T, interactive bool) *Service {
	t.Helper()
	engine, err := categorize.NewEngine(context.Background(), f.db, f.userID)
	require.NoError(t, err)

	var resolver Resolver
	if interactive {
		resolver = categorize.NewResolver(engine, f.db, f.db, f.chooser)
	}
	return NewService(DefaultRegistry(""), f.db, engine, resolver, FixedAccount(model.AccountChecking), &f.out)
}

func threeRowStatement() []byte {
	return []byte(strings.Join([]string{
		snsRow("02-01-2024", "NL01SNSB0123456789", "", "Albert Heijn", "EUR", "100.00", "-23.45", "AH 1234"),
		snsRow("02-01-2024", "NL01SNSB0123456789", "", "Kiosk Centraal", "EUR", "76.55", "-2.50", "koffie"),
		snsRow("05-01-2024", "NL01SNSB0123456789", "", "Werkgever BV", "EUR", "74.05", "2500.00", "loon"),
	}, "\n") + "\n")
}

func categoriesByDescription(t *testing.T, db *store.DB, userID int64) map[string]string {
	t.Helper()
	txns, err := db.ListTransactions(context.Background(), userID, "")
	require.NoError(t, err)
	out := make(map[string]string, len(txns))
	for _, tx := range txns {
		out[tx.Description] = tx.Category
	}
	return out
}

func TestImport_EndToEnd(t *testing.T) {
	f := newFixture(t)
	path := writeFile(t, t.TempDir(), "SNS_jan.csv", threeRowStatement())

	// Dining is offered first; Salary third. Picking Dining for the kiosk
	// adds a rule; the salary row is skipped.
	f.chooser.choices = []categorize.UserChoice{
		{Kind: categorize.ChoicePick, Index: 1, RuleTerm: "kiosk"},
		{Kind: categorize.ChoiceSkip},
	}

	res, err := f.service(t, true).Import(context.Background(), []string{path}, f.userID)
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 3, res.Inserted)
	assert.Zero(t, res.Duplicates)
	assert.Equal(t, 1, res.Uncategorized)
	assert.Equal(t, categorize.ResolveResult{Resolved: 1, Skipped: 1}, res.Resolution)
	require.Len(t, res.Files, 1)
	assert.Equal(t, FileImported, res.Files[0].Status)
	assert.Equal(t, "sns", res.Files[0].Format)
	assert.Equal(t, 2, res.Files[0].Uncategorized)

	assert.Equal(t, map[string]string{
		"AH 1234": "Groceries",
		"koffie":  "Dining",
		"loon":    model.Uncategorized,
	}, categoriesByDescription(t, f.db, f.userID))

	// The rule added during resolution applies to later imports.
	rules, err := f.db.ListActiveRules(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Len(t, rules, 2)

	assert.Contains(t, f.out.String(), "Processing: "+path)
	assert.Contains(t, f.out.String(), "3 new transactions imported")
}

func TestImport_RuleMatchUnmatchedAndBadDate(t *testing.T) {
	f := newFixture(t)
	data := strings.Join([]string{
		snsRow("02-01-2024", "NL01SNSB0123456789", "", "Albert Heijn", "EUR", "100.00", "-23.45", "AH 1234"),
		snsRow("03-01-2024", "NL01SNSB0123456789", "", "Kiosk Centraal", "EUR", "76.55", "-2.50", "koffie"),
		snsRow("2024-01-04", "NL01SNSB0123456789", "", "Werkgever BV", "EUR", "74.05", "2500.00", "loon"),
	}, "\n") + "\n"
	path := writeFile(t, t.TempDir(), "SNS_jan.csv", []byte(data))
	ctx := context.Background()

	f.chooser.choices = []categorize.UserChoice{{Kind: categorize.ChoiceQuit}}
	res, err := f.service(t, true).Import(ctx, []string{path}, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, 1, res.Uncategorized)
	assert.True(t, res.Resolution.Aborted)
	require.Len(t, f.chooser.seen, 1)
	assert.Equal(t, "koffie", f.chooser.seen[0].Key.Description)
	assert.Equal(t, map[string]string{
		"AH 1234": "Groceries",
		"koffie":  model.Uncategorized,
	}, categoriesByDescription(t, f.db, f.userID))

	second, err := f.service(t, false).Import(ctx, []string{path}, f.userID)
	require.NoError(t, err)
	assert.Zero(t, second.Inserted)
	assert.Equal(t, 2, second.Duplicates)
	assert.Equal(t, 1, second.Dropped)
}

func TestImport_Idempotent(t *testing.T) {
	f := newFixture(t)
	path := writeFile(t, t.TempDir(), "sns.csv", threeRowStatement())
	ctx := context.Background()

	first, err := f.service(t, false).Import(ctx, []string{path}, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Inserted)
	assert.Equal(t, 2, first.Uncategorized)

	second, err := f.service(t, false).Import(ctx, []string{path}, f.userID)
	require.NoError(t, err)
	assert.Zero(t, second.Inserted)
	assert.Equal(t, 3, second.Duplicates)

	txns, err := f.db.ListTransactions(ctx, f.userID, "")
	require.NoError(t, err)
	assert.Len(t, txns, 3)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestImport_DuplicateWithinFile(t *testing.T) {
	f := newFixture(t)
	row := snsRow("02-01-2024", "NL01", "", "Albert Heijn", "EUR", "100.00", "-23.45", "AH 1234")
	path := writeFile(t, t.TempDir(), "sns.csv", []byte(row+"\n"+row+"\n"))

	res, err := f.service(t, false).Import(context.Background(), []string{path}, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Duplicates)
}

func TestImport_UsersAreSeparate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	path := writeFile(t, t.TempDir(), "sns.csv", threeRowStatement())

	_, err := f.service(t, false).Import(ctx, []string{path}, f.userID)
	require.NoError(t, err)

	other, err := f.db.CreateUser(ctx, "bram")
	require.NoError(t, err)
	res, err := f.service(t, false).Import(ctx, []string{path}, other)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Inserted)
}

func TestImport_FileProblemsAreIsolated(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	good := writeFile(t, dir, "sns.csv", threeRowStatement())
	unknown := writeFile(t, dir, "ing.csv", threeRowStatement())
	broken := writeFile(t, dir, "rabo.csv", []byte("Datum,Naam\n2024-01-01,x\n"))
	missing := filepath.Join(dir, "sns_missing.csv")

	res, err := f.service(t, false).Import(context.Background(), []string{missing, unknown, broken, "  ", good}, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Inserted)
	require.Len(t, res.Files, 4)

	assert.Equal(t, FileNotFound, res.Files[0].Status)
	assert.Equal(t, FileUnknownFormat, res.Files[1].Status)
	assert.Equal(t, FileFailed, res.Files[2].Status)
	var sm *SchemaMismatch
	assert.True(t, errors.As(res.Files[2].Err, &sm))
	assert.Equal(t, FileImported, res.Files[3].Status)
}

func TestImport_QuitKeepsDefaults(t *testing.T) {
	f := newFixture(t)
	path := writeFile(t, t.TempDir(), "sns.csv", threeRowStatement())
	f.chooser.choices = []categorize.UserChoice{{Kind: categorize.ChoiceQuit}}

	res, err := f.service(t, true).Import(context.Background(), []string{path}, f.userID)
	require.NoError(t, err)
	assert.True(t, res.Resolution.Aborted)
	assert.Equal(t, 2, res.Uncategorized)
	assert.Len(t, f.chooser.seen, 1)
}

func TestImport_ResolvesAcrossFiles(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "sns_a.csv", []byte(snsRow("02-01-2024", "NL01", "", "Kiosk", "EUR", "0", "-1.00", "a")+"\n"))
	b := writeFile(t, dir, "sns_b.csv", []byte(snsRow("03-01-2024", "NL01", "", "Kiosk", "EUR", "0", "-1.00", "b")+"\n"))
	f.chooser.choices = []categorize.UserChoice{
		{Kind: categorize.ChoiceSkip},
		{Kind: categorize.ChoiceSkip},
	}

	res, err := f.service(t, true).Import(context.Background(), []string{a, b}, f.userID)
	require.NoError(t, err)
	require.Len(t, f.chooser.seen, 2, "one resolution pass over both files")
	assert.Equal(t, "a", f.chooser.seen[0].Key.Description)
	assert.Equal(t, "b", f.chooser.seen[1].Key.Description)
	assert.Equal(t, 2, res.Resolution.Skipped)
}

type failingClassifier struct{}

func (failingClassifier) AccountType(context.Context, string) (model.AccountType, error) {
	return "", errors.New("input closed")
}

func TestImport_ClassifierErrorAborts(t *testing.T) {
	f := newFixture(t)
	path := writeFile(t, t.TempDir(), "sns.csv", threeRowStatement())
	engine, err := categorize.NewEngine(context.Background(), f.db, f.userID)
	require.NoError(t, err)

	svc := NewService(DefaultRegistry(""), f.db, engine, nil, failingClassifier{}, nil)
	_, err = svc.Import(context.Background(), []string{path}, f.userID)
	assert.ErrorContains(t, err, "input closed")
}
