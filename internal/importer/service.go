package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saldoboek/saldoboek/internal/categorize"
	"github.com/saldoboek/saldoboek/internal/logger"
	"github.com/saldoboek/saldoboek/internal/model"
)

// Store is the persistence the import needs.
type Store interface {
	Exists(ctx context.Context, key model.DedupKey) (bool, error)
	InsertTransaction(ctx context.Context, t model.StoredTransaction) (int64, error)
}

// Categorizer assigns a category by rule.
type Categorizer interface {
	Categorize(party, description string) (string, bool)
}

// Resolver handles transactions no rule matched.
type Resolver interface {
	Resolve(ctx context.Context, items []categorize.Pending) (categorize.ResolveResult, error)
}

// AccountClassifier supplies the account type of a statement file.
type AccountClassifier interface {
	AccountType(ctx context.Context, path string) (model.AccountType, error)
}

// FixedAccount classifies every file as the same account type.
type FixedAccount model.AccountType

func (f FixedAccount) AccountType(context.Context, string) (model.AccountType, error) {
	return model.AccountType(f), nil
}

// FileStatus is the outcome of importing one file.
type FileStatus string

const (
	FileImported      FileStatus = "imported"
	FileNotFound      FileStatus = "not_found"
	FileUnknownFormat FileStatus = "unknown_format"
	FileFailed        FileStatus = "failed"
)

// FileResult describes one imported file.
type FileResult struct {
	Path          string
	Format        string
	Encoding      string
	Status        FileStatus
	Err           error
	Inserted      int
	Duplicates    int
	Dropped       int
	Uncategorized int // rows no rule matched
}

// Result totals an import run.
type Result struct {
	RunID         string
	Inserted      int
	Duplicates    int
	Dropped       int
	Uncategorized int // left uncategorized after manual resolution
	Files         []FileResult
	Resolution    categorize.ResolveResult
}

// Service imports statement files for one user.
type Service struct {
	registry   *Registry
	store      Store
	engine     Categorizer
	resolver   Resolver
	classifier AccountClassifier
	out        io.Writer
	now        func() time.Time
}

// NewService creates an import Service. resolver may be nil to leave
// unmatched transactions uncategorized.
func NewService(registry *Registry, store Store, engine Categorizer, resolver Resolver, classifier AccountClassifier, out io.Writer) *Service {
	if out == nil {
		out = io.Discard
	}
	return &Service{
		registry:   registry,
		store:      store,
		engine:     engine,
		resolver:   resolver,
		classifier: classifier,
		out:        out,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Import processes paths in order. Problems with a single file are
// reported and the file is skipped; only store and prompt failures abort
// the run. Unmatched transactions from all files are resolved in a single
// pass at the end.
func (s *Service) Import(ctx context.Context, paths []string, userID int64) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	log := logger.FromContext(ctx).With().Str("run_id", res.RunID).Int64("user_id", userID).Logger()
	ctx = logger.WithContext(ctx, log)

	var pending []categorize.Pending
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		fr, items, err := s.importFile(ctx, path, userID)
		res.Files = append(res.Files, fr)
		res.Inserted += fr.Inserted
		res.Duplicates += fr.Duplicates
		res.Dropped += fr.Dropped
		pending = append(pending, items...)
		if err != nil {
			return res, err
		}
	}

	res.Uncategorized = len(pending)
	if len(pending) > 0 && s.resolver != nil {
		fmt.Fprintf(s.out, "\n%d transactions need a category\n", len(pending))
		resolution, err := s.resolver.Resolve(ctx, pending)
		res.Resolution = resolution
		res.Uncategorized = len(pending) - resolution.Resolved
		if err != nil {
			return res, fmt.Errorf("resolving categories: %w", err)
		}
	}

	fmt.Fprintf(s.out, "\nImport finished: %d new transactions, %d duplicates skipped", res.Inserted, res.Duplicates)
	if res.Uncategorized > 0 {
		fmt.Fprintf(s.out, ", %d uncategorized", res.Uncategorized)
	}
	fmt.Fprintln(s.out)

	log.Info().
		Int("inserted", res.Inserted).
		Int("duplicates", res.Duplicates).
		Int("dropped", res.Dropped).
		Int("uncategorized", res.Uncategorized).
		Msg("import finished")
	return res, nil
}

// importFile returns a non-nil error only when the run must stop.
func (s *Service) importFile(ctx context.Context, path string, userID int64) (FileResult, []categorize.Pending, error) {
	fr := FileResult{Path: path}
	log := logger.FromContext(ctx).With().Str("file", path).Logger()
	fmt.Fprintf(s.out, "\nProcessing: %s\n", path)

	if _, err := os.Stat(path); err != nil {
		fr.Status, fr.Err = FileNotFound, err
		fmt.Fprintln(s.out, "  file not found")
		log.Warn().Err(err).Msg("file not found")
		return fr, nil, nil
	}

	parser, err := s.registry.Identify(path)
	if err != nil {
		fr.Status, fr.Err = FileUnknownFormat, err
		fmt.Fprintf(s.out, "  unknown bank format (expected one of %s in the file name)\n", strings.Join(s.registry.Tokens(), ", "))
		log.Warn().Err(err).Msg("unknown format")
		return fr, nil, nil
	}
	fr.Format = parser.Format()

	acct, err := s.classifier.AccountType(ctx, path)
	if err != nil {
		return fr, nil, fmt.Errorf("account type for %s: %w", path, err)
	}

	parsed, err := parser.Parse(path, acct)
	if err != nil {
		fr.Status, fr.Err = FileFailed, err
		fmt.Fprintf(s.out, "  ! %v\n", err)
		log.Error().Err(err).Str("format", fr.Format).Msg("parse failed")
		return fr, nil, nil
	}
	fr.Encoding = parsed.Encoding
	fr.Dropped = parsed.Dropped
	fmt.Fprintf(s.out, "  %s\n", parsed.Summary())

	var pending []categorize.Pending
	for _, t := range parsed.Transactions {
		key := t.Key(userID)
		dup, err := s.store.Exists(ctx, key)
		if err != nil {
			return fr, pending, fmt.Errorf("checking duplicate: %w", err)
		}
		if dup {
			fr.Duplicates++
			continue
		}

		stored := model.StoredTransaction{Transaction: t, UserID: userID, ImportedAt: s.now()}
		cat, ok := s.engine.Categorize(t.CounterpartyName, t.Description)
		if !ok {
			cat = model.Uncategorized
		}
		stored.Category = cat

		id, err := s.store.InsertTransaction(ctx, stored)
		if err != nil {
			return fr, pending, fmt.Errorf("storing transaction: %w", err)
		}
		stored.ID = id
		fr.Inserted++

		if !ok {
			fr.Uncategorized++
			pending = append(pending, categorize.PendingFrom(stored))
		}
	}

	fr.Status = FileImported
	fmt.Fprintf(s.out, "  %d new transactions imported\n", fr.Inserted)
	if fr.Duplicates > 0 {
		fmt.Fprintf(s.out, "  %d duplicates skipped\n", fr.Duplicates)
	}
	log.Info().
		Str("format", fr.Format).
		Str("encoding", fr.Encoding).
		Int("inserted", fr.Inserted).
		Int("duplicates", fr.Duplicates).
		Int("dropped", fr.Dropped).
		Msg("file imported")
	return fr, pending, nil
}
