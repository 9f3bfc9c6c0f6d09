package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/saldoboek/saldoboek/internal/config"
	"github.com/saldoboek/saldoboek/internal/logger"
	"github.com/saldoboek/saldoboek/internal/model"
	"github.com/saldoboek/saldoboek/internal/store"
)

// options are the persistent flags shared by all commands.
type options struct {
	configPath string
	user       string
}

// app is the opened configuration and database for one command run.
type app struct {
	cfg *config.Config
	db  *store.DB
	log zerolog.Logger
}

// openApp loads the config, opens the database and seeds a fresh one. The
// returned context carries the logger.
func openApp(cmd *cobra.Command, opts *options) (*app, context.Context, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	cfg.ResolvePaths(filepath.Dir(opts.configPath))

	log := newLogger(cmd.ErrOrStderr(), cfg.Log)
	ctx := logger.WithContext(cmd.Context(), log)

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Init(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	a := &app{cfg: cfg, db: db, log: log}
	cats, err := db.Categories(ctx)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	if len(cats) == 0 {
		if _, err := a.seed(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
	}
	return a, ctx, nil
}

func newLogger(w io.Writer, cfg config.LogConfig) zerolog.Logger {
	if strings.EqualFold(cfg.Format, "json") {
		return logger.NewWithWriter(w, cfg.Level)
	}
	return logger.NewConsole(w, cfg.Level)
}

func (a *app) Close() error {
	return a.db.Close()
}

// seed applies the seed files. A missing file is logged and seeds nothing.
func (a *app) seed(ctx context.Context) (store.SeedResult, error) {
	cats, err := config.LoadCategorySeeds(a.cfg.Seeds.Categories)
	if err != nil {
		return store.SeedResult{}, err
	}
	if cats == nil {
		a.log.Warn().Str("path", a.cfg.Seeds.Categories).Msg("no category seeds")
	}

	seeds, err := config.LoadRuleSeeds(a.cfg.Seeds.Rules)
	if err != nil {
		return store.SeedResult{}, err
	}
	if seeds == nil {
		a.log.Warn().Str("path", a.cfg.Seeds.Rules).Msg("no rule seeds")
	}
	rules := make([]model.Rule, 0, len(seeds))
	for _, s := range seeds {
		rules = append(rules, s.Rule())
	}

	res, err := a.db.Seed(ctx, cats, rules)
	if err != nil {
		return res, err
	}
	a.log.Info().Int("categories", res.Categories).Int("rules", res.Rules).Msg("seeded")
	return res, nil
}

// currentUser resolves --user. Without the flag the only existing user is
// used.
func (a *app) currentUser(ctx context.Context, name string) (*model.User, error) {
	if name = strings.TrimSpace(name); name != "" {
		return a.db.UserByName(ctx, name)
	}
	users, err := a.db.Users(ctx)
	if err != nil {
		return nil, err
	}
	switch len(users) {
	case 0:
		return nil, fmt.Errorf("no users yet, create one with: saldoboek user add <name>")
	case 1:
		return &users[0], nil
	}
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Name
	}
	return nil, fmt.Errorf("several users exist (%s), pick one with --user", strings.Join(names, ", "))
}
