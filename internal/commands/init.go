package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/saldoboek/saldoboek/internal/config"
	"github.com/saldoboek/saldoboek/internal/logger"
	"github.com/saldoboek/saldoboek/internal/model"
	"github.com/saldoboek/saldoboek/internal/store"
)

// importDir is where statement files are dropped, relative to the config.
const importDir = "imports"

func newInitCommand() *cobra.Command {
	var force bool
	var user string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new saldoboek directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, user, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration")
	cmd.Flags().StringVar(&user, "create-user", "", "also create this user")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, dir, user string, force bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", cfgPath)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	// Create directory structure.
	dirs := []string{
		"data",
		"config",
		"logs",
		importDir,
		filepath.Join(importDir, "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default()
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	cfg.ResolvePaths(dir)

	cats := config.DefaultCategories()
	if err := config.SaveCategorySeeds(cfg.Seeds.Categories, cats); err != nil {
		return err
	}
	seeds := config.DefaultRules()
	if err := config.SaveRuleSeeds(cfg.Seeds.Rules, seeds); err != nil {
		return err
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Init(ctx); err != nil {
		return err
	}

	rules := make([]model.Rule, 0, len(seeds))
	for _, s := range seeds {
		rules = append(rules, s.Rule())
	}
	res, err := db.Seed(ctx, cats, rules)
	if err != nil {
		return err
	}
	log := logger.FromContext(ctx)
	log.Debug().Int("categories", res.Categories).Int("rules", res.Rules).Msg("seeded")

	if user != "" {
		if _, err := db.CreateUser(ctx, user); err != nil {
			return err
		}
		fmt.Fprintf(out, "Created user %s\n", user)
	}

	fmt.Fprintf(out, "Initialized saldoboek at %s (%d categories, %d rules)\n", dir, res.Categories, res.Rules)
	return nil
}
