package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/saldoboek/saldoboek/internal/categorize"
	"github.com/saldoboek/saldoboek/internal/importer"
	"github.com/saldoboek/saldoboek/internal/importlog"
	"github.com/saldoboek/saldoboek/internal/model"
	"github.com/saldoboek/saldoboek/internal/prompt"
)

func newImportCommand(opts *options) *cobra.Command {
	var dir string
	var accountType string
	var noInteractive bool
	var move bool
	var format string

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import bank statement CSV files",
		Long: "Import bank statement CSV files. Without arguments every CSV file in the\n" +
			"import directory is imported. The bank is recognized by the file name.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.currentUser(ctx, opts.user)
			if err != nil {
				return err
			}

			paths := args
			if len(paths) == 0 {
				if dir == "" {
					dir = filepath.Join(filepath.Dir(opts.configPath), importDir)
				}
				if paths, err = importer.Scan(dir); err != nil {
					return err
				}
				if len(paths) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No CSV files in %s\n", dir)
					return nil
				}
			}

			console := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())

			var classifier importer.AccountClassifier = console
			switch {
			case accountType != "":
				t, err := parseAccountType(accountType)
				if err != nil {
					return err
				}
				classifier = importer.FixedAccount(t)
			case noInteractive:
				classifier = importer.FixedAccount(model.AccountChecking)
			}

			engine, err := categorize.NewEngine(ctx, a.db, user.ID)
			if err != nil {
				return err
			}
			var resolver importer.Resolver
			if !noInteractive {
				resolver = categorize.NewResolver(engine, a.db, a.db, console)
			}

			registry := importer.DefaultRegistry(a.cfg.Import.DefaultCurrency)
			if format != "" {
				if registry, err = registry.Only(format); err != nil {
					return err
				}
			}
			svc := importer.NewService(registry, a.db, engine, resolver, classifier, cmd.OutOrStdout())
			res, importErr := svc.Import(ctx, paths, user.ID)
			if res != nil && a.cfg.ImportLog != "" {
				if err := importlog.Append(a.cfg.ImportLog, importlog.FromResult(res, user.Name, time.Now().UTC())); err != nil {
					return err
				}
			}
			if importErr != nil {
				return importErr
			}

			if move {
				for _, f := range res.Files {
					if f.Status != importer.FileImported {
						continue
					}
					if err := importer.MarkProcessed(f.Path); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory to scan when no files are given (default: imports next to the config)")
	cmd.Flags().StringVar(&accountType, "account-type", "", "account type of every file: checking or savings (default: ask)")
	cmd.Flags().BoolVar(&noInteractive, "no-interactive", false, "do not ask questions; unmatched transactions stay uncategorized")
	cmd.Flags().StringVar(&format, "format", "", "bank format of every file (sns or rabo) instead of recognizing it by name")
	cmd.Flags().BoolVar(&move, "move", false, "move imported files to processed/")

	return cmd
}

func parseAccountType(s string) (model.AccountType, error) {
	switch model.AccountType(s) {
	case model.AccountChecking, model.AccountSavings:
		return model.AccountType(s), nil
	}
	return "", fmt.Errorf("unknown account type %q, want checking or savings", s)
}
