package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saldoboek/saldoboek/internal/buildinfo"
	"github.com/saldoboek/saldoboek/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "saldoboek",
		Short:   "Import, categorize and summarize bank statements",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.FileName, "configuration file")
	rootCmd.PersistentFlags().StringVarP(&opts.user, "user", "u", "", "user to act as (default: the only user)")

	rootCmd.AddCommand(
		newInitCommand(),
		newUserCommand(opts),
		newImportCommand(opts),
		newCategoriesCommand(opts),
		newRulesCommand(opts),
		newRecategorizeCommand(opts),
		newCategorizeCommand(opts),
		newStatsCommand(opts),
		newRecentCommand(opts),
		newSummaryCommand(opts),
		newExportCommand(opts),
		newReloadConfigCommand(opts),
	)

	return rootCmd
}
