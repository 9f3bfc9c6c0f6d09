package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/saldoboek/saldoboek/internal/model"
	"github.com/saldoboek/saldoboek/internal/report"
	"github.com/saldoboek/saldoboek/internal/store"
)

func newStatsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Args:  cobra.NoArgs,
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
			s, err := a.db.Stats(ctx, user.ID)
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func printStats(w io.Writer, s *store.Stats) {
	fmt.Fprintf(w, "Transactions: %d\n", s.Total)
	if s.Total == 0 {
		return
	}
	fmt.Fprintf(w, "Period:       %s to %s\n", s.First.Format(model.DateFormat), s.Last.Format(model.DateFormat))

	groups := []struct {
		title string
		stats []store.GroupStat
	}{
		{"Per account type", s.AccountTypes},
		{"Per account", s.Accounts},
		{"Top categories", s.TopCategories},
	}
	for _, g := range groups {
		fmt.Fprintf(w, "\n%s:\n", g.title)
		for _, gs := range g.stats {
			fmt.Fprintf(w, "  %-24s %5d  %14s\n", gs.Name, gs.Count, report.FormatEuro(gs.Total))
		}
	}
}

func newRecentCommand(opts *options) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recent transactions",
		Args:  cobra.NoArgs,
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
			txns, err := a.db.Recent(ctx, user.ID, n)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range txns {
				fmt.Fprintf(out, "%s  %12s  %-30s %s\n",
					t.Date.Format(model.DateFormat), report.FormatEuro(t.Amount), t.CounterpartyName, t.Category)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&n, "number", "n", 20, "number of transactions")

	return cmd
}

func newSummaryCommand(opts *options) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the yearly summary",
		Args:  cobra.NoArgs,
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
			txns, err := a.db.TransactionsForYear(ctx, user.ID, year)
			if err != nil {
				return err
			}
			report.Summarize(year, txns).Write(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "year to summarize")

	return cmd
}

func newExportCommand(opts *options) *cobra.Command {
	var year int
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the transactions of a year as CSV",
		Args:  cobra.NoArgs,
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
			txns, err := a.db.TransactionsForYear(ctx, user.ID, year)
			if err != nil {
				return err
			}
			if output == "" {
				return report.WriteTransactions(cmd.OutOrStdout(), txns)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			if err := report.WriteTransactions(f, txns); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s\n", len(txns), output)
			return f.Close()
		},
	}

	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "year to export")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func newReloadConfigCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reload-config",
		Short: "Add categories and rules from the seed files that are not in the database yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.seed(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d categories and %d rules\n", res.Categories, res.Rules)
			return nil
		},
	}
}
