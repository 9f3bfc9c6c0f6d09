package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saldoboek/saldoboek/internal/categorize"
	"github.com/saldoboek/saldoboek/internal/model"
	"github.com/saldoboek/saldoboek/internal/prompt"
)

func newRecategorizeCommand(opts *options) *cobra.Command {
	var all bool
	var from string

	cmd := &cobra.Command{
		Use:   "recategorize",
		Short: "Apply the current rules to stored transactions",
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
			engine, err := categorize.NewEngine(ctx, a.db, user.ID)
			if err != nil {
				return err
			}

			if all {
				from = ""
			}
			changes, err := categorize.Recategorize(ctx, engine, a.db, from)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, c := range changes {
				fmt.Fprintf(out, "%s %-30s %s -> %s\n",
					c.Transaction.Date.Format(model.DateFormat), c.Transaction.CounterpartyName, c.From, c.To)
			}
			fmt.Fprintf(out, "%d transactions recategorized\n", len(changes))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "recategorize every transaction")
	cmd.Flags().StringVar(&from, "category", model.Uncategorized, "recategorize the transactions of this category")
	cmd.MarkFlagsMutuallyExclusive("all", "category")

	return cmd
}

func newCategorizeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "categorize",
		Short: "Interactively categorize uncategorized transactions",
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
			pending, err := categorize.PendingUncategorized(ctx, a.db, user.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(pending) == 0 {
				fmt.Fprintln(out, "No uncategorized transactions.")
				return nil
			}

			engine, err := categorize.NewEngine(ctx, a.db, user.ID)
			if err != nil {
				return err
			}
			resolver := categorize.NewResolver(engine, a.db, a.db, prompt.New(cmd.InOrStdin(), out))
			resolver.MatchAmountSign = true

			fmt.Fprintf(out, "%d uncategorized transactions\n", len(pending))
			res, err := resolver.Resolve(ctx, pending)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d categorized, %d skipped\n", res.Resolved, res.Skipped)
			return nil
		},
	}
}
