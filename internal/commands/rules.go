package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/saldoboek/saldoboek/internal/categorize"
	"github.com/saldoboek/saldoboek/internal/category"
)

func newRulesCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage categorization rules",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the rules that apply to the user by category and term",
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

				rules := engine.Rules()
				sort.SliceStable(rules, func(i, j int) bool {
					if rules[i].Category != rules[j].Category {
						return rules[i].Category < rules[j].Category
					}
					return rules[i].SearchTerm < rules[j].SearchTerm
				})

				var order []string
				terms := make(map[string][]string)
				for _, r := range rules {
					if _, ok := terms[r.Category]; !ok {
						order = append(order, r.Category)
					}
					term := r.SearchTerm
					if !r.Global() {
						term += " (own)"
					}
					terms[r.Category] = append(terms[r.Category], term)
				}

				out := cmd.OutOrStdout()
				if len(order) == 0 {
					fmt.Fprintln(out, "No rules.")
				}
				for _, c := range order {
					fmt.Fprintf(out, "%s:\n", c)
					for _, t := range terms[c] {
						fmt.Fprintf(out, "  %s\n", t)
					}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <term> <category>",
			Short: "Add a rule for the user",
			Args:  cobra.ExactArgs(2),
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
				cats, err := a.db.Categories(ctx)
				if err != nil {
					return err
				}
				c, ok := category.NewService(cats).Get(args[1])
				if !ok {
					return fmt.Errorf("unknown category %q", args[1])
				}

				engine, err := categorize.NewEngine(ctx, a.db, user.ID)
				if err != nil {
					return err
				}
				r, err := engine.AddRule(ctx, args[0], c.Name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rule added: '%s' -> '%s'\n", r.SearchTerm, r.Category)
				return nil
			},
		},
	)

	return cmd
}
