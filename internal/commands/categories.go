package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saldoboek/saldoboek/internal/categorize"
	"github.com/saldoboek/saldoboek/internal/category"
	"github.com/saldoboek/saldoboek/internal/model"
)

func newCategoriesCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List categories by type",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, ctx, err := openApp(cmd, opts)
				if err != nil {
					return err
				}
				defer a.Close()

				cats, err := a.db.Categories(ctx)
				if err != nil {
					return err
				}
				printCategories(cmd.OutOrStdout(), category.NewService(cats))
				return nil
			},
		},
		newCategoriesAddCommand(opts),
		&cobra.Command{
			Use:   "export [file]",
			Short: "Write categories as CSV to file or stdout",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, ctx, err := openApp(cmd, opts)
				if err != nil {
					return err
				}
				defer a.Close()

				cats, err := a.db.Categories(ctx)
				if err != nil {
					return err
				}
				if len(args) == 0 {
					return category.WriteCategories(cmd.OutOrStdout(), cats)
				}

				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("creating %s: %w", args[0], err)
				}
				defer f.Close()
				if err := category.WriteCategories(f, cats); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d categories to %s\n", len(cats), args[0])
				return f.Close()
			},
		},
		&cobra.Command{
			Use:   "import <file>",
			Short: "Add the categories of a name,type,description CSV",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, ctx, err := openApp(cmd, opts)
				if err != nil {
					return err
				}
				defer a.Close()

				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening %s: %w", args[0], err)
				}
				defer f.Close()
				cats, err := category.ReadCategories(f)
				if err != nil {
					return err
				}

				var added, existing int
				for _, c := range cats {
					_, err := categorize.CreateCategory(ctx, a.db, c)
					switch {
					case errors.Is(err, categorize.ErrCategoryAlreadyExists):
						existing++
					case err != nil:
						return err
					default:
						added++
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d categories, %d already existed\n", added, existing)
				return nil
			},
		},
	)

	return cmd
}

func newCategoriesAddCommand(opts *options) *cobra.Command {
	var typ string
	var description string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			c, err := categorize.CreateCategory(ctx, a.db, model.Category{
				Name:        args[0],
				Type:        model.CategoryType(strings.ToLower(typ)),
				Description: description,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category '%s' (%s) added\n", c.Name, c.Type)
			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", string(model.CategoryExpense), "income or expense")
	cmd.Flags().StringVar(&description, "description", "", "description")

	return cmd
}

func printCategories(w io.Writer, svc *category.Service) {
	for _, t := range []model.CategoryType{model.CategoryIncome, model.CategoryExpense} {
		cats := svc.ByType(t)
		if len(cats) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s:\n", strings.ToUpper(string(t)))
		for _, c := range cats {
			if c.Description != "" {
				fmt.Fprintf(w, "  %-20s %s\n", c.Name, c.Description)
			} else {
				fmt.Fprintf(w, "  %s\n", c.Name)
			}
		}
	}
}
