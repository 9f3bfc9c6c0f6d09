package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUserCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Create a user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, ctx, err := openApp(cmd, opts)
				if err != nil {
					return err
				}
				defer a.Close()

				if _, err := a.db.CreateUser(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created user %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List users",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, ctx, err := openApp(cmd, opts)
				if err != nil {
					return err
				}
				defer a.Close()

				users, err := a.db.Users(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(users) == 0 {
					fmt.Fprintln(out, "No users.")
				}
				for _, u := range users {
					fmt.Fprintln(out, u.Name)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <name>",
			Short: "Delete a user with all their transactions and rules",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, ctx, err := openApp(cmd, opts)
				if err != nil {
					return err
				}
				defer a.Close()

				if err := a.db.DeleteUser(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", args[0])
				return nil
			},
		},
	)

	return cmd
}
