package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPassesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passes",
		Short: "Game pass ledger commands",
	}

	cmd.AddCommand(newPassesListCmd())
	cmd.AddCommand(newPassesAddCmd())
	cmd.AddCommand(newPassesRemoveCmd())
	cmd.AddCommand(newPassesMigrateCmd())

	return cmd
}

func newPassesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <uid>",
		Short: "List a user's passes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PassesResult

			if err := client.Get(fmt.Sprintf("/api/v1/users/%s/passes", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPassesAddCmd() *cobra.Command {
	var passType string

	cmd := &cobra.Command{
		Use:   "add <uid>",
		Short: "Grant a user a new pass",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"type": passType}
			var result PassResult

			if err := client.Post(fmt.Sprintf("/api/v1/users/%s/passes", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&passType, "type", "", "Pass type: 1-game, 5-game, 10-game, full-season (required)")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newPassesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <uid> <pass-id>",
		Short: "Remove a pass from a user's ledger",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/users/%s/passes/%s", args[0], args[1])
			if err := client.Delete(path); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Removed pass %s", args[1]))
			return nil
		},
	}
}

func newPassesMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <uid>",
		Short: "Migrate a user's legacy pass into the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MigrationResult

			path := fmt.Sprintf("/api/v1/users/%s/passes/migrate", args[0])
			if err := client.Post(path, nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
