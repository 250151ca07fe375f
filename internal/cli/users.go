package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "User profile commands",
	}

	cmd.AddCommand(newUsersListCmd())
	cmd.AddCommand(newUsersGetCmd())
	cmd.AddCommand(newUsersRegisterCmd())
	cmd.AddCommand(newUsersSetAdminCmd())
	cmd.AddCommand(newUsersSetRegularCmd())

	return cmd
}

func newUsersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result UsersResult

			if err := client.Get("/api/v1/users", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newUsersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <uid>",
		Short: "Get user details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result UserResult

			if err := client.Get(fmt.Sprintf("/api/v1/users/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newUsersRegisterCmd() *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:   "register <uid>",
		Short: "Register a user profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"uid":   args[0],
				"email": email,
				"name":  name,
			}
			var result UserResult

			if err := client.Post("/api/v1/users", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newUsersSetAdminCmd() *cobra.Command {
	var city string
	var admin bool

	cmd := &cobra.Command{
		Use:   "set-admin <uid>",
		Short: "Grant or revoke admin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"cityId":  city,
				"isAdmin": admin,
			}

			path := fmt.Sprintf("/api/v1/users/%s/admin", args[0])
			if err := client.Put(path, req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Updated admin flag for %s", args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "Scope the flag to this city")
	cmd.Flags().BoolVar(&admin, "admin", true, "Whether the user is an admin")

	return cmd
}

func newUsersSetRegularCmd() *cobra.Command {
	var regular bool

	cmd := &cobra.Command{
		Use:   "set-regular <uid> <schedule-key>",
		Short: "Mark a user as a regular for a schedule slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]bool{"regular": regular}

			path := fmt.Sprintf("/api/v1/users/%s/regulars/%s", args[0], args[1])
			if err := client.Put(path, req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Updated regular status for %s", args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&regular, "regular", true, "Whether the user is a regular")

	return cmd
}
