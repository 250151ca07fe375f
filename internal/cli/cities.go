package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cities",
		Short: "City management commands",
	}

	cmd.AddCommand(newCitiesListCmd())
	cmd.AddCommand(newCitiesGetCmd())
	cmd.AddCommand(newCitiesCreateCmd())
	cmd.AddCommand(newCitiesActivateCmd())
	cmd.AddCommand(newCitiesDeleteCmd())

	return cmd
}

func newCitiesListCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cities",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/cities"
			if force {
				path += "?force=true"
			}

			var result CitiesResult

			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Bypass the server's city cache")

	return cmd
}

func newCitiesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <city-id>",
		Short: "Get city details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result CityResult

			if err := client.Get(fmt.Sprintf("/api/v1/cities/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newCitiesCreateCmd() *cobra.Command {
	var displayName, contactEmail, primaryColor string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a city",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if displayName == "" {
				displayName = name
			}

			req := map[string]string{
				"name":         name,
				"displayName":  displayName,
				"contactEmail": contactEmail,
				"primaryColor": primaryColor,
			}
			var result CityResult

			if err := client.Post("/api/v1/cities", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&displayName, "display-name", "", "Display name (default: name)")
	cmd.Flags().StringVar(&contactEmail, "contact-email", "", "Contact email")
	cmd.Flags().StringVar(&primaryColor, "primary-color", "", "Primary brand color")

	return cmd
}

func newCitiesActivateCmd() *cobra.Command {
	var active bool

	cmd := &cobra.Command{
		Use:   "activate <city-id>",
		Short: "Activate or deactivate a city",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]bool{"active": active}

			path := fmt.Sprintf("/api/v1/cities/%s/active", args[0])
			if err := client.Put(path, req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			state := "deactivated"
			if active {
				state = "activated"
			}
			out.PrintMessage(fmt.Sprintf("City %s %s", args[0], state))
			return nil
		},
	}

	cmd.Flags().BoolVar(&active, "active", true, "Whether the city is active")

	return cmd
}

func newCitiesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <city-id>",
		Short: "Delete a city",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/v1/cities/%s", args[0])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Deleted city %s", args[0]))
			return nil
		},
	}
}
