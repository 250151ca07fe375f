package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Game and roster management commands",
	}

	cmd.AddCommand(newGamesListCmd())
	cmd.AddCommand(newGamesGetCmd())
	cmd.AddCommand(newGamesPromoteCmd())
	cmd.AddCommand(newGamesRemoveCmd())
	cmd.AddCommand(newGamesCompleteCmd())

	return cmd
}

func newGamesListCmd() *cobra.Command {
	var city string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/games"
			if city != "" {
				path += "?city=" + url.QueryEscape(city)
			}

			var result GamesResult

			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "Only games in this city")

	return cmd
}

func newGamesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id>",
		Short: "Get game details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameResult

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGamesPromoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote <game-id> <uid>",
		Short: "Promote a player from the waitlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/games/%s/waitlist/%s/promote", args[0], args[1])
			if err := client.Post(path, nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Promoted %s in game %s", args[1], args[0]))
			return nil
		},
	}
}

func newGamesRemoveCmd() *cobra.Command {
	var fromWaitlist bool

	cmd := &cobra.Command{
		Use:   "remove <game-id> <uid>",
		Short: "Remove a player from a game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/games/%s/roster/%s", args[0], args[1])
			if fromWaitlist {
				path += "?list=waitlist"
			}
			if err := client.Delete(path); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Removed %s from game %s", args[1], args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromWaitlist, "waitlist", false, "Remove from the waitlist instead of the player list")

	return cmd
}

func newGamesCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <game-id>",
		Short: "Mark a game as played and charge the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result CompletionResult

			path := fmt.Sprintf("/api/v1/games/%s/complete", args[0])
			if err := client.Post(path, nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
