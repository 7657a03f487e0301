// Command loungectl is an operator CLI for ad-hoc lounge API queries. It
// talks to the upstream directly, bypassing the server cache — useful for
// checking what the upstream currently reports when cached responses look
// stale.
//
// Usage:
//
//	loungectl player "Player Name" --season 2
//	loungectl lookup "Player Name"
//	loungectl leaderboard --page-size 10 --search abc
//	loungectl table 12345
//	loungectl stats --game mkworld
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mklounge/stats-api/internal/config"
	"github.com/mklounge/stats-api/internal/lounge"
	"github.com/mklounge/stats-api/internal/validate"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "loungectl",
		Short:         "Query the MK Central lounge API directly",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(playerCmd())
	root.AddCommand(lookupCmd())
	root.AddCommand(leaderboardCmd())
	root.AddCommand(tableCmd())
	root.AddCommand(statsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newClient builds an upstream client from the environment config.
func newClient() (*lounge.Client, context.Context, context.CancelFunc, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	client := lounge.NewClient(cfg.LoungeBaseURL, cfg.LoungeRequestsPerMinute, cfg.LoungeTimeout, logger)
	return client, ctx, cancel, nil
}

// printJSON re-indents raw JSON for terminal output.
func printJSON(raw []byte) error {
	var buf map[string]interface{}
	if err := json.Unmarshal(raw, &buf); err != nil {
		// Not an object (arrays, scalars) — print as-is.
		fmt.Println(string(raw))
		return nil
	}
	out, err := json.MarshalIndent(buf, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func playerCmd() *cobra.Command {
	var season int
	cmd := &cobra.Command{
		Use:   "player <name>",
		Short: "Fetch a player's full lounge record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := validate.PlayerName(args[0])
			if err != nil {
				return err
			}
			client, ctx, cancel, err := newClient()
			if err != nil {
				return err
			}
			defer cancel()
			data, err := client.PlayerDetails(ctx, name, config.DefaultGame, season)
			if err != nil {
				return err
			}
			return printJSON(data)
		},
	}
	cmd.Flags().IntVar(&season, "season", 1, "Season number")
	return cmd
}

func lookupCmd() *cobra.Command {
	var season int
	cmd := &cobra.Command{
		Use:   "lookup <name>",
		Short: "Find a player's leaderboard entry by exact name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := validate.PlayerName(args[0])
			if err != nil {
				return err
			}
			client, ctx, cancel, err := newClient()
			if err != nil {
				return err
			}
			defer cancel()
			page, err := client.Leaderboard(ctx, lounge.LeaderboardParams{
				Game:     config.DefaultGame,
				Season:   season,
				PageSize: 50,
				Search:   name,
			})
			if err != nil {
				return err
			}
			player, found := page.FindExact(name)
			if !found {
				return fmt.Errorf("no exact leaderboard match for %q", name)
			}
			return printJSON(player)
		},
	}
	cmd.Flags().IntVar(&season, "season", 1, "Season number")
	return cmd
}

func leaderboardCmd() *cobra.Command {
	var (
		season   int
		skip     int
		pageSize int
		sortBy   string
		search   string
	)
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Fetch a leaderboard page",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, ctx, cancel, err := newClient()
			if err != nil {
				return err
			}
			defer cancel()
			page, err := client.Leaderboard(ctx, lounge.LeaderboardParams{
				Game:     config.DefaultGame,
				Season:   season,
				Skip:     skip,
				PageSize: pageSize,
				SortBy:   sortBy,
				Search:   validate.Search(search),
			})
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(page.Normalize(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().IntVar(&season, "season", 1, "Season number")
	cmd.Flags().IntVar(&skip, "skip", 0, "Entries to skip")
	cmd.Flags().IntVar(&pageSize, "page-size", 10, "Page size")
	cmd.Flags().StringVar(&sortBy, "sort-by", "Mmr", "Sort field")
	cmd.Flags().StringVar(&search, "search", "", "Name search filter")
	return cmd
}

func tableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table <id>",
		Short: "Fetch a lounge table by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := validate.TableID(args[0])
			if err != nil {
				return err
			}
			client, ctx, cancel, err := newClient()
			if err != nil {
				return err
			}
			defer cancel()
			data, err := client.Table(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(data)
		},
	}
	return cmd
}

func statsCmd() *cobra.Command {
	var (
		season int
		game   string
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Fetch global player stats for a game and season",
		RunE: func(cmd *cobra.Command, args []string) error {
			allowed := make(map[string]struct{}, len(config.GameRegistry))
			for id := range config.GameRegistry {
				allowed[id] = struct{}{}
			}
			g, err := validate.Game(game, allowed)
			if err != nil {
				return err
			}
			if _, err := validate.Season(strconv.Itoa(season)); err != nil {
				return err
			}
			client, ctx, cancel, err := newClient()
			if err != nil {
				return err
			}
			defer cancel()
			data, err := client.PlayerStats(ctx, g, season)
			if err != nil {
				return err
			}
			return printJSON(data)
		},
	}
	cmd.Flags().IntVar(&season, "season", 1, "Season number")
	cmd.Flags().StringVar(&game, "game", config.DefaultGame, "Game identifier")
	return cmd
}
