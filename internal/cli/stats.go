package cli

import (
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show global game statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result StatsResult

			if err := client.Get("/api/stats", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the power-score leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []LeaderboardEntry

			if err := client.Get("/api/leaderboard", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
