package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/kinobi/internal/scoring"
)

var (
	leaderboardPeriod string
	leaderboardSort   string
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard <sync-id>",
	Short: "Show the ranked leaderboard",
	Long: `Show tenders ranked by points.

Examples:
  kinobi-cli leaderboard home
  kinobi-cli leaderboard home --period 7d --sort completions`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := scoring.ParsePeriod(leaderboardPeriod)
		if err != nil {
			return err
		}
		sortKey, err := scoring.ParseSortKey(leaderboardSort)
		if err != nil {
			return err
		}
		inst, err := st.Load(context.Background(), args[0])
		if err != nil {
			return err
		}

		board := scoring.Leaderboard(inst, scoring.Options{Period: period, Sort: sortKey}, time.Now())
		for _, e := range board {
			fmt.Printf("%2d. %-20s %5d pts %4d done\n", e.Rank, e.Tender.Name, e.Score.TotalPoints, e.Score.CompletionCount)
		}
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().StringVar(&leaderboardPeriod, "period", "all", "time window: all, 7d or 30d")
	leaderboardCmd.Flags().StringVar(&leaderboardSort, "sort", "points", "ranking key: points, completions or average")
	rootCmd.AddCommand(leaderboardCmd)
}
