package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/kinobi/internal/chore"
)

var choresCmd = &cobra.Command{
	Use:   "chores <sync-id>",
	Short: "List chores with their due state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, err := st.Load(context.Background(), args[0])
		if err != nil {
			return err
		}

		now := time.Now()
		for _, c := range inst.Chores {
			ds := chore.ComputeDueState(c, inst.Config, now)
			fmt.Printf("%s %s %s [%s] %s\n", c.ID, c.Icon, c.Name, ds.Status, chore.FormatRemaining(ds.Remaining))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(choresCmd)
}
