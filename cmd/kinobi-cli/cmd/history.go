package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/kinobi/internal/instance"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history <sync-id>",
	Short: "Show recent completions, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, err := st.Load(context.Background(), args[0])
		if err != nil {
			return err
		}

		entries := instance.History(inst)
		if historyLimit > 0 && len(entries) > historyLimit {
			entries = entries[:historyLimit]
		}
		for _, e := range entries {
			line := fmt.Sprintf("%s %s %s %s", e.ID, e.Timestamp.Local().Format(time.DateTime), e.Person, e.ChoreID)
			if e.Notes != nil {
				line += " - " + *e.Notes
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum entries to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}
