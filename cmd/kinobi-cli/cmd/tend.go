package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/kinobi/internal/instance"
)

var tendNotes string

var tendCmd = &cobra.Command{
	Use:   "tend <sync-id> <tender> <chore-id>",
	Short: "Record a chore completion now",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		inst, err := st.Load(ctx, args[0])
		if err != nil {
			return err
		}

		in := instance.TendInput{Tender: args[1], ChoreID: args[2]}
		if tendNotes != "" {
			in.Notes = &tendNotes
		}
		entry, err := instance.Tend(inst, in, time.Now())
		if err != nil {
			return err
		}
		if err := st.Save(ctx, args[0], inst); err != nil {
			return err
		}

		fmt.Printf("Recorded %s\n", entry.ID)
		return nil
	},
}

func init() {
	tendCmd.Flags().StringVar(&tendNotes, "notes", "", "optional note")
	rootCmd.AddCommand(tendCmd)
}
