package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	backupPassphrase string
	backupList       bool
	backupRetention  int
)

var backupCmd = &cobra.Command{
	Use:   "backup <sync-id>",
	Short: "Upload an encrypted snapshot to S3",
	Long: `Encrypt the sync space and upload it to the configured S3 bucket.

Examples:
  kinobi-cli backup home --passphrase 'correct horse'
  kinobi-cli backup home --list
  kinobi-cli backup home --retention-days 30`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		mgr := backupManager()

		if backupList {
			snapshots, err := mgr.List(ctx, args[0])
			if err != nil {
				return err
			}
			for _, s := range snapshots {
				fmt.Printf("%s %d bytes %s\n", s.Key, s.Size, s.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		}

		pass, err := passphrase(backupPassphrase)
		if err != nil {
			return err
		}
		snap, err := mgr.Snapshot(ctx, args[0], pass)
		if err != nil {
			return err
		}
		fmt.Printf("Uploaded %s (%d bytes)\n", snap.Key, snap.Size)

		if backupRetention > 0 {
			n, err := mgr.Cleanup(ctx, args[0], backupRetention)
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d old snapshots\n", n)
		}
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <sync-id> <key>",
	Short: "Replace a sync space with a snapshot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pass, err := passphrase(backupPassphrase)
		if err != nil {
			return err
		}
		inst, err := backupManager().Restore(context.Background(), args[0], args[1], pass)
		if err != nil {
			return err
		}
		fmt.Printf("Restored %s: %d chores, %d tenders, %d history entries\n",
			args[0], len(inst.Chores), len(inst.Tenders), len(inst.TendingLog))
		return nil
	},
}

func init() {
	backupCmd.Flags().StringVarP(&backupPassphrase, "passphrase", "p", "", "snapshot passphrase (default $KINOBI_BACKUP_PASSPHRASE)")
	backupCmd.Flags().BoolVar(&backupList, "list", false, "list existing snapshots instead of creating one")
	backupCmd.Flags().IntVar(&backupRetention, "retention-days", 0, "after uploading, delete snapshots older than this many days")
	restoreCmd.Flags().StringVarP(&backupPassphrase, "passphrase", "p", "", "snapshot passphrase (default $KINOBI_BACKUP_PASSPHRASE)")
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}
