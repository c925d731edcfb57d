package cmd

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukerupert/kinobi/internal/backup"
	"github.com/dukerupert/kinobi/internal/config"
	"github.com/dukerupert/kinobi/internal/logging"
	"github.com/dukerupert/kinobi/internal/store"
)

var (
	configPath string
	cfg        config.Config
	st         store.InstanceStore
	db         *sql.DB
)

var rootCmd = &cobra.Command{
	Use:   "kinobi-cli",
	Short: "Administer Kinobi sync spaces",
	Long: `kinobi-cli reads and changes sync spaces directly in the Kinobi
database, without going through the HTTP server.

Every command takes the sync space id as its first argument.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger := logging.New(os.Stderr, cfg.LogLevel)
		st, db, err = store.Open(cfg, logger, nil)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			return db.Close()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (default $KINOBI_CONFIG)")
}

func backupManager() *backup.Manager {
	return backup.NewManager(backup.S3Config{
		Endpoint:  cfg.S3.Endpoint,
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
	}, st, logging.New(os.Stderr, cfg.LogLevel))
}

// passphrase reads the snapshot passphrase from the flag or KINOBI_BACKUP_PASSPHRASE.
func passphrase(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv("KINOBI_BACKUP_PASSPHRASE"); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("passphrase required: use --passphrase or KINOBI_BACKUP_PASSPHRASE")
}
