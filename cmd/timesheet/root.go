package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atlekbai/timesheet/internal/config"
	"github.com/atlekbai/timesheet/internal/db"
)

var (
	// set during PersistentPreRunE
	cfg *config.Config
	log *zap.Logger

	cfgFile  string
	envFiles []string
	dbPath   string
)

var rootCmd = &cobra.Command{
	Use:   "timesheet",
	Short: "Track work time and bill clients",
	Long: `timesheet - clients, projects, timesheets and invoices

Records are stored in a SQLite database. Invoices are numbered per month
(INV-YYYY-MM-NNN) and can be rendered to PDF.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load(config.Options{ConfigFile: cfgFile, EnvFiles: envFiles})
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		if dbPath != "" {
			cfg.Database.Path = dbPath
		}
		log, err = cfg.Logger()
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	f.StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")
	f.StringVar(&dbPath, "db", "", "SQLite database path (overrides database.path)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(invoiceCmd)
}

// openDB opens and migrates the configured database.
func openDB(ctx context.Context) (*sqlx.DB, error) {
	conn, err := db.Open(ctx, cfg.Database.Path, log)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.Database.Path, err)
	}
	return conn, nil
}
