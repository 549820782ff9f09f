package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlekbai/timesheet/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	Long:  `Create the tables and indexes if missing and reset the fixed statuses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer conn.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "database %s is up to date (%d statuses)\n", cfg.Database.Path, len(db.Statuses))
		return nil
	},
}
