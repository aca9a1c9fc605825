package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// NewStatusCmd creates the command that lists applied and pending migrations.
func NewStatusCmd() *cobra.Command {
	var migrationsDir string
	var envFile string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which migrations have been applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(envFile)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := ensureMigrationsTable(db); err != nil {
				return err
			}

			applied, err := appliedMigrations(db)
			if err != nil {
				return err
			}

			files, err := migrationFiles(migrationsDir)
			if err != nil {
				return err
			}

			for _, file := range files {
				name := filepath.Base(file)
				state := "pending"
				if applied[name] {
					state = "applied"
				}
				fmt.Printf("%-10s %s\n", state, name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&migrationsDir, "dir", "migrations", "Directory containing migration files")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to an optional .env file")
	return cmd
}
