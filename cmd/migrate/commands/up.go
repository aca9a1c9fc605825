package commands

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/aieng/conversations-api/internal/config"
)

// NewUpCmd creates the command that applies pending migrations.
func NewUpCmd() *cobra.Command {
	var migrationsDir string
	var envFile string

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
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

			pending := 0
			for _, file := range files {
				name := filepath.Base(file)
				if applied[name] {
					continue
				}

				contents, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", name, err)
				}

				tx, err := db.Begin()
				if err != nil {
					return fmt.Errorf("failed to begin transaction: %w", err)
				}
				if _, err := tx.Exec(string(contents)); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migration %s failed: %w", name, err)
				}
				if _, err := tx.Exec("INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("failed to record migration %s: %w", name, err)
				}
				if err := tx.Commit(); err != nil {
					return fmt.Errorf("failed to commit migration %s: %w", name, err)
				}

				fmt.Printf("applied %s\n", name)
				pending++
			}

			if pending == 0 {
				fmt.Println("database is up to date")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&migrationsDir, "dir", "migrations", "Directory containing migration files")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to an optional .env file")
	return cmd
}

func openDatabase(envFile string) (*sql.DB, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	return nil
}

func appliedMigrations(db *sql.DB) (map[string]bool, error) {
	rows, err := db.Query("SELECT name FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func migrationFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations in %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
