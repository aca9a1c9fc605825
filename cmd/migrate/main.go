package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aieng/conversations-api/cmd/migrate/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "conversations-migrate",
		Short: "Schema migration tool for the conversations API",
		Long:  "Applies SQL migrations to the configured PostgreSQL database",
	}

	rootCmd.AddCommand(commands.NewUpCmd())
	rootCmd.AddCommand(commands.NewStatusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
