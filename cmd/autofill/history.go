package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-autofill/internal/db"
	"github.com/jonathan/ats-autofill/internal/observability"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded fills",
	RunE:  runHistory,
}

var (
	historyDatabaseURL string
	historyLimit       int
	historyJSON        bool
)

func init() {
	historyCmd.Flags().StringVar(&historyDatabaseURL, "db-url", "", "Database URL (overrides DATABASE_URL)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", db.DefaultListLimit, "Number of fills to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print fills as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	overlay(cmd, "db-url", &cfg.DatabaseURL, historyDatabaseURL)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database URL is required (set DATABASE_URL or use --db-url)")
	}
	if historyLimit < 1 {
		return fmt.Errorf("--limit must be at least 1")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	fills, err := database.ListFills(ctx, historyLimit)
	if err != nil {
		return err
	}

	if historyJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(fills)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintFills(fills)
	return nil
}
