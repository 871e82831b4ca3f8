// Package main provides the entry point for the ATS autofill CLI and local API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/ats-autofill/internal/config"
	"github.com/jonathan/ats-autofill/internal/logging"
)

var (
	configPath string
	verbose    bool
	logEnv     string
)

var rootCmd = &cobra.Command{
	Use:           "autofill",
	Short:         "Job application form autofill",
	Long:          "autofill detects the fields of a job application form and fills them from an applicant profile, in a live Chrome tab, offline against saved HTML, or through a local HTTP API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug-level diagnostics")
	rootCmd.PersistentFlags().StringVar(&logEnv, "env", "", "Logging environment (\"production\" selects JSON logs)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadSettings reads the config file, when one is given, and fills the rest from defaults.
func loadSettings() (*config.Config, error) {
	cfg := config.Defaults()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		if err := loaded.Validate(); err != nil {
			return nil, err
		}
		cfg = loaded.MergeWithDefaults(config.Defaults())
	}
	if verbose {
		cfg.Verbose = true
	}
	if logEnv != "" {
		cfg.Env = logEnv
	}
	return &cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Env, cfg.Verbose)
}

// overlay copies a string flag over a config value when the flag was set explicitly.
func overlay(cmd *cobra.Command, name string, dst *string, val string) {
	if cmd.Flags().Changed(name) || *dst == "" {
		if val != "" {
			*dst = val
		}
	}
}
