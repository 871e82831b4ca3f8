package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/ats-autofill/internal/autofill"
	"github.com/jonathan/ats-autofill/internal/browser"
	"github.com/jonathan/ats-autofill/internal/config"
	"github.com/jonathan/ats-autofill/internal/db"
	"github.com/jonathan/ats-autofill/internal/observability"
	"github.com/jonathan/ats-autofill/internal/profile"
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill the application form in a Chrome tab",
	Long:  "Launch Chrome (or attach to a running one), optionally navigate to --url, and fill the form from the applicant profile. Waits until the async tiers and rescans have finished.",
	RunE:  runFill,
}

var (
	fillProfile     string
	fillResumeID    string
	fillURL         string
	fillRemoteURL   string
	fillDownloadDir string
	fillDatabaseURL string
	fillHeadless    bool
)

func init() {
	fillCmd.Flags().StringVarP(&fillProfile, "profile", "p", "", "Path to applicant profile JSON")
	fillCmd.Flags().StringVar(&fillResumeID, "resume-id", "", "Stored resume to upload (default: first)")
	fillCmd.Flags().StringVar(&fillURL, "url", "", "Application page to open before filling")
	fillCmd.Flags().StringVar(&fillRemoteURL, "remote-url", "", "DevTools websocket URL of a running browser")
	fillCmd.Flags().StringVar(&fillDownloadDir, "download-dir", "", "Directory for the manual-upload fallback download")
	fillCmd.Flags().StringVar(&fillDatabaseURL, "db-url", "", "Database URL for fill history (overrides DATABASE_URL)")
	fillCmd.Flags().BoolVar(&fillHeadless, "headless", true, "Launch Chrome headless")

	rootCmd.AddCommand(fillCmd)
}

func runFill(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	overlay(cmd, "profile", &cfg.Profile, fillProfile)
	overlay(cmd, "resume-id", &cfg.ResumeID, fillResumeID)
	overlay(cmd, "url", &cfg.URL, fillURL)
	overlay(cmd, "remote-url", &cfg.RemoteURL, fillRemoteURL)
	overlay(cmd, "download-dir", &cfg.DownloadDir, fillDownloadDir)
	overlay(cmd, "db-url", &cfg.DatabaseURL, fillDatabaseURL)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cmd.Flags().Changed("headless") || configPath == "" {
		cfg.Headless = fillHeadless
	}
	if cfg.Profile == "" {
		return fmt.Errorf("--profile is required")
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	p, err := profile.Load(cfg.Profile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := browser.Open(ctx, browser.Options{
		Headless:    cfg.Headless,
		RemoteURL:   cfg.RemoteURL,
		NavTimeout:  cfg.NavTimeout(),
		DownloadDir: cfg.DownloadDir,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	if cfg.URL != "" {
		if err := session.Navigate(ctx, cfg.URL); err != nil {
			return err
		}
	}

	engine := autofill.New(session.Driver(),
		autofill.WithTimings(cfg.Timings()),
		autofill.WithLogger(logger),
	)

	var mu sync.Mutex
	var writes []autofill.WriteEvent
	out, run := engine.Fill(ctx, p, cfg.ResumeID, autofill.OnWrite(func(ev autofill.WriteEvent) {
		mu.Lock()
		writes = append(writes, ev)
		mu.Unlock()
	}))

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintOutcome(out)
	if run != nil {
		if err := run.Wait(ctx); err != nil {
			logger.Warn("fill interrupted before scheduled phases finished", zap.Error(err))
		}
		mu.Lock()
		printer.PrintRunSummary(run.Stats(), run.Cancelled(), writes)
		mu.Unlock()
	}

	if cfg.DatabaseURL != "" {
		if err := recordFill(ctx, cfg, out, run); err != nil {
			logger.Error("failed to record fill", zap.Error(err))
		}
	}

	if !out.Success {
		return fmt.Errorf("fill failed: %s", out.Error)
	}
	return nil
}

// recordFill stores a finished run in the fill history.
func recordFill(ctx context.Context, cfg *config.Config, out autofill.Outcome, run *autofill.Run) error {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	in := db.FillInput{
		RunID:          out.RunID,
		Platform:       out.Platform,
		Success:        out.Success,
		FilledFields:   out.FilledFieldCount,
		ResumeUploaded: out.ResumeUploadDetected,
		Error:          out.Error,
	}
	if run != nil {
		in.URL = run.URL()
	}
	rec, err := database.RecordFill(ctx, in)
	if err != nil {
		return err
	}
	if run == nil {
		return nil
	}
	stats := run.Stats()
	return database.CompleteFill(ctx, rec.RunID.String(), stats.Async+stats.Rescan, stats.Dropped)
}
