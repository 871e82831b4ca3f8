package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-autofill/internal/autofill"
	"github.com/jonathan/ats-autofill/internal/fetch"
	"github.com/jonathan/ats-autofill/internal/htmlpage"
	"github.com/jonathan/ats-autofill/internal/observability"
	"github.com/jonathan/ats-autofill/internal/profile"
	"github.com/jonathan/ats-autofill/internal/sched"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Fill a saved form page offline",
	Long:  "Run a complete fill, async tiers and rescans included, against a saved or fetched page on a virtual clock, then write the filled HTML and an event log.",
	RunE:  runPreview,
}

var (
	previewProfile  string
	previewResumeID string
	previewPage     string
	previewPageURL  string
	previewOut      string
	previewEvents   string
)

func init() {
	previewCmd.Flags().StringVarP(&previewProfile, "profile", "p", "", "Path to applicant profile JSON")
	previewCmd.Flags().StringVar(&previewResumeID, "resume-id", "", "Stored resume to upload (default: first)")
	previewCmd.Flags().StringVar(&previewPage, "page", "", "HTML file or http(s) URL of the form page (required)")
	previewCmd.Flags().StringVar(&previewPageURL, "page-url", "", "URL the page is treated as served from (selects the platform)")
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "", "Path for the filled HTML (required)")
	previewCmd.Flags().StringVar(&previewEvents, "events", "", "Path for the JSON event log")

	_ = previewCmd.MarkFlagRequired("page")
	_ = previewCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(previewCmd)
}

// domEvent is one synthetic event dispatched on the page.
type domEvent struct {
	UID  string `json:"uid"`
	ID   string `json:"id,omitempty"`
	Type string `json:"type"`
}

// previewLog is the event log written by preview.
type previewLog struct {
	Outcome   autofill.Outcome      `json:"outcome"`
	Stats     autofill.Stats        `json:"stats"`
	Writes    []autofill.WriteEvent `json:"writes"`
	Events    []domEvent            `json:"events"`
	Downloads []string              `json:"downloads,omitempty"`
}

func runPreview(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	overlay(cmd, "profile", &cfg.Profile, previewProfile)
	overlay(cmd, "resume-id", &cfg.ResumeID, previewResumeID)
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

	ctx := context.Background()
	res, err := fetch.Source(ctx, previewPage, previewPageURL, fetch.DefaultOptions())
	if err != nil {
		return err
	}

	clock := sched.NewVirtualClock(time.Now())
	page, err := htmlpage.New(res.HTML, res.URL, htmlpage.WithClock(clock))
	if err != nil {
		return err
	}
	engine := autofill.New(page,
		autofill.WithClock(clock),
		autofill.WithTimings(cfg.Timings()),
		autofill.WithLogger(logger),
	)

	var mu sync.Mutex
	writes := []autofill.WriteEvent{}
	out, run := engine.Fill(ctx, p, cfg.ResumeID, autofill.OnWrite(func(ev autofill.WriteEvent) {
		mu.Lock()
		writes = append(writes, ev)
		mu.Unlock()
	}))

	var stats autofill.Stats
	if run != nil {
		if err := run.Wait(ctx); err != nil {
			return err
		}
		stats = run.Stats()
	}

	filled, err := page.HTML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(previewOut, []byte(filled), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	if previewEvents != "" {
		eventLog := previewLog{Outcome: out, Stats: stats, Writes: writes, Events: []domEvent{}}
		for _, ev := range page.Events() {
			eventLog.Events = append(eventLog.Events, domEvent{UID: ev.UID, ID: ev.ID, Type: ev.Type})
		}
		for _, f := range page.Downloads() {
			eventLog.Downloads = append(eventLog.Downloads, f.Name)
		}
		data, err := json.MarshalIndent(eventLog, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(previewEvents, data, 0644); err != nil {
			return fmt.Errorf("failed to write events file: %w", err)
		}
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintOutcome(out)
	if run != nil {
		printer.PrintRunSummary(stats, run.Cancelled(), writes)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", previewOut)
	return nil
}
