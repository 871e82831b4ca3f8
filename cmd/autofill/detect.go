package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-autofill/internal/autofill"
	"github.com/jonathan/ats-autofill/internal/fetch"
	"github.com/jonathan/ats-autofill/internal/htmlpage"
	"github.com/jonathan/ats-autofill/internal/observability"
	"github.com/jonathan/ats-autofill/internal/profile"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Classify the fields of a saved or fetched form page",
	Long:  "Load a form page from a file or URL and report, for every fillable control, the field it was classified as and the value a fill would write. Nothing is written.",
	RunE:  runDetect,
}

var (
	detectProfile string
	detectPage    string
	detectPageURL string
	detectJSON    bool
)

func init() {
	detectCmd.Flags().StringVarP(&detectProfile, "profile", "p", "", "Path to applicant profile JSON")
	detectCmd.Flags().StringVar(&detectPage, "page", "", "HTML file or http(s) URL of the form page (required)")
	detectCmd.Flags().StringVar(&detectPageURL, "page-url", "", "URL the page is treated as served from (selects the platform)")
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "Print detections as JSON")

	_ = detectCmd.MarkFlagRequired("page")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	overlay(cmd, "profile", &cfg.Profile, detectProfile)
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
	res, err := fetch.Source(ctx, detectPage, detectPageURL, fetch.DefaultOptions())
	if err != nil {
		return err
	}
	page, err := htmlpage.New(res.HTML, res.URL)
	if err != nil {
		return err
	}

	engine := autofill.New(page, autofill.WithLogger(logger))
	detections, err := engine.Detect(ctx, p)
	if err != nil {
		return err
	}

	if detectJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(detections)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Platform: %s\n", fetch.DetectPlatform(res.URL))
	observability.NewPrinter(cmd.OutOrStdout()).PrintDetections(detections)
	return nil
}
