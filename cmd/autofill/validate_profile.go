package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-autofill/internal/profile"
	"github.com/jonathan/ats-autofill/internal/schemas"
)

var validateProfileCmd = &cobra.Command{
	Use:   "validate-profile",
	Short: "Validate an applicant profile JSON file",
	Long:  "Check a profile against the profile JSON Schema and the struct-level rules the engine enforces before a fill.",
	RunE:  runValidateProfile,
}

var validateProfilePath string

func init() {
	validateProfileCmd.Flags().StringVarP(&validateProfilePath, "profile", "p", "", "Path to applicant profile JSON (required)")
	_ = validateProfileCmd.MarkFlagRequired("profile")
	rootCmd.AddCommand(validateProfileCmd)
}

func runValidateProfile(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	data, err := os.ReadFile(validateProfilePath)
	if err != nil {
		return fmt.Errorf("failed to read profile file: %w", err)
	}

	if err := schemas.ValidateProfile(data); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			_, _ = fmt.Fprintf(out, "Validation failed:\n")
			for _, fe := range validationErr.Errors {
				_, _ = fmt.Fprintf(out, "  - %s: %s\n", fe.Field, fe.Message)
			}
			return fmt.Errorf("profile does not match schema")
		}
		return err
	}

	p, err := profile.Parse(data)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Validation failed:\n  - %v\n", err)
		return fmt.Errorf("profile is invalid")
	}

	_, _ = fmt.Fprintf(out, "Validation passed\n")
	_, _ = fmt.Fprintf(out, "Resumes: %d\n", len(p.ResumeFiles))
	return nil
}
