package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/ats-autofill/internal/autofill"
	"github.com/jonathan/ats-autofill/internal/classify"
	"github.com/jonathan/ats-autofill/internal/db"
)

func TestPrintDetections(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDetections([]autofill.Detection{
		{UID: "1", ID: "first_name", Tag: "input", Kind: "native-text", Field: "firstName", Value: "Jane", Tier: classify.TierAttribute},
		{UID: "2", Tag: "div", Kind: "custom-dropdown", Field: "ethnicity", Value: "Asian", Tier: classify.TierScored, Async: true},
		{UID: "3", Name: "cover", Tag: "textarea", Kind: "native-text", Field: "coverLetter", Tier: classify.TierScored},
	})
	output := buf.String()

	assert.Contains(t, output, "DETECTED FIELDS")
	assert.Contains(t, output, "Fields: 3 (1 deferred to async tiers)")
	assert.Contains(t, output, "first_name")
	assert.Contains(t, output, "div#2")
	assert.Contains(t, output, "ethnicity (async)")
	assert.Contains(t, output, "(no value)")
}

func TestPrintDetections_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintDetections(nil)

	assert.Contains(t, buf.String(), "No fillable fields found")
}

func TestPrintDetections_Truncated(t *testing.T) {
	var buf bytes.Buffer
	detections := make([]autofill.Detection, 30)
	for i := range detections {
		detections[i] = autofill.Detection{UID: fmt.Sprint(i), Tag: "input", Field: "city"}
	}

	NewPrinter(&buf).PrintDetections(detections)

	assert.Contains(t, buf.String(), "... and 5 more fields")
}

func TestPrintOutcome(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintOutcome(autofill.Outcome{
		Success:              true,
		FilledFieldCount:     7,
		ResumeUploadDetected: true,
		Platform:             "greenhouse",
		RunID:                "run-1",
	})
	output := buf.String()

	assert.Contains(t, output, "FILL OUTCOME")
	assert.Contains(t, output, "greenhouse")
	assert.Contains(t, output, "Filled:   7")
	assert.Contains(t, output, "Resume:   ✓")
	assert.NotContains(t, output, "⚠")
}

func TestPrintOutcome_Error(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintOutcome(autofill.Outcome{Error: "snapshot failed"})

	assert.Contains(t, buf.String(), "Success:  ✗")
	assert.Contains(t, buf.String(), "⚠ snapshot failed")
}

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	writes := []autofill.WriteEvent{
		{Field: "firstName", Phase: autofill.PhaseInstant},
		{Field: "city", Phase: autofill.PhaseAsync, AfterMS: 0},
		{Field: "race", Phase: autofill.PhaseRescan, AfterMS: 1000},
	}

	NewPrinter(&buf).PrintRunSummary(autofill.Stats{Instant: 1, Async: 1, Rescan: 1, Rescans: 5}, false, writes)
	output := buf.String()

	assert.Contains(t, output, "RUN SUMMARY")
	assert.Contains(t, output, "Rescans: 5")
	assert.Contains(t, output, "race (rescan) +1000ms")
	assert.NotContains(t, output, "firstName")
	assert.NotContains(t, output, "cancelled")
}

func TestPrintRunSummary_Cancelled(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRunSummary(autofill.Stats{}, true, nil)

	assert.Contains(t, buf.String(), "cancelled by a newer fill")
	assert.NotContains(t, buf.String(), "Late writes")
}

func TestPrintFills(t *testing.T) {
	var buf bytes.Buffer
	late, dropped := 2, 1
	msg := "resume upload failed"
	NewPrinter(&buf).PrintFills([]db.FillRecord{
		{
			URL:           "https://boards.greenhouse.io/acme/jobs/1",
			Platform:      "greenhouse",
			Success:       true,
			FilledFields:  9,
			LateFields:    &late,
			DroppedFields: &dropped,
			CreatedAt:     time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		},
		{Platform: "unknown", Error: &msg, CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
	})
	output := buf.String()

	assert.Contains(t, output, "FILL HISTORY")
	assert.Contains(t, output, "2026-03-01 09:30")
	assert.Contains(t, output, "filled 9, late 2, dropped 1")
	assert.Contains(t, output, "⚠ resume upload failed")
}

func TestPrintFills_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintFills(nil)

	assert.Contains(t, buf.String(), "No fills recorded")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).printBox("TITLE", strings.Repeat("x", 100))

	assert.Contains(t, buf.String(), "...")
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
}
