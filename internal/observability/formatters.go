// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/ats-autofill/internal/autofill"
	"github.com/jonathan/ats-autofill/internal/db"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxDetectionsToShow bounds the detection report, which is usually longer.
	maxDetectionsToShow = 25
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

// PrintDetections outputs the classification report of a page.
func (p *Printer) PrintDetections(detections []autofill.Detection) {
	if len(detections) == 0 {
		p.printBox("DETECTED FIELDS", "No fillable fields found")
		return
	}

	var sb strings.Builder
	async := 0
	for _, d := range detections {
		if d.Async {
			async++
		}
	}
	sb.WriteString(fmt.Sprintf("Fields: %d (%d deferred to async tiers)\n\n", len(detections), async))

	count := min(len(detections), maxDetectionsToShow)
	for i := 0; i < count; i++ {
		d := detections[i]
		label := d.ID
		if label == "" {
			label = d.Name
		}
		if label == "" {
			label = d.Tag + "#" + d.UID
		}
		sb.WriteString(fmt.Sprintf("• %-18s %s", truncate(label, 18), d.Field))
		if d.Async {
			sb.WriteString(" (async)")
		}
		sb.WriteString("\n")
		value := d.Value
		if value == "" {
			value = "(no value)"
		}
		sb.WriteString(fmt.Sprintf("    %s via %s: %s\n", d.Kind, d.Tier, truncate(value, 30)))
	}

	if len(detections) > maxDetectionsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more fields", len(detections)-maxDetectionsToShow))
	}

	p.printBox("DETECTED FIELDS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintOutcome outputs the result of the synchronous phase of a fill.
func (p *Printer) PrintOutcome(out autofill.Outcome) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:      %s\n", out.RunID))
	sb.WriteString(fmt.Sprintf("Platform: %s\n", out.Platform))
	sb.WriteString(fmt.Sprintf("Success:  %s\n", mark(out.Success)))
	sb.WriteString(fmt.Sprintf("Filled:   %d\n", out.FilledFieldCount))
	sb.WriteString(fmt.Sprintf("Resume:   %s", mark(out.ResumeUploadDetected)))
	if out.Error != "" {
		sb.WriteString(fmt.Sprintf("\n\n⚠ %s", out.Error))
	}

	p.printBox("FILL OUTCOME", sb.String())
}

// PrintRunSummary outputs what a run wrote in each phase once it has drained.
func (p *Printer) PrintRunSummary(stats autofill.Stats, cancelled bool, writes []autofill.WriteEvent) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Instant: %d  Async: %d  Rescan: %d\n", stats.Instant, stats.Async, stats.Rescan))
	sb.WriteString(fmt.Sprintf("Dropped: %d  Rescans: %d\n", stats.Dropped, stats.Rescans))
	if cancelled {
		sb.WriteString("⚠ cancelled by a newer fill\n")
	}

	late := make([]autofill.WriteEvent, 0, len(writes))
	for _, w := range writes {
		if w.Phase != autofill.PhaseInstant {
			late = append(late, w)
		}
	}
	if len(late) > 0 {
		sb.WriteString("\nLate writes:\n")
		count := min(len(late), maxItemsToShow)
		for i := 0; i < count; i++ {
			w := late[i]
			sb.WriteString(fmt.Sprintf("  • %s (%s) +%dms\n", w.Field, w.Phase, w.AfterMS))
		}
		if len(late) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(late)-maxItemsToShow))
		}
	}

	p.printBox("RUN SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFills outputs recorded fill history, newest first.
func (p *Printer) PrintFills(fills []db.FillRecord) {
	if len(fills) == 0 {
		p.printBox("FILL HISTORY", "No fills recorded")
		return
	}

	var sb strings.Builder
	for i, f := range fills {
		sb.WriteString(fmt.Sprintf("%s %s  %s\n", mark(f.Success), f.CreatedAt.Format("2006-01-02 15:04"), f.Platform))
		sb.WriteString(fmt.Sprintf("  %s\n", truncate(f.URL, 50)))
		sb.WriteString(fmt.Sprintf("  filled %d", f.FilledFields))
		if f.LateFields != nil {
			sb.WriteString(fmt.Sprintf(", late %d", *f.LateFields))
		}
		if f.DroppedFields != nil && *f.DroppedFields > 0 {
			sb.WriteString(fmt.Sprintf(", dropped %d", *f.DroppedFields))
		}
		if f.ResumeUploaded {
			sb.WriteString(", resume")
		}
		sb.WriteString("\n")
		if f.Error != nil {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", truncate(*f.Error, 45)))
		}
		if i < len(fills)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("FILL HISTORY", strings.TrimSuffix(sb.String(), "\n"))
}
