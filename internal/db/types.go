package db

import (
	"time"

	"github.com/google/uuid"
)

// DefaultListLimit caps ListFills when no limit is given.
const DefaultListLimit = 50

// FillRecord is one fill invocation as stored in fill_runs.
type FillRecord struct {
	ID             uuid.UUID  `json:"id"`
	RunID          uuid.UUID  `json:"run_id"`
	URL            string     `json:"url"`
	Platform       string     `json:"platform"`
	Success        bool       `json:"success"`
	FilledFields   int        `json:"filled_fields"`
	ResumeUploaded bool       `json:"resume_uploaded"`
	LateFields     *int       `json:"late_fields,omitempty"`
	DroppedFields  *int       `json:"dropped_fields,omitempty"`
	Error          *string    `json:"error,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// FillInput is what a caller knows when the synchronous phase of a fill returns.
type FillInput struct {
	RunID          string
	URL            string
	Platform       string
	Success        bool
	FilledFields   int
	ResumeUploaded bool
	Error          string
}

// runUUID parses the run id, minting one for invocations that failed before a run id was
// assigned.
func (in FillInput) runUUID() uuid.UUID {
	if id, err := uuid.Parse(in.RunID); err == nil {
		return id
	}
	return uuid.New()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
