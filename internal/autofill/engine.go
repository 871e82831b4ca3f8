// Package autofill orchestrates a fill invocation: it classifies every control on the
// page, writes native controls at once, retries framework-managed widgets on a staggered
// schedule, rescans for late-rendered questions, and uploads the resume.
package autofill

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/ats-autofill/internal/classify"
	"github.com/jonathan/ats-autofill/internal/config"
	"github.com/jonathan/ats-autofill/internal/dom"
	"github.com/jonathan/ats-autofill/internal/fetch"
	"github.com/jonathan/ats-autofill/internal/profile"
	"github.com/jonathan/ats-autofill/internal/sched"
	"github.com/jonathan/ats-autofill/internal/upload"
	"github.com/jonathan/ats-autofill/internal/writer"
)

// ErrNoProfile is returned when a fill is requested without a profile.
var ErrNoProfile = errors.New("profile is required")

// Outcome is the result reported to the caller of Fill.
type Outcome struct {
	Success bool `json:"success"`
	// FilledFieldCount counts synchronous writes plus one for a successful resume upload.
	// Writes made later by the async tiers and rescans are not included.
	FilledFieldCount     int    `json:"filledFieldCount"`
	ResumeUploadDetected bool   `json:"resumeUploadDetected"`
	Error                string `json:"error,omitempty"`
	Platform             string `json:"platform,omitempty"`
	RunID                string `json:"runId,omitempty"`
}

// PingResponse answers a liveness probe.
type PingResponse struct {
	Success bool `json:"success"`
}

// Engine fills application forms through a driver. At most one run is active at a time.
type Engine struct {
	driver     dom.Driver
	classifier *classify.Classifier
	timings    config.Timings
	clock      sched.Clock
	logger     *zap.Logger

	mu      sync.Mutex
	current *Run
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimings overrides the fill schedule.
func WithTimings(t config.Timings) Option {
	return func(e *Engine) { e.timings = t }
}

// WithClock drives scheduled work from c instead of wall time.
func WithClock(c sched.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine for the page behind driver.
func New(driver dom.Driver, opts ...Option) *Engine {
	e := &Engine{
		driver:  driver,
		timings: config.DefaultTimings(),
		clock:   sched.RealClock{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	e.classifier = classify.New(e.logger)
	return e
}

// Ping answers unconditionally.
func (e *Engine) Ping() PingResponse {
	return PingResponse{Success: true}
}

// Current returns the most recent run, or nil.
func (e *Engine) Current() *Run {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Fill runs the synchronous phases and the resume upload, schedules the async tiers and
// rescans, and returns without waiting for them. The returned run can be waited on or
// cancelled; it is nil when the invocation failed before anything was scheduled. Any
// pending work of the previous run is cancelled first.
func (e *Engine) Fill(ctx context.Context, p *profile.Profile, resumeID string, opts ...FillOption) (out Outcome, run *Run) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("fill panicked", zap.String("panic", fmt.Sprint(r)))
			if run != nil {
				run.Cancel()
			}
			out = Outcome{Success: false, Error: fmt.Sprint(r)}
			run = nil
		}
	}()

	if prev := e.swap(nil); prev != nil {
		prev.Cancel()
	}
	if p == nil {
		return Outcome{Success: false, Error: ErrNoProfile.Error()}, nil
	}

	runID := uuid.NewString()
	logger := e.logger.With(zap.String("run_id", runID))
	s := sched.New(e.clock, logger)
	run = &Run{
		ID:      runID,
		engine:  e,
		profile: p,
		sched:   s,
		writer:  writer.New(e.driver, e.timings.Settle, logger),
		logger:  logger,
		filled:  make(map[string]bool),
		opened:  make(map[string]bool),
		start:   e.clock.Now(),
	}
	for _, opt := range opts {
		opt(run)
	}

	doc, err := e.driver.Snapshot(ctx)
	if err != nil {
		logger.Error("failed to snapshot page", zap.Error(err))
		return Outcome{Success: false, Error: err.Error(), RunID: runID}, nil
	}
	run.url = doc.URL

	instant, async := run.classify(doc)
	logger.Info("fill started",
		zap.String("url", doc.URL),
		zap.Int("instant", len(instant)),
		zap.Int("async", len(async)),
	)

	filled := 0
	for _, pf := range instant {
		if ok, _ := run.write(ctx, doc, pf.el, pf.det, PhaseInstant); ok {
			filled++
		}
	}

	uploaded := false
	if len(p.ResumeFiles) > 0 {
		h := upload.New(e.driver, s, runID, e.timings.Verify, logger)
		uploaded = h.Upload(ctx, p, resumeID)
		run.setUploaded(uploaded)
	}

	run.scheduleAsync(async)
	run.scheduleRescans(e.timings.RescanDelays, "rescan")

	e.swap(run)
	s.Start(context.WithoutCancel(ctx))

	count := filled
	if uploaded {
		count++
	}
	out = Outcome{
		Success:              true,
		FilledFieldCount:     count,
		ResumeUploadDetected: uploaded,
		Platform:             string(fetch.DetectPlatform(doc.URL)),
		RunID:                runID,
	}
	logger.Info("fill dispatched",
		zap.Int("filled", count),
		zap.Bool("resume_uploaded", uploaded),
		zap.String("platform", out.Platform),
	)
	return out, run
}

// swap installs run as the current run and returns the previous one.
func (e *Engine) swap(run *Run) *Run {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.current
	e.current = run
	return prev
}

// Detection is one row of a classification report.
type Detection struct {
	UID      string          `json:"uid"`
	ID       string          `json:"id,omitempty"`
	Name     string          `json:"name,omitempty"`
	Tag      string          `json:"tag"`
	Kind     string          `json:"kind"`
	Async    bool            `json:"async"`
	Field    string          `json:"field"`
	Value    string          `json:"value"`
	Tier     classify.Tier   `json:"tier"`
	Question string          `json:"question,omitempty"`
	Scores   classify.Scores `json:"scores,omitempty"`
}

// Detect classifies every eligible control of the current page without writing anything.
func (e *Engine) Detect(ctx context.Context, p *profile.Profile) ([]Detection, error) {
	if p == nil {
		return nil, ErrNoProfile
	}
	doc, err := e.driver.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot page: %w", err)
	}
	var out []Detection
	for _, el := range doc.Controls() {
		det := e.classifier.Classify(el, p)
		if det == nil {
			continue
		}
		out = append(out, Detection{
			UID:      el.UID(),
			ID:       el.ID(),
			Name:     el.Name(),
			Tag:      el.Tag(),
			Kind:     dom.KindOf(el).String(),
			Async:    dom.NeedsAsync(el),
			Field:    det.Field.String(),
			Value:    det.Value,
			Tier:     det.Tier,
			Question: det.Question,
			Scores:   det.Scores,
		})
	}
	return out, nil
}
