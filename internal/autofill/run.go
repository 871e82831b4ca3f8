package autofill

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/ats-autofill/internal/classify"
	"github.com/jonathan/ats-autofill/internal/dom"
	"github.com/jonathan/ats-autofill/internal/profile"
	"github.com/jonathan/ats-autofill/internal/sched"
	"github.com/jonathan/ats-autofill/internal/writer"
)

// Phase names the stage that wrote a field.
type Phase string

const (
	PhaseInstant Phase = "instant"
	PhaseAsync   Phase = "async"
	PhaseRescan  Phase = "rescan"
)

// WriteEvent reports one successful write.
type WriteEvent struct {
	RunID string `json:"runId"`
	UID   string `json:"uid"`
	ID    string `json:"id,omitempty"`
	Field string `json:"field"`
	Kind  string `json:"kind"`
	Phase Phase  `json:"phase"`
	// AfterMS is the time since the start of the run, in milliseconds.
	AfterMS int64 `json:"afterMs"`
}

// Stats counts the writes of a run by phase.
type Stats struct {
	Instant        int  `json:"instant"`
	Async          int  `json:"async"`
	Rescan         int  `json:"rescan"`
	Dropped        int  `json:"dropped"`
	Rescans        int  `json:"rescans"`
	ResumeUploaded bool `json:"resumeUploaded"`
}

// Total returns the number of fields written in every phase.
func (s Stats) Total() int {
	return s.Instant + s.Async + s.Rescan
}

// FillOption configures a single run.
type FillOption func(*Run)

// OnWrite registers fn to be called after every successful write of the run. It is called
// from the goroutine performing the write.
func OnWrite(fn func(WriteEvent)) FillOption {
	return func(r *Run) { r.onWrite = fn }
}

// Run is the state of one fill invocation. Every scheduled task closes over its run, so
// concurrent or later invocations never observe each other's profile or markers.
type Run struct {
	ID string

	engine  *Engine
	profile *profile.Profile
	sched   *sched.Scheduler
	writer  *writer.Writer
	logger  *zap.Logger
	onWrite func(WriteEvent)
	start   time.Time
	url     string

	mu     sync.Mutex
	filled map[string]bool
	opened map[string]bool
	stats  Stats
}

type pendingField struct {
	uid string
	el  *dom.Element
	det *classify.Detection
}

// Wait blocks until every scheduled task has run or the run was cancelled.
func (r *Run) Wait(ctx context.Context) error {
	return r.sched.Wait(ctx)
}

// Done is closed once the run has no more work.
func (r *Run) Done() <-chan struct{} {
	return r.sched.Done()
}

// Cancel drops the run's pending tasks.
func (r *Run) Cancel() {
	r.sched.Cancel()
}

// Cancelled reports whether the run was cancelled.
func (r *Run) Cancelled() bool {
	return r.sched.Cancelled()
}

// URL returns the page URL the run started on.
func (r *Run) URL() string {
	return r.url
}

// Stats returns a snapshot of the run's counters.
func (r *Run) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Filled reports whether the element uid was written by this run.
func (r *Run) Filled(uid string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filled[uid]
}

func (r *Run) setUploaded(ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.ResumeUploaded = ok
}

// classify splits the page's classified controls into native ones, written at once, and
// framework-managed ones, written by the async tiers.
func (r *Run) classify(doc *dom.Document) (instant, async []pendingField) {
	for _, el := range doc.Controls() {
		det := r.engine.classifier.Classify(el, r.profile)
		if det == nil {
			continue
		}
		pf := pendingField{uid: el.UID(), el: el, det: det}
		if dom.NeedsAsync(el) {
			async = append(async, pf)
		} else {
			instant = append(instant, pf)
		}
	}
	return instant, async
}

// write applies det to el unless the run already filled it. A custom dropdown is only
// opened here and reported as pending; writeSeq finishes it once it settled.
func (r *Run) write(ctx context.Context, doc *dom.Document, el *dom.Element, det *classify.Detection, phase Phase) (ok, pending bool) {
	uid := el.UID()
	if r.Filled(uid) || r.busy(uid) || el.Filled(r.ID) {
		return false, false
	}
	res := r.writer.Write(ctx, doc, el, det)
	if res.Pending {
		r.mu.Lock()
		r.opened[uid] = true
		r.mu.Unlock()
		return false, true
	}
	return r.record(ctx, el, det, res, phase), false
}

// pick finishes the write of the opened dropdown el.
func (r *Run) pick(ctx context.Context, el *dom.Element, det *classify.Detection, phase Phase) bool {
	uid := el.UID()
	res := r.writer.Pick(ctx, uid, det)
	r.mu.Lock()
	delete(r.opened, uid)
	r.mu.Unlock()
	return r.record(ctx, el, det, res, phase)
}

// busy reports whether uid is an opened dropdown still waiting for its option to be picked.
func (r *Run) busy(uid string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opened[uid]
}

// record counts a write and marks every element it answered.
func (r *Run) record(ctx context.Context, el *dom.Element, det *classify.Detection, res writer.Result, phase Phase) bool {
	if !res.Applied {
		return false
	}
	uid := el.UID()

	r.mu.Lock()
	for _, u := range res.UIDs {
		r.filled[u] = true
	}
	switch phase {
	case PhaseInstant:
		r.stats.Instant++
	case PhaseAsync:
		r.stats.Async++
	case PhaseRescan:
		r.stats.Rescan++
	}
	r.mu.Unlock()

	for _, u := range res.UIDs {
		if err := r.engine.driver.Mark(ctx, u, dom.AttrFilled, r.ID); err != nil {
			r.logger.Debug("failed to mark element", zap.String("uid", u), zap.Error(err))
		}
	}

	if res.HispanicAnswer {
		r.logger.Debug("hispanic question answered, scheduling follow-up rescans", zap.String("uid", uid))
		r.scheduleRescans(r.engine.timings.HispanicRescans, "hispanic-rescan")
	}

	if r.onWrite != nil {
		r.onWrite(WriteEvent{
			RunID:   r.ID,
			UID:     uid,
			ID:      el.ID(),
			Field:   det.Field.String(),
			Kind:    res.Kind.String(),
			Phase:   phase,
			AfterMS: r.sched.Clock().Now().Sub(r.start).Milliseconds(),
		})
	}
	return true
}

// writeSeq writes fields in order, looking each up in doc. When a custom dropdown is
// opened the sequence suspends, and a task scheduled after the settle delay picks its
// option and resumes on a fresh snapshot. finish receives the fields left unwritten. It
// is not called if the run is cancelled mid-sequence.
func (r *Run) writeSeq(ctx context.Context, doc *dom.Document, fields []pendingField, phase Phase, name string, finish func(failing []pendingField)) {
	var failing []pendingField
	var step func(ctx context.Context, doc *dom.Document, next int)
	step = func(ctx context.Context, doc *dom.Document, next int) {
		for i := next; i < len(fields); i++ {
			pf := fields[i]
			if r.Filled(pf.uid) {
				continue
			}
			el := doc.ByUID(pf.uid)
			if el == nil {
				failing = append(failing, pf)
				continue
			}
			ok, pending := r.write(ctx, doc, el, pf.det, phase)
			if pending {
				resume := i + 1
				r.sched.After(r.writer.Settle(), fmt.Sprintf("%s-pick-%s", name, pf.uid), func(ctx context.Context) {
					if !r.pick(ctx, el, pf.det, phase) {
						failing = append(failing, pf)
					}
					fresh, err := r.engine.driver.Snapshot(ctx)
					if err != nil {
						r.logger.Debug("snapshot after dropdown pick failed", zap.Error(err))
						failing = append(failing, fields[resume:]...)
						finish(failing)
						return
					}
					step(ctx, fresh, resume)
				})
				return
			}
			if !ok && !el.Filled(r.ID) {
				failing = append(failing, pf)
			}
		}
		finish(failing)
	}
	step(ctx, doc, 0)
}

// scheduleAsync queues the first async tier. Fields still unfilled after a tier are
// carried into the next; after the last tier they are dropped.
func (r *Run) scheduleAsync(fields []pendingField) {
	tiers := r.engine.timings.AsyncTiers
	if len(fields) == 0 || len(tiers) == 0 {
		return
	}
	r.scheduleTier(0, fields)
}

func (r *Run) scheduleTier(attempt int, fields []pendingField) {
	tiers := r.engine.timings.AsyncTiers
	name := fmt.Sprintf("async-tier-%d", attempt)
	r.sched.After(r.untilOffset(tiers[attempt]), name, func(ctx context.Context) {
		doc, err := r.engine.driver.Snapshot(ctx)
		if err != nil {
			r.logger.Debug("async tier snapshot failed", zap.Error(err))
			return
		}
		r.writeSeq(ctx, doc, fields, PhaseAsync, name, func(failing []pendingField) {
			if len(failing) == 0 {
				return
			}
			if attempt+1 < len(tiers) {
				r.scheduleTier(attempt+1, failing)
				return
			}
			r.mu.Lock()
			r.stats.Dropped += len(failing)
			r.mu.Unlock()
			r.logger.Debug("async fields dropped after last tier", zap.Int("count", len(failing)))
		})
	})
}

// scheduleRescans queues a rescan at each delay from now, or from the start of the run
// for the initial rescans.
func (r *Run) scheduleRescans(delays []time.Duration, name string) {
	for _, d := range delays {
		delay := d
		if name == "rescan" {
			delay = r.untilOffset(d)
		}
		r.sched.After(delay, fmt.Sprintf("%s-%s", name, d), r.rescan)
	}
}

// rescan re-enumerates the page and writes any classified control not yet filled.
func (r *Run) rescan(ctx context.Context) {
	r.mu.Lock()
	r.stats.Rescans++
	n := r.stats.Rescans
	r.mu.Unlock()

	doc, err := r.engine.driver.Snapshot(ctx)
	if err != nil {
		r.logger.Debug("rescan snapshot failed", zap.Error(err))
		return
	}
	var pending []pendingField
	for _, el := range doc.Controls() {
		if r.Filled(el.UID()) || r.busy(el.UID()) || el.Filled(r.ID) {
			continue
		}
		det := r.engine.classifier.Classify(el, r.profile)
		if det == nil {
			continue
		}
		pending = append(pending, pendingField{uid: el.UID(), el: el, det: det})
	}
	r.writeSeq(ctx, doc, pending, PhaseRescan, fmt.Sprintf("rescan-%d", n), func(failing []pendingField) {
		r.logger.Debug("rescan complete", zap.Int("candidates", len(pending)), zap.Int("unwritten", len(failing)))
	})
}

// untilOffset converts an offset from the start of the run into a delay from now.
func (r *Run) untilOffset(offset time.Duration) time.Duration {
	d := r.start.Add(offset).Sub(r.sched.Clock().Now())
	if d < 0 {
		return 0
	}
	return d
}
