// Package sched runs deferred work for one fill invocation on a single goroutine. Tasks are
// ordered by due time, then by scheduling order, and each runs to completion before the
// next starts.
package sched

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is a unit of deferred work. ctx is cancelled when the scheduler is cancelled.
type Task func(ctx context.Context)

type item struct {
	name string
	due  time.Time
	seq  int
	fn   Task
}

type queue []*item

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}
func (q queue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x interface{}) { *q = append(*q, x.(*item)) }
func (q *queue) Pop() interface{} {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// Scheduler is a cancellable timer queue.
type Scheduler struct {
	mu        sync.Mutex
	clock     Clock
	logger    *zap.Logger
	queue     queue
	seq       int
	started   bool
	finished  bool
	cancelled bool
	cancel    context.CancelFunc
	done      chan struct{}
	ran       int
}

// New creates a scheduler on clock. A nil logger discards diagnostics.
func New(clock Clock, logger *zap.Logger) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{clock: clock, logger: logger, done: make(chan struct{})}
}

// Clock returns the scheduler's clock.
func (s *Scheduler) Clock() Clock { return s.clock }

// After queues fn to run once delay has elapsed from now. It returns false when the
// scheduler has been cancelled or has already drained.
func (s *Scheduler) After(delay time.Duration, name string, fn Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled || s.finished {
		return false
	}
	s.seq++
	heap.Push(&s.queue, &item{name: name, due: s.clock.Now().Add(delay), seq: s.seq, fn: fn})
	return true
}

// Start runs the queue on a new goroutine until it drains or is cancelled. Tasks queued
// before Start do not run until it is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	go s.loop(loopCtx)
}

// Cancel drops every pending task and stops the loop. A task already running finishes.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	s.cancelled = true
	dropped := len(s.queue)
	s.queue = nil
	cancel := s.cancel
	started := s.started
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if !started {
		s.finish()
	}
	if dropped > 0 {
		s.logger.Debug("scheduler cancelled", zap.Int("dropped", dropped))
	}
}

// Wait blocks until the queue has drained or the scheduler was cancelled.
func (s *Scheduler) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the loop has exited.
func (s *Scheduler) Done() <-chan struct{} { return s.done }

// Pending returns the number of queued tasks.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Ran returns the number of tasks executed so far.
func (s *Scheduler) Ran() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ran
}

// Cancelled reports whether Cancel was called.
func (s *Scheduler) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.finish()
	for {
		s.mu.Lock()
		if s.cancelled || len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		due := s.queue[0].due
		s.mu.Unlock()

		if err := s.clock.SleepUntil(ctx, due); err != nil {
			s.mu.Lock()
			s.cancelled = true
			s.queue = nil
			s.mu.Unlock()
			return
		}

		s.mu.Lock()
		if s.cancelled || len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		next := heap.Pop(&s.queue).(*item)
		s.ran++
		s.mu.Unlock()

		s.run(ctx, next)
	}
}

func (s *Scheduler) run(ctx context.Context, it *item) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled task panicked", zap.String("task", it.name), zap.String("panic", fmt.Sprint(r)))
		}
	}()
	s.logger.Debug("running task", zap.String("task", it.name))
	it.fn(ctx)
}

func (s *Scheduler) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	s.finished = true
	close(s.done)
}
