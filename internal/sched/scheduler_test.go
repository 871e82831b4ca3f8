package sched

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type recorder struct {
	mu    sync.Mutex
	names []string
	times []time.Duration
}

func (r *recorder) task(s *Scheduler, name string) Task {
	return func(context.Context) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.names = append(r.names, name)
		r.times = append(r.times, s.Clock().Now().Sub(epoch))
	}
}

func waitDone(t *testing.T, s *Scheduler) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
}

func TestScheduler_OrdersByDueThenSequence(t *testing.T) {
	s := New(NewVirtualClock(epoch), nil)
	rec := &recorder{}

	s.After(300*time.Millisecond, "c", rec.task(s, "c"))
	s.After(0, "a", rec.task(s, "a"))
	s.After(100*time.Millisecond, "b1", rec.task(s, "b1"))
	s.After(100*time.Millisecond, "b2", rec.task(s, "b2"))

	s.Start(context.Background())
	waitDone(t, s)

	assert.Equal(t, []string{"a", "b1", "b2", "c"}, rec.names)
	assert.Equal(t, []time.Duration{0, 100 * time.Millisecond, 100 * time.Millisecond, 300 * time.Millisecond}, rec.times)
	assert.Equal(t, 4, s.Ran())
}

func TestScheduler_TasksScheduleTasks(t *testing.T) {
	s := New(NewVirtualClock(epoch), nil)
	rec := &recorder{}

	s.After(500*time.Millisecond, "parent", func(ctx context.Context) {
		rec.task(s, "parent")(ctx)
		s.After(500*time.Millisecond, "child", rec.task(s, "child"))
	})
	s.After(800*time.Millisecond, "sibling", rec.task(s, "sibling"))

	s.Start(context.Background())
	waitDone(t, s)

	assert.Equal(t, []string{"parent", "sibling", "child"}, rec.names)
	assert.Equal(t, time.Second, rec.times[2])
}

func TestScheduler_NothingRunsBeforeStart(t *testing.T) {
	s := New(NewVirtualClock(epoch), nil)
	rec := &recorder{}
	s.After(0, "a", rec.task(s, "a"))

	assert.Equal(t, 1, s.Pending())
	assert.Empty(t, rec.names)
}

func TestScheduler_CancelDropsPending(t *testing.T) {
	s := New(NewVirtualClock(epoch), nil)
	rec := &recorder{}

	s.After(100*time.Millisecond, "first", func(ctx context.Context) {
		rec.task(s, "first")(ctx)
		s.Cancel()
	})
	s.After(200*time.Millisecond, "second", rec.task(s, "second"))

	s.Start(context.Background())
	waitDone(t, s)

	assert.Equal(t, []string{"first"}, rec.names)
	assert.True(t, s.Cancelled())
	assert.False(t, s.After(0, "late", rec.task(s, "late")))
}

func TestScheduler_CancelBeforeStart(t *testing.T) {
	s := New(NewVirtualClock(epoch), nil)
	rec := &recorder{}
	s.After(0, "a", rec.task(s, "a"))
	s.Cancel()
	s.Start(context.Background())
	waitDone(t, s)
	assert.Empty(t, rec.names)
}

func TestScheduler_CancelInterruptsRealSleep(t *testing.T) {
	s := New(RealClock{}, nil)
	rec := &recorder{}
	s.After(time.Hour, "never", rec.task(s, "never"))
	s.Start(context.Background())

	s.Cancel()
	waitDone(t, s)
	assert.Empty(t, rec.names)
}

func TestScheduler_ContextCancellation(t *testing.T) {
	s := New(RealClock{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	s.After(time.Hour, "never", func(context.Context) {})
	s.Start(ctx)
	cancel()
	waitDone(t, s)
	assert.True(t, s.Cancelled())
}

func TestScheduler_RealClockRuns(t *testing.T) {
	s := New(RealClock{}, nil)
	var ran bool
	s.After(5*time.Millisecond, "quick", func(context.Context) { ran = true })
	s.Start(context.Background())
	waitDone(t, s)
	assert.True(t, ran)
}

func TestScheduler_RecoversPanics(t *testing.T) {
	s := New(NewVirtualClock(epoch), nil)
	rec := &recorder{}
	s.After(0, "boom", func(context.Context) { panic("boom") })
	s.After(10*time.Millisecond, "after", rec.task(s, "after"))
	s.Start(context.Background())
	waitDone(t, s)
	assert.Equal(t, []string{"after"}, rec.names)
}

func TestScheduler_WaitHonoursContext(t *testing.T) {
	s := New(RealClock{}, nil)
	s.After(time.Hour, "never", func(context.Context) {})
	s.Start(context.Background())
	defer s.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Wait(ctx), context.DeadlineExceeded)
}

func TestVirtualClock(t *testing.T) {
	c := NewVirtualClock(epoch)
	require.NoError(t, c.SleepUntil(context.Background(), epoch.Add(time.Second)))
	assert.Equal(t, epoch.Add(time.Second), c.Now())

	require.NoError(t, c.SleepUntil(context.Background(), epoch))
	assert.Equal(t, epoch.Add(time.Second), c.Now())

	c.Advance(time.Minute)
	assert.Equal(t, epoch.Add(time.Minute+time.Second), c.Now())
}
