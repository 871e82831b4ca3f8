package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		Whitelist:       map[string]bool{"10.0.0.1": true},
		Blacklist:       map[string]bool{"10.0.0.66": true},
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

func TestTokenBucket_BurstThenDeny(t *testing.T) {
	now := time.Now()
	bucket := newTokenBucket(10, 1.0, now)

	for i := 0; i < 10; i++ {
		allowed, _, _ := bucket.take(now)
		require.True(t, allowed, "request %d", i+1)
	}
	allowed, remaining, full := bucket.take(now)
	assert.False(t, allowed)
	assert.Zero(t, remaining)
	assert.Equal(t, now.Add(10*time.Second), full)
}

func TestTokenBucket_Refill(t *testing.T) {
	now := time.Now()
	bucket := newTokenBucket(10, 1.0, now)
	for i := 0; i < 10; i++ {
		bucket.take(now)
	}

	allowed, _, _ := bucket.take(now.Add(1100 * time.Millisecond))
	assert.True(t, allowed)
	allowed, _, _ = bucket.take(now.Add(1100 * time.Millisecond))
	assert.False(t, allowed)
}

func TestLimiter_FillEndpointBurst(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(testConfig(), WithClock(clock.Now))
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("10.0.0.2", "/fill", "POST")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 30, info.Limit)
	}
	allowed, info := l.Allow("10.0.0.2", "/fill", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 2*time.Second, info.RetryAfter)

	clock.Advance(2 * time.Second)
	allowed, _ = l.Allow("10.0.0.2", "/fill", "POST")
	assert.True(t, allowed)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l := NewLimiter(testConfig(), WithClock(newFakeClock().Now))
	defer l.Stop()

	for i := 0; i < 5; i++ {
		l.Allow("10.0.0.2", "/fill", "POST")
	}
	allowed, _ := l.Allow("10.0.0.3", "/fill", "POST")
	assert.True(t, allowed)
}

func TestLimiter_ProbesAreUnlimited(t *testing.T) {
	l := NewLimiter(testConfig(), WithClock(newFakeClock().Now))
	defer l.Stop()

	for i := 0; i < 500; i++ {
		allowed, _ := l.Allow("10.0.0.2", "/ping", "GET")
		require.True(t, allowed)
		allowed, _ = l.Allow("10.0.0.2", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	l := NewLimiter(testConfig(), WithClock(newFakeClock().Now))
	defer l.Stop()

	for i := 0; i < 20; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/fill", "POST")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("10.0.0.66", "/fills", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	allowed, info := l.Allow("10.0.0.2", "/fill", "POST")
	assert.True(t, allowed)
	assert.Zero(t, info.Limit)
}

func TestLimiter_CleanupRemovesIdleBuckets(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(testConfig(), WithClock(clock.Now))
	defer l.Stop()

	l.Allow("10.0.0.2", "/fills", "GET")
	clock.Advance(2 * time.Hour)
	l.Allow("10.0.0.3", "/fills", "GET")
	l.cleanup(time.Hour)

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.buckets, 1)
	assert.Contains(t, l.buckets, "10.0.0.3:/fills:GET")
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Second, CleanupInterval: time.Millisecond})
	assert.NotPanics(t, func() {
		l.Stop()
		l.Stop()
	})
}

func TestMatchEndpoint(t *testing.T) {
	configs := append(DefaultEndpointConfigs(), EndpointConfig{Path: "/fills/", Method: "GET", Limit: 60, Window: time.Minute})

	tests := []struct {
		name   string
		path   string
		method string
		want   int
	}{
		{"exact fill", "/fill", "POST", 30},
		{"stream", "/fill/stream", "POST", 30},
		{"token", "/token", "POST", 10},
		{"prefix", "/fills/abc", "GET", 60},
		{"probe", "/ping", "GET", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Limit)
		})
	}

	assert.Nil(t, MatchEndpoint("/fill", "GET", configs))
}

func TestConfig_WithFillRate(t *testing.T) {
	cfg := (&Config{EndpointConfigs: DefaultEndpointConfigs()}).WithFillRate(0.5)
	for _, ec := range cfg.EndpointConfigs {
		switch ec.Path {
		case "/fill", "/fill/stream":
			assert.Equal(t, 30, ec.Limit)
		case "/token":
			assert.Equal(t, 10, ec.Limit)
		}
	}

	cfg = (&Config{EndpointConfigs: DefaultEndpointConfigs()}).WithFillRate(2)
	assert.Equal(t, 120, cfg.EndpointConfigs[0].Limit)
}

func TestParseIPList(t *testing.T) {
	got := parseIPList(" 10.0.0.1, ,10.0.0.2 ")
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, got)
	assert.Empty(t, parseIPList(""))
}
