// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Default timings of the fill phases, in milliseconds.
var (
	DefaultAsyncTiers      = []int{0, 100, 300}
	DefaultRescanDelays    = []int{500, 1500}
	DefaultHispanicRescans = []int{500, 1000, 2000}
)

const (
	DefaultSettleMS     = 200
	DefaultVerifyMS     = 100
	DefaultNavTimeout   = 30
	DefaultPort         = 8080
	DefaultRateLimitRPS = 5
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Profile  string `json:"profile,omitempty"`   // Path to applicant profile JSON
	ResumeID string `json:"resume_id,omitempty"` // Preferred resume id
	URL      string `json:"url,omitempty"`       // Application page to open before filling

	// Timings (milliseconds)
	AsyncTiers      []int `json:"async_tiers,omitempty"`      // Delays of the staggered async attempts
	RescanDelays    []int `json:"rescan_delays,omitempty"`    // Delays of the late-field rescans
	HispanicRescans []int `json:"hispanic_rescans,omitempty"` // Rescans after a Hispanic sub-question
	SettleMS        int   `json:"settle_ms,omitempty"`        // Custom dropdown open-settle delay
	VerifyMS        int   `json:"verify_ms,omitempty"`        // File-clear verification delay

	// Browser
	Headless          bool   `json:"headless,omitempty"`            // Launch Chrome headless
	RemoteURL         string `json:"remote_url,omitempty"`          // DevTools websocket of a running browser
	NavTimeoutSeconds int    `json:"nav_timeout_seconds,omitempty"` // Navigation timeout
	DownloadDir       string `json:"download_dir,omitempty"`        // Manual-fallback download directory

	// Server
	Port         int     `json:"port,omitempty"`           // HTTP port for serve
	RateLimitRPS float64 `json:"rate_limit_rps,omitempty"` // Requests per second per client

	// Behavior
	Env         string `json:"env,omitempty"`          // "production" selects JSON logs
	Verbose     bool   `json:"verbose,omitempty"`      // Debug-level diagnostics
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL for fill history
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	for name, delays := range map[string][]int{
		"async_tiers":      c.AsyncTiers,
		"rescan_delays":    c.RescanDelays,
		"hispanic_rescans": c.HispanicRescans,
	} {
		for _, d := range delays {
			if d < 0 {
				return fmt.Errorf("config error: '%s' must be non-negative", name)
			}
		}
	}
	if c.SettleMS < 0 {
		return fmt.Errorf("config error: 'settle_ms' must be non-negative")
	}
	if c.VerifyMS < 0 {
		return fmt.Errorf("config error: 'verify_ms' must be non-negative")
	}
	if c.NavTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'nav_timeout_seconds' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("config error: 'rate_limit_rps' must be non-negative")
	}

	if c.Profile != "" {
		if _, err := os.Stat(c.Profile); os.IsNotExist(err) {
			return fmt.Errorf("config error: profile file not found: %s", c.Profile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Profile == "" {
		result.Profile = defaults.Profile
	}
	if result.ResumeID == "" {
		result.ResumeID = defaults.ResumeID
	}
	if result.URL == "" {
		result.URL = defaults.URL
	}
	if result.RemoteURL == "" {
		result.RemoteURL = defaults.RemoteURL
	}
	if result.DownloadDir == "" {
		result.DownloadDir = defaults.DownloadDir
	}
	if result.Env == "" {
		result.Env = defaults.Env
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if len(result.AsyncTiers) == 0 {
		result.AsyncTiers = defaults.AsyncTiers
	}
	if len(result.RescanDelays) == 0 {
		result.RescanDelays = defaults.RescanDelays
	}
	if len(result.HispanicRescans) == 0 {
		result.HispanicRescans = defaults.HispanicRescans
	}

	if result.SettleMS == 0 {
		result.SettleMS = defaults.SettleMS
	}
	if result.VerifyMS == 0 {
		result.VerifyMS = defaults.VerifyMS
	}
	if result.NavTimeoutSeconds == 0 {
		result.NavTimeoutSeconds = defaults.NavTimeoutSeconds
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.RateLimitRPS == 0 {
		result.RateLimitRPS = defaults.RateLimitRPS
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		AsyncTiers:        append([]int(nil), DefaultAsyncTiers...),
		RescanDelays:      append([]int(nil), DefaultRescanDelays...),
		HispanicRescans:   append([]int(nil), DefaultHispanicRescans...),
		SettleMS:          DefaultSettleMS,
		VerifyMS:          DefaultVerifyMS,
		NavTimeoutSeconds: DefaultNavTimeout,
		Port:              DefaultPort,
		RateLimitRPS:      DefaultRateLimitRPS,
		Headless:          true,
	}
}

// Timings is the resolved schedule of a fill invocation.
type Timings struct {
	AsyncTiers      []time.Duration
	RescanDelays    []time.Duration
	HispanicRescans []time.Duration
	Settle          time.Duration
	Verify          time.Duration
}

// Timings converts the millisecond settings into durations, falling back to defaults for
// anything left unset.
func (c *Config) Timings() Timings {
	merged := c.MergeWithDefaults(Defaults())
	return Timings{
		AsyncTiers:      millis(merged.AsyncTiers),
		RescanDelays:    millis(merged.RescanDelays),
		HispanicRescans: millis(merged.HispanicRescans),
		Settle:          time.Duration(merged.SettleMS) * time.Millisecond,
		Verify:          time.Duration(merged.VerifyMS) * time.Millisecond,
	}
}

// NavTimeout returns the navigation timeout as a duration.
func (c *Config) NavTimeout() time.Duration {
	if c.NavTimeoutSeconds <= 0 {
		return DefaultNavTimeout * time.Second
	}
	return time.Duration(c.NavTimeoutSeconds) * time.Second
}

// DefaultTimings returns the built-in fill schedule.
func DefaultTimings() Timings {
	cfg := Defaults()
	return cfg.Timings()
}

func millis(ms []int) []time.Duration {
	out := make([]time.Duration, len(ms))
	for i, m := range ms {
		out[i] = time.Duration(m) * time.Millisecond
	}
	return out
}
