// Package config defines process configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New(); Load layers a YAML file and env vars on top.
// - Durations are expressed in milliseconds to keep env overrides flat.
// - External errors are wrapped with this package's sentinels.
package config

import "time"

// Render modes.
const (
	RenderScreen = "screen"
	RenderText   = "text"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFile receives the structured log. Empty logs to stderr.
	LogFile string `koanf:"log_file"`

	// RefreshIntervalMS is the fixed tick cadence of the refresh loop.
	RefreshIntervalMS int `koanf:"refresh_interval_ms" validate:"gt=0"`

	// TopN bounds the number of rendered rows.
	TopN int `koanf:"top_n" validate:"gt=0"`

	// TrackAugmentation fetches per-athlete point tracks for altitude and speed.
	TrackAugmentation bool `koanf:"track_augmentation"`

	// TrackWorkers bounds concurrent track fetches per tick.
	TrackWorkers int `koanf:"track_workers" validate:"gt=0"`

	// HTTPTimeoutMS caps a single upstream request.
	HTTPTimeoutMS int `koanf:"http_timeout_ms" validate:"gt=0"`

	// RenderMode selects the display sink: screen or text.
	RenderMode string `koanf:"render_mode" validate:"oneof=screen text"`

	// ExitOnError stops the process on the first failed tick.
	ExitOnError bool `koanf:"exit_on_error"`

	// DeltaLegacyLeader measures tendencies against the previous leader twice.
	DeltaLegacyLeader bool `koanf:"delta_legacy_leader"`

	// HTTPAddr enables the read-only HTTP surface when set, e.g. ":9090".
	HTTPAddr string `koanf:"http_addr" validate:"omitempty,hostname_port"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFile:           "xalps.log",
		RefreshIntervalMS: 5_000,
		TopN:              5,
		TrackAugmentation: true,
		TrackWorkers:      8,
		HTTPTimeoutMS:     4_000,
		RenderMode:        RenderScreen,
		ExitOnError:       false,
		DeltaLegacyLeader: false,
		HTTPAddr:          "",
	}
}

// RefreshInterval returns the tick cadence.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMS) * time.Millisecond
}

// HTTPTimeout returns the per-request timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMS) * time.Millisecond
}
