// Package config resolves, parses, validates, and defaults niriws configuration.
package config

import "time"

// Config is the fully materialized runtime configuration used by niriws.
type Config struct {
	Socket   string
	Log      LogConfig
	Timeouts TimeoutConfig
	Watch    WatchConfig
}

// LogConfig controls the JSONL log sink.
type LogConfig struct {
	Level string
}

// TimeoutConfig bounds connect and request/reply exchanges. The event
// stream itself is never bounded.
type TimeoutConfig struct {
	Dial    time.Duration
	Request time.Duration
}

// WatchConfig controls how `watch` prints snapshots.
type WatchConfig struct {
	Format string
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
