package config

import "time"

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		Socket: "",
		Log:    LogConfig{Level: "info"},
		Timeouts: TimeoutConfig{
			Dial:    time.Second,
			Request: 2 * time.Second,
		},
		Watch: WatchConfig{Format: FormatText},
	}
}
