package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

var validLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if _, ok := validLevels[strings.ToLower(strings.TrimSpace(cfg.Log.Level))]; !ok {
		return nil, fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}
	if cfg.Timeouts.Dial <= 0 {
		return nil, fmt.Errorf("timeouts.dial_ms must be > 0")
	}
	if cfg.Timeouts.Request <= 0 {
		return nil, fmt.Errorf("timeouts.request_ms must be > 0")
	}
	format := strings.ToLower(strings.TrimSpace(cfg.Watch.Format))
	if format != FormatText && format != FormatJSON {
		return nil, fmt.Errorf("watch.format must be one of: text, json")
	}

	if cfg.Socket != "" && !filepath.IsAbs(cfg.Socket) {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("socket %q is relative; it resolves against the working directory", cfg.Socket)})
	}

	return warnings, nil
}
