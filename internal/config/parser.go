package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
)

type jsoncConfig struct {
	Socket   *string        `json:"socket"`
	Log      *jsoncLog      `json:"log"`
	Timeouts *jsoncTimeouts `json:"timeouts"`
	Watch    *jsoncWatch    `json:"watch"`
}

type jsoncLog struct {
	Level *string `json:"level"`
}

type jsoncTimeouts struct {
	DialMS    *int `json:"dial_ms"`
	RequestMS *int `json:"request_ms"`
}

type jsoncWatch struct {
	Format *string `json:"format"`
}

// Parse reads JSONC configuration content on top of base. Comments and
// trailing commas are allowed; unknown keys are rejected.
func Parse(content string, base Config) (Config, []Warning, error) {
	if strings.TrimSpace(content) == "" {
		warnings, err := Validate(base)
		if err != nil {
			return Config{}, nil, err
		}
		return base, warnings, nil
	}

	// jsonc.ToJSON blanks comments in place, so decoder offsets still map
	// onto the original content.
	normalized := string(jsonc.ToJSON([]byte(content)))

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, wrapJSONDecodeError(content, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, nil, wrapJSONDecodeError(content, err)
	}

	cfg := base
	payload.applyTo(&cfg)

	warnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, warnings, nil
}

func (payload jsoncConfig) applyTo(cfg *Config) {
	if payload.Socket != nil {
		cfg.Socket = strings.TrimSpace(*payload.Socket)
	}

	if payload.Log != nil && payload.Log.Level != nil {
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(*payload.Log.Level))
	}

	if payload.Timeouts != nil {
		if payload.Timeouts.DialMS != nil {
			cfg.Timeouts.Dial = time.Duration(*payload.Timeouts.DialMS) * time.Millisecond
		}
		if payload.Timeouts.RequestMS != nil {
			cfg.Timeouts.Request = time.Duration(*payload.Timeouts.RequestMS) * time.Millisecond
		}
	}

	if payload.Watch != nil && payload.Watch.Format != nil {
		cfg.Watch.Format = strings.ToLower(strings.TrimSpace(*payload.Watch.Format))
	}
}

func ensureSingleJSONValue(decoder *json.Decoder) error {
	var extra struct{}
	err := decoder.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		return fmt.Errorf("multiple JSON values are not allowed")
	}
	return err
}

func wrapJSONDecodeError(content string, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(content, syntaxErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		line, col := offsetToLineCol(content, typeErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	return err
}

func offsetToLineCol(content string, offset int64) (int, int) {
	if offset <= 0 {
		return 1, 1
	}

	limit := int(offset)
	if limit > len(content) {
		limit = len(content)
	}

	line := 1
	col := 1
	for i := 0; i < limit-1; i++ {
		if content[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
