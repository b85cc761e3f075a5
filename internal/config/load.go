package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"schedpilot/internal/backend/wrapper"
)

// Load reads and strictly decodes the config file at path. A missing file is
// not an error when optional is true; it returns an empty Config.
func Load(path string, optional bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && optional {
			return &Config{}, nil
		}
		return nil, err
	}

	jb, _, err := coerceToJSONBytes(path, b)
	if err != nil {
		return nil, err
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("invalid config: trailing data")
		}
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints. Field-level syntax errors are
// caught where the values are parsed into their typed forms.
func (c *Config) Validate() error {
	wd, err := ParseDurationOrDefault("wrapper.watchdog_timeout", c.Wrapper.WatchdogTimeout, wrapper.DefaultWatchdog)
	if err != nil {
		return err
	}
	rec, err := ParseDurationOrDefault("wrapper.recommended_limit", c.Wrapper.RecommendedLimit, wrapper.DefaultRecommendedLimit)
	if err != nil {
		return err
	}
	if err := wrapper.ValidateLimits(wd, rec); err != nil {
		return fmt.Errorf("wrapper: %w", err)
	}

	if _, err := ParseDurationField("journal.busy_timeout", c.Journal.BusyTimeout); err != nil {
		return err
	}
	return nil
}

// WrapperLimits returns the effective watchdog/recommended pair.
// Call after Validate; parse errors surface there.
func (c *Config) WrapperLimits() (watchdog, recommended time.Duration) {
	watchdog, _ = ParseDurationOrDefault("wrapper.watchdog_timeout", c.Wrapper.WatchdogTimeout, wrapper.DefaultWatchdog)
	recommended, _ = ParseDurationOrDefault("wrapper.recommended_limit", c.Wrapper.RecommendedLimit, wrapper.DefaultRecommendedLimit)
	return watchdog, recommended
}

// JournalBusyTimeout returns the effective sqlite busy timeout.
func (c *Config) JournalBusyTimeout() time.Duration {
	d, _ := ParseDurationField("journal.busy_timeout", c.Journal.BusyTimeout)
	return d
}
