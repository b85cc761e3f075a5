package config

import (
	"bytes"
	"encoding/json"
)

// Config is the optional on-disk configuration. Everything here has a
// sensible zero-value default; the tool runs fine with no config file at all.
type Config struct {
	Logging LoggingConfig `json:"logging,omitempty"`
	Journal JournalConfig `json:"journal,omitempty"`

	// Schedule carries defaults for the install command; flags win over it.
	Schedule ScheduleConfig `json:"schedule,omitempty"`

	Wrapper WrapperConfig `json:"wrapper,omitempty"`
}

type LoggingConfig struct {
	// Level is one of trace|debug|info|warn|error. Default info.
	Level string `json:"level,omitempty"`

	// File enables an additional JSON log sink.
	File FileLogConfig `json:"file,omitempty"`
}

type FileLogConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// JournalConfig configures the reconciliation audit trail.
//
// Driver is "file" (JSON Lines) or "sqlite" (requires the sqlite build tag).
// Empty or "none" disables journaling.
type JournalConfig struct {
	Driver string `json:"driver,omitempty"`
	Path   string `json:"path,omitempty"`

	// BusyTimeout is a Go duration string (e.g. "500ms"); sqlite only.
	BusyTimeout string `json:"busy_timeout,omitempty"`
}

type ScheduleConfig struct {
	// Time is the default trigger: a 5-field cron expression or "HH:MM".
	Time string `json:"time,omitempty"`

	// Label overrides the derived manifest label (reverse-domain notation).
	Label string `json:"label,omitempty"`
}

// WrapperConfig tunes the generated wrapper script.
//
// WatchdogTimeout must stay strictly below RecommendedLimit: the script's
// internal kill fires first, and the scheduler-level stop is the backstop.
// Both are Go duration strings.
//
// Defaults: watchdog_timeout "10m", recommended_limit "15m".
type WrapperConfig struct {
	WatchdogTimeout  string `json:"watchdog_timeout,omitempty"`
	RecommendedLimit string `json:"recommended_limit,omitempty"`
}

// Equal compares two configs structurally.
func Equal(a, b *Config) bool {
	if a == nil || b == nil {
		return a == b
	}
	ab, err1 := json.Marshal(a)
	bb, err2 := json.Marshal(b)
	if err1 != nil || err2 != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}
