package journal

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("journal disabled")

// Config configures the journal.
//
// Driver values:
//   - "file": dependency-free file backend (jsonl)
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", the journal is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Entry records one reconciler outcome within a run.
// Keep it compact and schema-stable.
type Entry struct {
	At      time.Time `json:"at"`
	Target  string    `json:"target"`
	Label   string    `json:"label"`
	Backend string    `json:"backend"`
	Action  string    `json:"action"`
	Forced  bool      `json:"forced,omitempty"`
	Error   string    `json:"error,omitempty"`
	TookMS  int64     `json:"took_ms"`
}
