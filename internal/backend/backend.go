package backend

import (
	"context"
	"errors"

	"schedpilot/internal/jobspec"
)

// Kind identifies one scheduling backend.
type Kind string

const (
	KindCron     Kind = "cron"
	KindManifest Kind = "manifest"
	KindWrapper  Kind = "wrapper"
)

// Kinds lists every supported backend in reporting order.
func Kinds() []Kind { return []Kind{KindCron, KindManifest, KindWrapper} }

// Action is what a reconciler did (or would report doing) to its store.
type Action string

const (
	ActionNone    Action = "noop"
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionFailed  Action = "failed"
)

// State is a read-only snapshot of one backend taken at probe time.
// It is rebuilt fresh every run and never persisted.
type State struct {
	// Present reports whether any entry for the target exists in this backend.
	Present bool

	// RawContent is the stored content the probe found, when readable.
	RawContent string

	// MatchesDesired reports whether the stored content, whitespace-normalized,
	// equals what the reconciler would generate for the job.
	MatchesDesired bool
}

// Result is the outcome of one reconciler apply.
type Result struct {
	Kind   Kind
	Action Action
	Err    error

	// Instructions is a human-readable registration walkthrough, returned only
	// by backends with no programmatic install (the wrapper script).
	Instructions string
}

// Failed reports whether the apply failed outright or only partially
// (file written, activation rejected).
func (r Result) Failed() bool { return r.Err != nil }

var (
	// ErrActivation marks a partial failure: the backing file was written but
	// the service manager rejected the registration. Callers must treat the
	// file state as changed even though the runtime registration is not.
	ErrActivation = errors.New("activation failed")

	// ErrUnsupportedPlatform means no backend applies to the current platform.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// Reconciler converges one backend's external store toward a Spec.
//
// Probe is read-only. A Probe error means the underlying tool or file could
// not be consulted; callers downgrade it to "not present" rather than failing
// the run.
type Reconciler interface {
	Kind() Kind
	Probe(ctx context.Context, sp jobspec.Spec) (State, error)
	Apply(ctx context.Context, sp jobspec.Spec) Result
}
