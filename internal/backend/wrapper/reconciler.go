package wrapper

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"schedpilot/internal/backend"
	"schedpilot/internal/jobspec"
	"schedpilot/pkg/logx"
)

// Reconciler manages the wrapper script content and produces registration
// instructions. It never talks to the task scheduler itself.
type Reconciler struct {
	watchdog    time.Duration
	recommended time.Duration
	log         logx.Logger
}

// New builds a Reconciler. Zero durations fall back to the defaults; the
// pair is validated so the instructions can never under-protect the watchdog.
func New(watchdog, recommended time.Duration, log logx.Logger) (*Reconciler, error) {
	if watchdog == 0 {
		watchdog = DefaultWatchdog
	}
	if recommended == 0 {
		recommended = DefaultRecommendedLimit
	}
	if err := ValidateLimits(watchdog, recommended); err != nil {
		return nil, err
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Reconciler{watchdog: watchdog, recommended: recommended, log: log}, nil
}

func (r *Reconciler) Kind() backend.Kind { return backend.KindWrapper }

func (r *Reconciler) Probe(ctx context.Context, sp jobspec.Spec) (backend.State, error) {
	raw, err := os.ReadFile(ScriptPath(sp))
	if err != nil {
		if os.IsNotExist(err) {
			return backend.State{}, nil
		}
		return backend.State{}, err
	}
	content := string(raw)
	return backend.State{
		Present:        true,
		RawContent:     content,
		MatchesDesired: strings.TrimSpace(content) == strings.TrimSpace(Render(sp, r.watchdog)),
	}, nil
}

// Apply converges the script file with the same compare-then-write discipline
// as the manifest backend, and always attaches registration instructions
// worded for whether the script existed before this call.
func (r *Reconciler) Apply(ctx context.Context, sp jobspec.Spec) backend.Result {
	res := backend.Result{Kind: backend.KindWrapper}
	path := ScriptPath(sp)

	if err := os.MkdirAll(sp.LogDir(), 0o755); err != nil {
		res.Action = backend.ActionFailed
		res.Err = fmt.Errorf("create log dir: %w", err)
		return res
	}

	desired := Render(sp, r.watchdog)
	existing, readErr := os.ReadFile(path)
	existed := readErr == nil
	res.Instructions = Instructions(path, existed, r.recommended)

	if existed && strings.TrimSpace(string(existing)) == strings.TrimSpace(desired) {
		res.Action = backend.ActionNone
		r.log.Info("wrapper script already satisfied", logx.String("path", path))
		return res
	}

	if err := os.WriteFile(path, []byte(desired), 0o755); err != nil {
		res.Action = backend.ActionFailed
		res.Err = fmt.Errorf("write wrapper script: %w", err)
		return res
	}

	if existed {
		res.Action = backend.ActionUpdated
		r.log.Info("wrapper script updated", logx.String("path", path))
	} else {
		res.Action = backend.ActionCreated
		r.log.Info("wrapper script created", logx.String("path", path))
	}
	return res
}
