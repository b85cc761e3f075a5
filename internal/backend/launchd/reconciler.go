package launchd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"schedpilot/internal/backend"
	"schedpilot/internal/jobspec"
	"schedpilot/pkg/logx"
)

// Reconciler converges the per-user launchd agent manifest toward the
// desired schedule.
type Reconciler struct {
	gw        Gateway
	agentsDir string
	log       logx.Logger
}

// New builds a Reconciler. agentsDir defaults to ~/Library/LaunchAgents;
// tests inject a temp dir and a fake gateway.
func New(gw Gateway, agentsDir string, log logx.Logger) *Reconciler {
	if gw == nil {
		gw = ExecGateway{}
	}
	if agentsDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			agentsDir = filepath.Join(home, "Library", "LaunchAgents")
		}
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Reconciler{gw: gw, agentsDir: agentsDir, log: log}
}

func (r *Reconciler) Kind() backend.Kind { return backend.KindManifest }

func (r *Reconciler) Probe(ctx context.Context, sp jobspec.Spec) (backend.State, error) {
	path := ManifestPath(r.agentsDir, sp.Label)
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return backend.State{}, err
		}
		// Backward compatibility: look at the pre-rename location too.
		raw, err = os.ReadFile(LegacyManifestPath(r.agentsDir, sp.Label))
		if err != nil {
			if os.IsNotExist(err) {
				return backend.State{}, nil
			}
			return backend.State{}, err
		}
	}

	content := string(raw)
	return backend.State{
		Present:        true,
		RawContent:     content,
		MatchesDesired: strings.TrimSpace(content) == strings.TrimSpace(Render(sp)),
	}, nil
}

// Apply renders the canonical manifest and converges the file plus the
// launchd registration:
//
//   - identical content: no filesystem or launchctl calls at all, so an
//     unchanged schedule never flaps the running agent.
//   - different content: best-effort unload of the old registration, write,
//     then load.
//   - absent: write, then load.
//
// A failed load is a partial failure: the file stays written, and the error
// wraps backend.ErrActivation so callers can tell it apart from a write
// failure.
func (r *Reconciler) Apply(ctx context.Context, sp jobspec.Spec) backend.Result {
	res := backend.Result{Kind: backend.KindManifest}

	if err := os.Chmod(sp.TargetPath, 0o755); err != nil {
		r.log.Debug("chmod target failed", logx.String("target", sp.TargetPath), logx.Err(err))
	}
	if err := os.MkdirAll(sp.LogDir(), 0o755); err != nil {
		res.Action = backend.ActionFailed
		res.Err = fmt.Errorf("create log dir: %w", err)
		return res
	}

	desired := Render(sp)
	path := ManifestPath(r.agentsDir, sp.Label)

	existing, readErr := os.ReadFile(path)
	existed := readErr == nil

	if existed && strings.TrimSpace(string(existing)) == strings.TrimSpace(desired) {
		res.Action = backend.ActionNone
		r.log.Info("manifest already satisfied", logx.String("path", path))
		return res
	}

	if existed {
		// The old registration may reference stale content; unloading may fail
		// if it was never loaded, which is fine.
		if err := r.gw.Unload(ctx, path); err != nil {
			r.log.Debug("unload before update failed", logx.String("path", path), logx.Err(err))
		}
	}

	if err := os.MkdirAll(r.agentsDir, 0o755); err != nil {
		res.Action = backend.ActionFailed
		res.Err = fmt.Errorf("create agents dir: %w", err)
		return res
	}
	if err := os.WriteFile(path, []byte(desired), 0o644); err != nil {
		res.Action = backend.ActionFailed
		res.Err = fmt.Errorf("write manifest: %w", err)
		return res
	}

	if err := r.gw.Load(ctx, path); err != nil {
		res.Action = backend.ActionFailed
		res.Err = fmt.Errorf("%w: %v", backend.ErrActivation, err)
		return res
	}

	if existed {
		res.Action = backend.ActionUpdated
		r.log.Info("manifest updated and reloaded", logx.String("path", path))
	} else {
		res.Action = backend.ActionCreated
		r.log.Info("manifest created and loaded", logx.String("path", path))
	}
	return res
}
