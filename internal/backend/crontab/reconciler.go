package crontab

import (
	"context"
	"fmt"
	"os"

	"schedpilot/internal/backend"
	"schedpilot/internal/jobspec"
	"schedpilot/pkg/logx"
)

// Reconciler converges the per-user cron table toward the desired entry.
type Reconciler struct {
	gw  Gateway
	log logx.Logger
}

func New(gw Gateway, log logx.Logger) *Reconciler {
	if gw == nil {
		gw = ExecGateway{}
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Reconciler{gw: gw, log: log}
}

func (r *Reconciler) Kind() backend.Kind { return backend.KindCron }

// DesiredLine is the single table entry this backend manages for sp.
func DesiredLine(sp jobspec.Spec) string {
	return sp.Trigger.Expr + " " + sp.TargetPath
}

func (r *Reconciler) Probe(ctx context.Context, sp jobspec.Spec) (backend.State, error) {
	raw, err := r.gw.List(ctx)
	if err != nil {
		return backend.State{}, err
	}

	desired := DesiredLine(sp)
	var st backend.State
	for _, line := range Parse(raw).Lines {
		if !ReferencesTarget(line, sp.TargetPath) {
			continue
		}
		st.Present = true
		st.RawContent = line
		if normalizeWS(line) == normalizeWS(desired) {
			st.MatchesDesired = true
			break
		}
	}
	return st, nil
}

// Apply reads the table, upserts the desired line, and installs the full new
// table in one replace. The table is only written after it has been fully
// constructed; a rejected install leaves the old table untouched.
func (r *Reconciler) Apply(ctx context.Context, sp jobspec.Spec) backend.Result {
	res := backend.Result{Kind: backend.KindCron}

	// Cron runs the target directly, so it has to be executable.
	if err := os.Chmod(sp.TargetPath, 0o755); err != nil {
		r.log.Debug("chmod target failed", logx.String("target", sp.TargetPath), logx.Err(err))
	}

	raw, err := r.gw.List(ctx)
	if err != nil {
		res.Action = backend.ActionFailed
		res.Err = fmt.Errorf("read cron table: %w", err)
		return res
	}

	desired := DesiredLine(sp)
	table, outcome := Parse(raw).Upsert(sp.TargetPath, desired)

	if outcome == UpsertSatisfied {
		res.Action = backend.ActionNone
		r.log.Info("cron entry already satisfied", logx.String("entry", desired))
		return res
	}

	if err := r.gw.Install(ctx, table.Render()); err != nil {
		res.Action = backend.ActionFailed
		res.Err = fmt.Errorf("install cron table: %w", err)
		return res
	}

	switch outcome {
	case UpsertUpdated:
		res.Action = backend.ActionUpdated
		r.log.Info("cron entry updated", logx.String("entry", desired))
	default:
		res.Action = backend.ActionCreated
		r.log.Info("cron entry added", logx.String("entry", desired))
	}
	return res
}
