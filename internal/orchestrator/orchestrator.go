// Package orchestrator drives one reconciliation run: probe every backend,
// pick one under platform policy, check for multi-backend conflicts, and
// apply the chosen reconciler(s).
//
// A run is strictly sequential. The backend stores themselves are shared
// with concurrent invocations of this tool and with hand edits; there is no
// locking around the probe-then-write window. That race is accepted for an
// interactive, low-frequency administrative tool.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"schedpilot/internal/backend"
	"schedpilot/internal/jobspec"
	"schedpilot/internal/journal"
	"schedpilot/internal/platform"
	"schedpilot/pkg/logx"
)

// Phase is the state-machine position of a run. Terminal phases are
// PhaseDone and PhaseCancelled.
type Phase string

const (
	PhaseProbing       Phase = "probing"
	PhaseSelecting     Phase = "selecting"
	PhaseConflictCheck Phase = "conflict-check"
	PhaseApplying      Phase = "applying"
	PhaseDone          Phase = "done"
	PhaseCancelled     Phase = "cancelled"
)

// Confirmer is the interactive boundary for the conflict prompt. It is only
// consulted when conflicts exist and forced convergence was not requested.
type Confirmer interface {
	Confirm(selected backend.Kind, conflicts []backend.Kind) (Answer, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(selected backend.Kind, conflicts []backend.Kind) (Answer, error)

func (f ConfirmFunc) Confirm(selected backend.Kind, conflicts []backend.Kind) (Answer, error) {
	return f(selected, conflicts)
}

// Options control one run.
type Options struct {
	// Method pins the backend instead of platform policy. Empty means auto.
	Method backend.Kind

	// Force skips the conflict prompt and converges every backend applicable
	// to the platform, present or not. Redundant schedules are the caller's
	// explicit tradeoff.
	Force bool
}

// Report is the outcome of a run.
type Report struct {
	Phase    Phase
	Selected backend.Kind
	Snapshot backend.Snapshot

	// Conflicts are the present backends other than the selected one.
	Conflicts []backend.Kind

	// Forced records whether the run converged all applicable backends.
	Forced bool

	// Results holds one entry per reconciler invoked, selected backend first.
	Results []backend.Result
}

// Failed reports whether any invoked reconciler failed.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Failed() {
			return true
		}
	}
	return false
}

// Orchestrator wires the reconcilers, the conflict prompt, and the journal.
type Orchestrator struct {
	os          platform.OS
	reconcilers map[backend.Kind]backend.Reconciler
	confirm     Confirmer
	store       journal.Store
	log         logx.Logger
}

func New(os platform.OS, rs []backend.Reconciler, confirm Confirmer, store journal.Store, log logx.Logger) *Orchestrator {
	m := make(map[backend.Kind]backend.Reconciler, len(rs))
	for _, r := range rs {
		m[r.Kind()] = r
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Orchestrator{os: os, reconcilers: m, confirm: confirm, store: store, log: log}
}

// Run executes the probe → select → conflict-check → apply sequence.
//
// Reconciler failures do not abort the run; they are accumulated in the
// report so one backend's failure never blocks the others under forced
// convergence. Run itself errors only on setup problems (unsupported
// platform, unusable method override).
func (o *Orchestrator) Run(ctx context.Context, sp jobspec.Spec, opts Options) (*Report, error) {
	rep := &Report{Phase: PhaseProbing}

	all := make([]backend.Reconciler, 0, len(o.reconcilers))
	for _, k := range backend.Kinds() {
		if r, ok := o.reconcilers[k]; ok {
			all = append(all, r)
		}
	}
	rep.Snapshot = backend.Detect(ctx, sp, all, o.log)
	o.log.Debug("probe complete", logx.Any("present", rep.Snapshot.Present()))

	rep.Phase = PhaseSelecting
	selected, err := o.selectBackend(rep.Snapshot, opts)
	if err != nil {
		return rep, err
	}
	rep.Selected = selected
	o.log.Info("backend selected",
		logx.String("backend", string(selected)), logx.String("platform", string(o.os)))

	rep.Phase = PhaseConflictCheck
	for _, k := range rep.Snapshot.Present() {
		if k != selected {
			rep.Conflicts = append(rep.Conflicts, k)
		}
	}

	answer := AnswerNo
	if len(rep.Conflicts) > 0 && !opts.Force {
		if o.confirm == nil {
			rep.Phase = PhaseCancelled
			return rep, nil
		}
		answer, err = o.confirm.Confirm(selected, rep.Conflicts)
		if err != nil {
			return rep, fmt.Errorf("conflict prompt: %w", err)
		}
	}
	switch Decide(rep.Conflicts, opts.Force, answer) {
	case Cancel:
		rep.Phase = PhaseCancelled
		o.log.Info("run cancelled at conflict check", logx.Any("conflicts", rep.Conflicts))
		return rep, nil
	case ProceedForced:
		rep.Forced = true
	}

	rep.Phase = PhaseApplying
	o.apply(ctx, sp, rep, selected)
	if rep.Forced {
		for _, k := range platform.Applicable(o.os) {
			if k != selected {
				o.apply(ctx, sp, rep, k)
			}
		}
	}

	rep.Phase = PhaseDone
	return rep, nil
}

func (o *Orchestrator) selectBackend(snap backend.Snapshot, opts Options) (backend.Kind, error) {
	if opts.Method != "" {
		if !platform.Supports(o.os, opts.Method) {
			return "", fmt.Errorf("%w: backend %s does not apply to %s",
				backend.ErrUnsupportedPlatform, opts.Method, o.os)
		}
		return opts.Method, nil
	}

	// Prefer continuing with a backend that is already managing the target
	// over switching to the nominal platform default.
	for _, k := range platform.Applicable(o.os) {
		if st, ok := snap[k]; ok && st.Present {
			return k, nil
		}
	}
	return platform.Default(o.os)
}

func (o *Orchestrator) apply(ctx context.Context, sp jobspec.Spec, rep *Report, kind backend.Kind) {
	r, ok := o.reconcilers[kind]
	if !ok {
		return
	}
	start := time.Now()
	res := r.Apply(ctx, sp)
	rep.Results = append(rep.Results, res)
	if res.Err != nil {
		o.log.Error("backend apply failed",
			logx.String("backend", string(kind)), logx.Err(res.Err))
	}
	o.record(ctx, sp, rep, res, time.Since(start))
}

func (o *Orchestrator) record(ctx context.Context, sp jobspec.Spec, rep *Report, res backend.Result, took time.Duration) {
	if o.store == nil {
		return
	}
	e := journal.Entry{
		At:      time.Now(),
		Target:  sp.TargetPath,
		Label:   sp.Label,
		Backend: string(res.Kind),
		Action:  string(res.Action),
		Forced:  rep.Forced,
		TookMS:  took.Milliseconds(),
	}
	if res.Err != nil {
		e.Error = res.Err.Error()
	}
	if err := o.store.AppendRun(ctx, e); err != nil {
		o.log.Warn("journal append failed", logx.Err(err))
	}
}
