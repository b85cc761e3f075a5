package orchestrator

import (
	"context"
	"errors"
	"testing"

	"schedpilot/internal/backend"
	"schedpilot/internal/jobspec"
	"schedpilot/internal/journal"
	"schedpilot/internal/platform"
	"schedpilot/pkg/logx"
)

type fakeReconciler struct {
	kind     backend.Kind
	state    backend.State
	applyErr error
	applies  int
}

func (f *fakeReconciler) Kind() backend.Kind { return f.kind }

func (f *fakeReconciler) Probe(ctx context.Context, sp jobspec.Spec) (backend.State, error) {
	return f.state, nil
}

func (f *fakeReconciler) Apply(ctx context.Context, sp jobspec.Spec) backend.Result {
	f.applies++
	res := backend.Result{Kind: f.kind}
	if f.applyErr != nil {
		res.Action = backend.ActionFailed
		res.Err = f.applyErr
		return res
	}
	if f.state.Present {
		res.Action = backend.ActionUpdated
	} else {
		res.Action = backend.ActionCreated
	}
	f.state = backend.State{Present: true, MatchesDesired: true}
	return res
}

type memJournal struct {
	entries []journal.Entry
}

func (m *memJournal) AppendRun(ctx context.Context, e journal.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *memJournal) Recent(ctx context.Context, limit int) ([]journal.Entry, error) {
	return m.entries, nil
}

func (m *memJournal) Close() error { return nil }

func answerWith(a Answer) Confirmer {
	return ConfirmFunc(func(selected backend.Kind, conflicts []backend.Kind) (Answer, error) {
		return a, nil
	})
}

func testSpec(t *testing.T) jobspec.Spec {
	t.Helper()
	sp, err := jobspec.New("/opt/job/run", "0 0 * * *", "com.example.job")
	if err != nil {
		t.Fatalf("spec: %v", err)
	}
	return sp
}

func fakes(cronPresent, manifestPresent, wrapperPresent bool) (cron, manifest, wrapper *fakeReconciler, all []backend.Reconciler) {
	cron = &fakeReconciler{kind: backend.KindCron, state: backend.State{Present: cronPresent}}
	manifest = &fakeReconciler{kind: backend.KindManifest, state: backend.State{Present: manifestPresent}}
	wrapper = &fakeReconciler{kind: backend.KindWrapper, state: backend.State{Present: wrapperPresent}}
	return cron, manifest, wrapper, []backend.Reconciler{cron, manifest, wrapper}
}

func TestConflictDeclineCancelsWithoutWrites(t *testing.T) {
	t.Parallel()
	cron, manifest, _, all := fakes(true, true, false)
	o := New(platform.Darwin, all, answerWith(AnswerNo), nil, logx.Nop())

	rep, err := o.Run(context.Background(), testSpec(t), Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Phase != PhaseCancelled {
		t.Fatalf("phase = %s, want cancelled", rep.Phase)
	}
	if cron.applies != 0 || manifest.applies != 0 {
		t.Fatalf("cancelled run mutated backends: cron=%d manifest=%d", cron.applies, manifest.applies)
	}
	if len(rep.Conflicts) != 1 || rep.Conflicts[0] != backend.KindCron {
		t.Fatalf("conflicts = %v", rep.Conflicts)
	}
}

func TestConflictAnswerForceConvergesAll(t *testing.T) {
	t.Parallel()
	cron, manifest, wrapper, all := fakes(true, true, false)
	o := New(platform.Darwin, all, answerWith(AnswerForce), nil, logx.Nop())

	rep, err := o.Run(context.Background(), testSpec(t), Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Phase != PhaseDone || !rep.Forced {
		t.Fatalf("report = %+v", rep)
	}
	// Darwin: manifest (selected, present first in applicable order) + cron.
	if manifest.applies != 1 || cron.applies != 1 {
		t.Fatalf("applies: manifest=%d cron=%d", manifest.applies, cron.applies)
	}
	if wrapper.applies != 0 {
		t.Fatal("wrapper is not applicable on darwin")
	}
}

func TestForcedConvergenceAppliesAbsentBackends(t *testing.T) {
	t.Parallel()
	cron, manifest, _, all := fakes(false, false, false)
	o := New(platform.Darwin, all, nil, nil, logx.Nop())

	rep, err := o.Run(context.Background(), testSpec(t), Options{Force: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Phase != PhaseDone || !rep.Forced {
		t.Fatalf("report = %+v", rep)
	}
	if cron.applies != 1 || manifest.applies != 1 {
		t.Fatalf("applies: cron=%d manifest=%d", cron.applies, manifest.applies)
	}
	for _, f := range []*fakeReconciler{cron, manifest} {
		if !f.state.Present || !f.state.MatchesDesired {
			t.Fatalf("%s not converged: %+v", f.kind, f.state)
		}
	}
}

func TestSelectionPrefersExistingBackend(t *testing.T) {
	t.Parallel()
	cron, manifest, _, all := fakes(true, false, false)
	o := New(platform.Darwin, all, nil, nil, logx.Nop())

	// Only cron is present on a manifest-default platform: continue with cron,
	// and with no other backend present there is nothing to confirm.
	rep, err := o.Run(context.Background(), testSpec(t), Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Selected != backend.KindCron {
		t.Fatalf("selected = %s, want cron", rep.Selected)
	}
	if rep.Phase != PhaseDone || cron.applies != 1 || manifest.applies != 0 {
		t.Fatalf("report = %+v", rep)
	}
}

func TestMethodOverrideUnsupportedPlatform(t *testing.T) {
	t.Parallel()
	_, _, _, all := fakes(false, false, false)
	o := New(platform.Linux, all, nil, nil, logx.Nop())

	_, err := o.Run(context.Background(), testSpec(t), Options{Method: backend.KindManifest})
	if !errors.Is(err, backend.ErrUnsupportedPlatform) {
		t.Fatalf("err = %v, want ErrUnsupportedPlatform", err)
	}
}

func TestUnknownPlatformFailsSelection(t *testing.T) {
	t.Parallel()
	_, _, _, all := fakes(false, false, false)
	o := New(platform.Unknown, all, nil, nil, logx.Nop())

	_, err := o.Run(context.Background(), testSpec(t), Options{})
	if !errors.Is(err, backend.ErrUnsupportedPlatform) {
		t.Fatalf("err = %v, want ErrUnsupportedPlatform", err)
	}
}

func TestFailureDoesNotBlockOtherBackendsWhenForced(t *testing.T) {
	t.Parallel()
	cron, manifest, _, all := fakes(false, false, false)
	manifest.applyErr = errors.New("launchctl rejected the manifest")
	o := New(platform.Darwin, all, nil, nil, logx.Nop())

	rep, err := o.Run(context.Background(), testSpec(t), Options{Force: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !rep.Failed() {
		t.Fatal("report should record the manifest failure")
	}
	if cron.applies != 1 {
		t.Fatal("cron should still have been applied")
	}
	if len(rep.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(rep.Results))
	}
}

func TestJournalReceivesOneEntryPerResult(t *testing.T) {
	t.Parallel()
	_, _, _, all := fakes(false, false, false)
	store := &memJournal{}
	o := New(platform.Darwin, all, nil, store, logx.Nop())

	rep, err := o.Run(context.Background(), testSpec(t), Options{Force: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(store.entries) != len(rep.Results) {
		t.Fatalf("journal entries = %d, results = %d", len(store.entries), len(rep.Results))
	}
	for _, e := range store.entries {
		if e.Target != "/opt/job/run" || e.Label != "com.example.job" || !e.Forced {
			t.Fatalf("entry = %+v", e)
		}
	}
}

func TestDecideTruthTable(t *testing.T) {
	t.Parallel()
	conflicts := []backend.Kind{backend.KindCron}
	tests := []struct {
		name      string
		conflicts []backend.Kind
		force     bool
		answer    Answer
		want      Decision
	}{
		{name: "no conflicts", conflicts: nil, force: false, answer: AnswerNo, want: Proceed},
		{name: "force skips prompt", conflicts: conflicts, force: true, answer: AnswerNo, want: ProceedForced},
		{name: "decline", conflicts: conflicts, force: false, answer: AnswerNo, want: Cancel},
		{name: "accept", conflicts: conflicts, force: false, answer: AnswerYes, want: Proceed},
		{name: "escalate to force", conflicts: conflicts, force: false, answer: AnswerForce, want: ProceedForced},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.conflicts, tt.force, tt.answer); got != tt.want {
				t.Fatalf("Decide = %v, want %v", got, tt.want)
			}
		})
	}
}
