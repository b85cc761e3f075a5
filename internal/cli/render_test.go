package cli

import (
	"strings"
	"testing"

	"schedpilot/internal/backend"
	"schedpilot/internal/jobspec"
	"schedpilot/internal/orchestrator"
)

func testSpec(t *testing.T) jobspec.Spec {
	t.Helper()
	sp, err := jobspec.New("/opt/job/run", "0 0 * * *", "com.example.job")
	if err != nil {
		t.Fatalf("spec: %v", err)
	}
	return sp
}

func TestRenderStatus(t *testing.T) {
	t.Parallel()
	sp := testSpec(t)
	snap := backend.Snapshot{
		backend.KindCron:     {Present: true, MatchesDesired: true},
		backend.KindManifest: {Present: true, MatchesDesired: false},
		backend.KindWrapper:  {},
	}
	out := renderStatus(sp, snap)
	for _, want := range []string{"/opt/job/run", "up to date", "differs from desired", "absent"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderReportCancelled(t *testing.T) {
	t.Parallel()
	rep := &orchestrator.Report{Phase: orchestrator.PhaseCancelled}
	out := renderReport(testSpec(t), rep)
	if !strings.Contains(out, "cancelled") {
		t.Fatalf("missing cancellation notice:\n%s", out)
	}
}

func TestRenderReportIncludesInstructions(t *testing.T) {
	t.Parallel()
	rep := &orchestrator.Report{
		Phase:    orchestrator.PhaseDone,
		Selected: backend.KindWrapper,
		Results: []backend.Result{
			{Kind: backend.KindWrapper, Action: backend.ActionCreated, Instructions: "1. Open Task Scheduler\n"},
		},
	}
	out := renderReport(testSpec(t), rep)
	if !strings.Contains(out, "Open Task Scheduler") {
		t.Fatalf("instructions not rendered:\n%s", out)
	}
	if !strings.Contains(out, "/opt/job/logs") {
		t.Fatalf("log dir note missing:\n%s", out)
	}
}

func TestRenderConflictWarning(t *testing.T) {
	t.Parallel()
	out := renderConflictWarning(backend.KindManifest, []backend.Kind{backend.KindCron})
	if !strings.Contains(out, "cron") || !strings.Contains(out, "manifest") {
		t.Fatalf("warning incomplete:\n%s", out)
	}
}
