package wrapper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"schedpilot/internal/backend"
	"schedpilot/internal/jobspec"
	"schedpilot/pkg/logx"
)

func testSpec(t *testing.T) jobspec.Spec {
	t.Helper()
	dir := t.TempDir()
	target := filepath.Join(dir, "datasaver.py")
	if err := os.WriteFile(target, []byte("print('hi')\n"), 0o644); err != nil {
		t.Fatalf("write target: %v", err)
	}
	sp, err := jobspec.New(target, "0 0 * * *", "com.example.datasaver")
	if err != nil {
		t.Fatalf("spec: %v", err)
	}
	return sp
}

func TestApplyLifecycle(t *testing.T) {
	t.Parallel()
	sp := testSpec(t)
	r, err := New(0, 0, logx.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res := r.Apply(context.Background(), sp)
	if res.Action != backend.ActionCreated || res.Err != nil {
		t.Fatalf("first apply = %+v", res)
	}
	if !strings.Contains(res.Instructions, "Create Basic Task") {
		t.Fatalf("first-time instructions missing walkthrough:\n%s", res.Instructions)
	}

	res = r.Apply(context.Background(), sp)
	if res.Action != backend.ActionNone || res.Err != nil {
		t.Fatalf("second apply = %+v", res)
	}
	if !strings.Contains(res.Instructions, "update your existing") {
		t.Fatalf("repeat instructions should use update wording:\n%s", res.Instructions)
	}

	// Content change (different watchdog) updates in place.
	r2, err := New(5*time.Minute, 15*time.Minute, logx.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res = r2.Apply(context.Background(), sp)
	if res.Action != backend.ActionUpdated || res.Err != nil {
		t.Fatalf("update apply = %+v", res)
	}
}

func TestWatchdogStaysBelowRecommendedLimit(t *testing.T) {
	t.Parallel()
	sp := testSpec(t)
	r, err := New(0, 0, logx.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := r.Apply(context.Background(), sp)

	// The script's internal ceiling must undercut what the instructions tell
	// the operator to configure, or a hung job outlives its protection.
	wantSecs := fmt.Sprintf("timeout /t %d", int(DefaultWatchdog/time.Second))
	if !strings.Contains(res.Instructions, fmt.Sprintf("%d minutes", int(DefaultRecommendedLimit/time.Minute))) {
		t.Fatalf("instructions missing recommended limit:\n%s", res.Instructions)
	}
	script, err := os.ReadFile(ScriptPath(sp))
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if !strings.Contains(string(script), wantSecs) {
		t.Fatalf("script missing watchdog %q:\n%s", wantSecs, script)
	}
	if DefaultWatchdog >= DefaultRecommendedLimit {
		t.Fatal("default watchdog must be strictly below the recommended limit")
	}
}

func TestNewRejectsInvertedLimits(t *testing.T) {
	t.Parallel()
	if _, err := New(15*time.Minute, 10*time.Minute, logx.Nop()); err == nil {
		t.Fatal("expected error for watchdog above recommended limit")
	}
	if _, err := New(10*time.Minute, 10*time.Minute, logx.Nop()); err == nil {
		t.Fatal("expected error for watchdog equal to recommended limit")
	}
}

func TestProbe(t *testing.T) {
	t.Parallel()
	sp := testSpec(t)
	r, err := New(0, 0, logx.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	st, err := r.Probe(context.Background(), sp)
	if err != nil || st.Present {
		t.Fatalf("probe before create = %+v, %v", st, err)
	}

	if res := r.Apply(context.Background(), sp); res.Err != nil {
		t.Fatalf("apply: %v", res.Err)
	}
	st, err = r.Probe(context.Background(), sp)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if !st.Present || !st.MatchesDesired {
		t.Fatalf("probe after create = %+v", st)
	}
}

func TestScriptPathBesideTarget(t *testing.T) {
	t.Parallel()
	sp := testSpec(t)
	got := ScriptPath(sp)
	if filepath.Dir(got) != sp.Dir() {
		t.Fatalf("script not beside target: %q", got)
	}
	if filepath.Base(got) != "datasaver.bat" {
		t.Fatalf("script name = %q", filepath.Base(got))
	}
}

func TestRenderMentionsHistoricalFlag(t *testing.T) {
	t.Parallel()
	sp := testSpec(t)
	out := Render(sp, DefaultWatchdog)
	if !strings.Contains(out, "--historical") {
		t.Fatalf("script missing historical flag:\n%s", out)
	}
	if !strings.Contains(out, `scheduler.log`) {
		t.Fatalf("script missing run log:\n%s", out)
	}
}
