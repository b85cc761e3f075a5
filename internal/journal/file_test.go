package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"schedpilot/pkg/logx"
)

func TestFileStoreAppendAndRecent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	st, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = st.Close() }()

	ctx := context.Background()
	for i, action := range []string{"created", "noop", "updated"} {
		e := Entry{
			At:      time.Date(2025, 3, 10, 0, 0, i, 0, time.UTC),
			Target:  "/opt/job/run",
			Label:   "com.example.job",
			Backend: "cron",
			Action:  action,
		}
		if err := st.AppendRun(ctx, e); err != nil {
			t.Fatalf("AppendRun: %v", err)
		}
	}

	got, err := st.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// newest first
	if got[0].Action != "updated" || got[1].Action != "noop" {
		t.Fatalf("order = %s, %s", got[0].Action, got[1].Action)
	}
}

func TestOpenDisabled(t *testing.T) {
	t.Parallel()
	st, err := Open(Config{}, logx.Nop())
	if err != nil || st != nil {
		t.Fatalf("disabled journal = %v, %v", st, err)
	}
	st, err = Open(Config{Driver: "none"}, logx.Nop())
	if err != nil || st != nil {
		t.Fatalf("driver none = %v, %v", st, err)
	}
	if _, err := Open(Config{Driver: "bogus", Path: "x"}, logx.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestFileStoreRequiresPath(t *testing.T) {
	t.Parallel()
	if _, err := Open(Config{Driver: "file"}, logx.Nop()); err == nil {
		t.Fatal("expected error for missing path")
	}
}
