package jobspec

import (
	"testing"
	"time"
)

func TestParseTriggerVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		raw      string
		expr     string
		hour     int
		minute   int
		hasClock bool
	}{
		{name: "default", raw: "", expr: "0 0 * * *", hour: 0, minute: 0, hasClock: true},
		{name: "cron literal", raw: "30 1 * * *", expr: "30 1 * * *", hour: 1, minute: 30, hasClock: true},
		{name: "clock", raw: "01:30", expr: "30 1 * * *", hour: 1, minute: 30, hasClock: true},
		{name: "cron step", raw: "*/5 * * * *", expr: "*/5 * * * *", hasClock: false},
		{name: "cron dow", raw: "0 9 * * 1-5", expr: "0 9 * * 1-5", hour: 9, minute: 0, hasClock: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTrigger(tt.raw)
			if err != nil {
				t.Fatalf("ParseTrigger(%q) error: %v", tt.raw, err)
			}
			if got.Expr != tt.expr {
				t.Fatalf("Expr = %q, want %q", got.Expr, tt.expr)
			}
			if got.HasClock != tt.hasClock {
				t.Fatalf("HasClock = %v, want %v", got.HasClock, tt.hasClock)
			}
			if tt.hasClock && (got.Hour != tt.hour || got.Minute != tt.minute) {
				t.Fatalf("clock = %d:%02d, want %d:%02d", got.Hour, got.Minute, tt.hour, tt.minute)
			}
		})
	}
}

func TestParseTriggerInvalid(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"not a cron", "61 0 * * *", "24:00", "00:61", "0 0 * *"} {
		if _, err := ParseTrigger(raw); err == nil {
			t.Fatalf("ParseTrigger(%q): expected error", raw)
		}
	}
}

func TestTriggerNext(t *testing.T) {
	t.Parallel()
	trig, err := ParseTrigger("30 1 * * *")
	if err != nil {
		t.Fatalf("ParseTrigger error: %v", err)
	}
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	next := trig.Next(now)
	want := time.Date(2025, 3, 11, 1, 30, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("Next = %v, want %v", next, want)
	}
}

func TestNewSpec(t *testing.T) {
	t.Parallel()
	s, err := New("/opt/job/run", "0 0 * * *", "")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if s.Label != "com.schedpilot.run" {
		t.Fatalf("Label = %q", s.Label)
	}
	if s.LogDir() != "/opt/job/logs" {
		t.Fatalf("LogDir = %q", s.LogDir())
	}

	if _, err := New("relative/path", "0 0 * * *", ""); err == nil {
		t.Fatal("expected error for relative target path")
	}
	if _, err := New("/opt/job/run", "0 0 * * *", "no spaces here"); err == nil {
		t.Fatal("expected error for label with whitespace")
	}
}
