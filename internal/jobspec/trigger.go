package jobspec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Trigger is a parsed trigger time.
//
// Supported input forms:
//   - 5-field cron expression: "0 0 * * *", "30 1 * * 1-5"
//   - HH:MM clock time: "01:30" (normalized to "30 1 * * *")
//
// Expr always holds the normalized 5-field form. When the minute and hour
// fields are plain literals, Hour/Minute carry them for backends that take a
// fixed calendar pair instead of a cron expression.
type Trigger struct {
	Expr string

	Hour     int
	Minute   int
	HasClock bool

	schedule cron.Schedule
}

var (
	reClock   = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	cronParse = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
)

// DefaultTriggerExpr is daily at midnight.
const DefaultTriggerExpr = "0 0 * * *"

// ParseTrigger parses a trigger string into a Trigger.
func ParseTrigger(raw string) (Trigger, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		s = DefaultTriggerExpr
	}

	if m := reClock.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		if h > 23 {
			return Trigger{}, fmt.Errorf("invalid trigger %q: hour out of range", raw)
		}
		if min > 59 {
			return Trigger{}, fmt.Errorf("invalid trigger %q: minute out of range", raw)
		}
		s = fmt.Sprintf("%d %d * * *", min, h)
	}

	sched, err := cronParse.Parse(s)
	if err != nil {
		return Trigger{}, fmt.Errorf("invalid trigger %q: %w", raw, err)
	}

	t := Trigger{Expr: s, schedule: sched}
	t.Hour, t.Minute, t.HasClock = literalClock(s)
	return t, nil
}

// Next returns the first activation strictly after now.
func (t Trigger) Next(now time.Time) time.Time {
	if t.schedule == nil {
		return time.Time{}
	}
	return t.schedule.Next(now)
}

// literalClock extracts a fixed (hour, minute) pair from a 5-field expression
// whose minute and hour fields are plain integers. Expressions like
// "*/5 * * * *" have no fixed clock and report ok=false.
func literalClock(expr string) (hour, minute int, ok bool) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(fields[0])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(fields[1])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	return h, m, true
}
