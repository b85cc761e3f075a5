// Package crontab reconciles the per-user cron table with the desired
// schedule. The table itself is modeled as an ordered slice of lines; foreign
// lines (other jobs, comments) pass through untouched and in order.
package crontab

import (
	"strings"
)

// Table is the full text of a per-user cron table, one entry per line.
// Line order is significant: cron preserves it and so do we.
type Table struct {
	Lines []string
}

// Parse splits raw crontab output into a Table. Empty and whitespace-only
// lines are dropped; cron does not care about them and regenerating the table
// without them keeps the upsert logic simple.
func Parse(raw string) Table {
	var t Table
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		t.Lines = append(t.Lines, line)
	}
	return t
}

// Render serializes the table back to crontab input, with a trailing newline
// (crontab rejects tables whose last line is unterminated).
func (t Table) Render() string {
	if len(t.Lines) == 0 {
		return ""
	}
	return strings.Join(t.Lines, "\n") + "\n"
}

// ReferencesTarget reports whether a table line schedules the given target.
//
// Matching is field-based rather than substring-based so that a target
// /opt/job/run never matches a line scheduling /opt/job/run2, while still
// catching entries whose trigger or trailing arguments changed.
func ReferencesTarget(line, target string) bool {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return false
	}
	for _, f := range strings.Fields(line) {
		if f == target {
			return true
		}
	}
	return false
}

// UpsertOutcome describes what Upsert did.
type UpsertOutcome int

const (
	// UpsertSatisfied means a byte-identical entry already existed.
	UpsertSatisfied UpsertOutcome = iota
	// UpsertUpdated means an existing entry for the target was replaced in place.
	UpsertUpdated
	// UpsertAppended means no entry referenced the target and one was added.
	UpsertAppended
)

// Upsert returns a new table in which exactly one line references target:
// the desired line. An existing matching line is replaced in place (keeping
// its position); duplicates beyond the first are dropped; with no match the
// desired line is appended. All foreign lines keep their original order.
func (t Table) Upsert(target, desired string) (Table, UpsertOutcome) {
	out := Table{Lines: make([]string, 0, len(t.Lines)+1)}
	outcome := UpsertAppended
	placed := false

	for _, line := range t.Lines {
		if !ReferencesTarget(line, target) {
			out.Lines = append(out.Lines, line)
			continue
		}
		if placed {
			// A second entry for the same target; the first occurrence already
			// carries the desired line, so this one goes away.
			continue
		}
		placed = true
		if normalizeWS(line) == normalizeWS(desired) {
			out.Lines = append(out.Lines, line)
			outcome = UpsertSatisfied
		} else {
			out.Lines = append(out.Lines, desired)
			outcome = UpsertUpdated
		}
	}

	if !placed {
		out.Lines = append(out.Lines, desired)
		outcome = UpsertAppended
	}
	return out, outcome
}

func normalizeWS(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
