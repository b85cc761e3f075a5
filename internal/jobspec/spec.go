// Package jobspec holds the desired-schedule value passed through a
// reconciliation run: which executable to run, when to trigger it, and the
// stable label backends use to find their own prior entries.
package jobspec

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Spec is the desired schedule for one target job. It is immutable after New.
//
// Label must be stable across runs for the same logical job: the manifest
// backend names its file after it, and probes look entries up by it.
type Spec struct {
	// TargetPath is the absolute path to the job executable.
	TargetPath string

	// Trigger is the parsed trigger time.
	Trigger Trigger

	// Label is a reverse-domain identifier (e.g. "com.example.datasaver").
	Label string
}

const defaultLabelPrefix = "com.schedpilot."

// New validates and builds a Spec. An empty label derives one from the
// target's base name.
func New(targetPath, triggerExpr, label string) (Spec, error) {
	targetPath = strings.TrimSpace(targetPath)
	if targetPath == "" {
		return Spec{}, fmt.Errorf("target path required")
	}
	if !filepath.IsAbs(targetPath) {
		return Spec{}, fmt.Errorf("target path must be absolute: %q", targetPath)
	}

	trig, err := ParseTrigger(triggerExpr)
	if err != nil {
		return Spec{}, err
	}

	label = strings.TrimSpace(label)
	if label == "" {
		label = defaultLabelPrefix + sanitizeLabelPart(filepath.Base(targetPath))
	}
	if err := validateLabel(label); err != nil {
		return Spec{}, err
	}

	return Spec{TargetPath: targetPath, Trigger: trig, Label: label}, nil
}

// Dir returns the directory containing the target executable.
func (s Spec) Dir() string { return filepath.Dir(s.TargetPath) }

// LogDir returns the per-target log directory created on demand by backends.
func (s Spec) LogDir() string { return filepath.Join(s.Dir(), "logs") }

func sanitizeLabelPart(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "job"
	}
	return out
}

func validateLabel(label string) error {
	if strings.ContainsAny(label, " \t\n/\\") {
		return fmt.Errorf("label must not contain whitespace or path separators: %q", label)
	}
	if !strings.Contains(label, ".") {
		return fmt.Errorf("label should use reverse-domain notation: %q", label)
	}
	return nil
}
