// Package launchd reconciles a per-user launchd agent manifest (plist) with
// the desired schedule. The rendered plist is canonical: reconciliation
// compares trimmed file content byte-for-byte against it, so any edit to the
// template changes what counts as "matching".
package launchd

import (
	"fmt"
	"path/filepath"
	"strings"

	"schedpilot/internal/jobspec"
)

// Fixed runtime characteristics of the generated agent. The job runs in the
// background at reduced priority and launchd kills it after the timeout.
const (
	ServiceTimeoutSecs = 900
	ProcessNiceness    = 10
)

const manifestTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>%s</string>
    <key>ProgramArguments</key>
    <array>
        <string>%s</string>
    </array>
    <key>StartCalendarInterval</key>
    <dict>
        <key>Hour</key>
        <integer>%d</integer>
        <key>Minute</key>
        <integer>%d</integer>
    </dict>
    <key>RunAtLoad</key>
    <false/>
    <key>StandardErrorPath</key>
    <string>%s</string>
    <key>StandardOutPath</key>
    <string>%s</string>
    <key>ExitTimeOut</key>
    <integer>%d</integer>
    <key>TimeOut</key>
    <integer>%d</integer>
    <key>ProcessType</key>
    <string>Background</string>
    <key>ServiceDescription</key>
    <string>%s</string>
    <key>Nice</key>
    <integer>%d</integer>
</dict>
</plist>
`

// Render produces the canonical manifest content for sp.
//
// Launchd takes a fixed calendar pair, not a cron expression. When the
// trigger has no literal hour/minute (e.g. "*/5 * * * *") the manifest falls
// back to midnight; the caller is expected to have warned about that.
func Render(sp jobspec.Spec) string {
	hour, minute := 0, 0
	if sp.Trigger.HasClock {
		hour, minute = sp.Trigger.Hour, sp.Trigger.Minute
	}

	logDir := sp.LogDir()
	return fmt.Sprintf(manifestTemplate,
		sp.Label,
		sp.TargetPath,
		hour,
		minute,
		filepath.Join(logDir, "launchd_error.log"),
		filepath.Join(logDir, "launchd_output.log"),
		ServiceTimeoutSecs,
		ServiceTimeoutSecs,
		filepath.Base(sp.TargetPath),
		ProcessNiceness,
	)
}

// ManifestPath is the canonical per-label plist location under agentsDir.
func ManifestPath(agentsDir, label string) string {
	return filepath.Join(agentsDir, label+".plist")
}

// LegacyManifestPath is the pre-rename plist location, kept for backward
// compatibility: earlier releases prefixed the second label segment with
// "user." ("com.example.job" lived at "com.user.example.job.plist").
func LegacyManifestPath(agentsDir, label string) string {
	parts := strings.SplitN(label, ".", 2)
	legacy := label
	if len(parts) == 2 {
		legacy = parts[0] + ".user." + parts[1]
	}
	return filepath.Join(agentsDir, legacy+".plist")
}
