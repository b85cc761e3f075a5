// Package wrapper generates a self-contained batch wrapper script for
// platforms whose task scheduler has no programmatic install API. The script
// content is managed idempotently like the other backends; registration is
// left to the operator, guided by generated instructions.
package wrapper

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"schedpilot/internal/jobspec"
)

// DefaultWatchdog is how long the wrapper lets the job run before the
// embedded watchdog force-terminates it.
const DefaultWatchdog = 10 * time.Minute

// DefaultRecommendedLimit is the stop-task limit the instructions tell the
// operator to set in the task scheduler. It must stay above the watchdog so
// the watchdog's own cleanup has slack to finish.
const DefaultRecommendedLimit = 15 * time.Minute

const scriptTemplate = `@echo off
REM Wrapper for %s with watchdog protection. Generated; do not edit by hand.
if not exist "%s" mkdir "%s"
echo Starting %s at %%date%% %%time%% > "%s"

REM Watchdog: force-terminate the job after %d seconds
start /b "" cmd /c "timeout /t %d /nobreak > nul & taskkill /f /im %s > nul 2>&1"

REM Run the job in historical catch-up mode
"%s" --historical

if %%ERRORLEVEL%% equ 0 (
    echo Run completed successfully at %%date%% %%time%% >> "%s"
) else (
    echo Run failed with exit code %%ERRORLEVEL%% at %%date%% %%time%% >> "%s"
)
`

// ScriptPath places the wrapper beside the target executable.
func ScriptPath(sp jobspec.Spec) string {
	base := filepath.Base(sp.TargetPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(sp.Dir(), base+".bat")
}

// Render produces the canonical wrapper script for sp with the given
// watchdog ceiling.
func Render(sp jobspec.Spec, watchdog time.Duration) string {
	if watchdog <= 0 {
		watchdog = DefaultWatchdog
	}
	name := filepath.Base(sp.TargetPath)
	logDir := windowsPath(sp.LogDir())
	logFile := windowsPath(filepath.Join(sp.LogDir(), "scheduler.log"))
	secs := int(watchdog / time.Second)

	return fmt.Sprintf(scriptTemplate,
		name,
		logDir, logDir,
		name, logFile,
		secs,
		secs, name,
		windowsPath(sp.TargetPath),
		logFile,
		logFile,
	)
}

// windowsPath rewrites separators for the batch interpreter. Harmless when
// generating on the platform itself, necessary when generating elsewhere.
func windowsPath(p string) string {
	return strings.ReplaceAll(p, "/", `\`)
}
