package wrapper

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Instructions returns the task-scheduler registration walkthrough for the
// generated script. Registration is outside programmatic control on this
// backend, so the text is the deliverable: a full walkthrough the first time,
// a shorter what-to-verify list when the script already existed.
//
// The recommended stop-task limit is deliberately above the script's internal
// watchdog; ValidateLimits enforces the gap.
func Instructions(scriptPath string, existed bool, recommended time.Duration) string {
	taskName := strings.TrimSuffix(filepath.Base(scriptPath), filepath.Ext(scriptPath))
	startIn := filepath.Dir(scriptPath)
	mins := int(recommended / time.Minute)

	var b strings.Builder
	if existed {
		b.WriteString("To update your existing Task Scheduler task:\n")
		fmt.Fprintf(&b, "1. Open Task Scheduler (search for 'Task Scheduler' in the Start menu)\n")
		fmt.Fprintf(&b, "2. Find your existing '%s' task in the Task Scheduler Library\n", taskName)
		fmt.Fprintf(&b, "3. Right-click on the task and select 'Properties'\n")
		fmt.Fprintf(&b, "4. Verify the batch file path points to the correct location:\n   %s\n", scriptPath)
		fmt.Fprintf(&b, "5. Go to the 'Settings' tab and check 'Stop the task if it runs longer than:'\n")
		fmt.Fprintf(&b, "6. Set it to %d minutes (longer than the internal batch file timeout)\n", mins)
		fmt.Fprintf(&b, "7. Click 'OK' to save the changes\n")
		return b.String()
	}

	b.WriteString("To set up automatic execution with Task Scheduler:\n")
	fmt.Fprintf(&b, "1. Open Task Scheduler (search for 'Task Scheduler' in the Start menu)\n")
	fmt.Fprintf(&b, "2. Click 'Create Basic Task' in the right panel\n")
	fmt.Fprintf(&b, "3. Name it '%s' and add a description\n", taskName)
	fmt.Fprintf(&b, "4. Set the trigger to 'Daily' and choose a time\n")
	fmt.Fprintf(&b, "5. For the action, select 'Start a program'\n")
	fmt.Fprintf(&b, "6. Browse to select the batch file: %s\n", scriptPath)
	fmt.Fprintf(&b, "7. In 'Start in', enter: %s\n", startIn)
	fmt.Fprintf(&b, "8. After completing the wizard, right-click the created task and select 'Properties'\n")
	fmt.Fprintf(&b, "9. Go to the 'Settings' tab and check 'Stop the task if it runs longer than:'\n")
	fmt.Fprintf(&b, "10. Set it to %d minutes (longer than the batch file timeout to allow for cleanup)\n", mins)
	fmt.Fprintf(&b, "11. Click 'OK' to save the changes\n")
	return b.String()
}

// ValidateLimits rejects watchdog/recommended pairs where the scheduler limit
// would not out-last the internal watchdog.
func ValidateLimits(watchdog, recommended time.Duration) error {
	if watchdog <= 0 || recommended <= 0 {
		return fmt.Errorf("watchdog and recommended limit must be positive")
	}
	if watchdog >= recommended {
		return fmt.Errorf("watchdog ceiling %s must be below the recommended scheduler limit %s", watchdog, recommended)
	}
	return nil
}
