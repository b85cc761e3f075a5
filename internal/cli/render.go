package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"schedpilot/internal/backend"
	"schedpilot/internal/jobspec"
	"schedpilot/internal/orchestrator"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func renderConflictWarning(selected backend.Kind, conflicts []backend.Kind) string {
	names := make([]string, 0, len(conflicts))
	for _, k := range conflicts {
		names = append(names, string(k))
	}
	var b strings.Builder
	b.WriteString(warnStyle.Render(fmt.Sprintf(
		"WARNING: existing schedule found in: %s", strings.Join(names, ", "))))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("You are about to set up using: %s\n", selected))
	b.WriteString("This could result in multiple schedulers running the same job.")
	return b.String()
}

func renderAction(a backend.Action) string {
	switch a {
	case backend.ActionNone:
		return okStyle.Render("already up to date")
	case backend.ActionCreated:
		return changedStyle.Render("created")
	case backend.ActionUpdated:
		return changedStyle.Render("updated")
	default:
		return failStyle.Render("failed")
	}
}

func renderReport(sp jobspec.Spec, rep *orchestrator.Report) string {
	var b strings.Builder

	if rep.Phase == orchestrator.PhaseCancelled {
		b.WriteString(warnStyle.Render("Operation cancelled.") + "\n")
		return b.String()
	}

	b.WriteString(titleStyle.Render("Schedule reconciliation") + "\n")
	fmt.Fprintf(&b, "  target:  %s\n", sp.TargetPath)
	fmt.Fprintf(&b, "  trigger: %s\n", sp.Trigger.Expr)
	fmt.Fprintf(&b, "  backend: %s", rep.Selected)
	if rep.Forced {
		b.WriteString(warnStyle.Render("  (forced convergence, all applicable backends)"))
	}
	b.WriteString("\n\n")

	for _, res := range rep.Results {
		fmt.Fprintf(&b, "  %-10s %s", res.Kind, renderAction(res.Action))
		if res.Err != nil {
			fmt.Fprintf(&b, "  %s", failStyle.Render(res.Err.Error()))
		}
		b.WriteString("\n")
		if res.Instructions != "" {
			b.WriteString("\n")
			b.WriteString(indent(res.Instructions, "  "))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("Logs will be written to %s", sp.LogDir())) + "\n")
	b.WriteString(subtleStyle.Render("Make sure the machine is awake at the scheduled time; adjust power settings if needed.") + "\n")
	if applied(rep, backend.KindManifest) {
		b.WriteString(subtleStyle.Render(fmt.Sprintf(
			"The agent will appear as '%s' in macOS System Settings > Login Items.", sp.Label)) + "\n")
	}
	return b.String()
}

func renderStatus(sp jobspec.Spec, snap backend.Snapshot) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Backend status") + "\n")
	fmt.Fprintf(&b, "  target: %s\n\n", sp.TargetPath)
	for _, k := range backend.Kinds() {
		st := snap[k]
		var state string
		switch {
		case !st.Present:
			state = subtleStyle.Render("absent")
		case st.MatchesDesired:
			state = okStyle.Render("present, up to date")
		default:
			state = warnStyle.Render("present, differs from desired")
		}
		fmt.Fprintf(&b, "  %-10s %s\n", k, state)
	}
	return b.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
