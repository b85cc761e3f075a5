package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"schedpilot/internal/backend"
	"schedpilot/internal/jobspec"
	"schedpilot/internal/orchestrator"
	"schedpilot/pkg/logx"
)

func newInstallCommand(app func() *App) *cobra.Command {
	var (
		timeExpr    string
		method      string
		forceUpdate bool
		assumeYes   bool
		label       string
	)

	cmd := &cobra.Command{
		Use:   "install <target>",
		Short: "Install or update the schedule for a job executable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			target, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			if timeExpr == "" {
				timeExpr = a.Config.Schedule.Time
			}
			if label == "" {
				label = a.Config.Schedule.Label
			}
			sp, err := jobspec.New(target, timeExpr, label)
			if err != nil {
				return err
			}

			opts := orchestrator.Options{Force: forceUpdate}
			switch method {
			case "", "auto":
			case "cron":
				opts.Method = backend.KindCron
			case "manifest", "launchd":
				opts.Method = backend.KindManifest
			case "wrapper", "windows":
				opts.Method = backend.KindWrapper
			default:
				return fmt.Errorf("unknown method %q (want cron|manifest|wrapper|auto)", method)
			}

			rs, err := a.Reconcilers()
			if err != nil {
				return err
			}
			store, err := a.OpenJournal()
			if err != nil {
				return err
			}
			if store != nil {
				defer func() { _ = store.Close() }()
			}

			confirm := surveyConfirmer{out: cmd.OutOrStdout(), assumeYes: assumeYes}
			o := orchestrator.New(a.Platform, rs, confirm, store, a.Log)

			rep, err := o.Run(cmd.Context(), sp, opts)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), renderReport(sp, rep))

			if rep.Phase == orchestrator.PhaseCancelled {
				a.Log.Info("operation cancelled, nothing changed")
				return nil
			}
			if !sp.Trigger.HasClock && applied(rep, backend.KindManifest) {
				a.Log.Warn("trigger has no fixed hour/minute; the manifest backend fell back to midnight",
					logx.String("trigger", sp.Trigger.Expr))
			}
			if next := sp.Trigger.Next(time.Now()); !next.IsZero() {
				a.Log.Info("next scheduled activation", logx.Time("at", next))
			}
			if rep.Failed() {
				return fmt.Errorf("one or more backends failed; see report above")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&timeExpr, "time", "t", "", `trigger time: 5-field cron expression or HH:MM (default "0 0 * * *")`)
	cmd.Flags().StringVarP(&method, "method", "m", "auto", "backend: cron|manifest|wrapper|auto")
	cmd.Flags().BoolVarP(&forceUpdate, "force-update", "f", false, "skip the conflict prompt and converge every applicable backend")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes at the conflict prompt (non-interactive)")
	cmd.Flags().StringVar(&label, "label", "", "manifest label (reverse-domain, derived from target when empty)")
	return cmd
}

func applied(rep *orchestrator.Report, kind backend.Kind) bool {
	for _, res := range rep.Results {
		if res.Kind == kind && !res.Failed() {
			return true
		}
	}
	return false
}
