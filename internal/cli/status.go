package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"schedpilot/internal/backend"
	"schedpilot/internal/jobspec"
)

func newStatusCommand(app func() *App) *cobra.Command {
	var (
		timeExpr string
		label    string
	)

	cmd := &cobra.Command{
		Use:   "status <target>",
		Short: "Show which backends schedule the target, without changing anything",
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

			rs, err := a.Reconcilers()
			if err != nil {
				return err
			}
			snap := backend.Detect(cmd.Context(), sp, rs, a.Log)
			fmt.Fprint(cmd.OutOrStdout(), renderStatus(sp, snap))
			return nil
		},
	}

	cmd.Flags().StringVarP(&timeExpr, "time", "t", "", "trigger to compare stored entries against")
	cmd.Flags().StringVar(&label, "label", "", "manifest label (derived from target when empty)")
	return cmd
}
