package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(app func() *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent reconciliation runs from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			store, err := a.OpenJournal()
			if err != nil {
				return err
			}
			if store == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Journal is disabled; enable it in the config file.")
				return nil
			}
			defer func() { _ = store.Close() }()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No reconciliation runs recorded yet.")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, e := range entries {
				line := fmt.Sprintf("%s  %-10s %-8s %s",
					e.At.Format(time.RFC3339), e.Backend, e.Action, e.Target)
				if e.Forced {
					line += "  (forced)"
				}
				if e.Error != "" {
					line += "  error: " + e.Error
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of records to show")
	return cmd
}
