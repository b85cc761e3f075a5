package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

// SetVersion lets main inject the build version (ldflags).
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// NewRootCommand builds the schedpilot command tree.
func NewRootCommand() *cobra.Command {
	var (
		cfgPath      string
		logLevel     string
		platformName string
		app          *App
	)

	root := &cobra.Command{
		Use:   "schedpilot",
		Short: "Install and reconcile a periodic schedule for a job executable",
		Long: `schedpilot converges OS-level scheduling state (crontab, launchd agent
manifest, or a Task Scheduler wrapper script) toward a desired schedule for
one target job executable. Runs are idempotent: re-running with the same
settings changes nothing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			app, err = newApp(cfgPath, logLevel, platformName)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				app.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default: <user-config-dir>/schedpilot/config.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace|debug|info|warn|error)")
	root.PersistentFlags().StringVar(&platformName, "platform", "", "override platform detection (darwin|linux|windows)")

	appRef := func() *App { return app }
	root.AddCommand(newInstallCommand(appRef))
	root.AddCommand(newStatusCommand(appRef))
	root.AddCommand(newHistoryCommand(appRef))
	root.AddCommand(newVersionCommand())
	return root
}
