// Package cli wires the cobra command tree: flag parsing, config loading,
// logging setup, and rendering. All scheduling semantics live below in the
// orchestrator and backend packages.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"schedpilot/internal/backend"
	"schedpilot/internal/backend/crontab"
	"schedpilot/internal/backend/launchd"
	"schedpilot/internal/backend/wrapper"
	"schedpilot/internal/config"
	"schedpilot/internal/journal"
	"schedpilot/internal/platform"
	"schedpilot/pkg/logx"
)

// App carries the state shared by all commands, built once in the root
// command's PersistentPreRunE.
type App struct {
	Config   *config.Config
	Log      logx.Logger
	LogSvc   *logx.Service
	Platform platform.OS
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "schedpilot", "config.yaml")
}

func newApp(cfgPath, logLevel, platformOverride string) (*App, error) {
	optional := false
	if cfgPath == "" {
		cfgPath = defaultConfigPath()
		optional = true
	}

	cfg := &config.Config{}
	if cfgPath != "" {
		var err error
		cfg, err = config.Load(cfgPath, optional)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	svc, log := logx.NewService(logx.Config{
		Level:   level,
		Console: true,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})

	host := platform.Current()
	if platformOverride != "" {
		host = platform.FromGOOS(platformOverride)
	}

	return &App{Config: cfg, Log: log, LogSvc: svc, Platform: host}, nil
}

// Reconcilers builds the three backend reconcilers with the app's settings.
func (a *App) Reconcilers() ([]backend.Reconciler, error) {
	wd, rec := a.Config.WrapperLimits()
	wr, err := wrapper.New(wd, rec, a.Log)
	if err != nil {
		return nil, err
	}
	return []backend.Reconciler{
		crontab.New(nil, a.Log),
		launchd.New(nil, "", a.Log),
		wr,
	}, nil
}

// OpenJournal opens the configured journal store; nil when disabled.
func (a *App) OpenJournal() (journal.Store, error) {
	return journal.Open(journal.Config{
		Driver:      a.Config.Journal.Driver,
		Path:        a.Config.Journal.Path,
		BusyTimeout: a.Config.JournalBusyTimeout(),
	}, a.Log)
}

func (a *App) Close() {
	if a.LogSvc != nil {
		_ = a.LogSvc.Close()
	}
}
