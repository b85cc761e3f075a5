package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"schedpilot/internal/cli"
)

// set via -ldflags "-X main.version=..."
var version = ""

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli.SetVersion(version)
	root := cli.NewRootCommand()
	// A cancelled run exits 0 (the RunE returns nil for it); anything that
	// reaches here is an unsupported platform or an unrecoverable error.
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
