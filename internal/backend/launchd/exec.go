package launchd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Gateway abstracts launchctl so the reconciler can be exercised against a
// fake in tests.
type Gateway interface {
	// Load registers the manifest at path with launchd.
	Load(ctx context.Context, path string) error

	// Unload deregisters the manifest at path. Callers treat failure as
	// non-fatal (the agent may simply not be loaded).
	Unload(ctx context.Context, path string) error
}

// ExecGateway shells out to launchctl.
type ExecGateway struct{}

func (ExecGateway) Load(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, "launchctl", "load", path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("launchctl load: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (ExecGateway) Unload(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, "launchctl", "unload", path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("launchctl unload: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
