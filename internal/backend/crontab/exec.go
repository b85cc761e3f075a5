package crontab

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Gateway abstracts the crontab binary so the reconciler can be exercised
// against a fake in tests.
type Gateway interface {
	// List returns the current table text. A missing table is not an error:
	// it returns ("", nil). A missing crontab binary is an error.
	List(ctx context.Context) (string, error)

	// Install replaces the whole table atomically (crontab reads the full
	// new table from stdin and swaps it, or rejects it leaving the old one).
	Install(ctx context.Context, table string) error
}

// ExecGateway shells out to the crontab binary.
type ExecGateway struct{}

func (ExecGateway) List(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "crontab", "-l")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		// "no crontab for <user>" exits non-zero but just means an empty table.
		if strings.Contains(stderr.String(), "no crontab") {
			return "", nil
		}
		return "", fmt.Errorf("crontab -l: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

func (ExecGateway) Install(ctx context.Context, table string) error {
	cmd := exec.CommandContext(ctx, "crontab", "-")
	cmd.Stdin = strings.NewReader(table)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("crontab -: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
