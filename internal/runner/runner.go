// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner executes external programs (pandoc, llm, container
// runtimes) behind an interface so callers can be tested without them.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Executor runs external commands.
type Executor interface {
	// LookPath resolves file on PATH.
	LookPath(file string) (string, error)

	// RunSilent runs a command and discards its output.
	RunSilent(ctx context.Context, name string, args ...string) error

	// RunPiped runs a command with the given stdin and stdout. Either may
	// be nil. Stderr is captured and included in the returned error.
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error
}

// OS is the production Executor backed by os/exec.
type OS struct{}

func (OS) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (OS) RunSilent(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (OS) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Default is the Executor used when none is injected.
var Default Executor = OS{}
