// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/llm-wikimedia/internal/runner"
)

// DefaultCommand is the llm executable used by CommandBackend.
const DefaultCommand = "llm"

// CommandBackend writes one file per section into a temporary directory
// and runs `llm embed-multi` over it with --store.
type CommandBackend struct {
	Command string
	Exec    runner.Executor
	// Stdout receives the command's output; nil discards it.
	Stdout io.Writer
}

func (b *CommandBackend) Name() string { return "command" }

func (b *CommandBackend) Embed(ctx context.Context, job Job) (Result, error) {
	exec := b.Exec
	if exec == nil {
		exec = runner.Default
	}
	command := b.Command
	if command == "" {
		command = DefaultCommand
	}

	dir, err := os.MkdirTemp("", "llm-wikimedia-*")
	if err != nil {
		return Result{}, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	for _, s := range job.Sections {
		path := filepath.Join(dir, FileName(s.ID))
		if err := os.WriteFile(path, []byte(s.Content), 0o644); err != nil {
			return Result{}, fmt.Errorf("writing section %s: %w", s.ID, err)
		}
	}

	if err := exec.RunPiped(ctx, command, embedMultiArgs(job, dir), nil, b.Stdout); err != nil {
		return Result{}, fmt.Errorf("running %s embed-multi: %w", command, err)
	}
	return Result{Embedded: len(job.Sections)}, nil
}

func embedMultiArgs(job Job, dir string) []string {
	args := []string{"embed-multi", job.Collection}
	if job.Model != "" {
		args = append(args, "--model", job.Model)
	}
	return append(args,
		"--files", dir, "*",
		"--prefix", job.Prefix,
		"--store",
	)
}

// FileName maps a section ID to a file name. Slashes, which are legal in
// page titles, are percent-encoded so the ID survives as a URL path.
func FileName(id string) string {
	return strings.ReplaceAll(id, "/", "%2F")
}
