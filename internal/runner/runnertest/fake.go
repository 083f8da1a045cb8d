// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runnertest provides a scriptable runner.Executor for tests.
package runnertest

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// Call records one RunSilent or RunPiped invocation.
type Call struct {
	Name  string
	Args  []string
	Stdin string
}

// Line returns the command line joined with spaces.
func (c Call) Line() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Fake implements runner.Executor. Binaries in Bins resolve on LookPath;
// command lines in Silent succeed under RunSilent; Piped handles RunPiped.
type Fake struct {
	Bins   map[string]bool
	Silent map[string]bool
	Piped  func(name string, args []string, stdin io.Reader, stdout io.Writer) error

	mu    sync.Mutex
	calls []Call
}

func (f *Fake) LookPath(file string) (string, error) {
	if f.Bins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (f *Fake) RunSilent(_ context.Context, name string, args ...string) error {
	call := Call{Name: name, Args: args}
	f.record(call)
	if f.Silent[call.Line()] {
		return nil
	}
	return errors.New("command failed: " + call.Line())
}

func (f *Fake) RunPiped(_ context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	call := Call{Name: name, Args: args}
	if stdin != nil {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return err
		}
		call.Stdin = string(data)
		stdin = strings.NewReader(call.Stdin)
	}
	f.record(call)
	if f.Piped != nil {
		return f.Piped(name, args, stdin, stdout)
	}
	return nil
}

// Calls returns a copy of the recorded invocations.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *Fake) record(c Call) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}
