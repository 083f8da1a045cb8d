// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns MediaWiki wikitext into GitHub-flavoured Markdown
// with pandoc, run natively or inside the pandoc/core container image.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/llm-wikimedia/internal/container"
	"github.com/pdiddy/llm-wikimedia/internal/runner"
)

const (
	// DefaultPandoc is the pandoc binary looked up on PATH.
	DefaultPandoc = "pandoc"
	// PandocImage is the container image used when pandoc is not installed.
	PandocImage = "pandoc/core:latest"
)

// Converter transforms wikitext into Markdown.
type Converter interface {
	// Convert returns the Markdown rendering of wikitext. title is set as
	// the document title metadata.
	Convert(ctx context.Context, title, wikitext string) (string, error)
}

// pandocArgs are the arguments after the pandoc binary (or image).
func pandocArgs(title string) []string {
	return []string{
		"--metadata", "title:" + title,
		"-f", "mediawiki",
		"-t", "gfm",
		"--wrap=none",
		"-",
	}
}

// Pandoc runs a pandoc binary on the host.
type Pandoc struct {
	Bin  string
	Exec runner.Executor
}

func (p *Pandoc) Convert(ctx context.Context, title, wikitext string) (string, error) {
	var out bytes.Buffer
	if err := p.Exec.RunPiped(ctx, p.Bin, pandocArgs(title), strings.NewReader(wikitext), &out); err != nil {
		return "", fmt.Errorf("converting %q with pandoc: %w", title, err)
	}
	return checkOutput(title, out.String())
}

// Container runs pandoc from the pandoc/core image.
type Container struct {
	Runtime container.Runtime
	Image   string
}

func (c *Container) Convert(ctx context.Context, title, wikitext string) (string, error) {
	var out bytes.Buffer
	if err := c.Runtime.Run(ctx, c.Image, pandocArgs(title), strings.NewReader(wikitext), &out); err != nil {
		return "", fmt.Errorf("converting %q with %s pandoc: %w", title, c.Runtime.Name(), err)
	}
	return checkOutput(title, out.String())
}

func checkOutput(title, out string) (string, error) {
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("pandoc produced empty output for %q", title)
	}
	return out, nil
}

// New picks a Converter: the pandoc binary bin when it is on PATH,
// otherwise pandoc/core in docker or podman. A nil exec uses runner.Default.
func New(ctx context.Context, bin string, exec runner.Executor, log logrus.FieldLogger) (Converter, error) {
	if exec == nil {
		exec = runner.Default
	}
	if bin == "" {
		bin = DefaultPandoc
	}

	if path, err := exec.LookPath(bin); err == nil {
		if log != nil {
			log.WithField("pandoc", path).Debug("using host pandoc")
		}
		return &Pandoc{Bin: bin, Exec: exec}, nil
	}

	rt, err := container.DetectRuntime(ctx, exec)
	if err != nil {
		return nil, fmt.Errorf("%s not found on PATH and %w", bin, err)
	}
	if err := rt.ImageExists(ctx, PandocImage); err != nil {
		return nil, fmt.Errorf("%s not found on PATH: %w", bin, err)
	}
	if log != nil {
		log.WithField("runtime", rt.Name()).Debug("using containerised pandoc")
	}
	return &Container{Runtime: rt, Image: PandocImage}, nil
}
