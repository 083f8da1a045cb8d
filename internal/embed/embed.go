// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed runs the article embedding pipeline: fetch the wikitext,
// convert it to Markdown, split it into top-level sections, and hand the
// sections to a Backend that embeds and stores them.
package embed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/llm-wikimedia/internal/convert"
	"github.com/pdiddy/llm-wikimedia/internal/logging"
	"github.com/pdiddy/llm-wikimedia/internal/sections"
	"github.com/pdiddy/llm-wikimedia/pkg/types"
)

// ErrEmptyArticle is returned when the fetched article has no text to embed.
var ErrEmptyArticle = errors.New("article has no text")

// Fetcher retrieves an article. *wikimedia.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, req types.Request) (types.Article, error)
}

// Job is the set of sections handed to a Backend.
type Job struct {
	Collection string
	Model      string
	// Prefix is prepended to section IDs to form stored IDs, e.g.
	// "https://en.wikipedia.org/wiki/".
	Prefix   string
	Sections []types.Section
}

// Result summarises a pipeline run.
type Result struct {
	Sections int
	Embedded int
	Skipped  int
}

// Backend embeds and stores the sections of a Job.
type Backend interface {
	Name() string
	Embed(ctx context.Context, job Job) (Result, error)
}

// Request describes one pipeline run.
type Request struct {
	Collection string
	Page       string
	Lang       types.Lang
	Model      string
}

// Pipeline wires the stages together.
type Pipeline struct {
	Fetcher   Fetcher
	Converter convert.Converter
	Backend   Backend
	Logger    logrus.FieldLogger
}

// Prefix returns the ID prefix for sections of a Wikipedia article in lang.
func Prefix(lang types.Lang) string {
	return fmt.Sprintf("https://%s.wikipedia.org/wiki/", lang)
}

// Run embeds all top-level sections of req.Page from Wikipedia.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Collection) == "" {
		return Result{}, fmt.Errorf("%w: collection is empty", types.ErrInvalidRequest)
	}
	log := p.Logger
	if log == nil {
		log = logging.Discard()
	}
	log = log.WithFields(logrus.Fields{"collection": req.Collection, "page": req.Page, "backend": p.Backend.Name()})

	article, err := p.Fetcher.Fetch(ctx, types.Request{Page: req.Page, Lang: req.Lang, Site: types.SiteWikipedia})
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(article.Text) == "" {
		return Result{}, fmt.Errorf("%w: %s", ErrEmptyArticle, req.Page)
	}

	markdown, err := p.Converter.Convert(ctx, req.Page, article.Text)
	if err != nil {
		return Result{}, err
	}

	secs := sections.Split(req.Page, markdown)
	if len(secs) == 0 {
		return Result{}, fmt.Errorf("%w: %s produced no sections", ErrEmptyArticle, req.Page)
	}
	log.WithField("sections", len(secs)).Info("split article")

	res, err := p.Backend.Embed(ctx, Job{
		Collection: req.Collection,
		Model:      req.Model,
		Prefix:     Prefix(req.Lang),
		Sections:   secs,
	})
	if err != nil {
		return res, fmt.Errorf("%s backend: %w", p.Backend.Name(), err)
	}
	res.Sections = len(secs)

	log.WithFields(logrus.Fields{"embedded": res.Embedded, "skipped": res.Skipped}).Info("embedded article")
	return res, nil
}
