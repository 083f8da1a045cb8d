// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/llm-wikimedia/internal/runner/runnertest"
	"github.com/pdiddy/llm-wikimedia/pkg/types"
)

type fakeFetcher struct {
	article types.Article
	err     error
	got     types.Request
}

func (f *fakeFetcher) Fetch(_ context.Context, req types.Request) (types.Article, error) {
	f.got = req
	return f.article, f.err
}

type fakeConverter struct {
	out   string
	err   error
	title string
	input string
}

func (c *fakeConverter) Convert(_ context.Context, title, wikitext string) (string, error) {
	c.title, c.input = title, wikitext
	return c.out, c.err
}

type fakeBackend struct {
	job Job
	err error
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Embed(_ context.Context, job Job) (Result, error) {
	b.job = job
	if b.err != nil {
		return Result{}, b.err
	}
	return Result{Embedded: len(job.Sections)}, nil
}

const sampleMarkdown = "Lead text.\n\n## History\n\nOld.\n\n## Design\n\nNew.\n"

func TestPipelineRun(t *testing.T) {
	fetcher := &fakeFetcher{article: types.Article{Title: "Go", Text: "== History ==\nOld."}}
	conv := &fakeConverter{out: sampleMarkdown}
	backend := &fakeBackend{}

	p := &Pipeline{Fetcher: fetcher, Converter: conv, Backend: backend}
	res, err := p.Run(context.Background(), Request{Collection: "wiki", Page: "Go", Lang: types.LangDE, Model: "m"})
	require.NoError(t, err)

	assert.Equal(t, types.Request{Page: "Go", Lang: types.LangDE, Site: types.SiteWikipedia}, fetcher.got)
	assert.Equal(t, "Go", conv.title)
	assert.Equal(t, "== History ==\nOld.", conv.input)

	assert.Equal(t, "wiki", backend.job.Collection)
	assert.Equal(t, "m", backend.job.Model)
	assert.Equal(t, "https://de.wikipedia.org/wiki/", backend.job.Prefix)
	require.Len(t, backend.job.Sections, 3)
	assert.Equal(t, "Go#Design", backend.job.Sections[2].ID)

	assert.Equal(t, Result{Sections: 3, Embedded: 3}, res)
}

func TestPipelineRun_Errors(t *testing.T) {
	fetchErr := errors.New("fetch failed")
	convErr := errors.New("pandoc failed")
	backendErr := errors.New("llm failed")

	tests := []struct {
		name    string
		req     Request
		fetcher *fakeFetcher
		conv    *fakeConverter
		backend *fakeBackend
		wantErr error
	}{
		{
			name:    "empty collection",
			req:     Request{Page: "Go", Lang: types.LangEN},
			fetcher: &fakeFetcher{},
			conv:    &fakeConverter{},
			backend: &fakeBackend{},
			wantErr: types.ErrInvalidRequest,
		},
		{
			name:    "fetch error propagates",
			req:     Request{Collection: "c", Page: "Go", Lang: types.LangEN},
			fetcher: &fakeFetcher{err: fetchErr},
			conv:    &fakeConverter{},
			backend: &fakeBackend{},
			wantErr: fetchErr,
		},
		{
			name:    "empty article",
			req:     Request{Collection: "c", Page: "Go", Lang: types.LangEN},
			fetcher: &fakeFetcher{article: types.Article{Text: "  "}},
			conv:    &fakeConverter{},
			backend: &fakeBackend{},
			wantErr: ErrEmptyArticle,
		},
		{
			name:    "converter error propagates",
			req:     Request{Collection: "c", Page: "Go", Lang: types.LangEN},
			fetcher: &fakeFetcher{article: types.Article{Text: "x"}},
			conv:    &fakeConverter{err: convErr},
			backend: &fakeBackend{},
			wantErr: convErr,
		},
		{
			name:    "backend error propagates",
			req:     Request{Collection: "c", Page: "Go", Lang: types.LangEN},
			fetcher: &fakeFetcher{article: types.Article{Text: "x"}},
			conv:    &fakeConverter{out: sampleMarkdown},
			backend: &fakeBackend{err: backendErr},
			wantErr: backendErr,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Pipeline{Fetcher: tt.fetcher, Converter: tt.conv, Backend: tt.backend}
			_, err := p.Run(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCommandBackend(t *testing.T) {
	var (
		seenFiles map[string]string
		tmpDir    string
	)
	exec := &runnertest.Fake{
		Piped: func(name string, args []string, _ io.Reader, _ io.Writer) error {
			tmpDir = args[5]
			entries, err := os.ReadDir(tmpDir)
			if err != nil {
				return err
			}
			seenFiles = make(map[string]string)
			for _, e := range entries {
				data, err := os.ReadFile(filepath.Join(tmpDir, e.Name()))
				if err != nil {
					return err
				}
				seenFiles[e.Name()] = string(data)
			}
			return nil
		},
	}

	b := &CommandBackend{Command: "llm", Exec: exec}
	res, err := b.Embed(context.Background(), Job{
		Collection: "wiki",
		Model:      "sentence-transformers/all-MiniLM-L6-v2",
		Prefix:     "https://en.wikipedia.org/wiki/",
		Sections: []types.Section{
			{ID: "AC/DC", Content: "lead"},
			{ID: "AC/DC#History", Content: "history"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Embedded)

	calls := exec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "llm", calls[0].Name)
	assert.Equal(t, []string{
		"embed-multi", "wiki",
		"--model", "sentence-transformers/all-MiniLM-L6-v2",
		"--files", tmpDir, "*",
		"--prefix", "https://en.wikipedia.org/wiki/",
		"--store",
	}, calls[0].Args)

	names := make([]string, 0, len(seenFiles))
	for n := range seenFiles {
		names = append(names, n)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"AC%2FDC", "AC%2FDC#History"}, names)
	assert.Equal(t, "history", seenFiles["AC%2FDC#History"])

	_, err = os.Stat(tmpDir)
	assert.True(t, os.IsNotExist(err), "temp dir should be removed")
}

func TestCommandBackend_NoModelAndFailure(t *testing.T) {
	exec := &runnertest.Fake{
		Piped: func(string, []string, io.Reader, io.Writer) error { return errors.New("exit status 1") },
	}
	b := &CommandBackend{Exec: exec}
	_, err := b.Embed(context.Background(), Job{Collection: "c", Prefix: "p/", Sections: []types.Section{{ID: "X", Content: "x"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm embed-multi")

	calls := exec.Calls()
	require.Len(t, calls, 1)
	assert.NotContains(t, calls[0].Args, "--model")
}
