// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fragment resolves "prefix:argument" references, such as
// "wikipedia:Go (programming language)", into prompt fragments.
package fragment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/llm-wikimedia/internal/wikimedia"
	"github.com/pdiddy/llm-wikimedia/pkg/types"
)

// ErrUnknownLoader is returned for a reference whose prefix has no loader.
var ErrUnknownLoader = errors.New("unknown fragment loader")

// Loader turns the argument after "prefix:" into a Fragment.
type Loader func(ctx context.Context, argument string) (types.Fragment, error)

// Fetcher retrieves an article. *wikimedia.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, req types.Request) (types.Article, error)
}

// Registry maps prefixes to loaders.
type Registry struct {
	loaders map[string]Loader
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]Loader)}
}

// Register adds or replaces the loader for prefix.
func (r *Registry) Register(prefix string, l Loader) {
	r.loaders[prefix] = l
}

// Prefixes returns the registered prefixes in sorted order.
func (r *Registry) Prefixes() []string {
	out := make([]string, 0, len(r.loaders))
	for p := range r.loaders {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Load resolves ref. The argument is everything after the first colon, so
// titles containing colons ("Help:Contents") are preserved.
func (r *Registry) Load(ctx context.Context, ref string) (types.Fragment, error) {
	prefix, arg, ok := strings.Cut(ref, ":")
	if !ok || strings.TrimSpace(arg) == "" {
		return types.Fragment{}, fmt.Errorf("%w: fragment reference %q must look like prefix:argument", types.ErrInvalidRequest, ref)
	}
	l, found := r.loaders[prefix]
	if !found {
		return types.Fragment{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownLoader, prefix, strings.Join(r.Prefixes(), ", "))
	}
	return l(ctx, arg)
}

// ArticleLoader returns a loader fetching the named page from site in lang.
func ArticleLoader(f Fetcher, lang types.Lang, site types.Site) Loader {
	return func(ctx context.Context, page string) (types.Fragment, error) {
		article, err := f.Fetch(ctx, types.Request{Page: page, Lang: lang, Site: site})
		if err != nil {
			return types.Fragment{}, err
		}
		return types.Fragment{
			Source:  wikimedia.ArticleURL(lang, site, article.Title),
			Content: article.Text,
		}, nil
	}
}

// Default returns a registry with "wikipedia" and "wiktionary" loaders
// fetching in lang.
func Default(f Fetcher, lang types.Lang) *Registry {
	r := NewRegistry()
	for _, site := range types.Sites {
		r.Register(string(site), ArticleLoader(f, lang, site))
	}
	return r
}
