// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikimedia

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/llm-wikimedia/internal/httputil"
	"github.com/pdiddy/llm-wikimedia/pkg/types"
)

const goExport = `<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.11/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" version="0.11" xml:lang="en">
  <siteinfo>
    <sitename>Wikipedia</sitename>
  </siteinfo>
  <page>
    <title>Go (programming language)</title>
    <ns>0</ns>
    <id>25039021</id>
    <revision>
      <id>1234567890</id>
      <parentid>1234567889</parentid>
      <timestamp>2026-09-30T12:00:00Z</timestamp>
      <model>wikitext</model>
      <format>text/x-wiki</format>
      <text bytes="120" xml:space="preserve">'''Go''' is a [[high-level programming language|high-level]] language designed at [[Google]].

== History ==
Go was designed in 2007 &amp; announced in 2009.</text>
    </revision>
  </page>
</mediawiki>`

const missingExport = `<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.11/" version="0.11" xml:lang="en">
  <siteinfo>
    <sitename>Wikipedia</sitename>
  </siteinfo>
</mediawiki>`

// rewriteTransport sends every request to target while recording the
// URL the client originally asked for.
type rewriteTransport struct {
	target *url.URL

	mu   sync.Mutex
	urls []*url.URL
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	orig := *req.URL
	t.urls = append(t.urls, &orig)
	t.mu.Unlock()

	out := req.Clone(req.Context())
	out.URL.Scheme = t.target.Scheme
	out.URL.Host = t.target.Host
	out.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(out)
}

func (t *rewriteTransport) requested() []*url.URL {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*url.URL(nil), t.urls...)
}

func newTestFetcher(t *testing.T, handler http.HandlerFunc) (*Fetcher, *rewriteTransport) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	target, err := url.Parse(ts.URL)
	require.NoError(t, err)

	rt := &rewriteTransport{target: target}
	return &Fetcher{
		Client:    &http.Client{Transport: rt, Timeout: 5 * time.Second},
		UserAgent: "test/0.1",
	}, rt
}

func TestExportURL(t *testing.T) {
	tests := []struct {
		lang types.Lang
		site types.Site
		page string
		want string
	}{
		{types.LangEN, types.SiteWikipedia, "Go", "https://en.wikipedia.org/w/index.php?title=Special:Export&pages=Go"},
		{types.LangDE, types.SiteWiktionary, "Haus", "https://de.wiktionary.org/w/index.php?title=Special:Export&pages=Haus"},
		{types.LangFR, types.SiteWikipedia, "Tour Eiffel", "https://fr.wikipedia.org/w/index.php?title=Special:Export&pages=Tour+Eiffel"},
		{types.LangEN, types.SiteWikipedia, "AC/DC & more", "https://en.wikipedia.org/w/index.php?title=Special:Export&pages=AC%2FDC+%26+more"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ExportURL(tt.lang, tt.site, tt.page))
		})
	}
}

func TestArticleURL(t *testing.T) {
	assert.Equal(t, "https://en.wikipedia.org/wiki/Go_%28programming_language%29",
		ArticleURL(types.LangEN, types.SiteWikipedia, "Go (programming language)"))
	assert.Equal(t, "https://nl.wiktionary.org/wiki/huis",
		ArticleURL(types.LangNL, types.SiteWiktionary, "huis"))
}

func TestFetch_ExistingPage(t *testing.T) {
	f, rt := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test/0.1", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Write([]byte(goExport))
	})

	article, err := f.Fetch(context.Background(), types.Request{
		Page: "Go (programming language)", Lang: types.LangEN, Site: types.SiteWikipedia,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, article.Text)
	assert.Contains(t, article.Text, "'''Go''' is a")
	assert.Contains(t, article.Text, "== History ==")
	assert.Contains(t, article.Text, "2007 & announced")
	assert.Equal(t, "Go (programming language)", article.Title)
	assert.Equal(t, int64(25039021), article.PageID)
	assert.Equal(t, int64(1234567890), article.RevisionID)
	assert.Equal(t, time.Date(2026, 9, 30, 12, 0, 0, 0, time.UTC), article.Timestamp)
	assert.Equal(t, types.LangEN, article.Lang)
	assert.Equal(t, types.SiteWikipedia, article.Site)
	assert.False(t, article.Deleted)

	assert.Len(t, rt.requested(), 1)
}

func TestFetch_InterpolatesLangAndSite(t *testing.T) {
	tests := []struct {
		lang     types.Lang
		site     types.Site
		wantHost string
	}{
		{types.LangEN, types.SiteWikipedia, "en.wikipedia.org"},
		{types.LangDE, types.SiteWiktionary, "de.wiktionary.org"},
		{types.LangRO, types.SiteWikipedia, "ro.wikipedia.org"},
		{types.LangNO, types.SiteWiktionary, "no.wiktionary.org"},
	}
	for _, tt := range tests {
		t.Run(tt.wantHost, func(t *testing.T) {
			f, rt := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(goExport))
			})

			_, err := f.Fetch(context.Background(), types.Request{Page: "Go", Lang: tt.lang, Site: tt.site})
			require.NoError(t, err)

			urls := rt.requested()
			require.Len(t, urls, 1)
			assert.Equal(t, "https", urls[0].Scheme)
			assert.Equal(t, tt.wantHost, urls[0].Host)
			assert.Equal(t, "/w/index.php", urls[0].Path)
			assert.Equal(t, "Special:Export", urls[0].Query().Get("title"))
			assert.Equal(t, "Go", urls[0].Query().Get("pages"))
		})
	}
}

func TestFetch_FollowsRedirects(t *testing.T) {
	f, rt := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/w/index.php" {
			http.Redirect(w, r, "/export/Go", http.StatusFound)
			return
		}
		w.Write([]byte(goExport))
	})

	article, err := f.Fetch(context.Background(), types.Request{Page: "Go", Lang: types.LangEN, Site: types.SiteWikipedia})
	require.NoError(t, err)
	assert.Contains(t, article.Text, "Google")

	urls := rt.requested()
	require.Len(t, urls, 2)
	assert.Equal(t, "/export/Go", urls[1].Path)
}

func TestFetch_NonexistentPage(t *testing.T) {
	f, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(missingExport))
	})

	_, err := f.Fetch(context.Background(), types.Request{Page: "Qwxzzy no such page", Lang: types.LangEN, Site: types.SiteWikipedia})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "there is no page named")
}

func TestFetch_HTTPErrorNotRetried(t *testing.T) {
	calls := 0
	f, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := f.Fetch(context.Background(), types.Request{Page: "Go", Lang: types.LangEN, Site: types.SiteWikipedia})

	var statusErr *httputil.StatusError
	require.True(t, errors.As(err, &statusErr), "want *httputil.StatusError, got %v", err)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, 1, calls)
}

func TestFetch_InvalidRequest(t *testing.T) {
	f, rt := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(goExport))
	})

	_, err := f.Fetch(context.Background(), types.Request{Page: "Go", Lang: "xx", Site: types.SiteWikipedia})
	assert.ErrorIs(t, err, types.ErrInvalidRequest)
	assert.Empty(t, rt.requested())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantErr  error
		wantText string
		deleted  bool
	}{
		{
			name:    "malformed XML",
			body:    `<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.11/"><page>`,
			wantErr: ErrParse,
		},
		{
			name:    "HTML instead of XML",
			body:    `<!DOCTYPE html><html><body>Error</body></html>`,
			wantErr: ErrParse,
		},
		{
			name:    "wrong export namespace",
			body:    `<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/"><page><revision><text>x</text></revision></page></mediawiki>`,
			wantErr: ErrParse,
		},
		{
			name:    "empty body",
			body:    ``,
			wantErr: ErrParse,
		},
		{
			name:    "no page",
			body:    missingExport,
			wantErr: ErrNotFound,
		},
		{
			name:    "page without revision",
			body:    `<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.11/"><page><title>Go</title></page></mediawiki>`,
			wantErr: ErrParse,
		},
		{
			name:    "revision without text",
			body:    `<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.11/"><page><title>Go</title><revision><id>1</id></revision></page></mediawiki>`,
			wantErr: ErrParse,
		},
		{
			name:     "empty page text",
			body:     `<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.11/"><page><title>Go</title><revision><id>1</id><text bytes="0" xml:space="preserve" /></revision></page></mediawiki>`,
			wantText: "",
		},
		{
			name:     "suppressed revision text",
			body:     `<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.11/"><page><title>Go</title><revision><id>1</id><text deleted="deleted" /></revision></page></mediawiki>`,
			wantText: "",
			deleted:  true,
		},
		{
			name:     "prefixed namespace",
			body:     `<mw:mediawiki xmlns:mw="http://www.mediawiki.org/xml/export-0.11/"><mw:page><mw:title>Go</mw:title><mw:revision><mw:text>hello</mw:text></mw:revision></mw:page></mw:mediawiki>`,
			wantText: "hello",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			article, err := Parse(strings.NewReader(tt.body), "Go")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, article.Text)
			assert.Equal(t, tt.deleted, article.Deleted)
			assert.Equal(t, "Go", article.Title)
		})
	}
}
