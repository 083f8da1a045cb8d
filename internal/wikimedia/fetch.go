// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wikimedia fetches the raw wikitext of the latest revision of a
// Wikipedia or Wiktionary page through the Special:Export endpoint.
package wikimedia

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/llm-wikimedia/internal/httputil"
	"github.com/pdiddy/llm-wikimedia/internal/logging"
	"github.com/pdiddy/llm-wikimedia/pkg/types"
)

// ExportNamespace is the XML namespace of the MediaWiki export format.
const ExportNamespace = "http://www.mediawiki.org/xml/export-0.11/"

var (
	// ErrNotFound is returned when the export contains no page element.
	ErrNotFound = errors.New("no such page")
	// ErrParse is returned when the response is not a usable export document.
	ErrParse = errors.New("could not extract text")
)

// ExportURL returns the Special:Export URL for page on the given wiki.
func ExportURL(lang types.Lang, site types.Site, page string) string {
	u := url.URL{
		Scheme:   "https",
		Host:     fmt.Sprintf("%s.%s.org", lang, site),
		Path:     "/w/index.php",
		RawQuery: "title=Special:Export&pages=" + url.QueryEscape(page),
	}
	return u.String()
}

// ArticleURL returns the human-readable URL of page on the given wiki.
func ArticleURL(lang types.Lang, site types.Site, page string) string {
	return fmt.Sprintf("https://%s.%s.org/wiki/%s", lang, site, url.PathEscape(strings.ReplaceAll(page, " ", "_")))
}

// Fetcher retrieves articles over HTTP. The zero value uses a default
// client and user agent.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
	Logger    logrus.FieldLogger
}

// NewFetcher returns a Fetcher configured from cfg.
func NewFetcher(cfg types.HTTPConfig, logger logrus.FieldLogger) *Fetcher {
	return &Fetcher{
		Client:    httputil.NewClient(cfg),
		UserAgent: httputil.UserAgent(cfg),
		Logger:    logger,
	}
}

// Fetch retrieves the latest revision of req.Page. It issues exactly one
// GET (redirects followed) and does not retry. Non-2xx responses are
// returned as *httputil.StatusError.
func (f *Fetcher) Fetch(ctx context.Context, req types.Request) (types.Article, error) {
	if err := req.Validate(); err != nil {
		return types.Article{}, err
	}

	client := f.Client
	if client == nil {
		client = httputil.NewClient(types.HTTPConfig{})
	}
	log := f.Logger
	if log == nil {
		log = logging.Discard()
	}

	exportURL := ExportURL(req.Lang, req.Site, req.Page)
	log = log.WithFields(logrus.Fields{"page": req.Page, "lang": req.Lang, "site": req.Site})
	log.WithField("url", exportURL).Debug("fetching export")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return types.Article{}, fmt.Errorf("creating request: %w", err)
	}
	ua := f.UserAgent
	if ua == "" {
		ua = httputil.DefaultUserAgent
	}
	httpReq.Header.Set("User-Agent", ua)

	start := time.Now()
	resp, err := client.Do(httpReq)
	if err != nil {
		return types.Article{}, fmt.Errorf("export request: %w", err)
	}
	if err := httputil.CheckStatus(resp); err != nil {
		return types.Article{}, err
	}
	defer resp.Body.Close()

	article, err := Parse(resp.Body, req.Page)
	if err != nil {
		return types.Article{}, err
	}
	article.Lang = req.Lang
	article.Site = req.Site

	log.WithFields(logrus.Fields{
		"title":    article.Title,
		"revision": article.RevisionID,
		"bytes":    len(article.Text),
		"elapsed":  time.Since(start).Round(time.Millisecond),
	}).Info("fetched article")
	return article, nil
}

// Parse extracts the first page and its latest revision text from a
// MediaWiki export document. page is only used in error messages.
func Parse(r io.Reader, page string) (types.Article, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return types.Article{}, fmt.Errorf("%w: parsing export XML: %v", ErrParse, err)
	}

	root := doc.Root()
	if root == nil || !isExport(root, "mediawiki") {
		return types.Article{}, fmt.Errorf("%w: response is not a MediaWiki export document", ErrParse)
	}

	p := child(root, "page")
	if p == nil {
		return types.Article{}, fmt.Errorf("%w: there is no page named %q", ErrNotFound, page)
	}

	article := types.Article{
		Title:  childText(p, "title"),
		PageID: childInt(p, "id"),
	}
	if article.Title == "" {
		article.Title = page
	}

	rev := child(p, "revision")
	var text *etree.Element
	if rev != nil {
		text = child(rev, "text")
	}
	if text == nil {
		return types.Article{}, fmt.Errorf("%w: could not extract text of latest revision from XML", ErrParse)
	}

	article.RevisionID = childInt(rev, "id")
	if ts, err := time.Parse(time.RFC3339, childText(rev, "timestamp")); err == nil {
		article.Timestamp = ts
	}
	article.Text = text.Text()
	article.Deleted = text.SelectAttr("deleted") != nil
	return article, nil
}

// isExport reports whether el is the named element in the export namespace.
func isExport(el *etree.Element, tag string) bool {
	return el.Tag == tag && el.NamespaceURI() == ExportNamespace
}

func child(el *etree.Element, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if isExport(c, tag) {
			return c
		}
	}
	return nil
}

func childText(el *etree.Element, tag string) string {
	if c := child(el, tag); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

func childInt(el *etree.Element, tag string) int64 {
	n, err := strconv.ParseInt(childText(el, tag), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
