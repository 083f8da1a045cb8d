// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidRequest is returned when a Request fails validation.
var ErrInvalidRequest = errors.New("invalid request")

// Lang is a Wikimedia language subdomain.
type Lang string

const (
	LangDE Lang = "de"
	LangEN Lang = "en"
	LangES Lang = "es"
	LangFR Lang = "fr"
	LangIT Lang = "it"
	LangNL Lang = "nl"
	LangNO Lang = "no"
	LangPT Lang = "pt"
	LangRO Lang = "ro"
)

// Langs lists the supported language codes in display order.
var Langs = []Lang{LangDE, LangEN, LangES, LangFR, LangIT, LangNL, LangNO, LangPT, LangRO}

// Valid reports whether l is a supported language.
func (l Lang) Valid() bool {
	for _, s := range Langs {
		if l == s {
			return true
		}
	}
	return false
}

// Site selects the Wikimedia project.
type Site string

const (
	SiteWikipedia  Site = "wikipedia"
	SiteWiktionary Site = "wiktionary"
)

// Sites lists the supported projects.
var Sites = []Site{SiteWikipedia, SiteWiktionary}

// Valid reports whether s is a supported site.
func (s Site) Valid() bool {
	return s == SiteWikipedia || s == SiteWiktionary
}

// Request identifies one article to fetch.
type Request struct {
	Page string `json:"page" yaml:"page"`
	Lang Lang   `json:"lang" yaml:"lang"`
	Site Site   `json:"site" yaml:"site"`
}

// WithDefaults fills an empty language or site with en / wikipedia.
func (r Request) WithDefaults() Request {
	if r.Lang == "" {
		r.Lang = LangEN
	}
	if r.Site == "" {
		r.Site = SiteWikipedia
	}
	return r
}

// Validate checks that the page is set and the language and site are supported.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Page) == "" {
		return fmt.Errorf("%w: page title is empty", ErrInvalidRequest)
	}
	if !r.Lang.Valid() {
		return fmt.Errorf("%w: unsupported language %q (supported: %s)", ErrInvalidRequest, r.Lang, joinLangs())
	}
	if !r.Site.Valid() {
		return fmt.Errorf("%w: unsupported site %q (use wikipedia or wiktionary)", ErrInvalidRequest, r.Site)
	}
	return nil
}

func joinLangs() string {
	parts := make([]string, len(Langs))
	for i, l := range Langs {
		parts[i] = string(l)
	}
	return strings.Join(parts, ", ")
}

// Article is the latest revision of a page as returned by Special:Export.
type Article struct {
	// Title is the canonical title reported by the export, which may differ
	// from the requested title after normalisation.
	Title string `json:"title" yaml:"title"`

	Lang Lang `json:"lang" yaml:"lang"`
	Site Site `json:"site" yaml:"site"`

	PageID     int64     `json:"page_id,omitempty" yaml:"page_id,omitempty"`
	RevisionID int64     `json:"revision_id,omitempty" yaml:"revision_id,omitempty"`
	Timestamp  time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`

	// Text is the raw wikitext. It is empty for an empty page and for a
	// revision whose text was suppressed (Deleted is then true).
	Text    string `json:"text" yaml:"text"`
	Deleted bool   `json:"deleted,omitempty" yaml:"deleted,omitempty"`
}

// Section is one top-level section of an article prepared for embedding.
type Section struct {
	// ID is "Title" for the lead section and "Title#Anchor" otherwise,
	// with spaces replaced by underscores.
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Level   int    `json:"level" yaml:"level"`
	Content string `json:"content" yaml:"content"`
}

// Fragment is article text handed to an LLM prompt, with its source URL.
type Fragment struct {
	Source  string `json:"source" yaml:"source"`
	Content string `json:"content" yaml:"content"`
}
