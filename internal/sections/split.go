// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sections splits a Markdown rendering of an article into its
// top-level sections.
package sections

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/llm-wikimedia/pkg/types"
)

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*?)(?:\s+#+)?\s*$`)
	linkRe    = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
)

type heading struct {
	line  int
	level int
	title string
}

// Split cuts markdown at every heading of the shallowest level present.
// Text before the first such heading becomes the lead section, whose ID
// is the page title. Other IDs are "Page#Anchor" in Wikipedia style
// (underscores for spaces, "_2" suffixes for repeated headings). Blank
// sections are dropped.
func Split(page, markdown string) []types.Section {
	lines := strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n")
	headings := scanHeadings(lines)

	top := 0
	for _, h := range headings {
		if top == 0 || h.level < top {
			top = h.level
		}
	}

	pageID := underscore(page)
	var out []types.Section
	seen := make(map[string]int)

	add := func(s types.Section) {
		if strings.TrimSpace(s.Content) == "" {
			return
		}
		out = append(out, s)
	}

	start := 0
	lead := true
	var current heading
	flush := func(end int) {
		content := strings.TrimSpace(strings.Join(lines[start:end], "\n"))
		if lead {
			add(types.Section{ID: pageID, Title: page, Level: 0, Content: content})
			return
		}
		add(types.Section{
			ID:      pageID + "#" + anchor(current.title, seen),
			Title:   current.title,
			Level:   current.level,
			Content: content,
		})
	}

	for _, h := range headings {
		if h.level != top {
			continue
		}
		flush(h.line)
		start = h.line
		lead = false
		current = h
	}
	flush(len(lines))
	return out
}

func scanHeadings(lines []string) []heading {
	var (
		out   []heading
		fence string
	)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if fence != "" {
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			fence = trimmed[:3]
			continue
		}
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := cleanTitle(m[2])
		if title == "" {
			continue
		}
		out = append(out, heading{line: i, level: len(m[1]), title: title})
	}
	return out
}

// cleanTitle drops Markdown link targets and inline emphasis from a heading.
func cleanTitle(s string) string {
	s = linkRe.ReplaceAllString(s, "$1")
	s = strings.NewReplacer("**", "", "`", "", "\\", "").Replace(s)
	return strings.TrimSpace(s)
}

func underscore(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
}

// anchor returns the Wikipedia-style anchor for title, numbering repeats.
func anchor(title string, seen map[string]int) string {
	base := underscore(title)
	seen[base]++
	if n := seen[base]; n > 1 {
		return base + "_" + strconv.Itoa(n)
	}
	return base
}
