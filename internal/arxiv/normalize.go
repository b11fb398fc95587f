// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"strings"

	"github.com/pdiddy/paperdesk/pkg/types"
)

// RawLink is one link of an upstream entry.
type RawLink struct {
	Rel   string
	Title string
	Href  string
}

// RawEntry is the view of an upstream entry the normalizer needs. Decoders
// adapt their parser's object model to it.
type RawEntry interface {
	ID() string
	Title() string
	Summary() string
	AuthorNames() []string
	Links() []RawLink
	Categories() []string
}

const (
	relAlternate = "alternate"
	relRelated   = "related"
	titlePDF     = "pdf"
)

// Normalize maps raw entries to NormalizedPapers in input order. Entries
// without an id, and nil entries, are dropped; every other entry is kept
// even when optional fields are missing.
func Normalize(entries []RawEntry) []types.NormalizedPaper {
	papers := make([]types.NormalizedPaper, 0, len(entries))
	for _, e := range entries {
		if p, ok := normalizeEntry(e); ok {
			papers = append(papers, p)
		}
	}
	return papers
}

func normalizeEntry(e RawEntry) (types.NormalizedPaper, bool) {
	if e == nil {
		return types.NormalizedPaper{}, false
	}
	id := e.ID()
	if strings.TrimSpace(id) == "" {
		return types.NormalizedPaper{}, false
	}

	p := types.NormalizedPaper{
		ID:         id,
		Title:      strings.TrimSpace(e.Title()),
		Summary:    strings.TrimSpace(e.Summary()),
		Authors:    append([]string{}, e.AuthorNames()...),
		Categories: append([]string{}, e.Categories()...),
	}

	// Later matches overwrite earlier ones.
	for _, l := range e.Links() {
		switch {
		case l.Rel == relAlternate:
			p.Link = l.Href
		case l.Rel == relRelated && l.Title == titlePDF:
			p.PDFURL = l.Href
		}
	}
	return p, true
}
