// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/gofeed/atom"
)

// FeedDecoder reads the payload through gofeed's Atom parser, which keeps
// link relations and titles that the universal gofeed.Item drops.
type FeedDecoder struct{}

// Decode implements Decoder.
func (FeedDecoder) Decode(r io.Reader) ([]RawEntry, error) {
	p := &atom.Parser{}
	feed, err := p.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamPayloadUnreadable, err)
	}

	entries := make([]RawEntry, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		if e == nil {
			continue
		}
		entries = append(entries, feedEntry{e})
	}
	return entries, nil
}

type feedEntry struct {
	e *atom.Entry
}

func (f feedEntry) ID() string      { return strings.TrimSpace(f.e.ID) }
func (f feedEntry) Title() string   { return f.e.Title }
func (f feedEntry) Summary() string { return f.e.Summary }

func (f feedEntry) AuthorNames() []string {
	names := make([]string, 0, len(f.e.Authors))
	for _, a := range f.e.Authors {
		if a == nil {
			continue
		}
		names = append(names, strings.TrimSpace(a.Name))
	}
	return names
}

func (f feedEntry) Links() []RawLink {
	links := make([]RawLink, 0, len(f.e.Links))
	for _, l := range f.e.Links {
		if l == nil {
			continue
		}
		links = append(links, RawLink{Rel: l.Rel, Title: l.Title, Href: l.Href})
	}
	return links
}

func (f feedEntry) Categories() []string {
	terms := make([]string, 0, len(f.e.Categories))
	for _, c := range f.e.Categories {
		if c != nil && c.Term != "" {
			terms = append(terms, c.Term)
		}
	}
	return terms
}
