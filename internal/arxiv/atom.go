// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/paperdesk/pkg/types"
)

// Decoder splits an upstream payload into raw entries.
type Decoder interface {
	Decode(r io.Reader) ([]RawEntry, error)
}

// NewDecoder returns the decoder registered under name. An empty name
// selects the Atom decoder.
func NewDecoder(name types.DecoderName) (Decoder, error) {
	switch name {
	case types.DecoderAtom, "":
		return AtomDecoder{}, nil
	case types.DecoderFeed:
		return FeedDecoder{}, nil
	default:
		return nil, fmt.Errorf("unknown arXiv decoder %q: use atom or feed", name)
	}
}

// NormalizeFeed decodes r with dec and normalizes the entries.
func NormalizeFeed(r io.Reader, dec Decoder) ([]types.NormalizedPaper, error) {
	entries, err := dec.Decode(r)
	if err != nil {
		return nil, err
	}
	return Normalize(entries), nil
}

// AtomDecoder reads the raw Atom markup with encoding/xml.
type AtomDecoder struct{}

// Decode implements Decoder.
func (AtomDecoder) Decode(r io.Reader) ([]RawEntry, error) {
	var feed atomFeed
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamPayloadUnreadable, err)
	}

	entries := make([]RawEntry, len(feed.Entries))
	for i := range feed.Entries {
		entries[i] = &feed.Entries[i]
	}
	return entries, nil
}

// arXiv Atom feed XML structures. Tags match on local name so a feed
// without the Atom namespace decodes too.
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	RawID      string         `xml:"id"`
	RawTitle   string         `xml:"title"`
	RawSummary string         `xml:"summary"`
	Authors    []atomAuthor   `xml:"author"`
	RawLinks   []atomLink     `xml:"link"`
	Category   []atomCategory `xml:"category"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

func (e *atomEntry) ID() string      { return strings.TrimSpace(e.RawID) }
func (e *atomEntry) Title() string   { return e.RawTitle }
func (e *atomEntry) Summary() string { return e.RawSummary }

func (e *atomEntry) AuthorNames() []string {
	names := make([]string, len(e.Authors))
	for i, a := range e.Authors {
		names[i] = strings.TrimSpace(a.Name)
	}
	return names
}

func (e *atomEntry) Links() []RawLink {
	links := make([]RawLink, len(e.RawLinks))
	for i, l := range e.RawLinks {
		rel := l.Rel
		if rel == "" {
			// RFC 4287 4.2.7.2: an absent rel means alternate.
			rel = relAlternate
		}
		links[i] = RawLink{Rel: rel, Title: l.Title, Href: l.Href}
	}
	return links
}

func (e *atomEntry) Categories() []string {
	terms := make([]string, 0, len(e.Category))
	for _, c := range e.Category {
		if c.Term != "" {
			terms = append(terms, c.Term)
		}
	}
	return terms
}
