// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records shared by the arXiv translator, the
// store, the HTTP API, and the CLI.
package types

import (
	"net/url"
	"strconv"
	"time"
)

// IdentifierKind selects how a raw query string is turned into an arXiv
// search expression.
type IdentifierKind string

const (
	KindArxivID    IdentifierKind = "arxiv_id"
	KindDOI        IdentifierKind = "doi"
	KindFreeText   IdentifierKind = "free_text"
	KindStructured IdentifierKind = "structured"
)

// SortField is the arXiv sortBy parameter.
type SortField string

const (
	SortRelevance     SortField = "relevance"
	SortLastUpdated   SortField = "lastUpdatedDate"
	SortSubmittedDate SortField = "submittedDate"
)

// SortOrder is the arXiv sortOrder parameter.
type SortOrder string

const (
	SortAscending  SortOrder = "ascending"
	SortDescending SortOrder = "descending"
)

// Param is one name/value pair of an upstream query.
type Param struct {
	Name  string
	Value string
}

// QueryRequest is a canonical arXiv query. Values are only produced by
// arxiv.Build, which guarantees PageSize is within the upstream bounds.
type QueryRequest struct {
	// RawQuery is the caller's text, or the bare arXiv id once a DOI prefix
	// has been stripped.
	RawQuery string `json:"raw_query" yaml:"raw_query"`

	// Kind is how RawQuery is transmitted. A DOI request reports KindArxivID.
	Kind IdentifierKind `json:"kind" yaml:"kind"`

	Offset    int       `json:"offset" yaml:"offset"`
	PageSize  int       `json:"page_size" yaml:"page_size"`
	SortBy    SortField `json:"sort_by" yaml:"sort_by"`
	SortOrder SortOrder `json:"sort_order" yaml:"sort_order"`
}

// SearchExpression returns the search_query value for the request.
func (q QueryRequest) SearchExpression() string {
	switch q.Kind {
	case KindArxivID:
		return "id:" + q.RawQuery
	case KindStructured:
		return q.RawQuery
	default:
		return "all:" + q.RawQuery
	}
}

// Params returns the upstream parameters in transmission order.
func (q QueryRequest) Params() []Param {
	return []Param{
		{Name: "search_query", Value: q.SearchExpression()},
		{Name: "start", Value: strconv.Itoa(q.Offset)},
		{Name: "max_results", Value: strconv.Itoa(q.PageSize)},
		{Name: "sortBy", Value: string(q.SortBy)},
		{Name: "sortOrder", Value: string(q.SortOrder)},
	}
}

// Values returns Params as url.Values, ready for percent-encoding.
func (q QueryRequest) Values() url.Values {
	v := make(url.Values, 5)
	for _, p := range q.Params() {
		v.Set(p.Name, p.Value)
	}
	return v
}

// NormalizedPaper is one arXiv entry in the service's canonical shape.
type NormalizedPaper struct {
	// ID is the upstream identifier exactly as received
	// (e.g. "http://arxiv.org/abs/2301.07041v1").
	ID string `json:"id" yaml:"id"`

	Title   string `json:"title" yaml:"title"`
	Summary string `json:"summary" yaml:"summary"`

	// Authors lists author names in upstream order, duplicates included.
	Authors []string `json:"authors" yaml:"authors"`

	// Categories lists the entry's category terms in upstream order.
	Categories []string `json:"categories" yaml:"categories"`

	// Link is the abstract page (rel="alternate").
	Link string `json:"link" yaml:"link"`

	// PDFURL is the rel="related" title="pdf" link, empty when absent.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`
}

// SavedPaper is a NormalizedPaper persisted in the papers table.
type SavedPaper struct {
	// ID is the local row id, used in API paths.
	ID int64 `json:"id" yaml:"id"`

	// ArxivID is NormalizedPaper.ID.
	ArxivID    string    `json:"arxiv_id" yaml:"arxiv_id"`
	Title      string    `json:"title" yaml:"title"`
	Summary    string    `json:"summary" yaml:"summary"`
	Authors    []string  `json:"authors" yaml:"authors"`
	Categories []string  `json:"categories" yaml:"categories"`
	Link       string    `json:"link" yaml:"link"`
	PDFURL     string    `json:"pdf_url" yaml:"pdf_url"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// UserPaper is a paper saved by a user, with the user's notes.
type UserPaper struct {
	UserID  int64      `json:"user_id" yaml:"user_id"`
	Paper   SavedPaper `json:"paper" yaml:"paper"`
	Notes   string     `json:"notes" yaml:"notes"`
	SavedAt time.Time  `json:"saved_at" yaml:"saved_at"`
}
