// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"fmt"
	"strings"

	"github.com/pdiddy/paperdesk/pkg/types"
)

// DOIPrefix is the DataCite prefix arXiv assigns to its papers.
const DOIPrefix = "10.48550/arXiv."

const (
	// DefaultPageSize is used when the caller passes a page size of 0.
	DefaultPageSize = 10

	// MaxPageSize is the largest max_results the service sends upstream.
	MaxPageSize = 200
)

// Build turns a caller query into a canonical QueryRequest.
//
// A DOI must carry the arXiv DOI prefix; the prefix is stripped and the
// request continues as an arXiv id lookup. Page sizes outside [1, MaxPageSize]
// are clamped, 0 selects DefaultPageSize, and a negative offset becomes 0.
// Empty sort parameters default to submittedDate/descending.
func Build(raw string, kind types.IdentifierKind, offset, pageSize int, sortBy types.SortField, sortOrder types.SortOrder) (types.QueryRequest, error) {
	raw = strings.TrimSpace(raw)

	switch kind {
	case types.KindDOI:
		id, err := StripDOI(raw)
		if err != nil {
			return types.QueryRequest{}, err
		}
		raw, kind = id, types.KindArxivID
	case types.KindArxivID, types.KindFreeText, types.KindStructured:
	case "":
		kind = types.KindFreeText
	default:
		return types.QueryRequest{}, fmt.Errorf("%w: identifier kind %q", ErrInvalidParameter, kind)
	}

	if raw == "" {
		return types.QueryRequest{}, ErrEmptyQuery
	}

	by, err := sortField(sortBy)
	if err != nil {
		return types.QueryRequest{}, err
	}
	order, err := sortDirection(sortOrder)
	if err != nil {
		return types.QueryRequest{}, err
	}

	return types.QueryRequest{
		RawQuery:  raw,
		Kind:      kind,
		Offset:    max(offset, 0),
		PageSize:  clampPageSize(pageSize),
		SortBy:    by,
		SortOrder: order,
	}, nil
}

// StripDOI returns the arXiv id carried by an arXiv DOI
// ("10.48550/arXiv.2411.18585" → "2411.18585"). The prefix is matched
// case-insensitively.
func StripDOI(doi string) (string, error) {
	doi = strings.TrimSpace(doi)
	if len(doi) < len(DOIPrefix) || !strings.EqualFold(doi[:len(DOIPrefix)], DOIPrefix) {
		return "", fmt.Errorf("%w: %q does not start with %s", ErrMalformedIdentifier, doi, DOIPrefix)
	}
	id := strings.TrimSpace(doi[len(DOIPrefix):])
	if id == "" {
		return "", fmt.Errorf("%w: %q has no arXiv id after the prefix", ErrMalformedIdentifier, doi)
	}
	return id, nil
}

// IsDOI reports whether s carries the arXiv DOI prefix.
func IsDOI(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) >= len(DOIPrefix) && strings.EqualFold(s[:len(DOIPrefix)], DOIPrefix)
}

func clampPageSize(n int) int {
	switch {
	case n == 0:
		return DefaultPageSize
	case n < 1:
		return 1
	case n > MaxPageSize:
		return MaxPageSize
	default:
		return n
	}
}

func sortField(f types.SortField) (types.SortField, error) {
	switch f {
	case "":
		return types.SortSubmittedDate, nil
	case types.SortRelevance, types.SortLastUpdated, types.SortSubmittedDate:
		return f, nil
	default:
		return "", fmt.Errorf("%w: sortBy %q", ErrInvalidParameter, f)
	}
}

func sortDirection(o types.SortOrder) (types.SortOrder, error) {
	switch o {
	case "":
		return types.SortDescending, nil
	case types.SortAscending, types.SortDescending:
		return o, nil
	default:
		return "", fmt.Errorf("%w: sortOrder %q", ErrInvalidParameter, o)
	}
}
