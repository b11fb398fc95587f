// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedIdentifier is returned when a DOI does not carry an arXiv id.
	ErrMalformedIdentifier = errors.New("malformed identifier")

	// ErrUpstreamPayloadUnreadable is returned when an arXiv response cannot
	// be decomposed into entries at all.
	ErrUpstreamPayloadUnreadable = errors.New("upstream payload unreadable")

	// ErrEmptyQuery is returned when the query has no searchable text.
	ErrEmptyQuery = errors.New("empty arXiv query")

	// ErrInvalidParameter is returned for an unknown kind, sortBy or sortOrder.
	ErrInvalidParameter = errors.New("invalid query parameter")

	// ErrNotFound is returned by Lookup when arXiv has no matching entry.
	ErrNotFound = errors.New("paper not found")
)

// StatusError reports a non-200 response from arXiv.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("arXiv API returned HTTP %d", e.Code)
}
