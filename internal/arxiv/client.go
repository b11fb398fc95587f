// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv builds arXiv API queries and normalizes the responses into
// types.NormalizedPaper records.
//
// Build and Normalize are pure. Client is the thin HTTP collaborator that
// sends a built query and feeds the payload through a Decoder.
package arxiv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperdesk/internal/httputil"
	"github.com/pdiddy/paperdesk/pkg/types"
)

// DefaultBaseURL is the public arXiv query endpoint.
const DefaultBaseURL = "http://export.arxiv.org/api/query"

// errorEntryPrefix starts the id of the entry arXiv returns in place of
// results when it rejects a query.
const errorEntryPrefix = "http://arxiv.org/api/errors"

// Client sends queries to the arXiv API. It is safe for concurrent use.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	decoder   Decoder
	logger    zerolog.Logger
}

// NewClient builds a Client from cfg. A zero Timeout means 30s and an empty
// BaseURL means DefaultBaseURL.
func NewClient(cfg types.ArxivConfig, logger zerolog.Logger) (*Client, error) {
	dec, err := NewDecoder(cfg.Decoder)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		http:      &http.Client{Timeout: timeout},
		baseURL:   baseURL,
		userAgent: cfg.UserAgent,
		decoder:   dec,
		logger:    logger.With().Str("component", "arxiv").Logger(),
	}, nil
}

// WithHTTPClient returns a copy of c that sends requests through hc.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	cp := *c
	cp.http = hc
	return &cp
}

// Search sends q and returns the normalized entries in upstream order.
func (c *Client) Search(ctx context.Context, q types.QueryRequest) ([]types.NormalizedPaper, error) {
	url := c.URL(q)

	body, err := httputil.Get(ctx, c.http, url, c.userAgent)
	if err != nil {
		var se *httputil.StatusError
		if errors.As(err, &se) {
			return nil, &StatusError{Code: se.Code}
		}
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}

	entries, err := c.decoder.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	papers := Normalize(entries)

	c.logger.Debug().
		Str("search_query", q.SearchExpression()).
		Int("entries", len(entries)).
		Int("normalized", len(papers)).
		Int("dropped", len(entries)-len(papers)).
		Msg("arXiv search")

	return papers, nil
}

// Lookup fetches a single paper by arXiv id or arXiv DOI.
func (c *Client) Lookup(ctx context.Context, identifier string) (*types.NormalizedPaper, error) {
	kind := types.KindArxivID
	if IsDOI(identifier) {
		kind = types.KindDOI
	}

	q, err := Build(identifier, kind, 0, 1, types.SortRelevance, types.SortDescending)
	if err != nil {
		return nil, err
	}

	papers, err := c.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, q.RawQuery)
	}
	if strings.HasPrefix(papers[0].ID, errorEntryPrefix) {
		return nil, fmt.Errorf("%w: %s: %s", ErrNotFound, q.RawQuery, papers[0].Summary)
	}
	return &papers[0], nil
}

// URL returns the full request URL for q.
func (c *Client) URL(q types.QueryRequest) string {
	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + q.Values().Encode()
}
