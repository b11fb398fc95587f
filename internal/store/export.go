// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ExportEntry is one saved paper in a library export.
type ExportEntry struct {
	ArxivID    string   `json:"arxiv_id" yaml:"arxiv_id"`
	Title      string   `json:"title" yaml:"title"`
	Authors    []string `json:"authors" yaml:"authors"`
	Categories []string `json:"categories" yaml:"categories"`
	Link       string   `json:"link" yaml:"link"`
	PDFURL     string   `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`
	Notes      string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	SavedAt    string   `json:"saved_at" yaml:"saved_at"`
}

// ExportUserPapers writes the user's library to w in the given format.
// It supports the same filters as ListUserPapers.
func (s *Store) ExportUserPapers(ctx context.Context, w io.Writer, userID int64, format string, f PaperFilter) error {
	papers, err := s.ListUserPapers(ctx, userID, f)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(papers))
	for i, up := range papers {
		entries[i] = ExportEntry{
			ArxivID:    up.Paper.ArxivID,
			Title:      up.Paper.Title,
			Authors:    up.Paper.Authors,
			Categories: up.Paper.Categories,
			Link:       up.Paper.Link,
			PDFURL:     up.Paper.PDFURL,
			Notes:      up.Notes,
			SavedAt:    formatTime(up.SavedAt),
		}
	}

	switch format {
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown export format %q: use %s or %s", format, FormatYAML, FormatJSON)
	}
}
