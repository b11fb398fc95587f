// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperdesk/internal/arxiv"
	"github.com/pdiddy/paperdesk/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search arXiv and print normalized papers",
	Long: `Search translates the query into an arXiv API request and prints the
normalized results. Free text searches all fields; --kind arxiv_id or doi
fetches by identifier; --kind structured passes an arXiv query expression
such as "ti:attention AND cat:cs.CL" through unchanged.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	offset, _ := cmd.Flags().GetInt("offset")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	sortBy, _ := cmd.Flags().GetString("sort-by")
	sortOrder, _ := cmd.Flags().GetString("sort-order")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	q, err := arxiv.Build(strings.Join(args, " "), types.IdentifierKind(kind), offset, maxResults,
		types.SortField(sortBy), types.SortOrder(sortOrder))
	if err != nil {
		return err
	}

	client, err := arxiv.NewClient(currentConfig().Arxiv, logger)
	if err != nil {
		return err
	}

	papers, err := client.Search(context.Background(), q)
	if err != nil {
		return err
	}
	return formatPapers(cmd.OutOrStdout(), papers, jsonOutput)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <arxiv-id|doi>",
	Short: "Fetch one paper by arXiv id or DOI",
	Long: `Lookup fetches a single paper. DOIs of the form 10.48550/arXiv.<id> are
reduced to the arXiv id before querying.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	client, err := arxiv.NewClient(currentConfig().Arxiv, logger)
	if err != nil {
		return err
	}

	paper, err := client.Lookup(context.Background(), args[0])
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), paper)
	}
	return formatPaperDetail(cmd.OutOrStdout(), paper)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatPapers prints search results as a table or JSON.
func formatPapers(w io.Writer, papers []types.NormalizedPaper, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, papers)
	}

	if len(papers) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-25s  %s\n", "Rank", "Title", "Authors", "ID")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, p := range papers {
		fmt.Fprintf(w, "%-4d  %-60s  %-25s  %s\n",
			i+1, truncate(p.Title, 60), truncate(authorSummary(p.Authors), 25), p.ID)
	}

	fmt.Fprintf(w, "\n%d results\n", len(papers))
	return nil
}

func formatPaperDetail(w io.Writer, p *types.NormalizedPaper) error {
	fmt.Fprintf(w, "ID:         %s\n", p.ID)
	fmt.Fprintf(w, "Title:      %s\n", p.Title)
	fmt.Fprintf(w, "Authors:    %s\n", strings.Join(p.Authors, ", "))
	if len(p.Categories) > 0 {
		fmt.Fprintf(w, "Categories: %s\n", strings.Join(p.Categories, ", "))
	}
	fmt.Fprintf(w, "Link:       %s\n", p.Link)
	if p.PDFURL != "" {
		fmt.Fprintf(w, "PDF:        %s\n", p.PDFURL)
	}
	fmt.Fprintf(w, "\n%s\n", p.Summary)
	return nil
}

// authorSummary renders "First Author et al." for more than two authors.
func authorSummary(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1, 2:
		return strings.Join(authors, ", ")
	default:
		return authors[0] + " et al."
	}
}

// truncate shortens s to n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	searchCmd.Flags().String("kind", string(types.KindFreeText), "query kind: free_text, arxiv_id, doi, structured")
	searchCmd.Flags().Int("offset", 0, "zero-based index of the first result")
	searchCmd.Flags().Int("max-results", arxiv.DefaultPageSize, fmt.Sprintf("results per page (1-%d)", arxiv.MaxPageSize))
	searchCmd.Flags().String("sort-by", string(types.SortSubmittedDate), "sort field: relevance, lastUpdatedDate, submittedDate")
	searchCmd.Flags().String("sort-order", string(types.SortDescending), "sort order: ascending or descending")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	lookupCmd.Flags().Bool("json", false, "output the paper as JSON")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(lookupCmd)
}
