// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperdesk/internal/arxiv"
	"github.com/pdiddy/paperdesk/internal/store"
	"github.com/pdiddy/paperdesk/pkg/types"
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "Manage a user's saved papers (save, list, export)",
	Long: `Papers works on the per-user library in the configured database. Saved
papers carry the user's notes.`,
}

// --- save subcommand ---

var papersSaveCmd = &cobra.Command{
	Use:   "save <arxiv-id|doi>",
	Short: "Fetch a paper from arXiv and save it to a user's library",
	Args:  cobra.ExactArgs(1),
	RunE:  runPapersSave,
}

func runPapersSave(cmd *cobra.Command, args []string) error {
	notes, _ := cmd.Flags().GetString("notes")
	userID, err := userFlag(cmd)
	if err != nil {
		return err
	}

	cfg := currentConfig()
	client, err := arxiv.NewClient(cfg.Arxiv, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	paper, err := client.Lookup(ctx, args[0])
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	saved, err := st.SavePaper(ctx, userID, *paper, notes)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %q as paper %d for user %d\n", saved.Paper.Title, saved.Paper.ID, userID)
	return nil
}

// --- list subcommand ---

var papersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's saved papers with notes",
	RunE:  runPapersList,
}

func runPapersList(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	userID, err := userFlag(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	st, err := store.Open(ctx, currentConfig().Database)
	if err != nil {
		return err
	}
	defer st.Close()

	papers, err := st.ListUserPapers(ctx, userID, filterFromFlags(cmd))
	if err != nil {
		return err
	}
	return formatUserPapers(cmd.OutOrStdout(), papers, jsonOutput)
}

func formatUserPapers(w io.Writer, papers []types.UserPaper, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, papers)
	}

	if len(papers) == 0 {
		fmt.Fprintln(w, "No saved papers.")
		return nil
	}

	fmt.Fprintf(w, "%-6s  %-50s  %-12s  %s\n", "ID", "Title", "Saved", "Notes")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, up := range papers {
		fmt.Fprintf(w, "%-6d  %-50s  %-12s  %s\n",
			up.Paper.ID, truncate(up.Paper.Title, 50), up.SavedAt.Format("2006-01-02"), truncate(up.Notes, 36))
	}

	fmt.Fprintf(w, "\n%d papers\n", len(papers))
	return nil
}

// --- export subcommand ---

var papersExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's saved papers to YAML or JSON",
	Long: `Export writes the user's library (or a filtered subset) to --out, or to
stdout when --out is empty or "-".`,
	RunE: runPapersExport,
}

func runPapersExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	userID, err := userFlag(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	st, err := store.Open(ctx, currentConfig().Database)
	if err != nil {
		return err
	}
	defer st.Close()

	w := cmd.OutOrStdout()
	if out != "" && out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	if err := st.ExportUserPapers(ctx, w, userID, format, filterFromFlags(cmd)); err != nil {
		return err
	}
	if out != "" && out != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", out)
	}
	return nil
}

// --- shared helpers ---

func userFlag(cmd *cobra.Command) (int64, error) {
	id, _ := cmd.Flags().GetInt64("user")
	if id < 1 {
		return 0, fmt.Errorf("--user is required and must be a positive user id")
	}
	return id, nil
}

func filterFromFlags(cmd *cobra.Command) store.PaperFilter {
	text, _ := cmd.Flags().GetString("query")
	category, _ := cmd.Flags().GetString("category")
	limit, _ := cmd.Flags().GetInt("limit")
	return store.PaperFilter{Text: text, Category: category, Limit: limit}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	papersCmd.PersistentFlags().Int64("user", 0, "user id owning the library")

	papersSaveCmd.Flags().String("notes", "", "notes to attach to the saved paper")

	for _, c := range []*cobra.Command{papersListCmd, papersExportCmd} {
		c.Flags().String("query", "", "filter by substring of title or summary")
		c.Flags().String("category", "", "filter by category term (e.g. cs.CL)")
		c.Flags().Int("limit", 0, "maximum papers (0 = all)")
	}
	papersListCmd.Flags().Bool("json", false, "output papers as JSON")

	papersExportCmd.Flags().String("format", store.FormatYAML, "export format: yaml or json")
	papersExportCmd.Flags().String("out", "", "output file (default stdout)")

	// Wire subcommands.
	papersCmd.AddCommand(papersSaveCmd)
	papersCmd.AddCommand(papersListCmd)
	papersCmd.AddCommand(papersExportCmd)

	rootCmd.AddCommand(papersCmd)
}
