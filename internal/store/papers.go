// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/paperdesk/pkg/types"
)

// PaperFilter narrows ListUserPapers. Zero values match everything.
type PaperFilter struct {
	// Text matches a substring of the title or summary, ignoring case.
	Text string

	// Category matches one category term exactly (e.g. "cs.CL").
	Category string

	// Limit caps the number of rows; zero means no cap.
	Limit int
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const userPaperColumns = `up.user_id, up.notes, up.saved_at,
	p.id, p.arxiv_id, p.title, p.summary, p.authors, p.categories, p.link, p.pdf_url, p.created_at`

// SavePaper stores a normalized paper in the user's library with notes.
// The paper row is shared across users and refreshed from np on each save;
// saving a paper the user already holds replaces the notes.
func (s *Store) SavePaper(ctx context.Context, userID int64, np types.NormalizedPaper, notes string) (*types.UserPaper, error) {
	if strings.TrimSpace(np.ID) == "" {
		return nil, fmt.Errorf("saving paper: paper id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.userExists(ctx, tx, userID); err != nil {
		return nil, err
	}

	paperID, err := s.upsertPaper(ctx, tx, np)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, s.rebind(
		`INSERT INTO user_papers (user_id, paper_id, notes, saved_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, paper_id) DO UPDATE SET notes = excluded.notes`),
		userID, paperID, notes, s.timestamp())
	if err != nil {
		return nil, fmt.Errorf("saving paper for user %d: %w", userID, err)
	}

	up, err := s.getUserPaper(ctx, tx, userID, paperID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return up, nil
}

func (s *Store) userExists(ctx context.Context, q querier, userID int64) error {
	var id int64
	err := q.QueryRowContext(ctx, s.rebind(`SELECT id FROM users WHERE id = ?`), userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading user %d: %w", userID, err)
	}
	return nil
}

func (s *Store) upsertPaper(ctx context.Context, q querier, np types.NormalizedPaper) (int64, error) {
	authors, err := encodeList(np.Authors)
	if err != nil {
		return 0, err
	}
	categories, err := encodeList(np.Categories)
	if err != nil {
		return 0, err
	}

	var id int64
	err = q.QueryRowContext(ctx, s.rebind(
		`INSERT INTO papers (arxiv_id, title, summary, authors, categories, link, pdf_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(arxiv_id) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			authors = excluded.authors,
			categories = excluded.categories,
			link = excluded.link,
			pdf_url = excluded.pdf_url
		 RETURNING id`),
		np.ID, np.Title, np.Summary, authors, categories, np.Link, np.PDFURL, s.timestamp(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting paper %s: %w", np.ID, err)
	}
	return id, nil
}

// GetPaper returns a stored paper by its local id.
func (s *Store) GetPaper(ctx context.Context, id int64) (*types.SavedPaper, error) {
	var (
		p                   types.SavedPaper
		authors, categories string
		created             string
	)
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT id, arxiv_id, title, summary, authors, categories, link, pdf_url, created_at
		 FROM papers WHERE id = ?`), id,
	).Scan(&p.ID, &p.ArxivID, &p.Title, &p.Summary, &authors, &categories, &p.Link, &p.PDFURL, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("paper %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading paper %d: %w", id, err)
	}
	p.Authors = decodeList(authors)
	p.Categories = decodeList(categories)
	p.CreatedAt = parseTime(created)
	return &p, nil
}

// GetUserPaper returns one saved paper with the user's notes.
func (s *Store) GetUserPaper(ctx context.Context, userID, paperID int64) (*types.UserPaper, error) {
	return s.getUserPaper(ctx, s.db, userID, paperID)
}

func (s *Store) getUserPaper(ctx context.Context, q querier, userID, paperID int64) (*types.UserPaper, error) {
	row := q.QueryRowContext(ctx, s.rebind(
		`SELECT `+userPaperColumns+`
		 FROM user_papers up JOIN papers p ON p.id = up.paper_id
		 WHERE up.user_id = ? AND up.paper_id = ?`), userID, paperID)
	up, err := scanUserPaper(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("paper %d for user %d: %w", paperID, userID, ErrNotFound)
	}
	return up, err
}

// ListUserPapers returns the user's saved papers, most recently saved
// first. An unknown user returns ErrNotFound.
func (s *Store) ListUserPapers(ctx context.Context, userID int64, f PaperFilter) ([]types.UserPaper, error) {
	if err := s.userExists(ctx, s.db, userID); err != nil {
		return nil, err
	}

	var b strings.Builder
	args := []any{userID}
	b.WriteString(`SELECT ` + userPaperColumns + `
		FROM user_papers up JOIN papers p ON p.id = up.paper_id
		WHERE up.user_id = ?`)

	if f.Text != "" {
		b.WriteString(` AND (LOWER(p.title) LIKE ? ESCAPE '\' OR LOWER(p.summary) LIKE ? ESCAPE '\')`)
		pattern := "%" + likeEscape(strings.ToLower(f.Text)) + "%"
		args = append(args, pattern, pattern)
	}
	if f.Category != "" {
		// categories is a JSON array of strings; match the quoted term.
		b.WriteString(` AND p.categories LIKE ? ESCAPE '\'`)
		args = append(args, `%"`+likeEscape(f.Category)+`"%`)
	}
	b.WriteString(` ORDER BY up.saved_at DESC, p.id DESC`)
	if f.Limit > 0 {
		b.WriteString(` LIMIT ?`)
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(b.String()), args...)
	if err != nil {
		return nil, fmt.Errorf("querying papers for user %d: %w", userID, err)
	}
	defer rows.Close()

	papers := []types.UserPaper{}
	for rows.Next() {
		up, err := scanUserPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, *up)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating papers: %w", err)
	}
	return papers, nil
}

// UpdateNotes replaces the user's notes on a saved paper.
func (s *Store) UpdateNotes(ctx context.Context, userID, paperID int64, notes string) (*types.UserPaper, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE user_papers SET notes = ? WHERE user_id = ? AND paper_id = ?`),
		notes, userID, paperID)
	if err != nil {
		return nil, fmt.Errorf("updating notes: %w", err)
	}
	if err := expectRow(res, fmt.Sprintf("paper %d for user %d", paperID, userID)); err != nil {
		return nil, err
	}
	return s.GetUserPaper(ctx, userID, paperID)
}

// RemoveUserPaper drops a paper from the user's library. The shared paper
// row stays for other users.
func (s *Store) RemoveUserPaper(ctx context.Context, userID, paperID int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(
		`DELETE FROM user_papers WHERE user_id = ? AND paper_id = ?`), userID, paperID)
	if err != nil {
		return fmt.Errorf("removing paper: %w", err)
	}
	return expectRow(res, fmt.Sprintf("paper %d for user %d", paperID, userID))
}

func scanUserPaper(sc scanner) (*types.UserPaper, error) {
	var (
		up                  types.UserPaper
		savedAt, createdAt  string
		authors, categories string
	)
	err := sc.Scan(&up.UserID, &up.Notes, &savedAt,
		&up.Paper.ID, &up.Paper.ArxivID, &up.Paper.Title, &up.Paper.Summary,
		&authors, &categories, &up.Paper.Link, &up.Paper.PDFURL, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("reading saved paper: %w", err)
	}
	up.SavedAt = parseTime(savedAt)
	up.Paper.CreatedAt = parseTime(createdAt)
	up.Paper.Authors = decodeList(authors)
	up.Paper.Categories = decodeList(categories)
	return &up, nil
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encoding list: %w", err)
	}
	return string(data), nil
}

func decodeList(s string) []string {
	items := []string{}
	if s != "" {
		_ = json.Unmarshal([]byte(s), &items)
	}
	return items
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeEscape makes s match literally inside a LIKE ... ESCAPE '\' pattern.
func likeEscape(s string) string {
	return likeEscaper.Replace(s)
}
