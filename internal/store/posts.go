// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pdiddy/paperdesk/pkg/types"
)

// CreatePost inserts a post and returns it with its id and timestamps.
func (s *Store) CreatePost(ctx context.Context, title, content string) (*types.Post, error) {
	now := s.timestamp()
	p := &types.Post{Title: title, Content: content, CreatedAt: parseTime(now), UpdatedAt: parseTime(now)}

	err := s.db.QueryRowContext(ctx, s.rebind(
		`INSERT INTO posts (title, content, created_at, updated_at) VALUES (?, ?, ?, ?) RETURNING id`),
		title, content, now, now,
	).Scan(&p.ID)
	if err != nil {
		return nil, fmt.Errorf("inserting post: %w", err)
	}
	return p, nil
}

// ListPosts returns posts newest first, skipping offset posts. A limit of
// zero or less returns every remaining post.
func (s *Store) ListPosts(ctx context.Context, offset, limit int) ([]types.Post, error) {
	query := `SELECT id, title, content, created_at, updated_at FROM posts ORDER BY id DESC`
	var args []any
	switch {
	case limit > 0:
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, max(offset, 0))
	case offset > 0:
		// SQLite only accepts OFFSET after a LIMIT; -1 means no limit.
		if s.dialect.numbered {
			query += ` OFFSET ?`
		} else {
			query += ` LIMIT -1 OFFSET ?`
		}
		args = append(args, offset)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	posts := []types.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posts: %w", err)
	}
	return posts, nil
}

// GetPost returns the post with the given id.
func (s *Store) GetPost(ctx context.Context, id int64) (*types.Post, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT id, title, content, created_at, updated_at FROM posts WHERE id = ?`), id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	return p, err
}

// UpdatePost replaces the title and content of an existing post.
func (s *Store) UpdatePost(ctx context.Context, id int64, title, content string) (*types.Post, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE posts SET title = ?, content = ?, updated_at = ? WHERE id = ?`),
		title, content, s.timestamp(), id)
	if err != nil {
		return nil, fmt.Errorf("updating post %d: %w", id, err)
	}
	if err := expectRow(res, fmt.Sprintf("post %d", id)); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, id)
}

// DeletePost removes a post.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM posts WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting post %d: %w", id, err)
	}
	return expectRow(res, fmt.Sprintf("post %d", id))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(sc scanner) (*types.Post, error) {
	var (
		p                types.Post
		created, updated string
	)
	if err := sc.Scan(&p.ID, &p.Title, &p.Content, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("reading post: %w", err)
	}
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return &p, nil
}

// expectRow returns ErrNotFound when an UPDATE or DELETE touched nothing.
func expectRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
