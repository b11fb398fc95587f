// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/pdiddy/paperdesk/pkg/types"
)

// NewUser carries the fields accepted when registering an account.
type NewUser struct {
	Email    string
	Password string
	Name     string
}

// CreateUser hashes the password with bcrypt and inserts an active user.
// Emails are compared case-insensitively; a second registration with the
// same email returns ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, nu NewUser) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(nu.Email))
	if email == "" {
		return nil, fmt.Errorf("creating user: email is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &types.User{
		Email:        email,
		Name:         strings.TrimSpace(nu.Name),
		PasswordHash: string(hash),
		IsActive:     true,
	}
	created := s.timestamp()
	u.CreatedAt = parseTime(created)

	err = s.db.QueryRowContext(ctx, s.rebind(
		`INSERT INTO users (email, password_hash, name, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`),
		u.Email, u.PasswordHash, u.Name, u.IsActive, created,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %s: %w", email, ErrDuplicate)
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	return u, nil
}

// GetUser returns the user with the given id.
func (s *Store) GetUser(ctx context.Context, id int64) (*types.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, s.rebind(
		`SELECT id, email, password_hash, name, is_active, created_at FROM users WHERE id = ?`), id))
}

// GetUserByEmail returns the user registered under email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, s.rebind(
		`SELECT id, email, password_hash, name, is_active, created_at FROM users WHERE email = ?`),
		strings.ToLower(strings.TrimSpace(email))))
}

// Authenticate returns the user when password matches the stored hash.
// Unknown emails and wrong passwords both return ErrNotFound.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*types.User, error) {
	u, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("user %s: %w", u.Email, ErrNotFound)
	}
	return u, nil
}

func (s *Store) scanUser(row *sql.Row) (*types.User, error) {
	var (
		u       types.User
		created string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.IsActive, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("reading user: %w", err)
	}
	u.CreatedAt = parseTime(created)
	return &u, nil
}
