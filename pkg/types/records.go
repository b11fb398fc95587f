// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// User is a registered account. PasswordHash never leaves the store layer
// in API responses.
type User struct {
	ID           int64     `json:"id" yaml:"id"`
	Email        string    `json:"email" yaml:"email"`
	Name         string    `json:"name,omitempty" yaml:"name,omitempty"`
	PasswordHash string    `json:"-" yaml:"-"`
	IsActive     bool      `json:"is_active" yaml:"is_active"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// Post is a titled text record.
type Post struct {
	ID        int64     `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}
