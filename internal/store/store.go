// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists users, posts, and saved papers with notes in a
// relational database. SQLite (mattn/go-sqlite3) is the default backend;
// PostgreSQL is reached through the pgx database/sql driver.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paperdesk/pkg/types"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"

	// DefaultDSN is the SQLite file used when no DSN is configured.
	DefaultDSN = "paperdesk.db"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique column already holds the value.
	ErrDuplicate = errors.New("already exists")
)

// dialect captures the SQL differences between the two backends.
type dialect struct {
	driver string

	// serial is the column definition of an auto-generated primary key.
	serial string

	// numbered placeholders ($1, $2) instead of ?.
	numbered bool
}

var dialects = map[string]dialect{
	DriverSQLite:   {driver: DriverSQLite, serial: "INTEGER PRIMARY KEY AUTOINCREMENT"},
	DriverPostgres: {driver: DriverPostgres, serial: "BIGSERIAL PRIMARY KEY", numbered: true},
}

// Store wraps the database handle. It is safe for concurrent use.
type Store struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

// Open connects to the configured database and creates the schema if it
// does not exist. An empty driver selects SQLite; an empty DSN selects
// DefaultDSN.
func Open(ctx context.Context, cfg types.DatabaseConfig) (*Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverSQLite
	}
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q: use %s or %s", driver, DriverSQLite, DriverPostgres)
	}

	dsn := cfg.DSN
	if driver == DriverSQLite {
		var err error
		if dsn, err = sqliteDSN(dsn); err != nil {
			return nil, err
		}
	} else if dsn == "" {
		return nil, fmt.Errorf("database dsn is required for driver %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if driver == DriverSQLite {
		// One writer avoids SQLITE_BUSY under concurrent requests.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, dialect: d, now: time.Now}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// sqliteDSN creates the parent directory of the database file and applies
// the default pragmas when the DSN carries no options of its own.
func sqliteDSN(dsn string) (string, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	if strings.Contains(dsn, "?") || strings.HasPrefix(dsn, "file:") || dsn == ":memory:" {
		return dsn, nil
	}
	if dir := filepath.Dir(dsn); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating database directory: %w", err)
		}
	}
	return dsn + "?_journal_mode=WAL&_foreign_keys=on", nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Driver returns the database/sql driver name in use.
func (s *Store) Driver() string {
	return s.dialect.driver
}

func (s *Store) createSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id ` + s.dialect.serial + `,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id ` + s.dialect.serial + `,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			id ` + s.dialect.serial + `,
			arxiv_id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT '',
			authors TEXT NOT NULL DEFAULT '[]',
			categories TEXT NOT NULL DEFAULT '[]',
			link TEXT NOT NULL DEFAULT '',
			pdf_url TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_papers (
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			paper_id BIGINT NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
			notes TEXT NOT NULL DEFAULT '',
			saved_at TEXT NOT NULL,
			PRIMARY KEY (user_id, paper_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_user_papers_paper_id ON user_papers(paper_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL. Queries in this
// package never contain a literal question mark.
func (s *Store) rebind(query string) string {
	if !s.dialect.numbered {
		return query
	}
	return rebindNumbered(query)
}

func rebindNumbered(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) timestamp() string {
	return formatTime(s.now())
}

// timeLayout keeps a fixed-width fraction so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

// isUniqueViolation reports whether err is a unique-constraint failure from
// either backend.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe.Code == "23505"
	}
	return false
}
