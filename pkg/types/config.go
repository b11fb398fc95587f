// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paperdesk/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// DecoderName selects the arXiv payload adapter.
type DecoderName string

const (
	// DecoderAtom decodes the raw Atom markup with encoding/xml.
	DecoderAtom DecoderName = "atom"

	// DecoderFeed decodes through the gofeed Atom parser.
	DecoderFeed DecoderName = "feed"
)

// ArxivConfig holds settings for the arXiv upstream client.
type ArxivConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the arXiv query endpoint.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Decoder selects the payload adapter: atom or feed.
	Decoder DecoderName `json:"decoder" yaml:"decoder"`
}

// DatabaseConfig selects the relational backend.
type DatabaseConfig struct {
	// Driver is the database/sql driver name: sqlite3 or pgx.
	Driver string `json:"driver" yaml:"driver"`

	// DSN is the data source name. For sqlite3 a file path, for pgx a
	// postgres:// connection string.
	DSN string `json:"-" yaml:"-"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr         string        `json:"addr" yaml:"addr"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`

	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	// Level is a zerolog level name (debug, info, warn, error).
	Level string `json:"level" yaml:"level"`

	// Format is console or json.
	Format string `json:"format" yaml:"format"`
}

// Config groups every component configuration.
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Database DatabaseConfig `json:"database" yaml:"database"`
	Arxiv    ArxivConfig    `json:"arxiv" yaml:"arxiv"`
	Log      LogConfig      `json:"log" yaml:"log"`
}
