// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperdesk CLI and API server.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperdesk/internal/logging"
	"github.com/pdiddy/paperdesk/internal/secrets"
	"github.com/pdiddy/paperdesk/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// secretsDir holds credential files such as database-dsn.
const secretsDir = ".secrets/"

var (
	// logger is configured in PersistentPreRunE from log.level and log.format.
	logger = zerolog.Nop()

	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets secrets.Secrets
)

// rootCmd is the base command for the paperdesk CLI.
var rootCmd = &cobra.Command{
	Use:   "paperdesk",
	Short: "arXiv search, saved-paper libraries, and a small posts/users API",
	Long: `paperdesk translates searches into arXiv API queries and normalizes the
Atom responses into flat paper records. It serves them over an HTTP API
alongside posts, users, and per-user saved-paper libraries with notes.

Run "paperdesk serve" for the API, or use search, lookup, and papers from
the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(types.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		})

		s, err := secrets.Load(secretsDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if keys := s.Keys(); len(keys) > 0 {
			logger.Debug().Strs("keys", keys).Msg("Loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./paperdesk.yaml or ~/.config/paperdesk/paperdesk.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "console", "log format: console or json")
	flags.String("db-driver", "", "database driver: sqlite3 or pgx")
	flags.String("db-dsn", "", "database DSN (sqlite file path or postgres:// URL)")

	bindFlag("log.level", "log-level")
	bindFlag("log.format", "log-format")
	bindFlag("database.driver", "db-driver")
	bindFlag("database.dsn", "db-dsn")

	setDefaults(viper.GetViper())
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() {
	// .env values become process environment before viper reads it.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperdesk")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperdesk"))
		}
	}

	viper.SetEnvPrefix("PAPERDESK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
