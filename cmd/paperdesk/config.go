// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/paperdesk/internal/arxiv"
	"github.com/pdiddy/paperdesk/internal/secrets"
	"github.com/pdiddy/paperdesk/internal/store"
	"github.com/pdiddy/paperdesk/pkg/types"
)

// setDefaults registers every configuration key with its default. The
// database DSN has no viper default so the secrets file can supply it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.driver", store.DriverSQLite)

	v.SetDefault("arxiv.base_url", arxiv.DefaultBaseURL)
	v.SetDefault("arxiv.timeout", 30*time.Second)
	v.SetDefault("arxiv.user_agent", "")
	v.SetDefault("arxiv.decoder", string(types.DecoderAtom))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// loadConfig assembles the typed configuration from v. Values from flags,
// environment, or the config file win over secrets.
func loadConfig(v *viper.Viper, sec secrets.Secrets) types.Config {
	userAgent := v.GetString("arxiv.user_agent")
	if userAgent == "" {
		userAgent = "paperdesk/" + version
	}

	dsn := sec.Get(secrets.DatabaseDSN, v.GetString("database.dsn"))
	if dsn == "" && v.GetString("database.driver") == store.DriverSQLite {
		dsn = store.DefaultDSN
	}

	return types.Config{
		Server: types.ServerConfig{
			Addr:         v.GetString("server.addr"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			CORSOrigins:  v.GetStringSlice("server.cors_origins"),
		},
		Database: types.DatabaseConfig{
			Driver: v.GetString("database.driver"),
			DSN:    dsn,
		},
		Arxiv: types.ArxivConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("arxiv.timeout"),
				UserAgent: userAgent,
			},
			BaseURL: v.GetString("arxiv.base_url"),
			Decoder: types.DecoderName(v.GetString("arxiv.decoder")),
		},
		Log: types.LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
}

// currentConfig reads the process-wide viper instance.
func currentConfig() types.Config {
	return loadConfig(viper.GetViper(), loadedSecrets)
}
