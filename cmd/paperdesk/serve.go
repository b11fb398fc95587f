// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperdesk/internal/arxiv"
	"github.com/pdiddy/paperdesk/internal/server"
	"github.com/pdiddy/paperdesk/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve starts the JSON API: posts, users, arXiv search and lookup, and
per-user saved papers. The OpenAPI document is served at ` + server.OpenAPIPath + `.
SIGINT or SIGTERM triggers a graceful shutdown.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()
	logger.Info().Str("driver", st.Driver()).Msg("Database connected")

	client, err := arxiv.NewClient(cfg.Arxiv, logger)
	if err != nil {
		return err
	}

	srv := server.New(st, client, logger, server.Options{
		Version:     version,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("address", cfg.Server.Addr).Msg("Starting server")
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func init() {
	serveCmd.Flags().String("addr", ":8000", "listen address")
	if err := viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(serveCmd)
}
