// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes posts, users, arXiv search, and saved-paper
// libraries over a JSON HTTP API built on go-restful.
package server

import (
	"context"
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/pdiddy/paperdesk/internal/store"
	"github.com/pdiddy/paperdesk/pkg/types"
)

// OpenAPIPath serves the generated OpenAPI document.
const OpenAPIPath = "/api/v1/openapi.json"

// PaperSearcher queries the upstream paper index. *arxiv.Client satisfies it.
type PaperSearcher interface {
	Search(ctx context.Context, q types.QueryRequest) ([]types.NormalizedPaper, error)
	Lookup(ctx context.Context, identifier string) (*types.NormalizedPaper, error)
}

// Options tunes the HTTP surface.
type Options struct {
	// Version is reported by the health endpoint and the OpenAPI document.
	Version string

	// CORSOrigins lists allowed origins. Empty allows any.
	CORSOrigins []string
}

// Server holds the handler dependencies.
type Server struct {
	store    *store.Store
	papers   PaperSearcher
	logger   zerolog.Logger
	validate *validator.Validate
	opts     Options
}

// New wires the handlers. The store and searcher are used concurrently by
// request goroutines.
func New(st *store.Store, papers PaperSearcher, logger zerolog.Logger, opts Options) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	return &Server{
		store:    st,
		papers:   papers,
		logger:   logger.With().Str("component", "server").Logger(),
		validate: newValidator(),
		opts:     opts,
	}
}

// Container builds the go-restful container with filters, routes, and the
// OpenAPI service.
func (s *Server) Container() *restful.Container {
	container := restful.NewContainer()

	container.Filter(requestLogger(s.logger))
	container.Filter(recoverPanic(s.logger))

	s.RegisterRoutes(container)

	config := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       OpenAPIPath,
		PostBuildSwaggerObjectHandler: s.enrichSwaggerObject,
	}
	container.Add(restfulspec.NewOpenAPIService(config))

	return container
}

// Handler returns the container wrapped with CORS.
func (s *Server) Handler() http.Handler {
	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	return corsHandler.Handler(s.Container())
}

func (s *Server) enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "paperdesk API",
			Description: "Posts, users, arXiv search, and saved-paper libraries",
			Version:     s.opts.Version,
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "posts", Description: "Post records"}},
		{TagProps: spec.TagProps{Name: "users", Description: "User accounts"}},
		{TagProps: spec.TagProps{Name: "papers", Description: "arXiv search and saved papers"}},
	}
}
