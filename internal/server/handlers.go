// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"fmt"
	"net/http"
	"strconv"

	restful "github.com/emicklei/go-restful/v3"
)

// MessageResponse carries a single human-readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports process and database status.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// Root handles GET /
func (s *Server) Root(req *restful.Request, resp *restful.Response) {
	_ = resp.WriteEntity(MessageResponse{Message: "Welcome to the paperdesk API"})
}

// Hello handles GET /hello/{name}
func (s *Server) Hello(req *restful.Request, resp *restful.Response) {
	_ = resp.WriteEntity(MessageResponse{Message: "Hello " + req.PathParameter("name")})
}

// Health handles GET /api/v1/health
func (s *Server) Health(req *restful.Request, resp *restful.Response) {
	health := HealthResponse{Status: "ok", Version: s.opts.Version, Database: "ok"}
	code := http.StatusOK
	if err := s.store.Ping(req.Request.Context()); err != nil {
		s.logger.Warn().Err(err).Msg("Database ping failed")
		health.Status = "degraded"
		health.Database = "unavailable"
		code = http.StatusServiceUnavailable
	}
	_ = resp.WriteHeaderAndEntity(code, health)
}

// readBody decodes and validates the JSON request body into dst.
func (s *Server) readBody(req *restful.Request, dst any) error {
	if err := req.ReadEntity(dst); err != nil {
		return fmt.Errorf("%w: decoding body: %v", errInvalidRequest, err)
	}
	return s.validate.Struct(dst)
}

func pathID(req *restful.Request, name string) (int64, error) {
	raw := req.PathParameter(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", errInvalidRequest, name, raw)
	}
	return id, nil
}

func queryInt(req *restful.Request, name string) (int, error) {
	raw := req.QueryParameter(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer, got %q", errInvalidRequest, name, raw)
	}
	return n, nil
}
