// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"
	"runtime/debug"
	"time"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the request id, echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// requestLogger logs method, path, status, duration, and request id for
// every request. A missing X-Request-ID is generated.
func requestLogger(logger zerolog.Logger) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		start := time.Now()
		requestID := req.Request.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		resp.Header().Set(RequestIDHeader, requestID)

		chain.ProcessFilter(req, resp)

		status := resp.StatusCode()
		ev := logger.Info()
		if status >= http.StatusInternalServerError {
			ev = logger.Error()
		}
		ev.Str("request_id", requestID).
			Str("method", req.Request.Method).
			Str("path", req.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("Request")
	}
}

// recoverPanic turns a handler panic into a 500 response.
func recoverPanic(logger zerolog.Logger) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Interface("panic", r).
					Str("path", req.Request.URL.Path).
					Bytes("stack", debug.Stack()).
					Msg("Handler panicked")
				writeErrorResponse(resp, ErrorResponse{
					Error: "internal error",
					Code:  http.StatusInternalServerError,
				})
			}
		}()
		chain.ProcessFilter(req, resp)
	}
}
