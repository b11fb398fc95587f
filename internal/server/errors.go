// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"net/http"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/pdiddy/paperdesk/internal/arxiv"
	"github.com/pdiddy/paperdesk/internal/store"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Details string `json:"details,omitempty"`
}

// errInvalidRequest marks malformed bodies, path ids, and query values.
var errInvalidRequest = errors.New("invalid request")

// statusFor maps an error to its HTTP status and public message.
func statusFor(err error) (int, string) {
	var (
		verrs     validator.ValidationErrors
		upstream  *arxiv.StatusError
		malformed = errors.Is(err, arxiv.ErrMalformedIdentifier) ||
			errors.Is(err, arxiv.ErrEmptyQuery) ||
			errors.Is(err, arxiv.ErrInvalidParameter)
	)
	switch {
	case errors.As(err, &verrs), errors.Is(err, errInvalidRequest):
		return http.StatusBadRequest, "invalid request"
	case malformed:
		return http.StatusBadRequest, "invalid query"
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusBadRequest, "already exists"
	case errors.Is(err, store.ErrNotFound), errors.Is(err, arxiv.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, arxiv.ErrUpstreamPayloadUnreadable):
		return http.StatusBadGateway, "unreadable response from arXiv"
	case errors.As(err, &upstream):
		return http.StatusBadGateway, "error fetching data from arXiv"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// writeError maps err to a status and writes an ErrorResponse. Server
// errors are logged; the cause is not sent to the client.
func writeError(resp *restful.Response, logger zerolog.Logger, err error) {
	code, msg := statusFor(err)
	body := ErrorResponse{Error: msg, Code: code}
	if code == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("Request failed")
	} else {
		body.Details = detailsFor(err)
	}
	writeErrorResponse(resp, body)
}

func writeErrorResponse(resp *restful.Response, body ErrorResponse) {
	_ = resp.WriteHeaderAndEntity(body.Code, body)
}

func detailsFor(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return describeValidation(verrs)
	}
	return err.Error()
}
