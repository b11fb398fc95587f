// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"net/http"

	restful "github.com/emicklei/go-restful/v3"

	"github.com/pdiddy/paperdesk/internal/store"
)

// UserCreateRequest is the body of POST /users. bcrypt reads at most 72
// bytes of a password.
type UserCreateRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name,omitempty" validate:"max=100"`
}

// CreateUser handles POST /users
func (s *Server) CreateUser(req *restful.Request, resp *restful.Response) {
	var body UserCreateRequest
	if err := s.readBody(req, &body); err != nil {
		writeError(resp, s.logger, err)
		return
	}

	user, err := s.store.CreateUser(req.Request.Context(), store.NewUser{
		Email:    body.Email,
		Password: body.Password,
		Name:     body.Name,
	})
	if errors.Is(err, store.ErrDuplicate) {
		writeErrorResponse(resp, ErrorResponse{
			Error: "User with this email already exists",
			Code:  http.StatusBadRequest,
		})
		return
	}
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}
	_ = resp.WriteHeaderAndEntity(http.StatusCreated, user)
}

// GetUser handles GET /users/{id}
func (s *Server) GetUser(req *restful.Request, resp *restful.Response) {
	id, err := pathID(req, "id")
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}

	user, err := s.store.GetUser(req.Request.Context(), id)
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}
	_ = resp.WriteEntity(user)
}
