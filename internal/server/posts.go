// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"

	restful "github.com/emicklei/go-restful/v3"
)

// PostRequest is the body of POST /posts and PUT /posts/{id}.
type PostRequest struct {
	Title   string `json:"title" validate:"required,max=300"`
	Content string `json:"content" validate:"required"`
}

// ListPosts handles GET /posts
func (s *Server) ListPosts(req *restful.Request, resp *restful.Response) {
	offset, err := queryInt(req, "offset")
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}
	limit, err := queryInt(req, "limit")
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}

	posts, err := s.store.ListPosts(req.Request.Context(), offset, limit)
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}
	_ = resp.WriteEntity(posts)
}

// CreatePost handles POST /posts
func (s *Server) CreatePost(req *restful.Request, resp *restful.Response) {
	var body PostRequest
	if err := s.readBody(req, &body); err != nil {
		writeError(resp, s.logger, err)
		return
	}

	post, err := s.store.CreatePost(req.Request.Context(), body.Title, body.Content)
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}
	_ = resp.WriteHeaderAndEntity(http.StatusCreated, post)
}

// GetPost handles GET /posts/{id}
func (s *Server) GetPost(req *restful.Request, resp *restful.Response) {
	id, err := pathID(req, "id")
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}

	post, err := s.store.GetPost(req.Request.Context(), id)
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}
	_ = resp.WriteEntity(post)
}

// UpdatePost handles PUT /posts/{id}
func (s *Server) UpdatePost(req *restful.Request, resp *restful.Response) {
	id, err := pathID(req, "id")
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}
	var body PostRequest
	if err := s.readBody(req, &body); err != nil {
		writeError(resp, s.logger, err)
		return
	}

	post, err := s.store.UpdatePost(req.Request.Context(), id, body.Title, body.Content)
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}
	_ = resp.WriteEntity(post)
}

// DeletePost handles DELETE /posts/{id}
func (s *Server) DeletePost(req *restful.Request, resp *restful.Response) {
	id, err := pathID(req, "id")
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}

	if err := s.store.DeletePost(req.Request.Context(), id); err != nil {
		writeError(resp, s.logger, err)
		return
	}
	resp.WriteHeader(http.StatusNoContent)
}
