// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"fmt"
	"net/http"
	"strings"

	restful "github.com/emicklei/go-restful/v3"

	"github.com/pdiddy/paperdesk/internal/arxiv"
	"github.com/pdiddy/paperdesk/internal/store"
	"github.com/pdiddy/paperdesk/pkg/types"
)

// DefaultSearchPageSize applies when a search request omits page_size.
const DefaultSearchPageSize = 3

// SearchRequest is the body of POST /papers/fetch_arxiv_query.
type SearchRequest struct {
	Query     string               `json:"query" validate:"required"`
	Kind      types.IdentifierKind `json:"kind,omitempty"`
	Offset    int                  `json:"offset,omitempty"`
	PageSize  int                  `json:"page_size,omitempty"`
	SortBy    types.SortField      `json:"sort_by,omitempty"`
	SortOrder types.SortOrder      `json:"sort_order,omitempty"`
}

// SavePaperRequest is the body of POST /users/{id}/papers. Either a full
// normalized paper or an arXiv id/DOI to fetch upstream is required.
type SavePaperRequest struct {
	Paper   *types.NormalizedPaper `json:"paper,omitempty" validate:"required_without=ArxivID"`
	ArxivID string                 `json:"arxiv_id,omitempty" validate:"required_without=Paper"`
	Notes   string                 `json:"notes" validate:"max=10000"`
}

// NotesRequest is the body of PUT /users/{id}/papers/{paper_id}.
type NotesRequest struct {
	Notes string `json:"notes" validate:"max=10000"`
}

// SearchPapers handles POST /papers/fetch_arxiv_query
func (s *Server) SearchPapers(req *restful.Request, resp *restful.Response) {
	var body SearchRequest
	if err := s.readBody(req, &body); err != nil {
		writeError(resp, s.logger, err)
		return
	}
	if body.PageSize == 0 {
		body.PageSize = DefaultSearchPageSize
	}

	q, err := arxiv.Build(body.Query, body.Kind, body.Offset, body.PageSize, body.SortBy, body.SortOrder)
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}

	papers, err := s.papers.Search(req.Request.Context(), q)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", q.SearchExpression()).Msg("arXiv search failed")
		writeError(resp, s.logger, err)
		return
	}
	_ = resp.WriteEntity(papers)
}

// LookupPaper handles GET /papers/lookup?id=
func (s *Server) LookupPaper(req *restful.Request, resp *restful.Response) {
	id := strings.TrimSpace(req.QueryParameter("id"))
	if id == "" {
		writeError(resp, s.logger, fmt.Errorf("%w: id query parameter is required", errInvalidRequest))
		return
	}

	paper, err := s.papers.Lookup(req.Request.Context(), id)
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}
	_ = resp.WriteEntity(paper)
}

// SavePaper handles POST /users/{id}/papers
func (s *Server) SavePaper(req *restful.Request, resp *restful.Response) {
	userID, err := pathID(req, "id")
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}
	var body SavePaperRequest
	if err := s.readBody(req, &body); err != nil {
		writeError(resp, s.logger, err)
		return
	}

	ctx := req.Request.Context()
	paper := body.Paper
	if paper == nil {
		if paper, err = s.papers.Lookup(ctx, body.ArxivID); err != nil {
			writeError(resp, s.logger, err)
			return
		}
	}
	if strings.TrimSpace(paper.ID) == "" {
		writeError(resp, s.logger, fmt.Errorf("%w: paper.id is required", errInvalidRequest))
		return
	}

	saved, err := s.store.SavePaper(ctx, userID, *paper, body.Notes)
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}
	_ = resp.WriteHeaderAndEntity(http.StatusCreated, saved)
}

// ListUserPapers handles GET /users/{id}/papers
func (s *Server) ListUserPapers(req *restful.Request, resp *restful.Response) {
	userID, err := pathID(req, "id")
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}
	limit, err := queryInt(req, "limit")
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}

	papers, err := s.store.ListUserPapers(req.Request.Context(), userID, store.PaperFilter{
		Text:     req.QueryParameter("q"),
		Category: req.QueryParameter("category"),
		Limit:    limit,
	})
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}
	_ = resp.WriteEntity(papers)
}

// UpdateNotes handles PUT /users/{id}/papers/{paper_id}
func (s *Server) UpdateNotes(req *restful.Request, resp *restful.Response) {
	userID, paperID, err := userPaperIDs(req)
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}
	var body NotesRequest
	if err := s.readBody(req, &body); err != nil {
		writeError(resp, s.logger, err)
		return
	}

	saved, err := s.store.UpdateNotes(req.Request.Context(), userID, paperID, body.Notes)
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}
	_ = resp.WriteEntity(saved)
}

// RemoveUserPaper handles DELETE /users/{id}/papers/{paper_id}
func (s *Server) RemoveUserPaper(req *restful.Request, resp *restful.Response) {
	userID, paperID, err := userPaperIDs(req)
	if err != nil {
		writeError(resp, s.logger, err)
		return
	}

	if err := s.store.RemoveUserPaper(req.Request.Context(), userID, paperID); err != nil {
		writeError(resp, s.logger, err)
		return
	}
	resp.WriteHeader(http.StatusNoContent)
}

func userPaperIDs(req *restful.Request) (int64, int64, error) {
	userID, err := pathID(req, "id")
	if err != nil {
		return 0, 0, err
	}
	paperID, err := pathID(req, "paper_id")
	if err != nil {
		return 0, 0, err
	}
	return userID, paperID, nil
}
