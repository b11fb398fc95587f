// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"

	"github.com/pdiddy/paperdesk/pkg/types"
)

// RegisterRoutes adds every web service to container.
func (s *Server) RegisterRoutes(container *restful.Container) {
	container.Add(s.rootService())
	container.Add(s.apiService())
}

func (s *Server) rootService() *restful.WebService {
	ws := new(restful.WebService)
	ws.
		Path("/").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.Route(ws.GET("/").
		To(s.Root).
		Doc("Welcome message").
		Writes(MessageResponse{}).
		Returns(200, "OK", MessageResponse{}))

	ws.Route(ws.GET("/hello/{name}").
		To(s.Hello).
		Doc("Greet by name").
		Param(ws.PathParameter("name", "Name to greet").DataType("string")).
		Writes(MessageResponse{}).
		Returns(200, "OK", MessageResponse{}))

	postTags := []string{"posts"}
	idParam := ws.PathParameter("id", "Numeric id").DataType("integer")

	ws.Route(ws.GET("/posts").
		To(s.ListPosts).
		Doc("List posts, newest first").
		Metadata(restfulspec.KeyOpenAPITags, postTags).
		Param(ws.QueryParameter("offset", "Rows to skip").DataType("integer").Required(false)).
		Param(ws.QueryParameter("limit", "Maximum rows (0 for all)").DataType("integer").Required(false)).
		Writes([]types.Post{}).
		Returns(200, "OK", []types.Post{}).
		Returns(400, "Bad Request", ErrorResponse{}))

	ws.Route(ws.POST("/posts").
		To(s.CreatePost).
		Doc("Create a post").
		Metadata(restfulspec.KeyOpenAPITags, postTags).
		Reads(PostRequest{}).
		Writes(types.Post{}).
		Returns(201, "Created", types.Post{}).
		Returns(400, "Bad Request", ErrorResponse{}))

	ws.Route(ws.GET("/posts/{id}").
		To(s.GetPost).
		Doc("Read a post").
		Metadata(restfulspec.KeyOpenAPITags, postTags).
		Param(idParam).
		Writes(types.Post{}).
		Returns(200, "OK", types.Post{}).
		Returns(404, "Not Found", ErrorResponse{}))

	ws.Route(ws.PUT("/posts/{id}").
		To(s.UpdatePost).
		Doc("Replace a post's title and content").
		Metadata(restfulspec.KeyOpenAPITags, postTags).
		Param(idParam).
		Reads(PostRequest{}).
		Writes(types.Post{}).
		Returns(200, "OK", types.Post{}).
		Returns(400, "Bad Request", ErrorResponse{}).
		Returns(404, "Not Found", ErrorResponse{}))

	ws.Route(ws.DELETE("/posts/{id}").
		To(s.DeletePost).
		Doc("Delete a post").
		Metadata(restfulspec.KeyOpenAPITags, postTags).
		Param(idParam).
		Returns(204, "No Content", nil).
		Returns(404, "Not Found", ErrorResponse{}))

	userTags := []string{"users"}

	ws.Route(ws.POST("/users").
		To(s.CreateUser).
		Doc("Register a user").
		Metadata(restfulspec.KeyOpenAPITags, userTags).
		Reads(UserCreateRequest{}).
		Writes(types.User{}).
		Returns(201, "Created", types.User{}).
		Returns(400, "Bad Request", ErrorResponse{}))

	ws.Route(ws.GET("/users/{id}").
		To(s.GetUser).
		Doc("Read a user").
		Metadata(restfulspec.KeyOpenAPITags, userTags).
		Param(idParam).
		Writes(types.User{}).
		Returns(200, "OK", types.User{}).
		Returns(404, "Not Found", ErrorResponse{}))

	paperTags := []string{"papers"}
	paperIDParam := ws.PathParameter("paper_id", "Saved paper id").DataType("integer")

	ws.Route(ws.POST("/papers/fetch_arxiv_query").
		To(s.SearchPapers).
		Doc("Search arXiv and return normalized papers").
		Metadata(restfulspec.KeyOpenAPITags, paperTags).
		Reads(SearchRequest{}).
		Writes([]types.NormalizedPaper{}).
		Returns(200, "OK", []types.NormalizedPaper{}).
		Returns(400, "Bad Request", ErrorResponse{}).
		Returns(502, "Bad Gateway", ErrorResponse{}))

	ws.Route(ws.GET("/papers/lookup").
		To(s.LookupPaper).
		Doc("Fetch one paper by arXiv id or DOI").
		Metadata(restfulspec.KeyOpenAPITags, paperTags).
		Param(ws.QueryParameter("id", "arXiv id (2301.07041) or DOI (10.48550/arXiv.2301.07041)").DataType("string").Required(true)).
		Writes(types.NormalizedPaper{}).
		Returns(200, "OK", types.NormalizedPaper{}).
		Returns(400, "Bad Request", ErrorResponse{}).
		Returns(404, "Not Found", ErrorResponse{}).
		Returns(502, "Bad Gateway", ErrorResponse{}))

	ws.Route(ws.POST("/users/{id}/papers").
		To(s.SavePaper).
		Doc("Save a paper to the user's library").
		Metadata(restfulspec.KeyOpenAPITags, paperTags).
		Param(idParam).
		Reads(SavePaperRequest{}).
		Writes(types.UserPaper{}).
		Returns(201, "Created", types.UserPaper{}).
		Returns(400, "Bad Request", ErrorResponse{}).
		Returns(404, "Not Found", ErrorResponse{}))

	ws.Route(ws.GET("/users/{id}/papers").
		To(s.ListUserPapers).
		Doc("List the user's saved papers with notes").
		Metadata(restfulspec.KeyOpenAPITags, paperTags).
		Param(idParam).
		Param(ws.QueryParameter("q", "Substring of title or summary").DataType("string").Required(false)).
		Param(ws.QueryParameter("category", "Category term, e.g. cs.CL").DataType("string").Required(false)).
		Param(ws.QueryParameter("limit", "Maximum rows").DataType("integer").Required(false)).
		Writes([]types.UserPaper{}).
		Returns(200, "OK", []types.UserPaper{}).
		Returns(404, "Not Found", ErrorResponse{}))

	ws.Route(ws.PUT("/users/{id}/papers/{paper_id}").
		To(s.UpdateNotes).
		Doc("Replace the notes on a saved paper").
		Metadata(restfulspec.KeyOpenAPITags, paperTags).
		Param(idParam).
		Param(paperIDParam).
		Reads(NotesRequest{}).
		Writes(types.UserPaper{}).
		Returns(200, "OK", types.UserPaper{}).
		Returns(404, "Not Found", ErrorResponse{}))

	ws.Route(ws.DELETE("/users/{id}/papers/{paper_id}").
		To(s.RemoveUserPaper).
		Doc("Remove a paper from the user's library").
		Metadata(restfulspec.KeyOpenAPITags, paperTags).
		Param(idParam).
		Param(paperIDParam).
		Returns(204, "No Content", nil).
		Returns(404, "Not Found", ErrorResponse{}))

	return ws
}

func (s *Server) apiService() *restful.WebService {
	ws := new(restful.WebService)
	ws.
		Path("/api/v1").
		Produces(restful.MIME_JSON)

	ws.Route(ws.GET("/health").
		To(s.Health).
		Doc("Health check").
		Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
		Writes(HealthResponse{}).
		Returns(http.StatusOK, "OK", HealthResponse{}).
		Returns(http.StatusServiceUnavailable, "Database unavailable", HealthResponse{}))

	return ws
}
