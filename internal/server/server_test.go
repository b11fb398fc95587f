// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperdesk/internal/arxiv"
	"github.com/pdiddy/paperdesk/internal/store"
	"github.com/pdiddy/paperdesk/pkg/types"
)

// fakeSearcher records queries and returns canned results.
type fakeSearcher struct {
	mu      sync.Mutex
	queries []types.QueryRequest
	results []types.NormalizedPaper
	lookups map[string]*types.NormalizedPaper
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, q types.QueryRequest) ([]types.NormalizedPaper, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return append([]types.NormalizedPaper{}, f.results...), nil
}

func (f *fakeSearcher) Lookup(_ context.Context, id string) (*types.NormalizedPaper, error) {
	if f.err != nil {
		return nil, f.err
	}
	if arxiv.IsDOI(id) {
		stripped, err := arxiv.StripDOI(id)
		if err != nil {
			return nil, err
		}
		id = stripped
	}
	p, ok := f.lookups[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, arxiv.ErrNotFound)
	}
	return p, nil
}

func paper(id string) types.NormalizedPaper {
	return types.NormalizedPaper{
		ID:         "http://arxiv.org/abs/" + id,
		Title:      "Title " + id,
		Summary:    "Summary " + id,
		Authors:    []string{"Ada Lovelace"},
		Categories: []string{"cs.CL"},
		Link:       "http://arxiv.org/abs/" + id,
		PDFURL:     "http://arxiv.org/pdf/" + id,
	}
}

type testEnv struct {
	handler  http.Handler
	searcher *fakeSearcher
	store    *store.Store
	logs     *bytes.Buffer
}

func setupTestAPI(t *testing.T) *testEnv {
	t.Helper()
	st, err := store.Open(context.Background(), types.DatabaseConfig{
		Driver: store.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "api.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	searcher := &fakeSearcher{lookups: map[string]*types.NormalizedPaper{}}
	logs := &bytes.Buffer{}
	srv := New(st, searcher, zerolog.New(logs), Options{Version: "1.2.3"})
	return &testEnv{handler: srv.Handler(), searcher: searcher, store: st, logs: logs}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = strings.NewReader(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func (e *testEnv) createUser(t *testing.T, email string) types.User {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/users", UserCreateRequest{Email: email, Password: "password123"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[types.User](t, rec)
}

// --- root, hello, health, openapi ---

func TestAPI_RootAndHello(t *testing.T) {
	env := setupTestAPI(t)

	rec := env.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[MessageResponse](t, rec).Message)

	rec = env.do(t, http.MethodGet, "/hello/Grace", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello Grace", decode[MessageResponse](t, rec).Message)
}

func TestAPI_Health(t *testing.T) {
	env := setupTestAPI(t)

	rec := env.do(t, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	h := decode[HealthResponse](t, rec)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "1.2.3", h.Version)
	assert.Equal(t, "ok", h.Database)
}

func TestAPI_HealthDatabaseDown(t *testing.T) {
	env := setupTestAPI(t)
	require.NoError(t, env.store.Close())

	rec := env.do(t, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", decode[HealthResponse](t, rec).Database)
}

func TestAPI_OpenAPI(t *testing.T) {
	env := setupTestAPI(t)

	rec := env.do(t, http.MethodGet, OpenAPIPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Info  struct{ Title, Version string } `json:"info"`
		Paths map[string]any                  `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "paperdesk API", doc.Info.Title)
	assert.Equal(t, "1.2.3", doc.Info.Version)
	assert.Contains(t, doc.Paths, "/papers/fetch_arxiv_query")
	assert.Contains(t, doc.Paths, "/users/{id}/papers/{paper_id}")
}

func TestAPI_RequestsAreLogged(t *testing.T) {
	env := setupTestAPI(t)
	env.do(t, http.MethodGet, "/hello/log", nil)

	var entry map[string]any
	line, _, _ := strings.Cut(env.logs.String(), "\n")
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/hello/log", entry["path"])
	assert.EqualValues(t, 200, entry["status"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestAPI_RequestIDEchoed(t *testing.T) {
	env := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))

	rec = env.do(t, http.MethodGet, "/", nil)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestAPI_CORSPreflight(t *testing.T) {
	env := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodOptions, "/posts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

// --- posts ---

func TestAPI_PostsCRUD(t *testing.T) {
	env := setupTestAPI(t)

	rec := env.do(t, http.MethodPost, "/posts", PostRequest{Title: "Hello", Content: "World"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[types.Post](t, rec)
	assert.NotZero(t, created.ID)

	rec = env.do(t, http.MethodGet, "/posts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]types.Post](t, rec), 1)

	path := fmt.Sprintf("/posts/%d", created.ID)
	rec = env.do(t, http.MethodPut, path, PostRequest{Title: "Hello again", Content: "World"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Hello again", decode[types.Post](t, rec).Title)

	rec = env.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, decode[ErrorResponse](t, rec).Code)
}

func TestAPI_PostsBadRequests(t *testing.T) {
	env := setupTestAPI(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"missing title", http.MethodPost, "/posts", PostRequest{Content: "x"}},
		{"malformed json", http.MethodPost, "/posts", `{"title":`},
		{"non-numeric id", http.MethodGet, "/posts/abc", nil},
		{"zero id", http.MethodGet, "/posts/0", nil},
		{"bad limit", http.MethodGet, "/posts?limit=-1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, "invalid request", decode[ErrorResponse](t, rec).Error)
		})
	}
}

func TestAPI_PostValidationDetails(t *testing.T) {
	env := setupTestAPI(t)
	rec := env.do(t, http.MethodPost, "/posts", PostRequest{Content: "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "title is required", decode[ErrorResponse](t, rec).Details)
}

// --- users ---

func TestAPI_CreateUser(t *testing.T) {
	env := setupTestAPI(t)

	rec := env.do(t, http.MethodPost, "/users", UserCreateRequest{Email: "ada@example.com", Password: "password123", Name: "Ada"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")
	user := decode[types.User](t, rec)
	assert.True(t, user.IsActive)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/users/%d", user.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada@example.com", decode[types.User](t, rec).Email)

	rec = env.do(t, http.MethodGet, "/users/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_CreateUserDuplicate(t *testing.T) {
	env := setupTestAPI(t)
	env.createUser(t, "dup@example.com")

	rec := env.do(t, http.MethodPost, "/users", UserCreateRequest{Email: "dup@example.com", Password: "password456"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User with this email already exists", decode[ErrorResponse](t, rec).Error)
}

func TestAPI_CreateUserValidation(t *testing.T) {
	env := setupTestAPI(t)

	tests := []struct {
		name    string
		body    UserCreateRequest
		details string
	}{
		{"bad email", UserCreateRequest{Email: "nope", Password: "password123"}, "email must be a valid email address"},
		{"short password", UserCreateRequest{Email: "a@b.io", Password: "short"}, "password must be at least 8 characters"},
		{"missing password", UserCreateRequest{Email: "a@b.io"}, "password is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/users", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.details, decode[ErrorResponse](t, rec).Details)
		})
	}
}

// --- arXiv search and lookup ---

func TestAPI_SearchDefaultsToThreeResults(t *testing.T) {
	env := setupTestAPI(t)
	env.searcher.results = []types.NormalizedPaper{paper("1"), paper("2")}

	rec := env.do(t, http.MethodPost, "/papers/fetch_arxiv_query", SearchRequest{Query: "transformers"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[[]types.NormalizedPaper](t, rec)
	require.Len(t, got, 2)
	assert.Equal(t, "http://arxiv.org/pdf/1", got[0].PDFURL)

	require.Len(t, env.searcher.queries, 1)
	q := env.searcher.queries[0]
	assert.Equal(t, "all:transformers", q.SearchExpression())
	assert.Equal(t, DefaultSearchPageSize, q.PageSize)
	assert.Equal(t, types.SortSubmittedDate, q.SortBy)
	assert.Equal(t, types.SortDescending, q.SortOrder)
}

func TestAPI_SearchOptions(t *testing.T) {
	env := setupTestAPI(t)

	rec := env.do(t, http.MethodPost, "/papers/fetch_arxiv_query", SearchRequest{
		Query:     "10.48550/arXiv.2301.07041",
		Kind:      types.KindDOI,
		PageSize:  500,
		SortBy:    types.SortRelevance,
		SortOrder: types.SortAscending,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	q := env.searcher.queries[0]
	assert.Equal(t, "id:2301.07041", q.SearchExpression())
	assert.Equal(t, arxiv.MaxPageSize, q.PageSize)
}

func TestAPI_SearchErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		upstream error
		want     int
	}{
		{"missing query", SearchRequest{}, nil, http.StatusBadRequest},
		{"malformed doi", SearchRequest{Query: "10.1000/xyz", Kind: types.KindDOI}, nil, http.StatusBadRequest},
		{"unknown sort", SearchRequest{Query: "x", SortBy: "citations"}, nil, http.StatusBadRequest},
		{"unreadable payload", SearchRequest{Query: "x"}, fmt.Errorf("%w: EOF", arxiv.ErrUpstreamPayloadUnreadable), http.StatusBadGateway},
		{"upstream status", SearchRequest{Query: "x"}, &arxiv.StatusError{Code: 503}, http.StatusBadGateway},
		{"unexpected", SearchRequest{Query: "x"}, fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestAPI(t)
			env.searcher.err = tt.upstream

			rec := env.do(t, http.MethodPost, "/papers/fetch_arxiv_query", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Equal(t, tt.want, decode[ErrorResponse](t, rec).Code)
		})
	}
}

func TestAPI_LookupPaper(t *testing.T) {
	env := setupTestAPI(t)
	p := paper("2301.07041")
	env.searcher.lookups["2301.07041"] = &p

	rec := env.do(t, http.MethodGet, "/papers/lookup?id=2301.07041", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, p.ID, decode[types.NormalizedPaper](t, rec).ID)

	rec = env.do(t, http.MethodGet, "/papers/lookup?id=10.48550/arXiv.2301.07041", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/papers/lookup?id=9999.99999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/papers/lookup", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- saved papers ---

func TestAPI_SavedPapersLifecycle(t *testing.T) {
	env := setupTestAPI(t)
	user := env.createUser(t, "reader@example.com")
	base := fmt.Sprintf("/users/%d/papers", user.ID)

	p := paper("1")
	rec := env.do(t, http.MethodPost, base, SavePaperRequest{Paper: &p, Notes: "skim"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	saved := decode[types.UserPaper](t, rec)
	assert.Equal(t, "skim", saved.Notes)
	assert.Equal(t, p.ID, saved.Paper.ArxivID)

	rec = env.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]types.UserPaper](t, rec), 1)

	item := fmt.Sprintf("%s/%d", base, saved.Paper.ID)
	rec = env.do(t, http.MethodPut, item, NotesRequest{Notes: "read fully"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "read fully", decode[types.UserPaper](t, rec).Notes)

	rec = env.do(t, http.MethodDelete, item, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, item, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestAPI_SavePaperByArxivID(t *testing.T) {
	env := setupTestAPI(t)
	user := env.createUser(t, "byid@example.com")
	p := paper("2301.07041")
	env.searcher.lookups["2301.07041"] = &p

	rec := env.do(t, http.MethodPost, fmt.Sprintf("/users/%d/papers", user.ID), SavePaperRequest{ArxivID: "2301.07041"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, p.Title, decode[types.UserPaper](t, rec).Paper.Title)
}

func TestAPI_SavePaperErrors(t *testing.T) {
	env := setupTestAPI(t)
	user := env.createUser(t, "errs@example.com")
	base := fmt.Sprintf("/users/%d/papers", user.ID)
	p := paper("1")

	tests := []struct {
		name string
		path string
		body any
		want int
	}{
		{"neither paper nor id", base, SavePaperRequest{Notes: "x"}, http.StatusBadRequest},
		{"blank paper id", base, SavePaperRequest{Paper: &types.NormalizedPaper{Title: "t"}}, http.StatusBadRequest},
		{"unknown arxiv id", base, SavePaperRequest{ArxivID: "0000.00000"}, http.StatusNotFound},
		{"unknown user", "/users/999/papers", SavePaperRequest{Paper: &p}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestAPI_ListUserPapersFilters(t *testing.T) {
	env := setupTestAPI(t)
	user := env.createUser(t, "filters@example.com")
	base := fmt.Sprintf("/users/%d/papers", user.ID)

	nlp := paper("nlp")
	vision := paper("vision")
	vision.Categories = []string{"cs.CV"}
	for _, p := range []types.NormalizedPaper{nlp, vision} {
		rec := env.do(t, http.MethodPost, base, SavePaperRequest{Paper: &p})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(t, http.MethodGet, base+"?category=cs.CV", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]types.UserPaper](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, vision.ID, got[0].Paper.ArxivID)

	rec = env.do(t, http.MethodGet, base+"?q=NLP", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]types.UserPaper](t, rec), 1)

	rec = env.do(t, http.MethodGet, "/users/999/papers", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- error mapping ---

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", arxiv.ErrMalformedIdentifier), http.StatusBadRequest},
		{arxiv.ErrEmptyQuery, http.StatusBadRequest},
		{fmt.Errorf("%w: sortBy", arxiv.ErrInvalidParameter), http.StatusBadRequest},
		{fmt.Errorf("user: %w", store.ErrDuplicate), http.StatusBadRequest},
		{fmt.Errorf("post 1: %w", store.ErrNotFound), http.StatusNotFound},
		{arxiv.ErrNotFound, http.StatusNotFound},
		{arxiv.ErrUpstreamPayloadUnreadable, http.StatusBadGateway},
		{fmt.Errorf("search: %w", &arxiv.StatusError{Code: 500}), http.StatusBadGateway},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got, _ := statusFor(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}
