package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lambdakit/lambdakit/core/api"
	"github.com/lambdakit/lambdakit/core/handler"
	"github.com/lambdakit/lambdakit/integration/opensearch"
	"github.com/lambdakit/lambdakit/regulatory"
)

// stubSearchAPI replays queued search results in call order and records
// every request so tests can assert the query DSL that left the handlers.
type stubSearchAPI struct {
	searchReqs    []opensearch.SearchRequest
	searchResults []*opensearch.SearchResult
	searchErr     error

	getIndex string
	getDoc   map[string]any

	indexedIndex string
	indexedID    string

	deletedIndex string
	deletedID    string
	deleteFound  bool
}

func (s *stubSearchAPI) Search(_ context.Context, req opensearch.SearchRequest) (*opensearch.SearchResult, error) {
	s.searchReqs = append(s.searchReqs, req)
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	if len(s.searchResults) == 0 {
		return &opensearch.SearchResult{}, nil
	}
	res := s.searchResults[0]
	s.searchResults = s.searchResults[1:]
	return res, nil
}

func (s *stubSearchAPI) GetDocument(_ context.Context, index, _ string, _ ...string) (map[string]any, error) {
	s.getIndex = index
	return s.getDoc, nil
}

func (s *stubSearchAPI) IndexDocument(_ context.Context, index, id string, _ map[string]any, _ ...opensearch.WriteOption) (string, error) {
	s.indexedIndex, s.indexedID = index, id
	return id, nil
}

func (s *stubSearchAPI) UpdateDocument(context.Context, string, string, map[string]any, ...opensearch.WriteOption) error {
	return nil
}

func (s *stubSearchAPI) DeleteDocument(_ context.Context, index, id string, _ ...opensearch.WriteOption) (bool, error) {
	s.deletedIndex, s.deletedID = index, id
	return s.deleteFound, nil
}

func newTestApp(t *testing.T, stub *stubSearchAPI, probes ...func(context.Context) error) *api.API {
	t.Helper()

	dao, err := regulatory.NewDAO(stub)
	require.NoError(t, err)

	if len(probes) == 0 {
		probes = []func(context.Context) error{func(context.Context) error { return nil }}
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newAPI(appConfig{RateLimitRPS: 1000}, log, dao, probes...)
}

func dispatch(app *api.API, method handler.Method, path string, query map[string]string, body any) *handler.Response {
	req := handler.NewRequest(method, path)
	req.Context = handler.NewContext(context.Background())
	for k, v := range query {
		req.QueryParams[k] = v
	}
	if body != nil {
		req.Body = body
		req.Headers["Content-Type"] = "application/json"
	}
	return app.Dispatch(req)
}

func TestHealthRoute(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, &stubSearchAPI{})

	resp := dispatch(app, handler.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, map[string]string{"status": "ready"}, resp.Body)
}

func TestHealthRouteBackendDown(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, &stubSearchAPI{}, func(context.Context) error {
		return errors.New("cluster unreachable")
	})

	resp := dispatch(app, handler.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
}

func TestSearchRoute(t *testing.T) {
	t.Parallel()

	stub := &stubSearchAPI{searchResults: []*opensearch.SearchResult{{
		Hits: []map[string]any{{
			"_id": "reg-1", "id": "reg-1", "title": "Liquidity rule",
			"data_type": "regulation", "jurisdiction": "us",
		}},
		Total:  1,
		TookMs: 2,
	}}}
	app := newTestApp(t, stub)

	resp := dispatch(app, handler.MethodGet, "/regulations", map[string]string{
		"q":            "liquidity",
		"jurisdiction": "us,eu",
		"page":         "2",
		"size":         "5",
	}, nil)

	require.Equal(t, http.StatusOK, resp.Status)
	assert.NotEmpty(t, resp.Headers["X-Request-ID"])

	body, ok := resp.Body.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1, body["total"])
	items, ok := body["items"].([]regulatory.Document)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "reg-1", items[0].ID)

	require.Len(t, stub.searchReqs, 1)
	req := stub.searchReqs[0]
	assert.Equal(t, "regulatory_*", req.Index)
	assert.Equal(t, 2, req.Page)
	assert.Equal(t, 5, req.Size)

	boolQuery := req.Query["bool"].(map[string]any)
	filter := boolQuery["filter"].([]any)
	assert.Contains(t, filter, map[string]any{"terms": map[string]any{"jurisdiction": []string{"us", "eu"}}})
}

func TestSearchRouteRejectsUnknownJurisdiction(t *testing.T) {
	t.Parallel()

	stub := &stubSearchAPI{}
	app := newTestApp(t, stub)

	resp := dispatch(app, handler.MethodGet, "/regulations", map[string]string{"jurisdiction": "mars"}, nil)

	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Empty(t, stub.searchReqs)
}

func TestGetRegulationRoute(t *testing.T) {
	t.Parallel()

	t.Run("wildcard lookup", func(t *testing.T) {
		t.Parallel()

		stub := &stubSearchAPI{searchResults: []*opensearch.SearchResult{{
			Hits:  []map[string]any{{"_id": "reg-1", "id": "reg-1", "title": "Liquidity rule", "data_type": "regulation"}},
			Total: 1,
		}}}
		app := newTestApp(t, stub)

		resp := dispatch(app, handler.MethodGet, "/regulations/reg-1", nil, nil)
		require.Equal(t, http.StatusOK, resp.Status)

		doc, ok := resp.Body.(regulatory.Document)
		require.True(t, ok)
		assert.Equal(t, "reg-1", doc.ID)
	})

	t.Run("typed lookup", func(t *testing.T) {
		t.Parallel()

		stub := &stubSearchAPI{getDoc: map[string]any{"id": "gui-1", "title": "Guidance", "data_type": "guidance"}}
		app := newTestApp(t, stub)

		resp := dispatch(app, handler.MethodGet, "/regulations/gui-1", map[string]string{"data_type": "guidance"}, nil)
		require.Equal(t, http.StatusOK, resp.Status)
		assert.Equal(t, "regulatory_guidance", stub.getIndex)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t, &stubSearchAPI{})

		resp := dispatch(app, handler.MethodGet, "/regulations/ghost", nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.Status)
	})
}

func TestLatestRouteWinsOverIDRoute(t *testing.T) {
	t.Parallel()

	stub := &stubSearchAPI{}
	app := newTestApp(t, stub)

	resp := dispatch(app, handler.MethodGet, "/regulations/latest", map[string]string{"days": "7"}, nil)
	require.Equal(t, http.StatusOK, resp.Status)

	require.Len(t, stub.searchReqs, 1)
	boolQuery := stub.searchReqs[0].Query["bool"].(map[string]any)
	filter := boolQuery["filter"].([]any)
	assert.Equal(t, map[string]any{"range": map[string]any{
		"publication_date": map[string]any{"gte": "now-7d/d"},
	}}, filter[0])
}

func TestRelatedRoute(t *testing.T) {
	t.Parallel()

	stub := &stubSearchAPI{searchResults: []*opensearch.SearchResult{
		{
			Hits:  []map[string]any{{"_id": "reg-1", "id": "reg-1", "title": "Liquidity rule", "jurisdiction": "us"}},
			Total: 1,
		},
		{
			Hits:  []map[string]any{{"_id": "reg-2", "id": "reg-2", "title": "Funding rule"}},
			Total: 1,
		},
	}}
	app := newTestApp(t, stub)

	resp := dispatch(app, handler.MethodGet, "/regulations/reg-1/related", map[string]string{"max": "3"}, nil)
	require.Equal(t, http.StatusOK, resp.Status)

	body := resp.Body.(map[string]any)
	assert.Equal(t, 1, body["total"])

	require.Len(t, stub.searchReqs, 2)
	assert.Equal(t, 3, stub.searchReqs[1].Size)
}

func TestTopicRoute(t *testing.T) {
	t.Parallel()

	stub := &stubSearchAPI{}
	app := newTestApp(t, stub)

	resp := dispatch(app, handler.MethodGet, "/topics/privacy/regulations", nil, nil)
	require.Equal(t, http.StatusOK, resp.Status)

	require.Len(t, stub.searchReqs, 1)
	assert.Equal(t, map[string]any{"bool": map[string]any{
		"must": []any{map[string]any{"term": map[string]any{"topics": "privacy"}}},
	}}, stub.searchReqs[0].Query)
}

func TestCreateRegulationRoute(t *testing.T) {
	t.Parallel()

	t.Run("creates document", func(t *testing.T) {
		t.Parallel()

		stub := &stubSearchAPI{}
		app := newTestApp(t, stub)

		resp := dispatch(app, handler.MethodPost, "/regulations", nil, map[string]any{
			"title":        "New capital rule",
			"data_type":    "regulation",
			"jurisdiction": "eu",
		})

		require.Equal(t, http.StatusCreated, resp.Status)
		doc, ok := resp.Body.(regulatory.Document)
		require.True(t, ok)
		assert.NotEmpty(t, doc.ID)
		assert.Equal(t, "regulatory_regulation", stub.indexedIndex)
		assert.Equal(t, doc.ID, stub.indexedID)
	})

	t.Run("rejects unknown data type", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t, &stubSearchAPI{})

		resp := dispatch(app, handler.MethodPost, "/regulations", nil, map[string]any{
			"title":        "New capital rule",
			"data_type":    "gossip",
			"jurisdiction": "eu",
		})
		assert.Equal(t, http.StatusBadRequest, resp.Status)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t, &stubSearchAPI{})

		resp := dispatch(app, handler.MethodPost, "/regulations", nil, map[string]any{
			"title":        "New capital rule",
			"data_type":    "regulation",
			"jurisdiction": "eu",
			"oops":         true,
		})
		assert.Equal(t, http.StatusBadRequest, resp.Status)
	})
}

func TestDeleteRegulationRoute(t *testing.T) {
	t.Parallel()

	t.Run("deletes typed document", func(t *testing.T) {
		t.Parallel()

		stub := &stubSearchAPI{deleteFound: true}
		app := newTestApp(t, stub)

		resp := dispatch(app, handler.MethodDelete, "/regulations/reg-1", map[string]string{"data_type": "regulation"}, nil)
		require.Equal(t, http.StatusOK, resp.Status)

		body := resp.Body.(map[string]any)
		assert.Equal(t, true, body["deleted"])
		assert.Equal(t, "regulatory_regulation", stub.deletedIndex)
		assert.Equal(t, "reg-1", stub.deletedID)
	})

	t.Run("missing document", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t, &stubSearchAPI{})

		resp := dispatch(app, handler.MethodDelete, "/regulations/ghost", nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.Status)
	})
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, &stubSearchAPI{})

	resp := dispatch(app, handler.MethodGet, "/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, map[string]any{"error": "Not found"}, resp.Body)
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, &stubSearchAPI{})

	resp := dispatch(app, handler.MethodPut, "/regulations", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Status)
	assert.Contains(t, resp.Headers["Allow"], "GET")
	assert.Contains(t, resp.Headers["Allow"], "POST")
}

func TestRateLimitApplies(t *testing.T) {
	t.Parallel()

	stub := &stubSearchAPI{}
	dao, err := regulatory.NewDAO(stub)
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := newAPI(appConfig{RateLimitRPS: 0.5}, log, dao, func(context.Context) error { return nil })

	first := dispatch(app, handler.MethodGet, "/regulations", nil, nil)
	assert.Equal(t, http.StatusOK, first.Status)

	second := dispatch(app, handler.MethodGet, "/regulations", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Status)
	assert.NotEmpty(t, second.Headers["Retry-After"])
}
