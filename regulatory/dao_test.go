package regulatory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lambdakit/lambdakit/integration/opensearch"
	"github.com/lambdakit/lambdakit/regulatory"
)

// fakeSearchAPI records every call and replays queued search results in
// order, which covers flows that issue more than one search.
type fakeSearchAPI struct {
	searchReqs    []opensearch.SearchRequest
	searchResults []*opensearch.SearchResult
	searchErr     error

	getIndex string
	getID    string
	getDoc   map[string]any

	indexedIndex string
	indexedID    string
	indexedDoc   map[string]any

	deletedIndex string
	deletedID    string
	deleteFound  bool
}

func (f *fakeSearchAPI) Search(_ context.Context, req opensearch.SearchRequest) (*opensearch.SearchResult, error) {
	f.searchReqs = append(f.searchReqs, req)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if len(f.searchResults) == 0 {
		return &opensearch.SearchResult{}, nil
	}
	res := f.searchResults[0]
	f.searchResults = f.searchResults[1:]
	return res, nil
}

func (f *fakeSearchAPI) GetDocument(_ context.Context, index, id string, _ ...string) (map[string]any, error) {
	f.getIndex, f.getID = index, id
	return f.getDoc, nil
}

func (f *fakeSearchAPI) IndexDocument(_ context.Context, index, id string, doc map[string]any, _ ...opensearch.WriteOption) (string, error) {
	f.indexedIndex, f.indexedID, f.indexedDoc = index, id, doc
	return id, nil
}

func (f *fakeSearchAPI) UpdateDocument(context.Context, string, string, map[string]any, ...opensearch.WriteOption) error {
	return nil
}

func (f *fakeSearchAPI) DeleteDocument(_ context.Context, index, id string, _ ...opensearch.WriteOption) (bool, error) {
	f.deletedIndex, f.deletedID = index, id
	return f.deleteFound, nil
}

func newDAO(t *testing.T, api *fakeSearchAPI) *regulatory.DAO {
	t.Helper()
	dao, err := regulatory.NewDAO(api)
	require.NoError(t, err)
	return dao
}

func TestSearchBuildsBoolQuery(t *testing.T) {
	t.Parallel()

	api := &fakeSearchAPI{}
	dao := newDAO(t, api)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	_, err := dao.Search(context.Background(), regulatory.Query{
		Text:          "capital requirements",
		DataTypes:     []regulatory.DataType{regulatory.DataTypeRegulation},
		Jurisdictions: []regulatory.Jurisdiction{regulatory.JurisdictionUS, regulatory.JurisdictionEU},
		Industries:    []string{"banking"},
		Topics:        []string{"liquidity"},
		EffectiveFrom: from,
		EffectiveTo:   to,
		Page:          2,
		Size:          10,
		SortBy:        "effective_date",
		SortOrder:     "asc",
	})
	require.NoError(t, err)

	require.Len(t, api.searchReqs, 1)
	req := api.searchReqs[0]

	assert.Equal(t, "regulatory_regulation", req.Index)
	assert.Equal(t, 2, req.Page)
	assert.Equal(t, 10, req.Size)
	assert.Equal(t, []map[string]any{{"effective_date": map[string]any{"order": "asc"}}}, req.Sort)
	assert.Contains(t, req.Fields, "title")
	assert.Contains(t, req.Fields, "keywords")
	assert.NotContains(t, req.Fields, "content")

	boolQuery, ok := req.Query["bool"].(map[string]any)
	require.True(t, ok)

	must, ok := boolQuery["must"].([]any)
	require.True(t, ok)
	require.Len(t, must, 1)
	assert.Equal(t, map[string]any{"multi_match": map[string]any{
		"query":  "capital requirements",
		"fields": []string{"title^3", "summary^2", "content", "keywords^2"},
	}}, must[0])

	filter, ok := boolQuery["filter"].([]any)
	require.True(t, ok)
	require.Len(t, filter, 5)
	assert.Equal(t, map[string]any{"terms": map[string]any{"data_type": []string{"regulation"}}}, filter[0])
	assert.Equal(t, map[string]any{"terms": map[string]any{"jurisdiction": []string{"us", "eu"}}}, filter[1])
	assert.Equal(t, map[string]any{"range": map[string]any{"effective_date": map[string]any{
		"gte": "2024-01-01T00:00:00Z",
		"lte": "2024-12-31T00:00:00Z",
	}}}, filter[2])
	assert.Equal(t, map[string]any{"terms": map[string]any{"industries": []string{"banking"}}}, filter[3])
	assert.Equal(t, map[string]any{"terms": map[string]any{"topics": []string{"liquidity"}}}, filter[4])

	for _, name := range []string{"data_types", "jurisdictions", "industries", "topics", "effective_date_histogram"} {
		assert.Contains(t, req.Aggs, name)
	}
}

func TestSearchEmptyQueryMatchesAll(t *testing.T) {
	t.Parallel()

	api := &fakeSearchAPI{}
	dao := newDAO(t, api)

	_, err := dao.Search(context.Background(), regulatory.Query{})
	require.NoError(t, err)

	require.Len(t, api.searchReqs, 1)
	req := api.searchReqs[0]

	assert.Equal(t, "regulatory_*", req.Index)
	assert.Equal(t, map[string]any{"match_all": map[string]any{}}, req.Query)
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 20, req.Size)
	assert.Equal(t, []map[string]any{{"_score": map[string]any{"order": "desc"}}}, req.Sort)
}

func TestSearchMultipleDataTypesUsesWildcard(t *testing.T) {
	t.Parallel()

	api := &fakeSearchAPI{}
	dao := newDAO(t, api)

	_, err := dao.Search(context.Background(), regulatory.Query{
		DataTypes: []regulatory.DataType{regulatory.DataTypeRegulation, regulatory.DataTypeGuidance},
	})
	require.NoError(t, err)

	req := api.searchReqs[0]
	assert.Equal(t, "regulatory_*", req.Index)

	boolQuery := req.Query["bool"].(map[string]any)
	filter := boolQuery["filter"].([]any)
	assert.Equal(t, map[string]any{"terms": map[string]any{"data_type": []string{"regulation", "guidance"}}}, filter[0])
}

func TestSearchTransformsHits(t *testing.T) {
	t.Parallel()

	api := &fakeSearchAPI{searchResults: []*opensearch.SearchResult{{
		Hits: []map[string]any{{
			"_id":            "reg-1",
			"id":             "reg-1",
			"title":          "Capital rules",
			"data_type":      "regulation",
			"jurisdiction":   "eu",
			"effective_date": "2024-03-01",
			"topics":         []any{"capital"},
		}},
		Total:  1,
		TookMs: 4,
	}}}
	dao := newDAO(t, api)

	result, err := dao.Search(context.Background(), regulatory.Query{Text: "capital"})
	require.NoError(t, err)

	require.Len(t, result.Hits, 1)
	doc := result.Hits[0]
	assert.Equal(t, "reg-1", doc.ID)
	assert.Equal(t, regulatory.DataTypeRegulation, doc.DataType)
	assert.Equal(t, regulatory.JurisdictionEU, doc.Jurisdiction)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), doc.EffectiveDate)
	assert.Equal(t, []string{"capital"}, doc.Topics)
	assert.Equal(t, 1, result.Total)
}

func TestSearchPropagatesClientError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("cluster unavailable")
	dao := newDAO(t, &fakeSearchAPI{searchErr: sentinel})

	_, err := dao.Search(context.Background(), regulatory.Query{})
	assert.ErrorIs(t, err, sentinel)
}

func TestGetByIDTypedIndex(t *testing.T) {
	t.Parallel()

	api := &fakeSearchAPI{getDoc: map[string]any{
		"id": "pol-1", "title": "Privacy policy baseline",
		"data_type": "policy", "jurisdiction": "global",
	}}
	dao := newDAO(t, api)

	doc, found, err := dao.GetByID(context.Background(), "pol-1", regulatory.DataTypePolicy)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, "regulatory_policy", api.getIndex)
	assert.Equal(t, "pol-1", api.getID)
	assert.Equal(t, "pol-1", doc.ID)
	assert.Empty(t, api.searchReqs)
}

func TestGetByIDWildcardFallback(t *testing.T) {
	t.Parallel()

	api := &fakeSearchAPI{searchResults: []*opensearch.SearchResult{{
		Hits:  []map[string]any{{"_id": "std-1", "id": "std-1", "title": "ISO baseline", "data_type": "standard"}},
		Total: 1,
	}}}
	dao := newDAO(t, api)

	doc, found, err := dao.GetByID(context.Background(), "std-1", "")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "std-1", doc.ID)

	require.Len(t, api.searchReqs, 1)
	req := api.searchReqs[0]
	assert.Equal(t, "regulatory_*", req.Index)
	assert.Equal(t, map[string]any{"term": map[string]any{"id": "std-1"}}, req.Query)
	assert.Equal(t, 1, req.Size)
}

func TestGetByIDMissing(t *testing.T) {
	t.Parallel()

	dao := newDAO(t, &fakeSearchAPI{})

	doc, found, err := dao.GetByID(context.Background(), "ghost", "")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, doc)
}

func TestRelated(t *testing.T) {
	t.Parallel()

	api := &fakeSearchAPI{searchResults: []*opensearch.SearchResult{
		{
			Hits: []map[string]any{{
				"_id":          "reg-1",
				"id":           "reg-1",
				"title":        "Basel liquidity coverage",
				"summary":      "Liquidity buffers for banks",
				"jurisdiction": "eu",
				"industries":   []any{"banking"},
				"topics":       []any{"liquidity"},
			}},
			Total: 1,
		},
		{
			Hits: []map[string]any{{
				"_id": "gui-7", "id": "gui-7", "title": "LCR guidance",
				"data_type": "guidance", "jurisdiction": "eu",
			}},
			Total: 1,
		},
	}}
	dao := newDAO(t, api)

	related, err := dao.Related(context.Background(), "reg-1", 0)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "gui-7", related[0].ID)

	require.Len(t, api.searchReqs, 2)
	req := api.searchReqs[1]
	assert.Equal(t, "regulatory_*", req.Index)
	assert.Equal(t, 5, req.Size)
	assert.Contains(t, req.Fields, "issuing_body")

	boolQuery, ok := req.Query["bool"].(map[string]any)
	require.True(t, ok)

	must := boolQuery["must"].([]any)
	require.Len(t, must, 1)
	mlt := must[0].(map[string]any)["more_like_this"].(map[string]any)
	assert.Equal(t, []string{"title", "summary", "content"}, mlt["fields"])
	assert.Equal(t, 1, mlt["min_term_freq"])
	assert.Equal(t, 20, mlt["max_query_terms"])
	like := mlt["like"].(string)
	assert.Contains(t, like, "Basel liquidity coverage")
	assert.Contains(t, like, "liquidity")

	mustNot := boolQuery["must_not"].([]any)
	assert.Equal(t, map[string]any{"term": map[string]any{"id": "reg-1"}}, mustNot[0])

	should := boolQuery["should"].([]any)
	require.Len(t, should, 2)
	assert.Equal(t, map[string]any{"term": map[string]any{"jurisdiction": "eu"}}, should[0])
	assert.Equal(t, map[string]any{"terms": map[string]any{"industries": []string{"banking"}}}, should[1])
	assert.Equal(t, 1, boolQuery["minimum_should_match"])
}

func TestRelatedWithoutJurisdiction(t *testing.T) {
	t.Parallel()

	api := &fakeSearchAPI{searchResults: []*opensearch.SearchResult{
		{
			Hits: []map[string]any{{
				"_id": "reg-1", "id": "reg-1",
				"title":      "Vendor risk controls",
				"industries": []any{"fintech"},
			}},
			Total: 1,
		},
		{},
	}}
	dao := newDAO(t, api)

	_, err := dao.Related(context.Background(), "reg-1", 3)
	require.NoError(t, err)

	req := api.searchReqs[1]
	assert.Equal(t, 3, req.Size)

	boolQuery := req.Query["bool"].(map[string]any)
	assert.NotContains(t, boolQuery, "minimum_should_match")

	should := boolQuery["should"].([]any)
	require.Len(t, should, 1)
	assert.Equal(t, map[string]any{"terms": map[string]any{"industries": []string{"fintech"}}}, should[0])
}

func TestRelatedMissingDocument(t *testing.T) {
	t.Parallel()

	api := &fakeSearchAPI{}
	dao := newDAO(t, api)

	related, err := dao.Related(context.Background(), "ghost", 5)
	require.NoError(t, err)
	assert.Empty(t, related)
	assert.Len(t, api.searchReqs, 1)
}

func TestByTopic(t *testing.T) {
	t.Parallel()

	api := &fakeSearchAPI{}
	dao := newDAO(t, api)

	_, err := dao.ByTopic(context.Background(), "privacy", 3, 15)
	require.NoError(t, err)

	require.Len(t, api.searchReqs, 1)
	req := api.searchReqs[0]

	assert.Equal(t, "regulatory_*", req.Index)
	assert.Equal(t, 3, req.Page)
	assert.Equal(t, 15, req.Size)
	assert.Equal(t, map[string]any{"bool": map[string]any{
		"must": []any{map[string]any{"term": map[string]any{"topics": "privacy"}}},
	}}, req.Query)
}

func TestLatest(t *testing.T) {
	t.Parallel()

	api := &fakeSearchAPI{}
	dao := newDAO(t, api)

	_, err := dao.Latest(context.Background(), 45, regulatory.JurisdictionUK, 2, 10)
	require.NoError(t, err)

	require.Len(t, api.searchReqs, 1)
	req := api.searchReqs[0]

	assert.Equal(t, "regulatory_*", req.Index)
	assert.Equal(t, 2, req.Page)
	assert.Equal(t, 10, req.Size)
	assert.Equal(t, []map[string]any{{"publication_date": map[string]any{"order": "desc"}}}, req.Sort)
	assert.Contains(t, req.Fields, "publication_date")

	boolQuery := req.Query["bool"].(map[string]any)
	filter := boolQuery["filter"].([]any)
	require.Len(t, filter, 2)
	assert.Equal(t, map[string]any{"range": map[string]any{
		"publication_date": map[string]any{"gte": "now-45d/d"},
	}}, filter[0])
	assert.Equal(t, map[string]any{"term": map[string]any{"jurisdiction": "uk"}}, filter[1])
}

func TestLatestDefaults(t *testing.T) {
	t.Parallel()

	api := &fakeSearchAPI{}
	dao := newDAO(t, api)

	_, err := dao.Latest(context.Background(), 0, "", 0, 0)
	require.NoError(t, err)

	req := api.searchReqs[0]
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 20, req.Size)

	boolQuery := req.Query["bool"].(map[string]any)
	filter := boolQuery["filter"].([]any)
	require.Len(t, filter, 1)
	assert.Equal(t, map[string]any{"range": map[string]any{
		"publication_date": map[string]any{"gte": "now-30d/d"},
	}}, filter[0])
}

func TestSave(t *testing.T) {
	t.Parallel()

	t.Run("assigns id and timestamps", func(t *testing.T) {
		t.Parallel()

		api := &fakeSearchAPI{}
		dao := newDAO(t, api)

		saved, err := dao.Save(context.Background(), regulatory.Document{
			Title:        "GDPR",
			DataType:     regulatory.DataTypeRegulation,
			Jurisdiction: regulatory.JurisdictionEU,
		})
		require.NoError(t, err)

		assert.Equal(t, "regulatory_regulation", api.indexedIndex)
		assert.Equal(t, saved.ID, api.indexedID)
		_, parseErr := uuid.Parse(saved.ID)
		assert.NoError(t, parseErr)
		assert.False(t, saved.CreatedAt.IsZero())
		assert.False(t, saved.UpdatedAt.IsZero())
	})

	t.Run("keeps existing id and creation time", func(t *testing.T) {
		t.Parallel()

		api := &fakeSearchAPI{}
		dao := newDAO(t, api)

		created := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
		saved, err := dao.Save(context.Background(), regulatory.Document{
			ID:           "reg-1",
			Title:        "GDPR",
			DataType:     regulatory.DataTypeRegulation,
			Jurisdiction: regulatory.JurisdictionEU,
			CreatedAt:    created,
		})
		require.NoError(t, err)

		assert.Equal(t, "reg-1", saved.ID)
		assert.Equal(t, created, saved.CreatedAt)
		assert.True(t, saved.UpdatedAt.After(created))
	})

	t.Run("rejects invalid documents", func(t *testing.T) {
		t.Parallel()

		dao := newDAO(t, &fakeSearchAPI{})

		_, err := dao.Save(context.Background(), regulatory.Document{
			DataType:     regulatory.DataTypeRegulation,
			Jurisdiction: regulatory.JurisdictionEU,
		})
		assert.ErrorIs(t, err, regulatory.ErrMissingTitle)

		_, err = dao.Save(context.Background(), regulatory.Document{
			Title:        "GDPR",
			DataType:     "gossip",
			Jurisdiction: regulatory.JurisdictionEU,
		})
		assert.ErrorIs(t, err, regulatory.ErrInvalidDataType)

		_, err = dao.Save(context.Background(), regulatory.Document{
			Title:        "GDPR",
			DataType:     regulatory.DataTypeRegulation,
			Jurisdiction: "mars",
		})
		assert.ErrorIs(t, err, regulatory.ErrInvalidJurisdiction)
	})
}

func TestDelete(t *testing.T) {
	t.Parallel()

	t.Run("known data type", func(t *testing.T) {
		t.Parallel()

		api := &fakeSearchAPI{deleteFound: true}
		dao := newDAO(t, api)

		found, err := dao.Delete(context.Background(), "reg-1", regulatory.DataTypeRegulation)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "regulatory_regulation", api.deletedIndex)
		assert.Equal(t, "reg-1", api.deletedID)
		assert.Empty(t, api.searchReqs)
	})

	t.Run("discovers data type", func(t *testing.T) {
		t.Parallel()

		api := &fakeSearchAPI{
			deleteFound: true,
			searchResults: []*opensearch.SearchResult{{
				Hits:  []map[string]any{{"_id": "gui-1", "id": "gui-1", "title": "Old guidance", "data_type": "guidance"}},
				Total: 1,
			}},
		}
		dao := newDAO(t, api)

		found, err := dao.Delete(context.Background(), "gui-1", "")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "regulatory_guidance", api.deletedIndex)
		assert.Len(t, api.searchReqs, 1)
	})

	t.Run("missing document", func(t *testing.T) {
		t.Parallel()

		api := &fakeSearchAPI{}
		dao := newDAO(t, api)

		found, err := dao.Delete(context.Background(), "ghost", "")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, api.deletedID)
	})
}

func TestWithIndexPrefix(t *testing.T) {
	t.Parallel()

	api := &fakeSearchAPI{}
	dao, err := regulatory.NewDAO(api, regulatory.WithIndexPrefix("compliance"))
	require.NoError(t, err)

	_, err = dao.Search(context.Background(), regulatory.Query{
		DataTypes: []regulatory.DataType{regulatory.DataTypeStandard},
	})
	require.NoError(t, err)

	assert.Equal(t, "compliance_standard", api.searchReqs[0].Index)
}
