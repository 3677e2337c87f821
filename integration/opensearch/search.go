package opensearch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	"github.com/opensearch-project/opensearch-go/v2/opensearchutil"
)

// SearchRequest describes one query DSL search. Index may be a concrete name
// or a wildcard pattern. Query is the DSL query object; Sort and Aggs are
// passed through to the request body verbatim.
type SearchRequest struct {
	Index string
	Query map[string]any

	// Sort clauses in OpenSearch form, e.g. {"effective_date": {"order": "desc"}}.
	Sort []map[string]any

	// Page is 1-based; Size is hits per page. Defaults: page 1, size 10.
	// The request offset is (Page-1)*Size.
	Page int
	Size int

	// Fields filters _source to the named fields when non-empty.
	Fields []string

	// Aggs holds aggregation definitions keyed by aggregation name.
	Aggs map[string]any
}

// SearchResult carries decoded search hits. Each hit is its _source with the
// wire metadata merged in under "_id" and "_score", so callers keep document
// identity even when sources omit an id field.
type SearchResult struct {
	Hits         []map[string]any
	Total        int
	Aggregations map[string]any
	TookMs       int
}

// searchEnvelope mirrors the wire shape of a search response. Total is kept
// raw: modern clusters send {"value": n, "relation": "eq"}, pre-7 compatible
// setups send a bare number.
type searchEnvelope struct {
	Took int `json:"took"`
	Hits struct {
		Total json.RawMessage `json:"total"`
		Hits  []struct {
			ID     string         `json:"_id"`
			Score  *float64       `json:"_score"`
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]any `json:"aggregations"`
}

// Search runs a query DSL search against req.Index and decodes the hits.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.Size
	if size < 1 {
		size = 10
	}
	from := (page - 1) * size

	body := map[string]any{"query": req.Query}
	if req.Query == nil {
		body["query"] = map[string]any{"match_all": map[string]any{}}
	}
	if len(req.Sort) > 0 {
		body["sort"] = req.Sort
	}
	if len(req.Aggs) > 0 {
		body["aggs"] = req.Aggs
	}

	resp, err := opensearchapi.SearchRequest{
		Index:          []string{req.Index},
		Body:           opensearchutil.NewJSONReader(body),
		From:           &from,
		Size:           &size,
		SourceIncludes: req.Fields,
	}.Do(ctx, c.os)
	if err != nil {
		return nil, fmt.Errorf("%w: search %s: %v", ErrRequestFailed, req.Index, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, apiError("search "+req.Index, resp)
	}

	var envelope searchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", ErrRequestFailed, err)
	}

	hits := make([]map[string]any, len(envelope.Hits.Hits))
	for i, h := range envelope.Hits.Hits {
		hit := make(map[string]any, len(h.Source)+2)
		for k, v := range h.Source {
			hit[k] = v
		}
		hit["_id"] = h.ID
		if h.Score != nil {
			hit["_score"] = *h.Score
		}
		hits[i] = hit
	}

	return &SearchResult{
		Hits:         hits,
		Total:        decodeTotal(envelope.Hits.Total),
		Aggregations: envelope.Aggregations,
		TookMs:       envelope.Took,
	}, nil
}

func decodeTotal(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var obj struct {
		Value int `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Value
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	return 0
}
