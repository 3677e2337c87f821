package datasource

import "github.com/lambdakit/lambdakit/integration/opensearch"

const (
	defaultPage = 1
	defaultSize = 20
)

type searchParams struct {
	page   int
	size   int
	sort   []map[string]any
	fields []string
	aggs   map[string]any
}

// SearchOption adjusts paging, sorting, and projection of a single search
// call.
type SearchOption func(*searchParams)

func applySearchOptions(opts []SearchOption) searchParams {
	p := searchParams{page: defaultPage, size: defaultSize}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithPage selects the 1-based result page. Values below 1 keep the default.
func WithPage(page int) SearchOption {
	return func(p *searchParams) {
		if page >= 1 {
			p.page = page
		}
	}
}

// WithSize caps the number of hits per page. Values below 1 keep the
// default.
func WithSize(size int) SearchOption {
	return func(p *searchParams) {
		if size >= 1 {
			p.size = size
		}
	}
}

// WithSort appends a sort clause. Order is "asc" or "desc"; repeated calls
// build a multi-level sort in call order.
func WithSort(field, order string) SearchOption {
	return func(p *searchParams) {
		p.sort = append(p.sort, map[string]any{field: map[string]any{"order": order}})
	}
}

// WithFields restricts _source to the named fields.
func WithFields(fields ...string) SearchOption {
	return func(p *searchParams) {
		p.fields = fields
	}
}

// WithAggregations attaches an aggregations block to the search request.
func WithAggregations(aggs map[string]any) SearchOption {
	return func(p *searchParams) {
		p.aggs = aggs
	}
}

type writeParams struct {
	refresh bool
}

// WriteOption adjusts indexing behavior of a single write call.
type WriteOption func(*writeParams)

// WithRefresh makes the write visible to search before returning.
func WithRefresh() WriteOption {
	return func(p *writeParams) {
		p.refresh = true
	}
}

func clientWriteOptions(opts []WriteOption) []opensearch.WriteOption {
	var p writeParams
	for _, opt := range opts {
		opt(&p)
	}
	var out []opensearch.WriteOption
	if p.refresh {
		out = append(out, opensearch.WithRefresh())
	}
	return out
}
