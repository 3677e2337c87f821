package datasource

import (
	"context"

	"github.com/lambdakit/lambdakit/integration/opensearch"
)

// SearchAPI is the slice of the search client the data source layer depends
// on. *opensearch.Client satisfies it; tests substitute fakes.
type SearchAPI interface {
	Search(ctx context.Context, req opensearch.SearchRequest) (*opensearch.SearchResult, error)
	GetDocument(ctx context.Context, index, id string, fields ...string) (map[string]any, error)
	IndexDocument(ctx context.Context, index, id string, doc map[string]any, opts ...opensearch.WriteOption) (string, error)
	UpdateDocument(ctx context.Context, index, id string, doc map[string]any, opts ...opensearch.WriteOption) error
	DeleteDocument(ctx context.Context, index, id string, opts ...opensearch.WriteOption) (bool, error)
}

var _ SearchAPI = (*opensearch.Client)(nil)

// RecordTransformer converts between domain records and the flat documents
// stored in the search engine. Implementations are injected into a data
// source at construction; they hold no per-call state.
type RecordTransformer[T any] interface {
	// FromDocument builds a record from a stored document. Documents from
	// search hits carry "_id" and "_score" metadata keys alongside source
	// fields.
	FromDocument(doc map[string]any) (T, error)

	// ToDocument flattens a record for indexing. The returned map must be
	// JSON-marshalable; an "id" entry, when present and non-empty, becomes
	// the document ID.
	ToDocument(record T) (map[string]any, error)
}

// DataSource is the typed read/write contract over one index or index
// pattern.
type DataSource[T any] interface {
	Search(ctx context.Context, query map[string]any, opts ...SearchOption) (*Result[T], error)
	GetByID(ctx context.Context, id string, opts ...SearchOption) (T, bool, error)
	Create(ctx context.Context, record T, opts ...WriteOption) (T, error)
	Update(ctx context.Context, id string, record T, opts ...WriteOption) (T, error)
	Delete(ctx context.Context, id string, opts ...WriteOption) (bool, error)
}

// Result carries one page of typed search hits.
type Result[T any] struct {
	Hits         []T
	Total        int
	Aggregations map[string]any
	TookMs       int
}
