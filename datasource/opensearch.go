package datasource

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lambdakit/lambdakit/integration/opensearch"
)

// OpenSearch is the search-engine-backed DataSource implementation. It binds
// a client, an index (or index pattern), and a transformer; the zero value
// is not usable.
type OpenSearch[T any] struct {
	api       SearchAPI
	index     string
	transform RecordTransformer[T]
}

var _ DataSource[struct{}] = (*OpenSearch[struct{}])(nil)

// NewOpenSearch builds a data source over the given index or index pattern.
func NewOpenSearch[T any](api SearchAPI, index string, transform RecordTransformer[T]) (*OpenSearch[T], error) {
	if api == nil {
		return nil, ErrMissingClient
	}
	if index == "" {
		return nil, ErrMissingIndex
	}
	if transform == nil {
		return nil, ErrMissingTransformer
	}
	return &OpenSearch[T]{api: api, index: index, transform: transform}, nil
}

// Index reports the index or index pattern the data source is bound to.
func (s *OpenSearch[T]) Index() string {
	return s.index
}

// WithIndex returns a copy of the data source bound to another index or
// index pattern. The copy shares the client and transformer; the receiver
// is left untouched, so rebinding is safe under concurrent use.
func (s *OpenSearch[T]) WithIndex(index string) *OpenSearch[T] {
	clone := *s
	clone.index = index
	return &clone
}

// Search runs the given query body and transforms every hit. A nil query
// matches all documents.
func (s *OpenSearch[T]) Search(ctx context.Context, query map[string]any, opts ...SearchOption) (*Result[T], error) {
	p := applySearchOptions(opts)

	raw, err := s.api.Search(ctx, opensearch.SearchRequest{
		Index:  s.index,
		Query:  query,
		Sort:   p.sort,
		Page:   p.page,
		Size:   p.size,
		Fields: p.fields,
		Aggs:   p.aggs,
	})
	if err != nil {
		return nil, err
	}

	hits := make([]T, len(raw.Hits))
	for i, hit := range raw.Hits {
		record, err := s.transform.FromDocument(hit)
		if err != nil {
			return nil, fmt.Errorf("%w: hit %d: %v", ErrTransform, i, err)
		}
		hits[i] = record
	}

	return &Result[T]{
		Hits:         hits,
		Total:        raw.Total,
		Aggregations: raw.Aggregations,
		TookMs:       raw.TookMs,
	}, nil
}

// GetByID fetches one record by document ID. The second return value
// reports whether the document exists. Field projection via WithFields is
// honored; paging and sort options are ignored.
func (s *OpenSearch[T]) GetByID(ctx context.Context, id string, opts ...SearchOption) (T, bool, error) {
	var zero T

	var p searchParams
	for _, opt := range opts {
		opt(&p)
	}

	doc, err := s.api.GetDocument(ctx, s.index, id, p.fields...)
	if err != nil {
		return zero, false, err
	}
	if doc == nil {
		return zero, false, nil
	}

	record, err := s.transform.FromDocument(doc)
	if err != nil {
		return zero, false, fmt.Errorf("%w: %v", ErrTransform, err)
	}
	return record, true, nil
}

// Create indexes a new record. When the flattened document carries no "id"
// a random UUID is assigned. The stored record is returned so callers see
// assigned IDs and any normalization the transformer applies.
func (s *OpenSearch[T]) Create(ctx context.Context, record T, opts ...WriteOption) (T, error) {
	var zero T

	doc, err := s.transform.ToDocument(record)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrTransform, err)
	}

	id, _ := doc["id"].(string)
	if id == "" {
		id = uuid.New().String()
		doc["id"] = id
	}

	if _, err := s.api.IndexDocument(ctx, s.index, id, doc, clientWriteOptions(opts)...); err != nil {
		return zero, err
	}

	created, err := s.transform.FromDocument(doc)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrTransform, err)
	}
	return created, nil
}

// Update applies a partial update and reads the document back. Updating a
// missing document returns an error wrapping opensearch.ErrDocumentNotFound.
func (s *OpenSearch[T]) Update(ctx context.Context, id string, record T, opts ...WriteOption) (T, error) {
	var zero T

	doc, err := s.transform.ToDocument(record)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrTransform, err)
	}
	delete(doc, "id")

	if err := s.api.UpdateDocument(ctx, s.index, id, doc, clientWriteOptions(opts)...); err != nil {
		return zero, err
	}

	updated, found, err := s.GetByID(ctx, id)
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, fmt.Errorf("%w: %s/%s", opensearch.ErrDocumentNotFound, s.index, id)
	}
	return updated, nil
}

// Delete removes a record by document ID and reports whether it existed.
func (s *OpenSearch[T]) Delete(ctx context.Context, id string, opts ...WriteOption) (bool, error) {
	return s.api.DeleteDocument(ctx, s.index, id, clientWriteOptions(opts)...)
}
