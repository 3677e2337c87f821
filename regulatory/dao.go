package regulatory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lambdakit/lambdakit/datasource"
)

const (
	// DefaultIndexPrefix is the prefix shared by all regulatory indices.
	// A document of type regulation lives in "regulatory_regulation".
	DefaultIndexPrefix = "regulatory"

	defaultRelatedResults = 5
	defaultLatestDays     = 30
)

// summaryFields trims search hits to listing size; full content stays behind
// GetByID.
var summaryFields = []string{
	"id", "title", "summary", "data_type", "jurisdiction",
	"effective_date", "publication_date", "issuing_body",
	"industries", "topics", "keywords",
}

var relatedFields = []string{
	"id", "title", "summary", "data_type", "jurisdiction",
	"effective_date", "issuing_body",
}

var latestFields = []string{
	"id", "title", "summary", "data_type", "jurisdiction",
	"effective_date", "publication_date", "issuing_body",
}

// DAO provides read-oriented access to regulatory documents spread across
// per-type indices, plus a small write path for ingestion.
type DAO struct {
	source *datasource.OpenSearch[Document]
	prefix string
}

// Option configures a DAO.
type Option func(*DAO)

// WithIndexPrefix overrides the default index prefix. Empty values are
// ignored.
func WithIndexPrefix(prefix string) Option {
	return func(d *DAO) {
		if prefix != "" {
			d.prefix = prefix
		}
	}
}

// NewDAO builds a DAO over the given search client.
func NewDAO(client datasource.SearchAPI, opts ...Option) (*DAO, error) {
	d := &DAO{prefix: DefaultIndexPrefix}
	for _, opt := range opts {
		opt(d)
	}

	source, err := datasource.NewOpenSearch[Document](client, d.prefix+"_*", DocumentTransformer{})
	if err != nil {
		return nil, err
	}
	d.source = source
	return d, nil
}

// indexFor resolves the index for a data type. An empty type resolves to the
// wildcard pattern covering every typed index.
func (d *DAO) indexFor(dataType DataType) string {
	if dataType == "" {
		return d.prefix + "_*"
	}
	return d.prefix + "_" + string(dataType)
}

// Query collects search criteria. Zero values mean "no constraint"; an empty
// query matches everything, sorted by relevance.
type Query struct {
	Text          string
	DataTypes     []DataType
	Jurisdictions []Jurisdiction
	Industries    []string
	Topics        []string
	EffectiveFrom time.Time
	EffectiveTo   time.Time
	Page          int
	Size          int
	SortBy        string
	SortOrder     string
}

// Search runs a faceted search. Text matches across title, summary, content,
// and keywords with title weighted highest; the remaining criteria become
// filters. A single data type narrows the search to that type's index.
func (d *DAO) Search(ctx context.Context, q Query) (*datasource.Result[Document], error) {
	source := d.source
	if len(q.DataTypes) == 1 {
		source = source.WithIndex(d.indexFor(q.DataTypes[0]))
	}

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "_score"
	}
	sortOrder := q.SortOrder
	if sortOrder == "" {
		sortOrder = "desc"
	}

	return source.Search(ctx, buildSearchQuery(q),
		datasource.WithPage(q.Page),
		datasource.WithSize(q.Size),
		datasource.WithSort(sortBy, sortOrder),
		datasource.WithFields(summaryFields...),
		datasource.WithAggregations(facetAggs()),
	)
}

// GetByID fetches one document. A known data type is read from its index
// directly; otherwise a single wildcard search locates the document across
// all typed indices.
func (d *DAO) GetByID(ctx context.Context, id string, dataType DataType) (Document, bool, error) {
	if dataType != "" {
		return d.source.WithIndex(d.indexFor(dataType)).GetByID(ctx, id)
	}

	result, err := d.source.Search(ctx,
		map[string]any{"term": map[string]any{"id": id}},
		datasource.WithSize(1),
	)
	if err != nil {
		return Document{}, false, err
	}
	if len(result.Hits) == 0 {
		return Document{}, false, nil
	}
	return result.Hits[0], true, nil
}

// Related finds documents similar to the given one using a more_like_this
// query over its text, preferring hits from the same jurisdiction and
// industries. A missing source document yields no results, not an error.
func (d *DAO) Related(ctx context.Context, id string, max int) ([]Document, error) {
	if max < 1 {
		max = defaultRelatedResults
	}

	doc, found, err := d.GetByID(ctx, id, "")
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	boolQuery := map[string]any{
		"must": []any{map[string]any{"more_like_this": map[string]any{
			"fields":          []string{"title", "summary", "content"},
			"like":            likeText(doc),
			"min_term_freq":   1,
			"max_query_terms": 20,
			"min_doc_freq":    1,
		}}},
		"must_not": []any{map[string]any{"term": map[string]any{"id": id}}},
	}

	var should []any
	if doc.Jurisdiction != "" {
		should = append(should, map[string]any{"term": map[string]any{"jurisdiction": string(doc.Jurisdiction)}})
		boolQuery["minimum_should_match"] = 1
	}
	if len(doc.Industries) > 0 {
		should = append(should, map[string]any{"terms": map[string]any{"industries": doc.Industries}})
	}
	if len(should) > 0 {
		boolQuery["should"] = should
	}

	result, err := d.source.Search(ctx,
		map[string]any{"bool": boolQuery},
		datasource.WithSize(max),
		datasource.WithFields(relatedFields...),
	)
	if err != nil {
		return nil, err
	}
	return result.Hits, nil
}

// ByTopic lists documents tagged with the given topic, newest relevance
// first.
func (d *DAO) ByTopic(ctx context.Context, topic string, page, size int) (*datasource.Result[Document], error) {
	query := map[string]any{"bool": map[string]any{
		"must": []any{map[string]any{"term": map[string]any{"topics": topic}}},
	}}

	return d.source.Search(ctx, query,
		datasource.WithPage(page),
		datasource.WithSize(size),
		datasource.WithFields(relatedFields...),
	)
}

// Latest lists documents published within the last days days, newest first,
// optionally narrowed to one jurisdiction. The range uses the engine's date
// math so "today" is resolved cluster-side.
func (d *DAO) Latest(ctx context.Context, days int, jurisdiction Jurisdiction, page, size int) (*datasource.Result[Document], error) {
	if days < 1 {
		days = defaultLatestDays
	}

	filter := []any{map[string]any{"range": map[string]any{
		"publication_date": map[string]any{"gte": fmt.Sprintf("now-%dd/d", days)},
	}}}
	if jurisdiction != "" {
		filter = append(filter, map[string]any{"term": map[string]any{"jurisdiction": string(jurisdiction)}})
	}

	return d.source.Search(ctx,
		map[string]any{"bool": map[string]any{"filter": filter}},
		datasource.WithPage(page),
		datasource.WithSize(size),
		datasource.WithSort("publication_date", "desc"),
		datasource.WithFields(latestFields...),
	)
}

// Save validates and indexes a document into its typed index. New documents
// get a generated ID and creation timestamp; UpdatedAt always advances.
func (d *DAO) Save(ctx context.Context, doc Document, opts ...datasource.WriteOption) (Document, error) {
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}

	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	return d.source.WithIndex(d.indexFor(doc.DataType)).Create(ctx, doc, opts...)
}

// Delete removes a document, discovering its typed index first when the
// caller does not know the data type. Deleting an absent document reports
// false without error.
func (d *DAO) Delete(ctx context.Context, id string, dataType DataType, opts ...datasource.WriteOption) (bool, error) {
	if dataType == "" {
		doc, found, err := d.GetByID(ctx, id, "")
		if err != nil {
			return false, err
		}
		if !found {
			return false, nil
		}
		if doc.DataType == "" {
			return false, fmt.Errorf("%w: document %s carries no data type", ErrInvalidDataType, id)
		}
		dataType = doc.DataType
	}
	return d.source.WithIndex(d.indexFor(dataType)).Delete(ctx, id, opts...)
}

func buildSearchQuery(q Query) map[string]any {
	must := []any{}
	filter := []any{}

	if q.Text != "" {
		must = append(must, map[string]any{"multi_match": map[string]any{
			"query":  q.Text,
			"fields": []string{"title^3", "summary^2", "content", "keywords^2"},
		}})
	}
	if len(q.DataTypes) > 0 {
		filter = append(filter, map[string]any{"terms": map[string]any{"data_type": toStrings(q.DataTypes)}})
	}
	if len(q.Jurisdictions) > 0 {
		filter = append(filter, map[string]any{"terms": map[string]any{"jurisdiction": toStrings(q.Jurisdictions)}})
	}
	if !q.EffectiveFrom.IsZero() || !q.EffectiveTo.IsZero() {
		bounds := map[string]any{}
		if !q.EffectiveFrom.IsZero() {
			bounds["gte"] = q.EffectiveFrom.UTC().Format(time.RFC3339)
		}
		if !q.EffectiveTo.IsZero() {
			bounds["lte"] = q.EffectiveTo.UTC().Format(time.RFC3339)
		}
		filter = append(filter, map[string]any{"range": map[string]any{"effective_date": bounds}})
	}
	if len(q.Industries) > 0 {
		filter = append(filter, map[string]any{"terms": map[string]any{"industries": q.Industries}})
	}
	if len(q.Topics) > 0 {
		filter = append(filter, map[string]any{"terms": map[string]any{"topics": q.Topics}})
	}

	if len(must) == 0 && len(filter) == 0 {
		return map[string]any{"match_all": map[string]any{}}
	}
	return map[string]any{"bool": map[string]any{"must": must, "filter": filter}}
}

// facetAggs builds the aggregation block served alongside search results so
// clients can render facet counts without a second query.
func facetAggs() map[string]any {
	return map[string]any{
		"data_types":    map[string]any{"terms": map[string]any{"field": "data_type"}},
		"jurisdictions": map[string]any{"terms": map[string]any{"field": "jurisdiction"}},
		"industries":    map[string]any{"terms": map[string]any{"field": "industries", "size": 20}},
		"topics":        map[string]any{"terms": map[string]any{"field": "topics", "size": 20}},
		"effective_date_histogram": map[string]any{"date_histogram": map[string]any{
			"field":             "effective_date",
			"calendar_interval": "quarter",
		}},
	}
}

func likeText(doc Document) string {
	parts := make([]string, 0, 5)
	for _, part := range []string{
		doc.Title,
		doc.Summary,
		doc.Content,
		strings.Join(doc.Topics, " "),
		strings.Join(doc.Keywords, " "),
	} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

func toStrings[S ~string](values []S) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
