// Package datasource provides typed read/write access to search indices.
//
// A data source pairs a search client with a RecordTransformer that maps
// between domain records and stored documents. The OpenSearch implementation
// is generic over the record type, so DAOs stay free of map plumbing:
//
//	type productTransformer struct{}
//
//	func (productTransformer) FromDocument(doc map[string]any) (Product, error) { ... }
//	func (productTransformer) ToDocument(p Product) (map[string]any, error)    { ... }
//
//	source, err := datasource.NewOpenSearch[Product](client, "catalog_products", productTransformer{})
//	if err != nil {
//		return err
//	}
//
//	result, err := source.Search(ctx, query,
//		datasource.WithPage(2),
//		datasource.WithSize(25),
//		datasource.WithSort("price", "asc"),
//	)
//
// WithIndex rebinds a data source to another index or pattern without
// touching the original, which lets one source serve both a wildcard
// read path and concrete per-type write paths:
//
//	all := source.WithIndex("catalog_*")
//
// # Client registry
//
// Registry caches named clients across invocations. Acquire builds a client
// on first use, from a registered configuration or from the environment:
//
//	registry := datasource.NewRegistry()
//	defer registry.ReleaseAll()
//
//	client, err := registry.Acquire(ctx, datasource.DefaultClientName)
//
// # Error handling
//
// Construction failures return ErrMissingClient, ErrMissingIndex, or
// ErrMissingTransformer. Transformer failures wrap ErrTransform. Engine
// failures pass through from the client untouched, so callers can match
// opensearch.ErrRequestFailed and opensearch.ErrDocumentNotFound.
package datasource
