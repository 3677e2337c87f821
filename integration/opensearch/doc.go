// Package opensearch wraps the official OpenSearch Go client with
// configuration-driven setup, fail-fast connectivity verification, and typed
// document and search operations sized for this framework's data access
// layer.
//
// # Setup
//
// New verifies cluster connectivity immediately so a broken endpoint fails
// the cold start instead of the first request:
//
//	var cfg opensearch.Config
//	config.MustLoad(&cfg)
//
//	client, err := opensearch.New(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
// Configuration comes from the environment:
//
//	OPENSEARCH_ADDRESSES  comma-separated node URLs (default http://localhost:9200)
//	OPENSEARCH_USERNAME   basic auth user, optional for unsecured clusters
//	OPENSEARCH_PASSWORD   basic auth password
//	OPENSEARCH_MAX_RETRIES, OPENSEARCH_DISABLE_RETRY, OPENSEARCH_REQUEST_TIMEOUT,
//	OPENSEARCH_INSECURE_SKIP_TLS
//
// # Operations
//
// Search runs a query DSL request and returns decoded hits with raw sources,
// leaving document typing to the caller (see the datasource package for the
// typed layer). GetDocument returns (nil, nil) for a missing document: absence
// is a domain answer, not a transport failure. IndexDocument, UpdateDocument,
// and DeleteDocument cover single-document writes; BulkIndex streams many
// documents through the client's bulk indexer.
//
// All failures wrap ErrRequestFailed for errors.Is classification, except
// updates of missing documents, which wrap ErrDocumentNotFound. Deleting a
// missing document is not a failure; DeleteDocument reports (false, nil).
//
// # Health checking
//
// Healthcheck returns a probe function for readiness endpoints:
//
//	check := opensearch.Healthcheck(client)
//	if err := check(ctx); err != nil {
//		// cluster unreachable
//	}
package opensearch
