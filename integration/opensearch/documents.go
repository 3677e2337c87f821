package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	"github.com/opensearch-project/opensearch-go/v2/opensearchutil"
)

// WriteOption adjusts a single write operation.
type WriteOption func(*writeParams)

type writeParams struct {
	refresh string
}

// WithRefresh makes the write visible to search before returning. Use it in
// ingestion flows that read their own writes; leaving it off keeps the
// cluster's default refresh cycle.
func WithRefresh() WriteOption {
	return func(p *writeParams) { p.refresh = "true" }
}

func applyWriteOptions(opts []WriteOption) writeParams {
	var p writeParams
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// GetDocument fetches a document's _source by ID. A missing document returns
// (nil, nil): absence is a domain answer, not a failure. The optional fields
// filter _source to the named fields.
func (c *Client) GetDocument(ctx context.Context, index, id string, fields ...string) (map[string]any, error) {
	resp, err := opensearchapi.GetRequest{
		Index:          index,
		DocumentID:     id,
		SourceIncludes: fields,
	}.Do(ctx, c.os)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s/%s: %v", ErrRequestFailed, index, id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.IsError() {
		return nil, apiError("get "+index+"/"+id, resp)
	}

	var envelope struct {
		Source map[string]any `json:"_source"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: decode get response: %v", ErrRequestFailed, err)
	}
	return envelope.Source, nil
}

// IndexDocument writes doc under the given ID, creating or fully replacing
// it. An empty ID lets the cluster assign one; the assigned ID is returned
// either way.
func (c *Client) IndexDocument(ctx context.Context, index, id string, doc map[string]any, opts ...WriteOption) (string, error) {
	p := applyWriteOptions(opts)

	resp, err := opensearchapi.IndexRequest{
		Index:      index,
		DocumentID: id,
		Body:       opensearchutil.NewJSONReader(doc),
		Refresh:    p.refresh,
	}.Do(ctx, c.os)
	if err != nil {
		return "", fmt.Errorf("%w: index %s/%s: %v", ErrRequestFailed, index, id, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return "", apiError("index "+index, resp)
	}

	var envelope struct {
		ID string `json:"_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("%w: decode index response: %v", ErrRequestFailed, err)
	}
	return envelope.ID, nil
}

// UpdateDocument applies a partial update to an existing document. Fields in
// doc are merged over the stored document; a missing document returns
// ErrDocumentNotFound.
func (c *Client) UpdateDocument(ctx context.Context, index, id string, doc map[string]any, opts ...WriteOption) error {
	p := applyWriteOptions(opts)

	resp, err := opensearchapi.UpdateRequest{
		Index:      index,
		DocumentID: id,
		Body:       opensearchutil.NewJSONReader(map[string]any{"doc": doc}),
		Refresh:    p.refresh,
	}.Do(ctx, c.os)
	if err != nil {
		return fmt.Errorf("%w: update %s/%s: %v", ErrRequestFailed, index, id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s/%s", ErrDocumentNotFound, index, id)
	}
	if resp.IsError() {
		return apiError("update "+index+"/"+id, resp)
	}
	return nil
}

// DeleteDocument removes a document by ID. It reports whether the document
// existed; deleting an absent document is not an error.
func (c *Client) DeleteDocument(ctx context.Context, index, id string, opts ...WriteOption) (bool, error) {
	p := applyWriteOptions(opts)

	resp, err := opensearchapi.DeleteRequest{
		Index:      index,
		DocumentID: id,
		Refresh:    p.refresh,
	}.Do(ctx, c.os)
	if err != nil {
		return false, fmt.Errorf("%w: delete %s/%s: %v", ErrRequestFailed, index, id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.IsError() {
		return false, apiError("delete "+index+"/"+id, resp)
	}
	return true, nil
}

// BulkResult summarizes a bulk indexing run.
type BulkResult struct {
	Indexed int
	Failed  int
	Errors  []string
}

// BulkIndex writes docs through the client's bulk indexer. Document IDs come
// from the idField entry of each document when it holds a non-empty string;
// other documents get cluster-assigned IDs. Item failures do not abort the
// run; they are counted and described in the result.
func (c *Client) BulkIndex(ctx context.Context, index string, docs []map[string]any, idField string, opts ...WriteOption) (*BulkResult, error) {
	p := applyWriteOptions(opts)

	indexer, err := opensearchutil.NewBulkIndexer(opensearchutil.BulkIndexerConfig{
		Index:      index,
		Client:     c.os,
		NumWorkers: 1,
		Refresh:    p.refresh,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: bulk indexer: %v", ErrRequestFailed, err)
	}

	var (
		mu     sync.Mutex
		result BulkResult
	)

	for _, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			mu.Lock()
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("marshal document: %v", err))
			mu.Unlock()
			continue
		}

		id, _ := doc[idField].(string)
		item := opensearchutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: id,
			Body:       bytes.NewReader(data),
			OnSuccess: func(context.Context, opensearchutil.BulkIndexerItem, opensearchutil.BulkIndexerResponseItem) {
				mu.Lock()
				result.Indexed++
				mu.Unlock()
			},
			OnFailure: func(_ context.Context, _ opensearchutil.BulkIndexerItem, res opensearchutil.BulkIndexerResponseItem, err error) {
				mu.Lock()
				defer mu.Unlock()
				result.Failed++
				if err != nil {
					result.Errors = append(result.Errors, err.Error())
					return
				}
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", res.Error.Type, res.Error.Reason))
			},
		}
		if err := indexer.Add(ctx, item); err != nil {
			return nil, fmt.Errorf("%w: bulk add: %v", ErrRequestFailed, err)
		}
	}

	if err := indexer.Close(ctx); err != nil {
		return nil, fmt.Errorf("%w: bulk flush: %v", ErrRequestFailed, err)
	}
	return &result, nil
}
