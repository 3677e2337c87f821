package opensearch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"

	opensearchgo "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// Client wraps the official OpenSearch client with typed operations used by
// the data access layer.
type Client struct {
	os        *opensearchgo.Client
	transport *http.Transport
}

// New creates an OpenSearch client and verifies connectivity with a ping.
// It returns an error if the cluster is unreachable, ensuring failures
// surface at startup rather than on first use.
func New(ctx context.Context, cfg Config) (*Client, error) {
	transport := &http.Transport{ResponseHeaderTimeout: cfg.RequestTimeout}
	if cfg.InsecureSkipTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	osClient, err := opensearchgo.NewClient(opensearchgo.Config{
		Addresses:    cfg.Addresses,
		Username:     cfg.Username,
		Password:     cfg.Password,
		MaxRetries:   cfg.MaxRetries,
		DisableRetry: cfg.DisableRetry,
		Transport:    transport,
	})
	if err != nil {
		return nil, errors.Join(ErrFailedToCreateClient, err)
	}

	client := &Client{os: osClient, transport: transport}
	if err := client.ping(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// MustNew is like New but panics on error. Intended for cold start paths
// where a missing search backend is unrecoverable.
func MustNew(ctx context.Context, cfg Config) *Client {
	client, err := New(ctx, cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// Close releases idle connections held by the client's transport.
func (c *Client) Close() {
	c.transport.CloseIdleConnections()
}

func (c *Client) ping(ctx context.Context) error {
	resp, err := opensearchapi.InfoRequest{}.Do(ctx, c.os)
	if err != nil {
		return errors.Join(ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("%w: %s", ErrHealthcheckFailed, resp.Status())
	}
	return nil
}

// Healthcheck returns a function compatible with health monitoring that
// verifies the cluster responds to info requests.
func Healthcheck(client *Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.ping(ctx)
	}
}

// apiError drains the response body into a classification-friendly error.
func apiError(op string, resp *opensearchapi.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("%w: %s: %s: %s", ErrRequestFailed, op, resp.Status(), body)
}
