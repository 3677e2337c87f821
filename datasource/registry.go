package datasource

import (
	"context"
	"fmt"
	"sync"

	"github.com/lambdakit/lambdakit/core/config"
	"github.com/lambdakit/lambdakit/integration/opensearch"
)

// DefaultClientName is the registry entry used when callers have no reason
// to segregate clients.
const DefaultClientName = "default"

// Registry owns named search clients. Clients are built lazily on first
// Acquire and cached for the process lifetime, which keeps warm Lambda
// invocations from reconnecting. A zero-configured name falls back to
// environment configuration, so most deployments never call Register.
type Registry struct {
	mu      sync.Mutex
	configs map[string]opensearch.Config
	clients map[string]*opensearch.Client
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		configs: make(map[string]opensearch.Config),
		clients: make(map[string]*opensearch.Client),
	}
}

// Register binds a configuration to a name. It replaces any previous
// configuration for that name but never an already-built client; call it
// before the first Acquire of that name.
func (r *Registry) Register(name string, cfg opensearch.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[name] = cfg
}

// Acquire returns the client for name, building and verifying it on first
// use. Names without a registered configuration are configured from the
// environment. Concurrent callers of the same name share one client.
func (r *Registry) Acquire(ctx context.Context, name string) (*opensearch.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if client, ok := r.clients[name]; ok {
		return client, nil
	}

	cfg, ok := r.configs[name]
	if !ok {
		if err := config.Load(&cfg); err != nil {
			return nil, fmt.Errorf("datasource: configure client %q: %w", name, err)
		}
	}

	client, err := opensearch.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("datasource: acquire client %q: %w", name, err)
	}
	r.clients[name] = client
	return client, nil
}

// ReleaseAll closes every built client and forgets it. Registered
// configurations survive, so a later Acquire rebuilds from the same
// settings.
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, client := range r.clients {
		client.Close()
	}
	clear(r.clients)
}
