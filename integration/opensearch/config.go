package opensearch

import "time"

// Config contains OpenSearch connection parameters loaded from environment
// variables.
type Config struct {
	Addresses       []string      `env:"OPENSEARCH_ADDRESSES" envDefault:"http://localhost:9200"`
	Username        string        `env:"OPENSEARCH_USERNAME"`
	Password        string        `env:"OPENSEARCH_PASSWORD"`
	MaxRetries      int           `env:"OPENSEARCH_MAX_RETRIES" envDefault:"3"`
	DisableRetry    bool          `env:"OPENSEARCH_DISABLE_RETRY" envDefault:"false"`
	RequestTimeout  time.Duration `env:"OPENSEARCH_REQUEST_TIMEOUT" envDefault:"10s"`
	InsecureSkipTLS bool          `env:"OPENSEARCH_INSECURE_SKIP_TLS" envDefault:"false"`
}
