// Package config loads environment variables into typed structs, caching the
// result per struct type so every component sees the same configuration no
// matter when it loads.
//
// A .env file in the working directory is applied once before the first
// parse, which keeps local development close to the deployed environment
// where variables come from the function configuration.
//
// Usage:
//
//	type SearchConfig struct {
//		Addresses []string `env:"OPENSEARCH_ADDRESSES" envDefault:"http://localhost:9200"`
//		Username  string   `env:"OPENSEARCH_USERNAME"`
//		Password  string   `env:"OPENSEARCH_PASSWORD"`
//	}
//
//	var cfg SearchConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// MustLoad panics instead of returning the error, which is the right behavior
// during cold start: a function with broken configuration should fail its
// initialization, not serve requests.
//
// Each struct type parses once per process. Later Load calls for the same
// type copy the cached value, so configuration stays immutable after cold
// start even if the environment changes underneath.
package config
