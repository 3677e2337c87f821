package server

import (
	"errors"
	"time"
)

// ErrMissingAddress is returned by NewFromConfig when no address is set.
var ErrMissingAddress = errors.New("server: address is required")

// Config carries server settings loadable from the environment.
type Config struct {
	Addr            string        `env:"SERVER_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	MaxHeaderBytes  int           `env:"SERVER_MAX_HEADER_BYTES" envDefault:"1048576"`
}

// NewFromConfig creates a Server from cfg. Zero timeouts keep the package
// defaults; opts apply last and win.
func NewFromConfig(cfg Config, opts ...Option) (*Server, error) {
	if cfg.Addr == "" {
		return nil, ErrMissingAddress
	}

	combined := make([]Option, 0, len(opts)+5)
	if cfg.ReadTimeout > 0 {
		combined = append(combined, WithReadTimeout(cfg.ReadTimeout))
	}
	if cfg.WriteTimeout > 0 {
		combined = append(combined, WithWriteTimeout(cfg.WriteTimeout))
	}
	if cfg.IdleTimeout > 0 {
		combined = append(combined, WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout > 0 {
		combined = append(combined, WithShutdownTimeout(cfg.ShutdownTimeout))
	}
	if cfg.MaxHeaderBytes > 0 {
		combined = append(combined, WithMaxHeaderBytes(cfg.MaxHeaderBytes))
	}
	combined = append(combined, opts...)

	return New(cfg.Addr, combined...), nil
}
