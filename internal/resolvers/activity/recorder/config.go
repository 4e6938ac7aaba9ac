// internal/resolvers/activity/recorder/config.go
package recorder

import (
	"time"

	"address-validator/internal/common/config"
)

type Config struct {
	Index string
	// Timeout bounds each write, independent of the caller's deadline.
	Timeout time.Duration
	// ServerSideLogging enables Record. Store is always available.
	ServerSideLogging bool
	// MaxPending caps background writes in flight; Record drops beyond it.
	MaxPending int
}

const DefaultMaxPending = 64

func LoadConfig(cfg *config.Config) *Config {
	timeout := config.GetDuration(cfg.Database.Elasticsearch.Timeout)
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Config{
		Index:             cfg.Database.Elasticsearch.Index,
		Timeout:           timeout,
		ServerSideLogging: cfg.Features.ServerSideLogging,
		MaxPending:        DefaultMaxPending,
	}
}
