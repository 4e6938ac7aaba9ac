// internal/resolvers/locality/lookup/config.go
package lookup

import (
	"strings"
	"time"

	"address-validator/internal/common/config"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func LoadConfig(upstream config.UpstreamConfig) *Config {
	timeout := config.GetDuration(upstream.Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Config{
		BaseURL: strings.TrimSuffix(upstream.BaseURL, "/"),
		Timeout: timeout,
	}
}
