// internal/resolvers/activity/get-logs/config.go
package getlogs

import (
	"time"

	"address-validator/internal/common/config"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

type Config struct {
	Index        string
	Timeout      time.Duration
	DefaultLimit int
	MaxLimit     int
}

func LoadConfig(es config.ElasticsearchConfig) *Config {
	timeout := config.GetDuration(es.Timeout)
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Config{
		Index:        es.Index,
		Timeout:      timeout,
		DefaultLimit: DefaultLimit,
		MaxLimit:     MaxLimit,
	}
}
