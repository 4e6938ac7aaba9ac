// internal/resolvers/session/create-session/config.go
package createsession

import (
	"time"

	"address-validator/internal/common/config"
)

type Config struct {
	TTL time.Duration
}

func LoadConfig(cfg config.SessionConfig) *Config {
	ttl := time.Duration(cfg.TTL) * time.Second
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Config{TTL: ttl}
}
