// internal/resolvers/session/session-state/config.go
package sessionstate

import (
	"fmt"
	"time"

	"address-validator/internal/common/config"
)

const (
	KeyPrefix  = "session"
	DefaultTTL = 24 * time.Hour
)

type Config struct {
	TTL time.Duration
}

func LoadConfig(cfg config.SessionConfig) *Config {
	ttl := time.Duration(cfg.TTL) * time.Second
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Config{TTL: ttl}
}

// StateKey is the Redis key holding one piece of session state.
func StateKey(sessionID, key string) string {
	return fmt.Sprintf("%s:%s:%s", KeyPrefix, sessionID, key)
}
