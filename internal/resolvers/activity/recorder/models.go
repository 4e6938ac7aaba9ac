// internal/resolvers/activity/recorder/models.go
package recorder

import (
	"context"

	"address-validator/internal/models"
)

// document is the indexed form of a log entry.
type document struct {
	models.LogEntry
	AtTimestamp string `json:"@timestamp"`
}

type indexResponse struct {
	ID     string `json:"_id"`
	Result string `json:"result"`
}

type identityKey struct{}

// Identity is the caller identity attached to server-side records.
type Identity struct {
	SessionID string
	UserID    string
}

// WithIdentity returns a context carrying id for Record.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}
