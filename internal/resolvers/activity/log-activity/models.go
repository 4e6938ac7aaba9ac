// internal/resolvers/activity/log-activity/models.go
package logactivity

import (
	"context"

	"address-validator/internal/models"
)

type Input = models.LogInput

type Output = models.LogResult

// Store persists one log entry and returns its id.
type Store interface {
	Store(ctx context.Context, entry models.LogEntry) (string, error)
}
