// internal/resolvers/locality/search-locations/models.go
package searchlocations

import (
	"context"

	"address-validator/internal/models"
	"address-validator/internal/resolvers/locality/lookup"
)

type Input struct {
	Query      string   `json:"query"`
	Categories []string `json:"categories,omitempty"`
}

type Output struct {
	Locations []models.Locality `json:"locations"`
}

type LocalityLookup interface {
	Execute(ctx context.Context, input *lookup.Input) (*lookup.Output, error)
}

type ActivityRecorder interface {
	Record(ctx context.Context, typ models.ActivityType, input, output interface{}, success bool)
}

type searchFailure struct {
	Error string `json:"error"`
}
