// internal/resolvers/address/validate-address/models.go
package validateaddress

import (
	"context"

	"address-validator/internal/models"
	"address-validator/internal/resolvers/locality/lookup"
)

type Input struct {
	Postcode string `json:"postcode"`
	Suburb   string `json:"suburb"`
	State    string `json:"state"`
}

type Output = models.ValidationResult

// LocalityLookup fetches upstream localities.
type LocalityLookup interface {
	Execute(ctx context.Context, input *lookup.Input) (*lookup.Output, error)
}

// ActivityRecorder receives one entry per validation.
type ActivityRecorder interface {
	Record(ctx context.Context, typ models.ActivityType, input, output interface{}, success bool)
}
