package searchlocations

import (
	"context"
	"strings"
	"time"

	apperrors "address-validator/internal/common/errors"
	"address-validator/internal/common/logger"
	"address-validator/internal/common/metrics"
	"address-validator/internal/common/observability"
	"address-validator/internal/models"
	"address-validator/internal/resolvers/locality/lookup"
)

const Operation = "search-locations"

type Handler struct {
	config   *Config
	lookup   LocalityLookup
	recorder ActivityRecorder
	obs      *observability.Observability
	logger   logger.Logger
}

func NewHandler(config *Config, lookup LocalityLookup, recorder ActivityRecorder, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		lookup:   lookup,
		recorder: recorder,
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"operation": Operation}),
	}
}

// Execute returns the matching localities. Upstream failures yield an empty list.
func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	if input == nil {
		input = &Input{}
	}
	if strings.TrimSpace(input.Query) == "" {
		return &Output{Locations: []models.Locality{}}
	}

	start := time.Now()
	locations, err := h.execute(ctx, input)
	status := metrics.Status(err)
	metrics.LocationSearches.WithLabelValues(status).Inc()
	h.obs.RecordOperation(ctx, Operation, status, time.Since(start))

	if err != nil {
		h.logger.Error("search failed", map[string]interface{}{
			"query":         input.Query,
			"error":         err,
			"errorCategory": apperrors.GetErrorCategory(apperrors.CodeOf(err)),
		})
		h.record(ctx, input, searchFailure{Error: err.Error()}, false)
		return &Output{Locations: []models.Locality{}}
	}

	h.logger.Debug("search complete", map[string]interface{}{
		"query":   input.Query,
		"results": len(locations),
	})
	h.record(ctx, input, locations, true)
	return &Output{Locations: locations}
}

func (h *Handler) execute(ctx context.Context, input *Input) ([]models.Locality, error) {
	out, err := h.lookup.Execute(ctx, &lookup.Input{Query: input.Query})
	if err != nil {
		return nil, err
	}
	return FilterByCategory(out.Localities, input.Categories), nil
}

func (h *Handler) record(ctx context.Context, input *Input, output interface{}, success bool) {
	if h.config.LogActivity && h.recorder != nil {
		h.recorder.Record(ctx, models.ActivitySearch, input, output, success)
	}
}

// FilterByCategory keeps localities whose category is in categories. An
// empty allow-list keeps everything.
func FilterByCategory(localities []models.Locality, categories []string) []models.Locality {
	if len(categories) == 0 {
		return localities
	}
	allowed := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		allowed[c] = struct{}{}
	}

	out := make([]models.Locality, 0, len(localities))
	for _, loc := range localities {
		if _, ok := allowed[loc.Category]; ok {
			out = append(out, loc)
		}
	}
	return out
}
