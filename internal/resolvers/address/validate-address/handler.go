package validateaddress

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "address-validator/internal/common/errors"
	"address-validator/internal/common/logger"
	"address-validator/internal/common/metrics"
	"address-validator/internal/common/observability"
	"address-validator/internal/models"
	"address-validator/internal/resolvers/locality/lookup"
)

const Operation = "validate-address"

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

// Execute always produces a result. Upstream and parse failures are
// reported through the outcome rather than an error.
func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	if input == nil {
		input = &Input{}
	}
	start := time.Now()

	result := h.execute(ctx, input)

	metrics.AddressValidations.WithLabelValues(string(result.Outcome)).Inc()
	h.obs.RecordOperation(ctx, Operation, string(result.Outcome), time.Since(start))
	h.logger.Info("address validated", map[string]interface{}{
		"postcode": input.Postcode,
		"suburb":   input.Suburb,
		"state":    input.State,
		"outcome":  string(result.Outcome),
	})

	if h.config.LogActivity && h.recorder != nil {
		h.recorder.Record(ctx, models.ActivityVerify, input, result, result.IsValid())
	}
	return result
}

func (h *Handler) execute(ctx context.Context, input *Input) *Output {
	out, err := h.lookup.Execute(ctx, &lookup.Input{Query: input.Suburb, State: input.State})
	if err != nil {
		return h.failure(err)
	}
	return Match(out.Localities, input.Postcode, input.Suburb, input.State)
}

func (h *Handler) failure(err error) *Output {
	if status, upstreamMessage, ok := lookup.UpstreamStatus(err); ok {
		h.logger.Warn("upstream rejected validation lookup", map[string]interface{}{
			"status":          status,
			"upstreamMessage": upstreamMessage,
		})
		message := upstreamMessage
		if message == "" {
			message = fmt.Sprintf(msgError, fmt.Sprintf(msgUpstreamStatus, status))
		}
		return &Output{Outcome: models.OutcomeUpstreamError, Message: message}
	}

	h.logger.Error("address validation failed", map[string]interface{}{"error": err})
	return &Output{
		Outcome: models.OutcomeError,
		Message: fmt.Sprintf(msgError, errorMessage(err)),
	}
}

// Match applies the suburb, state, and postcode rules to localities.
// Suburb and state compare case-insensitively after trimming; the postcode
// compares exactly after trimming. Messages echo the caller's raw input.
func Match(localities []models.Locality, postcode, suburb, state string) *Output {
	wantSuburb := normalize(suburb)
	wantState := normalize(state)
	wantPostcode := strings.TrimSpace(postcode)

	suburbMatched := false
	for _, loc := range localities {
		if normalize(loc.Location) != wantSuburb || normalize(loc.State) != wantState {
			continue
		}
		suburbMatched = true
		if loc.Postcode == wantPostcode {
			return &Output{Outcome: models.OutcomeValid, Message: msgValid}
		}
	}

	if !suburbMatched {
		return &Output{Outcome: models.OutcomeSuburbNotFound, Message: suburbNotFound(suburb, state)}
	}
	return &Output{Outcome: models.OutcomePostcodeMismatch, Message: postcodeMismatch(postcode, suburb)}
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// errorMessage prefers the human-readable message of a coded error.
func errorMessage(err error) string {
	if se, ok := apperrors.As(err); ok && se.Message != "" {
		return se.Message
	}
	return err.Error()
}
