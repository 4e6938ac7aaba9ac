package logactivity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "address-validator/internal/common/errors"
	"address-validator/internal/common/logger"
	"address-validator/internal/common/metrics"
	"address-validator/internal/common/observability"
	"address-validator/internal/common/validation"
	"address-validator/internal/models"
)

const Operation = "log-activity"

var ErrInvalidInput = errors.New("INVALID_LOG_INPUT")

type Handler struct {
	config *Config
	schema *validation.Schema
	store  Store
	obs    *observability.Observability
	logger logger.Logger
}

func NewHandler(config *Config, store Store, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		schema: validation.MustCompile(config.Schema),
		store:  store,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"operation": Operation}),
	}
}

// Execute never returns an error: every failure is reported as
// {id: "", success: false}.
func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	start := time.Now()
	out, err := h.execute(ctx, input)
	h.obs.RecordOperation(ctx, Operation, metrics.Status(err), time.Since(start))
	if err != nil {
		fields := map[string]interface{}{
			"error":     err,
			"errorCode": string(apperrors.CodeOf(err)),
		}
		if input != nil {
			fields["type"] = input.Type
		}
		h.logger.Error("failed to log activity", fields)
		return &Output{ID: "", Success: false}
	}
	return out
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, apperrors.NewInvalidLogInputError("input cannot be nil"))
	}

	result, err := h.schema.Validate(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, apperrors.NewInvalidLogInputError(err.Error()))
	}
	if !result.Valid {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput,
			apperrors.NewInvalidLogInputError(strings.Join(result.GetErrorMessages(), "; ")))
	}

	id, err := h.store.Store(ctx, models.LogEntry{
		Type:      input.Type,
		Input:     input.Input,
		Output:    input.Output,
		Success:   input.Success,
		SessionID: input.SessionID,
		UserID:    input.UserID,
	})
	if err != nil {
		return nil, err
	}

	h.logger.Debug("activity logged", map[string]interface{}{
		"id":   id,
		"type": input.Type,
	})
	return &Output{ID: id, Success: true}, nil
}
