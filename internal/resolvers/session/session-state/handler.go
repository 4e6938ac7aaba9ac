package sessionstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"

	apperrors "address-validator/internal/common/errors"
	"address-validator/internal/common/logger"
	"address-validator/internal/common/metrics"
	"address-validator/internal/common/observability"
	"address-validator/internal/models"
)

const Operation = "session-state"

var (
	ErrInvalidSessionID = errors.New("INVALID_SESSION_ID")
	ErrInvalidKey       = errors.New("INVALID_SESSION_KEY")
	ErrInvalidValue     = errors.New("INVALID_SESSION_VALUE")
	ErrStoreFailed      = errors.New("SESSION_STORE_FAILED")
)

type Handler struct {
	config *Config
	client redis.Cmdable
	obs    *observability.Observability
	logger logger.Logger
}

func NewHandler(config *Config, client redis.Cmdable, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"operation": Operation}),
	}
}

// Get returns the stored JSON for the key, or the key's default.
func (h *Handler) Get(ctx context.Context, input *GetInput) (out *GetOutput, err error) {
	start := time.Now()
	defer func() { h.obs.RecordOperation(ctx, Operation+".get", metrics.Status(err), time.Since(start)) }()

	key, err := h.checkInput(input.SessionID, input.Key)
	if err != nil {
		return nil, err
	}

	ctx, span := h.obs.StartSpan(ctx, "redis.get", attribute.String("key", string(key)))
	value, err := h.client.Get(ctx, StateKey(input.SessionID, string(key))).Result()
	if errors.Is(err, redis.Nil) {
		observability.EndSpan(span, nil)
		return &GetOutput{Value: key.Default(), Stored: false}, nil
	}
	observability.EndSpan(span, err)
	if err != nil {
		h.logger.Error("failed to read session state", map[string]interface{}{
			"sessionId": input.SessionID,
			"key":       string(key),
			"error":     err,
		})
		return nil, fmt.Errorf("%w: %w", ErrStoreFailed, apperrors.NewSessionStoreFailedError(err))
	}

	return &GetOutput{Value: value, Stored: true}, nil
}

// Save stores value under the key and refreshes its TTL.
func (h *Handler) Save(ctx context.Context, input *SaveInput) (out *SaveOutput, err error) {
	start := time.Now()
	defer func() { h.obs.RecordOperation(ctx, Operation+".save", metrics.Status(err), time.Since(start)) }()

	key, err := h.checkInput(input.SessionID, input.Key)
	if err != nil {
		return nil, err
	}
	if !json.Valid([]byte(input.Value)) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidValue,
			apperrors.NewInvalidSessionValueError(fmt.Errorf("key %s", key)))
	}

	ctx, span := h.obs.StartSpan(ctx, "redis.set", attribute.String("key", string(key)))
	err = h.client.Set(ctx, StateKey(input.SessionID, string(key)), input.Value, h.config.TTL).Err()
	observability.EndSpan(span, err)
	if err != nil {
		h.logger.Error("failed to write session state", map[string]interface{}{
			"sessionId": input.SessionID,
			"key":       string(key),
			"error":     err,
		})
		return nil, fmt.Errorf("%w: %w", ErrStoreFailed, apperrors.NewSessionStoreFailedError(err))
	}

	h.logger.Debug("session state saved", map[string]interface{}{
		"sessionId": input.SessionID,
		"key":       string(key),
	})
	return &SaveOutput{Saved: true}, nil
}

func (h *Handler) checkInput(sessionID, rawKey string) (models.SessionKey, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", fmt.Errorf("%w: sessionId is required", ErrInvalidSessionID)
	}
	key, ok := models.ParseSessionKey(rawKey)
	if !ok {
		return "", fmt.Errorf("%w: %w", ErrInvalidKey, apperrors.NewInvalidSessionKeyError(rawKey))
	}
	return key, nil
}
