package createsession

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "address-validator/internal/common/errors"
	"address-validator/internal/common/logger"
	"address-validator/internal/common/metrics"
	"address-validator/internal/common/observability"
	"address-validator/internal/models"
)

const Operation = "create-session"

var ErrStoreFailed = errors.New("SESSION_STORE_FAILED")

type Handler struct {
	config *Config
	client redis.Cmdable
	obs    *observability.Observability
	logger logger.Logger
	newID  func() string
	now    func() time.Time
}

func NewHandler(config *Config, client redis.Cmdable, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"operation": Operation}),
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// MarkerKey records when a session was created.
func MarkerKey(sessionID string) string {
	return "session:" + sessionID
}

func (h *Handler) Execute(ctx context.Context) (out *Output, err error) {
	start := time.Now()
	defer func() { h.obs.RecordOperation(ctx, Operation, metrics.Status(err), time.Since(start)) }()

	id := models.SessionIDPrefix + h.newID()
	createdAt := h.now().UTC().Format(time.RFC3339)

	ctx, span := h.obs.StartSpan(ctx, "redis.set")
	err = h.client.Set(ctx, MarkerKey(id), createdAt, h.config.TTL).Err()
	observability.EndSpan(span, err)
	if err != nil {
		h.logger.Error("failed to create session", map[string]interface{}{"error": err})
		return nil, fmt.Errorf("%w: %w", ErrStoreFailed, apperrors.NewSessionStoreFailedError(err))
	}

	h.logger.Info("session created", map[string]interface{}{"sessionId": id})
	return &Output{SessionID: id, CreatedAt: createdAt}, nil
}
