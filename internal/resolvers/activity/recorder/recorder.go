package recorder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	apperrors "address-validator/internal/common/errors"
	"address-validator/internal/common/logger"
	"address-validator/internal/common/metrics"
	"address-validator/internal/common/observability"
	"address-validator/internal/models"
)

const Operation = "activity-recorder"

var ErrStoreFailed = errors.New("LOG_STORE_FAILED")

// Recorder appends activity documents to the activity index. Store writes
// inline; Record hands the write to a background goroutine.
type Recorder struct {
	config *Config
	client *elasticsearch.Client
	obs    *observability.Observability
	logger logger.Logger
	now    func() time.Time

	pending sync.WaitGroup
	slots   chan struct{}
}

func New(config *Config, client *elasticsearch.Client, obs *observability.Observability, log logger.Logger) *Recorder {
	maxPending := config.MaxPending
	if maxPending <= 0 {
		maxPending = DefaultMaxPending
	}
	return &Recorder{
		config: config,
		client: client,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"operation": Operation}),
		now:    time.Now,
		slots:  make(chan struct{}, maxPending),
	}
}

// Store indexes entry with server-side timestamps and returns the document id.
func (r *Recorder) Store(ctx context.Context, entry models.LogEntry) (id string, err error) {
	ctx, span := r.obs.StartSpan(ctx, "elasticsearch.index",
		attribute.String("index", r.config.Index),
		attribute.String("type", entry.Type),
	)
	defer func() {
		metrics.ActivityLogWrites.WithLabelValues(metrics.Status(err)).Inc()
		observability.EndSpan(span, err)
	}()

	now := r.now().UTC()
	entry.ID = ""
	entry.Timestamp = now.Format(time.RFC3339Nano)

	body, err := json.Marshal(document{LogEntry: entry, AtTimestamp: entry.Timestamp})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStoreFailed, apperrors.NewLogStoreFailedError(err))
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	res, err := r.client.Index(
		r.config.Index,
		bytes.NewReader(body),
		r.client.Index.WithContext(ctx),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStoreFailed, apperrors.NewLogStoreFailedError(err))
	}
	defer res.Body.Close()

	if res.IsError() {
		return "", fmt.Errorf("%w: %w", ErrStoreFailed,
			apperrors.NewLogStoreFailedError(fmt.Errorf("index request failed: %s", res.Status())))
	}

	var ir indexResponse
	if err := json.NewDecoder(res.Body).Decode(&ir); err != nil {
		r.logger.Warn("could not decode index response", map[string]interface{}{"error": err})
	}

	id = ir.ID
	if id == "" {
		id = FallbackID(now)
	}
	return id, nil
}

// Record queues one server-side activity entry when server side logging is
// enabled and returns without waiting for the write. Failures are logged and
// dropped; so are entries arriving while MaxPending writes are in flight.
func (r *Recorder) Record(ctx context.Context, typ models.ActivityType, input, output interface{}, success bool) {
	if r == nil || !r.config.ServerSideLogging {
		return
	}

	identity := IdentityFrom(ctx)
	entry := models.LogEntry{
		Type:      string(typ),
		Input:     marshalPayload(input),
		Output:    marshalPayload(output),
		Success:   success,
		SessionID: identity.SessionID,
		UserID:    identity.UserID,
	}

	select {
	case r.slots <- struct{}{}:
	default:
		metrics.ActivityLogWrites.WithLabelValues(metrics.StatusDropped).Inc()
		r.logger.Warn("activity writes backlogged, dropping entry", map[string]interface{}{
			"type":       entry.Type,
			"maxPending": cap(r.slots),
		})
		return
	}

	// The response may finish first; its cancellation must not abort the write.
	ctx = context.WithoutCancel(ctx)
	r.pending.Add(1)
	go func() {
		defer func() {
			<-r.slots
			r.pending.Done()
		}()
		if _, err := r.Store(ctx, entry); err != nil {
			r.logger.Error("failed to record activity", map[string]interface{}{
				"type":  entry.Type,
				"error": err,
			})
		}
	}()
}

// Drain waits for background writes started by Record, or until ctx is done.
func (r *Recorder) Drain(ctx context.Context) error {
	if r == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		r.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FallbackID builds a log id for stores that do not return one.
func FallbackID(t time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("log_%d_%s", t.UnixMilli(), suffix)
}

func marshalPayload(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
