package getlogs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"go.opentelemetry.io/otel/attribute"

	apperrors "address-validator/internal/common/errors"
	"address-validator/internal/common/logger"
	"address-validator/internal/common/metrics"
	"address-validator/internal/common/observability"
	"address-validator/internal/models"
)

const Operation = "get-logs"

var ErrQueryFailed = errors.New("LOG_QUERY_FAILED")

type Handler struct {
	config *Config
	client *elasticsearch.Client
	obs    *observability.Observability
	logger logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"operation": Operation}),
	}
}

// Execute returns the most recent entries. Store failures yield an empty list.
func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	if input == nil {
		input = &Input{Limit: -1}
	}
	start := time.Now()
	out, err := h.execute(ctx, input)
	h.obs.RecordOperation(ctx, Operation, metrics.Status(err), time.Since(start))
	if err != nil {
		h.logger.Error("failed to retrieve logs", map[string]interface{}{
			"error":  err,
			"limit":  input.Limit,
			"offset": input.Offset,
			"type":   input.Type,
		})
		return &Output{Logs: []models.LogEntry{}}
	}
	return out
}

func (h *Handler) execute(ctx context.Context, input *Input) (out *Output, err error) {
	body := h.buildQuery(input)

	ctx, span := h.obs.StartSpan(ctx, "elasticsearch.search",
		attribute.String("index", h.config.Index),
		attribute.Int("from", body.From),
		attribute.Int("size", body.Size),
	)
	defer func() { observability.EndSpan(span, err) }()

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, apperrors.NewLogQueryFailedError(err))
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	res, err := h.client.Search(
		h.client.Search.WithContext(ctx),
		h.client.Search.WithIndex(h.config.Index),
		h.client.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, apperrors.NewLogQueryFailedError(err))
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed,
			apperrors.NewLogQueryFailedError(fmt.Errorf("search query failed: %s", res.Status())))
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, apperrors.NewLogQueryFailedError(err))
	}

	logs := make([]models.LogEntry, 0, len(sr.Hits.Hits))
	for _, hit := range sr.Hits.Hits {
		entry := hit.Source.LogEntry
		entry.ID = hit.ID
		if entry.Timestamp == "" {
			entry.Timestamp = hit.Source.AtTimestamp
		}
		logs = append(logs, entry)
	}

	return &Output{Logs: logs}, nil
}

func (h *Handler) buildQuery(input *Input) searchBody {
	limit := input.Limit
	if limit < 0 {
		limit = h.config.DefaultLimit
	}
	if h.config.MaxLimit > 0 && limit > h.config.MaxLimit {
		limit = h.config.MaxLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	query := map[string]interface{}{"match_all": map[string]interface{}{}}
	if input.Type != "" {
		query = map[string]interface{}{
			"match": map[string]interface{}{"type": input.Type},
		}
	}

	return searchBody{
		Query: query,
		Sort: []map[string]interface{}{
			{"@timestamp": map[string]interface{}{"order": "desc"}},
		},
		From: offset,
		Size: limit,
	}
}
