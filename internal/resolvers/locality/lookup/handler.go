package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "address-validator/internal/common/errors"
	commonhttp "address-validator/internal/common/http"
	"address-validator/internal/common/logger"
	"address-validator/internal/common/metrics"
	"address-validator/internal/common/observability"
	"address-validator/internal/models"
)

const (
	Operation = "locality-lookup"

	searchPath     = "/postcode/search.json"
	metricEndpoint = "postcode/search"
)

var (
	ErrUpstreamUnavailable = errors.New("UPSTREAM_UNAVAILABLE")
	ErrUpstreamStatus      = errors.New("UPSTREAM_STATUS")
	ErrUpstreamParse       = errors.New("UPSTREAM_PARSE_FAILED")
)

type Handler struct {
	config *Config
	client *commonhttp.Client
	obs    *observability.Observability
	logger logger.Logger
}

func NewHandler(config *Config, client *commonhttp.Client, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"operation": Operation}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (out *Output, err error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	ctx, span := h.obs.StartSpan(ctx, "upstream.postcode_search",
		attribute.String("query", input.Query),
		attribute.String("state", input.State),
	)
	defer func() { observability.EndSpan(span, err) }()

	params := url.Values{}
	params.Set("q", input.Query)
	if input.State != "" {
		params.Set("state", input.State)
	}
	endpoint := h.config.BaseURL + searchPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, apperrors.NewUpstreamUnavailableError(err))
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := h.client.DoWithContext(ctx, req)
	if err != nil {
		metrics.UpstreamRequestDuration.WithLabelValues(metricEndpoint, "error").Observe(time.Since(start).Seconds())
		h.logger.Error("upstream request failed", map[string]interface{}{
			"query": input.Query,
			"error": err,
		})
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, apperrors.NewUpstreamUnavailableError(err))
	}
	defer resp.Body.Close()
	metrics.UpstreamRequestDuration.WithLabelValues(metricEndpoint, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, apperrors.NewUpstreamUnavailableError(err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := embeddedError(body)
		h.logger.Warn("upstream returned non-2xx status", map[string]interface{}{
			"status":          resp.StatusCode,
			"upstreamMessage": msg,
		})
		return nil, fmt.Errorf("%w: %w", ErrUpstreamStatus, apperrors.NewUpstreamStatusError(resp.StatusCode, msg))
	}

	localities, err := normalize(body)
	if err != nil {
		h.logger.Error("failed to parse upstream response", map[string]interface{}{"error": err})
		return nil, fmt.Errorf("%w: %w", ErrUpstreamParse, apperrors.NewUpstreamParseError(err))
	}

	h.logger.Debug("upstream lookup complete", map[string]interface{}{
		"query":   input.Query,
		"state":   input.State,
		"matches": len(localities),
	})

	return &Output{Localities: localities}, nil
}

// UpstreamStatus extracts the status code and embedded upstream message
// from an ErrUpstreamStatus error.
func UpstreamStatus(err error) (status int, message string, ok bool) {
	if !errors.Is(err, ErrUpstreamStatus) {
		return 0, "", false
	}
	se, found := apperrors.As(err)
	if !found {
		return 0, "", true
	}
	status, _ = se.Metadata["status"].(int)
	message, _ = se.Metadata["upstreamMessage"].(string)
	return status, message, true
}

// normalize turns the upstream body into a list. An empty body or an empty
// localities value means no matches; a single locality object becomes a
// one-element list.
func normalize(body []byte) ([]models.Locality, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return []models.Locality{}, nil
	}

	var resp upstreamResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	raw := bytes.TrimSpace(resp.Localities)
	if isEmptyValue(raw) {
		return []models.Locality{}, nil
	}

	// Some responses put the records directly under localities.
	if raw[0] == '[' {
		return decodeRecords(raw)
	}
	if raw[0] != '{' {
		return nil, fmt.Errorf("unexpected localities value: %s", truncate(raw))
	}

	var wrapper upstreamLocalities
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, err
	}
	return decodeRecords(bytes.TrimSpace(wrapper.Locality))
}

func decodeRecords(raw []byte) ([]models.Locality, error) {
	if isEmptyValue(raw) {
		return []models.Locality{}, nil
	}

	var records []upstreamLocality
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, err
		}
	case '{':
		var single upstreamLocality
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, err
		}
		records = []upstreamLocality{single}
	default:
		return nil, fmt.Errorf("unexpected locality value: %s", truncate(raw))
	}

	out := make([]models.Locality, 0, len(records))
	for _, r := range records {
		out = append(out, r.toModel())
	}
	return out, nil
}

// isEmptyValue reports missing, null, or string-typed values. The upstream
// sends an empty string when nothing matched.
func isEmptyValue(raw []byte) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null")) || raw[0] == '"'
}

// embeddedError returns the string "error" field of a JSON error body.
func embeddedError(body []byte) string {
	var e upstreamError
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	var msg string
	if err := json.Unmarshal(e.Error, &msg); err != nil {
		return ""
	}
	return strings.TrimSpace(msg)
}

func truncate(b []byte) string {
	const max = 64
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
