package recorder

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"address-validator/internal/common/logger"
	"address-validator/internal/models"
)

type fakeIndex struct {
	mu     sync.Mutex
	docs   []map[string]interface{}
	paths  []string
	status int
	body   string
	delay  time.Duration
}

func (f *fakeIndex) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs)
}

func newFakeElasticsearch(t *testing.T, status int, body string) (*elasticsearch.Client, *fakeIndex) {
	t.Helper()
	return newSlowElasticsearch(t, status, body, 0)
}

func newSlowElasticsearch(t *testing.T, status int, body string, delay time.Duration) (*elasticsearch.Client, *fakeIndex) {
	t.Helper()
	fake := &fakeIndex{status: status, body: body, delay: delay}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(fake.delay)
		raw, _ := io.ReadAll(r.Body)
		var doc map[string]interface{}
		_ = json.Unmarshal(raw, &doc)

		fake.mu.Lock()
		fake.docs = append(fake.docs, doc)
		fake.paths = append(fake.paths, r.Method+" "+r.URL.Path)
		fake.mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(fake.status)
		_, _ = w.Write([]byte(fake.body))
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}, DisableRetry: true})
	require.NoError(t, err)
	return client, fake
}

func createTestConfig() *Config {
	return &Config{Index: "activity", Timeout: 2 * time.Second, ServerSideLogging: true}
}

func TestRecorder_Store(t *testing.T) {
	client, fake := newFakeElasticsearch(t, http.StatusCreated, `{"_id":"abc123","result":"created"}`)
	r := New(createTestConfig(), client, nil, logger.NewTestLogger(t))
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	id, err := r.Store(context.Background(), models.LogEntry{
		ID:        "caller-supplied",
		Type:      "VERIFY",
		Input:     `{"postcode":"2026"}`,
		Output:    `"ok"`,
		Success:   true,
		SessionID: "session_1",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	require.Len(t, fake.docs, 1)
	assert.Equal(t, "POST /activity/_doc", fake.paths[0])

	doc := fake.docs[0]
	assert.Equal(t, "VERIFY", doc["type"])
	assert.Equal(t, true, doc["success"])
	assert.Equal(t, "session_1", doc["sessionId"])
	assert.Equal(t, "2024-05-01T10:00:00Z", doc["timestamp"])
	assert.Equal(t, doc["timestamp"], doc["@timestamp"])
	_, hasID := doc["id"]
	assert.False(t, hasID)
	_, hasUser := doc["userId"]
	assert.False(t, hasUser)
}

func TestRecorder_Store_FallbackID(t *testing.T) {
	client, _ := newFakeElasticsearch(t, http.StatusCreated, `{"result":"created"}`)
	r := New(createTestConfig(), client, nil, logger.NewTestLogger(t))

	id, err := r.Store(context.Background(), models.LogEntry{Type: "SEARCH"})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^log_\d+_[0-9a-f]{8}$`), id)
}

func TestRecorder_Store_Error(t *testing.T) {
	client, _ := newFakeElasticsearch(t, http.StatusInternalServerError, `{"error":"boom"}`)
	r := New(createTestConfig(), client, nil, logger.NewTestLogger(t))

	_, err := r.Store(context.Background(), models.LogEntry{Type: "SEARCH"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreFailed)
}

func TestRecorder_Record(t *testing.T) {
	client, fake := newFakeElasticsearch(t, http.StatusCreated, `{"_id":"x"}`)
	r := New(createTestConfig(), client, nil, logger.NewTestLogger(t))

	ctx := WithIdentity(context.Background(), Identity{SessionID: "session_9", UserID: "u1"})
	r.Record(ctx, models.ActivitySearch, map[string]interface{}{"query": "Bondi"}, []string{"a"}, true)
	require.NoError(t, r.Drain(context.Background()))

	require.Len(t, fake.docs, 1)
	doc := fake.docs[0]
	assert.Equal(t, "SEARCH", doc["type"])
	assert.JSONEq(t, `{"query":"Bondi"}`, doc["input"].(string))
	assert.JSONEq(t, `["a"]`, doc["output"].(string))
	assert.Equal(t, "session_9", doc["sessionId"])
	assert.Equal(t, "u1", doc["userId"])
}

func TestRecorder_Record_Disabled(t *testing.T) {
	client, fake := newFakeElasticsearch(t, http.StatusCreated, `{"_id":"x"}`)
	cfg := createTestConfig()
	cfg.ServerSideLogging = false
	r := New(cfg, client, nil, logger.NewTestLogger(t))

	r.Record(context.Background(), models.ActivityVerify, "in", "out", true)
	require.NoError(t, r.Drain(context.Background()))
	assert.Empty(t, fake.docs)

	var nilRecorder *Recorder
	nilRecorder.Record(context.Background(), models.ActivityVerify, "in", "out", true)
	assert.NoError(t, nilRecorder.Drain(context.Background()))
}

func TestRecorder_Record_SwallowsFailure(t *testing.T) {
	client, _ := newFakeElasticsearch(t, http.StatusServiceUnavailable, `{}`)
	r := New(createTestConfig(), client, nil, logger.NewNoOpLogger())

	// the write fails, Record must not panic or block
	r.Record(context.Background(), models.ActivityVerify, "in", "out", false)
	require.NoError(t, r.Drain(context.Background()))
}

func TestRecorder_Record_DoesNotWaitForSlowStore(t *testing.T) {
	client, fake := newSlowElasticsearch(t, http.StatusServiceUnavailable, `{}`, 500*time.Millisecond)
	r := New(createTestConfig(), client, nil, logger.NewNoOpLogger())

	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	r.Record(ctx, models.ActivityVerify, "in", "out", true)
	elapsed := time.Since(start)
	cancel()

	assert.Less(t, elapsed, 100*time.Millisecond)

	// the cancelled request context must not abort the queued write
	require.NoError(t, r.Drain(context.Background()))
	assert.Equal(t, 1, fake.count())
}

func TestRecorder_Record_DropsWhenBacklogged(t *testing.T) {
	client, fake := newSlowElasticsearch(t, http.StatusCreated, `{"_id":"x"}`, 300*time.Millisecond)
	cfg := createTestConfig()
	cfg.MaxPending = 1
	r := New(cfg, client, nil, logger.NewNoOpLogger())

	r.Record(context.Background(), models.ActivitySearch, "first", "out", true)
	r.Record(context.Background(), models.ActivitySearch, "second", "out", true)
	require.NoError(t, r.Drain(context.Background()))

	require.Equal(t, 1, fake.count())
	assert.Equal(t, "first", fake.docs[0]["input"])
}

func TestRecorder_Drain_RespectsDeadline(t *testing.T) {
	client, _ := newSlowElasticsearch(t, http.StatusCreated, `{"_id":"x"}`, 500*time.Millisecond)
	r := New(createTestConfig(), client, nil, logger.NewNoOpLogger())

	r.Record(context.Background(), models.ActivityVerify, "in", "out", true)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Drain(ctx), context.DeadlineExceeded)

	require.NoError(t, r.Drain(context.Background()))
}

func TestFallbackID(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	assert.Regexp(t, `^log_1700000000123_[0-9a-f]{8}$`, FallbackID(ts))
}
