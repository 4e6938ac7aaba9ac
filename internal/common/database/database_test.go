package database

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"address-validator/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeElasticsearch(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestElasticsearch_Ping(t *testing.T) {
	srv := fakeElasticsearch(t, http.StatusOK)

	es, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL, Index: "activity", APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, "activity", es.Index)
	assert.NoError(t, es.Ping(context.Background()))
}

func TestElasticsearch_PingError(t *testing.T) {
	srv := fakeElasticsearch(t, http.StatusServiceUnavailable)

	es, err := NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	assert.Error(t, es.Ping(context.Background()))
}

func TestElasticsearch_SingleAttemptOnUnavailable(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	es, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL, Index: "activity"})
	require.NoError(t, err)

	res, err := es.Client.Index("activity", strings.NewReader(`{"type":"VERIFY"}`))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestRedis_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	rc := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer rc.Close()

	assert.NoError(t, rc.Ping(context.Background()))

	mr.Close()
	assert.Error(t, rc.Ping(context.Background()))
}

func TestNewRedis_Options(t *testing.T) {
	rc := NewRedis(config.RedisConfig{Address: "localhost:6390", DB: 2, Timeout: 750})
	defer rc.Close()

	opts := rc.Client.Options()
	assert.Equal(t, "localhost:6390", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 750*time.Millisecond, opts.ReadTimeout)
	assert.Equal(t, 750*time.Millisecond, opts.DialTimeout)
	assert.Equal(t, 0, opts.MaxRetries, "retries disabled")

	defaults := NewRedis(config.RedisConfig{Address: "localhost:6390"})
	defer defaults.Close()
	assert.Equal(t, 3*time.Second, defaults.Client.Options().WriteTimeout)
}

func TestRedis_SessionsUsesClient(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer rc.Close()

	require.NoError(t, rc.Sessions().Set(context.Background(), "session:x", "1", 0).Err())
	assert.True(t, mr.Exists("session:x"))
}
