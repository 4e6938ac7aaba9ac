package lookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonhttp "address-validator/internal/common/http"
	"address-validator/internal/common/logger"
	"address-validator/internal/models"
)

type upstreamCall struct {
	path  string
	query string
	state string
	auth  string
}

func newUpstream(t *testing.T, status int, body string) (*httptest.Server, *upstreamCall) {
	t.Helper()
	call := &upstreamCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call.path = r.URL.Path
		call.query = r.URL.Query().Get("q")
		call.state = r.URL.Query().Get("state")
		call.auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, call
}

func createTestHandler(t *testing.T, baseURL string) *Handler {
	cfg := &Config{BaseURL: baseURL, Timeout: 2 * time.Second}
	client := commonhttp.NewClient(cfg.Timeout, "test-token")
	return NewHandler(cfg, client, nil, logger.NewTestLogger(t))
}

func TestHandler_Execute_RequestShape(t *testing.T) {
	srv, call := newUpstream(t, http.StatusOK, `{"localities":""}`)
	h := createTestHandler(t, srv.URL)

	_, err := h.Execute(context.Background(), &Input{Query: "Mount Isa", State: "QLD"})
	require.NoError(t, err)

	assert.Equal(t, "/postcode/search.json", call.path)
	assert.Equal(t, "Mount Isa", call.query)
	assert.Equal(t, "QLD", call.state)
	assert.Equal(t, "Bearer test-token", call.auth)
}

func TestHandler_Execute_Normalization(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		validate func(t *testing.T, got []models.Locality)
	}{
		{
			name: "array of records",
			body: `{"localities":{"locality":[
				{"category":"Delivery Area","id":110,"latitude":-33.891,"location":"BONDI","longitude":151.262,"postcode":2026,"state":"NSW"},
				{"category":"Post Office Boxes","id":111,"location":"BONDI JUNCTION","postcode":"1355","state":"NSW"}
			]}}`,
			validate: func(t *testing.T, got []models.Locality) {
				require.Len(t, got, 2)
				assert.Equal(t, "BONDI", got[0].Location)
				assert.Equal(t, "2026", got[0].Postcode)
				require.NotNil(t, got[0].Latitude)
				assert.InDelta(t, -33.891, *got[0].Latitude, 1e-9)
				require.NotNil(t, got[0].ID)
				assert.Equal(t, int64(110), *got[0].ID)
				assert.Equal(t, "Post Office Boxes", got[1].Category)
				assert.Nil(t, got[1].Latitude)
				assert.Nil(t, got[1].Longitude)
			},
		},
		{
			name: "single object is wrapped",
			body: `{"localities":{"locality":{"location":"DARWIN","postcode":800,"state":"NT"}}}`,
			validate: func(t *testing.T, got []models.Locality) {
				require.Len(t, got, 1)
				assert.Equal(t, "800", got[0].Postcode)
				assert.Equal(t, models.DefaultCategory, got[0].Category)
				assert.Nil(t, got[0].ID)
			},
		},
		{
			name: "empty body",
			body: "  \n",
			validate: func(t *testing.T, got []models.Locality) {
				assert.Empty(t, got)
				assert.NotNil(t, got)
			},
		},
		{
			name: "empty string localities",
			body: `{"localities":""}`,
			validate: func(t *testing.T, got []models.Locality) {
				assert.Empty(t, got)
			},
		},
		{
			name: "null localities",
			body: `{"localities":null}`,
			validate: func(t *testing.T, got []models.Locality) {
				assert.Empty(t, got)
			},
		},
		{
			name: "missing localities",
			body: `{}`,
			validate: func(t *testing.T, got []models.Locality) {
				assert.Empty(t, got)
			},
		},
		{
			name: "string coordinates and id",
			body: `{"localities":{"locality":{"location":"PERTH","postcode":"6000","state":"WA","latitude":"-31.95","longitude":"115.86","id":"42"}}}`,
			validate: func(t *testing.T, got []models.Locality) {
				require.Len(t, got, 1)
				require.NotNil(t, got[0].Longitude)
				assert.InDelta(t, 115.86, *got[0].Longitude, 1e-9)
				require.NotNil(t, got[0].ID)
				assert.Equal(t, int64(42), *got[0].ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newUpstream(t, http.StatusOK, tt.body)
			h := createTestHandler(t, srv.URL)

			out, err := h.Execute(context.Background(), &Input{Query: "q"})
			require.NoError(t, err)
			tt.validate(t, out.Localities)
		})
	}
}

func TestHandler_Execute_SingleMatchesOneElementArray(t *testing.T) {
	single, _ := newUpstream(t, http.StatusOK, `{"localities":{"locality":{"location":"BONDI","postcode":"2026","state":"NSW"}}}`)
	array, _ := newUpstream(t, http.StatusOK, `{"localities":{"locality":[{"location":"BONDI","postcode":"2026","state":"NSW"}]}}`)

	a, err := createTestHandler(t, single.URL).Execute(context.Background(), &Input{Query: "Bondi"})
	require.NoError(t, err)
	b, err := createTestHandler(t, array.URL).Execute(context.Background(), &Input{Query: "Bondi"})
	require.NoError(t, err)

	assert.Equal(t, b.Localities, a.Localities)
}

func TestHandler_Execute_Errors(t *testing.T) {
	t.Run("non-2xx with embedded error", func(t *testing.T) {
		srv, _ := newUpstream(t, http.StatusForbidden, `{"error":"Invalid auth token"}`)
		h := createTestHandler(t, srv.URL)

		_, err := h.Execute(context.Background(), &Input{Query: "Bondi"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUpstreamStatus))

		status, msg, ok := UpstreamStatus(err)
		assert.True(t, ok)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Invalid auth token", msg)
	})

	t.Run("non-2xx without embedded error", func(t *testing.T) {
		srv, _ := newUpstream(t, http.StatusBadGateway, `<html>bad gateway</html>`)
		h := createTestHandler(t, srv.URL)

		_, err := h.Execute(context.Background(), &Input{Query: "Bondi"})
		status, msg, ok := UpstreamStatus(err)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadGateway, status)
		assert.Empty(t, msg)
	})

	t.Run("non-string error field is ignored", func(t *testing.T) {
		srv, _ := newUpstream(t, http.StatusInternalServerError, `{"error":{"code":1}}`)
		h := createTestHandler(t, srv.URL)

		_, err := h.Execute(context.Background(), &Input{Query: "Bondi"})
		_, msg, ok := UpstreamStatus(err)
		assert.True(t, ok)
		assert.Empty(t, msg)
	})

	t.Run("malformed json", func(t *testing.T) {
		srv, _ := newUpstream(t, http.StatusOK, `{"localities":`)
		h := createTestHandler(t, srv.URL)

		_, err := h.Execute(context.Background(), &Input{Query: "Bondi"})
		assert.True(t, errors.Is(err, ErrUpstreamParse))
		_, _, ok := UpstreamStatus(err)
		assert.False(t, ok)
	})

	t.Run("unreachable upstream", func(t *testing.T) {
		srv, _ := newUpstream(t, http.StatusOK, `{}`)
		srv.Close()
		h := createTestHandler(t, srv.URL)

		_, err := h.Execute(context.Background(), &Input{Query: "Bondi"})
		assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
	})

	t.Run("nil input", func(t *testing.T) {
		h := createTestHandler(t, "http://127.0.0.1:1")
		_, err := h.Execute(context.Background(), nil)
		assert.Error(t, err)
	})
}
