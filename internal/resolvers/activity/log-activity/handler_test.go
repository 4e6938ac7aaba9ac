package logactivity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"address-validator/internal/common/logger"
	"address-validator/internal/models"
)

type fakeStore struct {
	entries []models.LogEntry
	id      string
	err     error
}

func (f *fakeStore) Store(_ context.Context, entry models.LogEntry) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.entries = append(f.entries, entry)
	return f.id, nil
}

func createTestHandler(t *testing.T, store Store) *Handler {
	return NewHandler(LoadConfig(), store, nil, logger.NewTestLogger(t))
}

func TestHandler_Execute_Success(t *testing.T) {
	store := &fakeStore{id: "doc-1"}
	h := createTestHandler(t, store)

	out := h.Execute(context.Background(), &Input{
		Type:      "VERIFY",
		Input:     `{"postcode":"2026","suburb":"Bondi","state":"NSW"}`,
		Output:    `{"isValid":true}`,
		Success:   true,
		SessionID: "session_abc",
	})

	assert.Equal(t, &Output{ID: "doc-1", Success: true}, out)
	require.Len(t, store.entries, 1)
	assert.Equal(t, "VERIFY", store.entries[0].Type)
	assert.Equal(t, "session_abc", store.entries[0].SessionID)
	assert.Empty(t, store.entries[0].UserID)
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input *Input
	}{
		{name: "nil input", input: nil},
		{name: "unknown type", input: &Input{Type: "DELETE", Input: "{}", Output: "{}"}},
		{name: "empty type", input: &Input{Input: "{}", Output: "{}"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{id: "never"}
			h := createTestHandler(t, store)

			out := h.Execute(context.Background(), tt.input)
			assert.Equal(t, &Output{ID: "", Success: false}, out)
			assert.Empty(t, store.entries)
		})
	}
}

func TestHandler_Execute_StoreFailure(t *testing.T) {
	h := createTestHandler(t, &fakeStore{err: errors.New("connection refused")})

	out := h.Execute(context.Background(), &Input{Type: "SEARCH", Input: "{}", Output: "[]", Success: false})
	assert.False(t, out.Success)
	assert.Empty(t, out.ID)
}

func TestHandler_execute_ErrorKinds(t *testing.T) {
	h := createTestHandler(t, &fakeStore{id: "x"})

	_, err := h.execute(context.Background(), &Input{Type: "verify", Input: "{}", Output: "{}"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
