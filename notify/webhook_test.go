package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/emberquest/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSend_PostsJSONPayload(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	w := NewWebhook(config.NotifyConfig{WebhookURL: srv.URL, Timeout: time.Second}, zap.NewNop())
	require.NoError(t, w.send(context.Background(), "hello"))
	assert.Equal(t, "hello", got.Content)
}

func TestSend_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	w := NewWebhook(config.NotifyConfig{WebhookURL: srv.URL, Timeout: time.Second}, zap.NewNop())
	assert.Error(t, w.send(context.Background(), "hello"))
}

func TestQuestClaimed_DisabledWithoutURL(t *testing.T) {
	w := NewWebhook(config.NotifyConfig{}, zap.NewNop())
	assert.False(t, w.enabled)
	// Must not panic or block.
	w.QuestClaimed(1, nil)
}
