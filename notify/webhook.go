package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/emberquest/server/config"
	"github.com/emberquest/server/model"
	"go.uber.org/zap"
)

// Webhook posts achievement announcements to a Discord-compatible webhook.
// Delivery is fire-and-forget: quest claims never wait on, or fail because
// of, the chat integration.
type Webhook struct {
	url     string
	client  *http.Client
	logger  *zap.Logger
	enabled bool
}

func NewWebhook(cfg config.NotifyConfig, logger *zap.Logger) *Webhook {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Webhook{
		url:     cfg.WebhookURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		enabled: cfg.WebhookURL != "",
	}
}

type webhookPayload struct {
	Content string `json:"content"`
}

// QuestClaimed announces an achievement claim asynchronously.
func (w *Webhook) QuestClaimed(charID int64, quest *model.Quest) {
	if !w.enabled {
		return
	}
	content := fmt.Sprintf("Character #%d earned the achievement **%s**!", charID, quest.Title)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), w.client.Timeout)
		defer cancel()
		if err := w.send(ctx, content); err != nil {
			w.logger.Error("webhook delivery failed",
				zap.Int64("char_id", charID),
				zap.Int64("quest_id", quest.ID),
				zap.Error(err))
		}
	}()
}

func (w *Webhook) send(ctx context.Context, content string) error {
	body, err := json.Marshal(webhookPayload{Content: content})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
