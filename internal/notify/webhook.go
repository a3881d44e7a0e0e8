// Package notify tells an external endpoint when an ingestion has finished.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/ingestq/internal/domain"
	"github.com/timmy/ingestq/internal/logger"
)

// CompletionPayload is the JSON body POSTed to the webhook.
type CompletionPayload struct {
	IngestionID string          `json:"ingestion_id"`
	Priority    domain.Priority `json:"priority"`
	Status      domain.Status   `json:"status"`
	CompletedAt time.Time       `json:"completed_at"`
}

// WebhookConfig holds configuration for the webhook notifier.
type WebhookConfig struct {
	URL     string
	Timeout time.Duration
}

// WebhookNotifier posts a CompletionPayload once the last batch of an ingestion completes.
// Deliveries run in their own goroutines so the batch worker is never delayed.
type WebhookNotifier struct {
	client *resty.Client
	url    string
	wg     sync.WaitGroup
}

// NewWebhookNotifier creates a notifier for cfg.URL.
func NewWebhookNotifier(cfg *WebhookConfig) *WebhookNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(timeout)

	return &WebhookNotifier{
		client: client,
		url:    cfg.URL,
	}
}

// BatchTransitioned implements scheduler.Observer.
func (n *WebhookNotifier) BatchTransitioned(ctx context.Context, ev domain.BatchEvent) {
	if ev.Status != domain.StatusCompleted || ev.IngestionStatus != domain.StatusCompleted {
		return
	}

	payload := CompletionPayload{
		IngestionID: ev.IngestionID,
		Priority:    ev.Priority,
		Status:      domain.StatusCompleted,
		CompletedAt: ev.OccurredAt,
	}

	// Detached from the worker's context: shutting the worker down must not
	// cancel a notification that is already on its way.
	sendCtx := logger.FromContext(ctx).WithContext(context.Background())

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.send(sendCtx, payload); err != nil {
			logger.CtxWarn(sendCtx, "Completion webhook failed: url=%s, error=%v", n.url, err)
			return
		}
		logger.CtxInfo(sendCtx, "Completion webhook delivered: url=%s", n.url)
	}()
}

func (n *WebhookNotifier) send(ctx context.Context, payload CompletionPayload) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// Wait blocks until every delivery started so far has finished.
func (n *WebhookNotifier) Wait() {
	n.wg.Wait()
}
