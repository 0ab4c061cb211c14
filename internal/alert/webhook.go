package alert

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// WebhookTransport posts an alert event as a generic JSON payload to an
// arbitrary HTTP endpoint, used when `alert.transport` is "webhook".
type WebhookTransport struct {
	client *resty.Client
}

// NewWebhookTransport builds a WebhookTransport with a shared resty client
// (connection reuse across the many small alert requests a backfill run
// can generate).
func NewWebhookTransport() *WebhookTransport {
	return &WebhookTransport{client: resty.New()}
}

type webhookPayload struct {
	Kind      string `json:"kind"`
	Workflow  string `json:"workflow"`
	TaskID    string `json:"task_id,omitempty"`
	State     string `json:"state,omitempty"`
	Timestamp string `json:"timestamp"`
	Error     string `json:"error,omitempty"`
	AtAll     bool   `json:"at_all,omitempty"`
}

func (w *WebhookTransport) Send(ctx context.Context, cfg Config, ev Event) error {
	payload := webhookPayload{
		Kind:      string(ev.Kind),
		Workflow:  ev.WorkflowName,
		TaskID:    ev.TaskID,
		State:     ev.State,
		Timestamp: ev.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		Error:     ev.ErrorText,
		AtAll:     cfg.AtAll,
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook post: status %s", resp.Status())
	}
	return nil
}
