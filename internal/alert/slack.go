package alert

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// SlackTransport delivers alert events as Slack webhook messages, used
// when a workflow's `alert.transport` is "slack".
type SlackTransport struct{}

func (SlackTransport) Send(ctx context.Context, cfg Config, ev Event) error {
	text := formatMessage(ev)
	if cfg.AtAll {
		text = "<!channel> " + text
	}

	msg := &slack.WebhookMessage{Text: text}
	return slack.PostWebhookContext(ctx, cfg.Endpoint, msg)
}

func formatMessage(ev Event) string {
	switch ev.Kind {
	case KindWorkflowStart:
		return fmt.Sprintf("workflow %q started", ev.WorkflowName)
	case KindTaskFailed:
		return fmt.Sprintf("workflow %q: task %q FAILED: %s", ev.WorkflowName, ev.TaskID, ev.ErrorText)
	case KindTaskSucceeded:
		return fmt.Sprintf("workflow %q: task %q succeeded", ev.WorkflowName, ev.TaskID)
	case KindWorkflowSucceeded:
		return fmt.Sprintf("workflow %q succeeded", ev.WorkflowName)
	case KindWorkflowFailed:
		return fmt.Sprintf("workflow %q FAILED", ev.WorkflowName)
	default:
		return fmt.Sprintf("workflow %q: %s", ev.WorkflowName, ev.Kind)
	}
}
