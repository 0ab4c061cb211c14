package alert

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// MailTransport delivers alert events over SMTP, used when a workflow's
// `alert.transport` is "mail". Endpoint is the SMTP server address
// ("host:port"); Config.Recipients and Config.Subject configure the
// message envelope.
type MailTransport struct {
	Auth smtp.Auth
	From string
}

func (m MailTransport) Send(ctx context.Context, cfg Config, ev Event) error {
	if len(cfg.Recipients) == 0 {
		return fmt.Errorf("mail transport: no recipients configured")
	}

	subject := cfg.Subject
	if subject == "" {
		subject = fmt.Sprintf("[%s] %s", ev.WorkflowName, ev.Kind)
	}

	body := mailBody(ev)
	msg := buildMessage(m.From, cfg.Recipients, subject, body)

	return smtp.SendMail(cfg.Endpoint, m.Auth, m.From, cfg.Recipients, []byte(msg))
}

func mailBody(ev Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Workflow: %s\n", ev.WorkflowName)
	if ev.TaskID != "" {
		fmt.Fprintf(&b, "Task: %s\n", ev.TaskID)
	}
	fmt.Fprintf(&b, "Event: %s\n", ev.Kind)
	fmt.Fprintf(&b, "Timestamp: %s\n", ev.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	if ev.ErrorText != "" {
		fmt.Fprintf(&b, "Error: %s\n", ev.ErrorText)
	}
	return b.String()
}

func buildMessage(from string, to []string, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}
