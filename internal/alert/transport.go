package alert

import "fmt"

// ResolveTransport maps a Config's `transport` name to a concrete
// Transport implementation (spec.md §9's tagged-variant dispatch, applied
// to alert delivery mechanisms instead of task runners).
func ResolveTransport(transportName string) (Transport, error) {
	switch transportName {
	case "", "none":
		return nil, nil
	case "slack":
		return SlackTransport{}, nil
	case "webhook":
		return NewWebhookTransport(), nil
	case "mail":
		return MailTransport{}, nil
	default:
		return nil, fmt.Errorf("alert: unknown transport %q", transportName)
	}
}
