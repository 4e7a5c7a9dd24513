package provider

import "context"

// Notification is a templated message handed off to the notification worker.
type Notification struct {
	TemplateID string            `json:"template_id"`
	Recipient  string            `json:"recipient"`
	Variables  map[string]string `json:"variables,omitempty"`
}

// NotificationDispatcher hands notifications to the delivery pipeline.
// Dispatch is fire-and-forget from the orchestrator's perspective; failures
// are logged, never propagated to the caller.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, n *Notification) error
}
