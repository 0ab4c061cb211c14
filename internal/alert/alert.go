// Package alert defines the structured alert events the execution engine
// emits on workflow/task lifecycle transitions, and the pluggable
// Transport interface concrete delivery mechanisms implement.
package alert

import (
	"context"
	"time"

	"github.com/ningyanhui/scheduler-dag/internal/logger"
)

// Kind enumerates the alert event kinds the engine emits (spec.md §4.7).
type Kind string

const (
	KindWorkflowStart     Kind = "workflow-start"
	KindTaskFailed        Kind = "task-failed"
	KindTaskSucceeded     Kind = "task-succeeded"
	KindWorkflowSucceeded Kind = "workflow-succeeded"
	KindWorkflowFailed    Kind = "workflow-failed"
)

// Event is one structured alert record.
type Event struct {
	Kind         Kind
	WorkflowName string
	RunID        string // identifies the engine.Run invocation this event belongs to
	TaskID       string // empty for workflow-level events
	State        string
	Timestamp    time.Time
	ErrorText    string
}

// Transport delivers a rendered alert event to an external system. A
// transport error is logged but never affects workflow outcome (spec.md
// §4.7, §7: AlertTransportError).
type Transport interface {
	Send(ctx context.Context, cfg Config, ev Event) error
}

// Config is the decoded `alert` block of a workflow (mirrors
// config.AlertConfig, kept as an independent type so this package has no
// dependency on internal/config).
type Config struct {
	Transport  string
	Endpoint   string
	AtAll      bool
	Recipients []string
	Subject    string
}

// Emitter drives at most one Transport from a workflow's alert
// configuration. The CLI builds one per command invocation and passes it
// explicitly to engine.New; it is not held in a package global.
type Emitter struct {
	cfg        Config
	transport  Transport
	workflow   string
}

// NewEmitter builds an Emitter for one workflow run. transport may be nil,
// in which case Emit is a no-op (workflows without an `alert` block).
func NewEmitter(workflowName string, cfg Config, transport Transport) *Emitter {
	return &Emitter{cfg: cfg, transport: transport, workflow: workflowName}
}

// Emit delivers ev. Delivery failures are logged, never returned, per
// spec.md §4.7 ("Delivery failures are logged but do not affect workflow
// state").
func (e *Emitter) Emit(ctx context.Context, ev Event) {
	if e == nil || e.transport == nil {
		return
	}
	ev.WorkflowName = e.workflow
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	if err := e.transport.Send(ctx, e.cfg, ev); err != nil {
		logger.Warn(ctx, "alert delivery failed", "kind", ev.Kind, "task_id", ev.TaskID, "error", err)
	}
}
