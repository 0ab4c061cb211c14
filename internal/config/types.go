// Package config decodes and validates the workflow, backfill, and runtime
// overlay JSON documents into the immutable descriptors the rest of the
// scheduler consumes.
package config

// TaskType enumerates the task kinds spec.md §3 recognises.
type TaskType string

const (
	TaskShell    TaskType = "shell"
	TaskPython   TaskType = "python"
	TaskPySpark  TaskType = "pyspark"
	TaskSparkSQL TaskType = "spark-sql"
	TaskHiveSQL  TaskType = "hive-sql"
)

// KnownTaskTypes lists every type a WorkflowDescriptor may reference.
var KnownTaskTypes = map[TaskType]bool{
	TaskShell:    true,
	TaskPython:   true,
	TaskPySpark:  true,
	TaskSparkSQL: true,
	TaskHiveSQL:  true,
}

// TaskDescriptor is the immutable, validated form of one task entry.
type TaskDescriptor struct {
	ID             string
	Type           TaskType
	Command        string            // shell
	ScriptPath     string            // python, pyspark
	SQLFile        string            // spark-sql, hive-sql
	WorkingDir     string
	EngineConfig   map[string]string
	CustomCommand  string
	Params         map[string]string
}

// DependencyEdge is a validated `from -> to` edge.
type DependencyEdge struct {
	From string
	To   string
}

// AlertConfig is the decoded `alert` block.
type AlertConfig struct {
	Transport string // "slack" | "webhook" | "mail"
	Endpoint  string
	AtAll     bool
	Recipients []string // mail transport
	Subject    string   // mail transport
}

// WorkflowDescriptor is the immutable, fully validated representation of a
// workflow configuration document, ready to build an internal/dag.Graph.
type WorkflowDescriptor struct {
	Name        string
	Description string
	Params      map[string]string
	Tasks       []TaskDescriptor
	Dependencies []DependencyEdge
	Alert       *AlertConfig
	FailFast    bool
}

// TaskByID returns the task with the given id, if declared.
func (w *WorkflowDescriptor) TaskByID(id string) (TaskDescriptor, bool) {
	for _, t := range w.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return TaskDescriptor{}, false
}
