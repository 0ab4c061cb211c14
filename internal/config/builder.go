package config

import "fmt"

// build converts a decoded WorkflowDoc into a validated, immutable
// WorkflowDescriptor. Cycle detection is left to internal/dag, which needs
// the full graph structure; everything purely structural is checked here.
func build(path string, doc *WorkflowDoc) (*WorkflowDescriptor, error) {
	if doc.Name == "" {
		return nil, &ConfigError{Path: path, Field: "name", Msg: "workflow name is required"}
	}
	if len(doc.Tasks) == 0 {
		return nil, &ConfigError{Path: path, Field: "tasks", Msg: "workflow must declare at least one task"}
	}

	seen := make(map[string]bool, len(doc.Tasks))
	tasks := make([]TaskDescriptor, 0, len(doc.Tasks))
	for i, td := range doc.Tasks {
		if td.TaskID == "" {
			return nil, &ConfigError{Path: path, Field: fmt.Sprintf("tasks[%d].task_id", i), Msg: "task_id is required"}
		}
		if seen[td.TaskID] {
			return nil, &ConfigError{Path: path, Field: "tasks", Msg: fmt.Sprintf("duplicate task_id %q", td.TaskID)}
		}
		seen[td.TaskID] = true

		taskType := TaskType(td.Type)
		if !KnownTaskTypes[taskType] {
			return nil, &ConfigError{Path: path, Field: fmt.Sprintf("tasks[%s].type", td.TaskID), Msg: fmt.Sprintf("unknown task type %q", td.Type)}
		}

		tasks = append(tasks, TaskDescriptor{
			ID:            td.TaskID,
			Type:          taskType,
			Command:       td.Command,
			ScriptPath:    td.ScriptPath,
			SQLFile:       td.SQLFile,
			WorkingDir:    td.WorkingDir,
			EngineConfig:  td.EngineConfig,
			CustomCommand: td.CustomCommand,
			Params:        td.Params,
		})
	}

	edges := make([]DependencyEdge, 0, len(doc.Dependencies))
	for i, dd := range doc.Dependencies {
		if dd.From == dd.To {
			return nil, &ConfigError{Path: path, Field: fmt.Sprintf("dependencies[%d]", i), Msg: fmt.Sprintf("self-loop on task %q is forbidden", dd.From)}
		}
		if !seen[dd.From] {
			return nil, &ConfigError{Path: path, Field: fmt.Sprintf("dependencies[%d].from", i), Msg: fmt.Sprintf("references undeclared task %q", dd.From)}
		}
		if !seen[dd.To] {
			return nil, &ConfigError{Path: path, Field: fmt.Sprintf("dependencies[%d].to", i), Msg: fmt.Sprintf("references undeclared task %q", dd.To)}
		}
		edges = append(edges, DependencyEdge{From: dd.From, To: dd.To})
	}

	var alert *AlertConfig
	if doc.Alert != nil {
		alert = &AlertConfig{
			Transport:  doc.Alert.Transport,
			Endpoint:   doc.Alert.Endpoint,
			AtAll:      doc.Alert.AtAll,
			Recipients: doc.Alert.Recipients,
			Subject:    doc.Alert.Subject,
		}
	}

	failFast := true
	if doc.FailFast != nil {
		failFast = *doc.FailFast
	}

	return &WorkflowDescriptor{
		Name:         doc.Name,
		Description:  doc.Description,
		Params:       doc.Params,
		Tasks:        tasks,
		Dependencies: edges,
		Alert:        alert,
		FailFast:     failFast,
	}, nil
}
