package config

// WorkflowDoc is the raw decoded shape of the workflow configuration JSON
// (spec.md §6). Unknown keys are silently ignored by encoding/json's
// default unmarshal-into-struct behavior, satisfying §6's "ignored"
// requirement without any extra bookkeeping.
type WorkflowDoc struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Params       map[string]string `json:"params"`
	Tasks        []TaskDoc         `json:"tasks"`
	Dependencies []DependencyDoc   `json:"dependencies"`
	Alert        *AlertDoc         `json:"alert,omitempty"`
	FailFast     *bool             `json:"fail_fast,omitempty"`
}

// TaskDoc is one raw task entry.
type TaskDoc struct {
	TaskID        string            `json:"task_id"`
	Type          string            `json:"type"`
	Command       string            `json:"command,omitempty"`
	ScriptPath    string            `json:"script_path,omitempty"`
	SQLFile       string            `json:"sql_file,omitempty"`
	WorkingDir    string            `json:"working_dir,omitempty"`
	EngineConfig  map[string]string `json:"engine_config,omitempty"`
	CustomCommand string            `json:"custom_command,omitempty"`
	Params        map[string]string `json:"params,omitempty"`
}

// DependencyDoc is one raw `{from, to}` edge entry.
type DependencyDoc struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// AlertDoc is the raw `alert` block.
type AlertDoc struct {
	Transport  string   `json:"transport"`
	Endpoint   string   `json:"endpoint"`
	AtAll      bool     `json:"at_all,omitempty"`
	Recipients []string `json:"recipients,omitempty"`
	Subject    string   `json:"subject,omitempty"`
}

// BackfillDoc is the raw backfill configuration JSON (spec.md §4.3).
type BackfillDoc struct {
	StartDate        string            `json:"start_date,omitempty"`
	EndDate          string            `json:"end_date,omitempty"`
	DateGranularity  string            `json:"date_granularity,omitempty"`
	CustomDates      []string          `json:"custom_dates,omitempty"`
	DateParamName    string            `json:"date_param_name,omitempty"`
	DateParamNames   []string          `json:"date_param_names,omitempty"`
	DateParamFormats map[string]string `json:"date_param_formats,omitempty"`
	DryRun           bool              `json:"dry_run,omitempty"`
	Params           map[string]string `json:"params,omitempty"`
}

// RuntimeOverlayDoc is the raw runtime-parameter-overlay JSON: a flat
// object of string to string, the highest-precedence scope.
type RuntimeOverlayDoc map[string]string
