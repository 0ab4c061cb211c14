package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ningyanhui/scheduler-dag/internal/backfill"
)

// Loader reads and validates the JSON documents the scheduler consumes.
type Loader struct{}

// NewLoader returns a ready-to-use Loader. It carries no state; the type
// exists to mirror the teacher's Loader/builder split and give future
// options (search paths, strict-mode flags) a home.
func NewLoader() *Loader { return &Loader{} }

// Load reads and validates a workflow configuration file, returning the
// immutable WorkflowDescriptor the DAG and engine consume.
func (l *Loader) Load(path string) (*WorkflowDescriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Msg: fmt.Sprintf("reading config: %v", err)}
	}

	var doc WorkflowDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ConfigError{Path: path, Msg: fmt.Sprintf("malformed JSON: %v", err)}
	}

	return build(path, &doc)
}

// LoadHeadOnly reads only name/description, skipping task validation. The
// `info` command does not use it; it loads the full workflow with Load.
func (l *Loader) LoadHeadOnly(path string) (name, description string, err error) {
	raw, readErr := os.ReadFile(path)
	if readErr != nil {
		return "", "", &ConfigError{Path: path, Msg: fmt.Sprintf("reading config: %v", readErr)}
	}
	var doc struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if jsonErr := json.Unmarshal(raw, &doc); jsonErr != nil {
		return "", "", &ConfigError{Path: path, Msg: fmt.Sprintf("malformed JSON: %v", jsonErr)}
	}
	return doc.Name, doc.Description, nil
}

// LoadRuntimeOverlay reads a flat string-to-string JSON object, the
// highest-precedence runtime parameter scope.
func (l *Loader) LoadRuntimeOverlay(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Msg: fmt.Sprintf("reading params file: %v", err)}
	}
	var overlay RuntimeOverlayDoc
	if err := json.Unmarshal(raw, &overlay); err != nil {
		return nil, &ConfigError{Path: path, Msg: fmt.Sprintf("malformed JSON: %v", err)}
	}
	return overlay, nil
}

// LoadBackfillSpec reads a backfill configuration file into a
// backfill.Spec ready for backfill.Build.
func (l *Loader) LoadBackfillSpec(path string) (backfill.Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return backfill.Spec{}, &ConfigError{Path: path, Msg: fmt.Sprintf("reading backfill config: %v", err)}
	}
	var doc BackfillDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return backfill.Spec{}, &ConfigError{Path: path, Msg: fmt.Sprintf("malformed JSON: %v", err)}
	}
	return backfill.Spec{
		StartDate:        doc.StartDate,
		EndDate:          doc.EndDate,
		DateGranularity:  backfill.Granularity(doc.DateGranularity),
		CustomDates:      doc.CustomDates,
		DateParamName:    doc.DateParamName,
		DateParamNames:   doc.DateParamNames,
		DateParamFormats: doc.DateParamFormats,
		DryRun:           doc.DryRun,
		Params:           doc.Params,
	}, nil
}
