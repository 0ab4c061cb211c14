package config

import "fmt"

// ConfigError is the fatal error kind for malformed JSON, missing required
// fields, unknown task types, self-loops and dangling dependency
// references. Cyclic graphs are rejected later by internal/dag with its own
// error, not a ConfigError.
type ConfigError struct {
	Path  string
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in %s (field %q): %s", e.Path, e.Field, e.Msg)
	}
	return fmt.Sprintf("config error in %s: %s", e.Path, e.Msg)
}
