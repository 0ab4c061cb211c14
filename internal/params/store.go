// Package params implements the layered parameter store and the template
// resolver that expands "${...}" references within task-facing strings.
package params

import "dario.cat/mergo"

// Store is a three-layer, read-only-during-execution key→string scope
// stack: runtime overrides take precedence over per-task parameters, which
// take precedence over workflow globals.
type Store struct {
	runtime map[string]string
	task    map[string]string
	global  map[string]string
	merged  map[string]string
}

// NewStore builds a Store from the three precedence layers. Any of the
// maps may be nil.
func NewStore(runtime, task, global map[string]string) *Store {
	s := &Store{
		runtime: cloneMap(runtime),
		task:    cloneMap(task),
		global:  cloneMap(global),
	}
	s.merged = s.merge()
	return s
}

// merge stacks the three layers with mergo, highest precedence last so its
// values win on overlap (mergo.WithOverride keeps the destination's
// existing keys unless told to override, so we merge from lowest to
// highest precedence with override enabled).
func (s *Store) merge() map[string]string {
	out := map[string]string{}
	for _, layer := range []map[string]string{s.global, s.task, s.runtime} {
		if layer == nil {
			continue
		}
		_ = mergo.Merge(&out, layer, mergo.WithOverride)
	}
	return out
}

// Lookup returns the value for name and whether it was found in any layer.
func (s *Store) Lookup(name string) (string, bool) {
	v, ok := s.merged[name]
	return v, ok
}

// All returns a copy of the fully merged, precedence-resolved map. Callers
// must not mutate the Store through the returned map.
func (s *Store) All() map[string]string {
	return cloneMap(s.merged)
}

// WithRuntimeOverride returns a new Store with an additional runtime-layer
// key set, without mutating the receiver, so a scoped extra value can be
// exposed without touching the shared overlay.
func (s *Store) WithRuntimeOverride(name, value string) *Store {
	rt := cloneMap(s.runtime)
	if rt == nil {
		rt = map[string]string{}
	}
	rt[name] = value
	return NewStore(rt, s.task, s.global)
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
