package engine

import (
	"context"
	"testing"

	"github.com/ningyanhui/scheduler-dag/internal/config"
	"github.com/ningyanhui/scheduler-dag/internal/dag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shellTask(id, command string) config.TaskDescriptor {
	return config.TaskDescriptor{ID: id, Type: config.TaskShell, Command: command}
}

func buildGraph(t *testing.T, wf *config.WorkflowDescriptor) *dag.Graph {
	t.Helper()
	g, err := dag.Build(wf)
	require.NoError(t, err)
	return g
}

func resultFor(results []TaskResult, id string) TaskResult {
	for _, r := range results {
		if r.TaskID == id {
			return r
		}
	}
	return TaskResult{}
}

// S1 — Linear success: A -> B -> C, all succeed.
func TestEngineLinearSuccess(t *testing.T) {
	wf := &config.WorkflowDescriptor{
		Name:     "s1",
		FailFast: true,
		Tasks: []config.TaskDescriptor{
			shellTask("A", "echo A"),
			shellTask("B", "echo B"),
			shellTask("C", "echo C"),
		},
		Dependencies: []config.DependencyEdge{{From: "A", To: "B"}, {From: "B", To: "C"}},
	}
	g := buildGraph(t, wf)
	e := New(g, nil, 0)

	out, err := e.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.True(t, out.Success)
	for _, id := range []string{"A", "B", "C"} {
		assert.Equal(t, StateSucceeded, resultFor(out.Results, id).State)
	}
}

// S2 — Fail-fast cancellation: A->B, A->C, B->D, C->D; A fails.
func TestEngineFailFastCancellation(t *testing.T) {
	wf := &config.WorkflowDescriptor{
		Name:     "s2",
		FailFast: true,
		Tasks: []config.TaskDescriptor{
			shellTask("A", "sh -c 'exit 1'"),
			shellTask("B", "echo B"),
			shellTask("C", "echo C"),
			shellTask("D", "echo D"),
		},
		Dependencies: []config.DependencyEdge{
			{From: "A", To: "B"}, {From: "A", To: "C"}, {From: "B", To: "D"}, {From: "C", To: "D"},
		},
	}
	g := buildGraph(t, wf)
	e := New(g, nil, 0)

	out, err := e.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, StateFailed, resultFor(out.Results, "A").State)
	assert.Equal(t, StateCancelled, resultFor(out.Results, "B").State)
	assert.Equal(t, StateCancelled, resultFor(out.Results, "C").State)
	assert.Equal(t, StateCancelled, resultFor(out.Results, "D").State)
}

// S3 — Non-fail-fast partial run: same DAG, fail_fast=false, B fails.
func TestEngineNonFailFastPartialRun(t *testing.T) {
	wf := &config.WorkflowDescriptor{
		Name:     "s3",
		FailFast: false,
		Tasks: []config.TaskDescriptor{
			shellTask("A", "echo A"),
			shellTask("B", "sh -c 'exit 1'"),
			shellTask("C", "echo C"),
			shellTask("D", "echo D"),
		},
		Dependencies: []config.DependencyEdge{
			{From: "A", To: "B"}, {From: "A", To: "C"}, {From: "B", To: "D"}, {From: "C", To: "D"},
		},
	}
	g := buildGraph(t, wf)
	e := New(g, nil, 0)

	out, err := e.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, StateSucceeded, resultFor(out.Results, "A").State)
	assert.Equal(t, StateFailed, resultFor(out.Results, "B").State)
	assert.Equal(t, StateSucceeded, resultFor(out.Results, "C").State)
	assert.Equal(t, StateCancelled, resultFor(out.Results, "D").State)
}

// S4 — Template resolution: global+task params resolve through to the
// dispatched shell command.
func TestEngineTemplateResolution(t *testing.T) {
	wf := &config.WorkflowDescriptor{
		Name:     "s4",
		FailFast: true,
		Params:   map[string]string{"region": "us"},
		Tasks: []config.TaskDescriptor{
			{
				ID:      "A",
				Type:    config.TaskShell,
				Command: "echo ${msg}",
				Params:  map[string]string{"msg": "hello ${region}"},
			},
		},
	}
	g := buildGraph(t, wf)
	e := New(g, nil, 0)

	out, err := e.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Contains(t, resultFor(out.Results, "A").Log, "hello us")
}

// Invariant 6 — only_tasks filter: excluded tasks are SKIPPED, not re-pulled.
func TestEngineOnlyTasksFilter(t *testing.T) {
	wf := &config.WorkflowDescriptor{
		Name:     "only-tasks",
		FailFast: true,
		Tasks: []config.TaskDescriptor{
			shellTask("A", "echo A"),
			shellTask("B", "echo B"),
			shellTask("C", "echo C"),
		},
		Dependencies: []config.DependencyEdge{{From: "A", To: "B"}, {From: "B", To: "C"}},
	}
	g := buildGraph(t, wf)
	e := New(g, nil, 0)

	out, err := e.Run(context.Background(), nil, []string{"B", "C"})
	require.NoError(t, err)
	assert.Equal(t, StateSkipped, resultFor(out.Results, "A").State)
	// B's only predecessor (A) was excluded/SKIPPED, treated as satisfied
	// per the permissive reading (spec.md §9 open question #2).
	assert.Equal(t, StateSucceeded, resultFor(out.Results, "B").State)
	assert.Equal(t, StateSucceeded, resultFor(out.Results, "C").State)
}

func TestEngineRuntimeOverlayOverridesGlobalsAndTaskParams(t *testing.T) {
	wf := &config.WorkflowDescriptor{
		Name:     "override",
		FailFast: true,
		Params:   map[string]string{"env": "prod"},
		Tasks: []config.TaskDescriptor{
			{ID: "A", Type: config.TaskShell, Command: "echo ${env}"},
		},
	}
	g := buildGraph(t, wf)
	e := New(g, nil, 0)

	out, err := e.Run(context.Background(), map[string]string{"env": "staging"}, nil)
	require.NoError(t, err)
	assert.Contains(t, resultFor(out.Results, "A").Log, "staging")
}
