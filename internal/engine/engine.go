package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ningyanhui/scheduler-dag/internal/alert"
	"github.com/ningyanhui/scheduler-dag/internal/dag"
	"github.com/ningyanhui/scheduler-dag/internal/logger"
	"github.com/ningyanhui/scheduler-dag/internal/params"
	"github.com/ningyanhui/scheduler-dag/internal/runner"
	"golang.org/x/sync/errgroup"
)

const refDateParam = "ref_date"

// Outcome is the result of one Engine.Run invocation (spec.md §4.5's
// WorkflowOutcome).
type Outcome struct {
	RunID   string
	Results []TaskResult
	Success bool
}

// Engine orchestrates one run of a DAG: layer-by-layer scheduling with
// bounded per-layer parallelism, just-in-time parameter resolution,
// fail-fast cancellation, and alert emission (spec.md §4.5).
type Engine struct {
	Graph       *dag.Graph
	Runners     runner.Table
	Emitter     *alert.Emitter
	Concurrency int // 0 = unlimited
}

// New builds an Engine for graph, using the default runner dispatch table
// and the given alert emitter (which may be nil).
func New(graph *dag.Graph, emitter *alert.Emitter, concurrency int) *Engine {
	return &Engine{
		Graph:       graph,
		Runners:     runner.DefaultTable(),
		Emitter:     emitter,
		Concurrency: concurrency,
	}
}

// Run executes one pass of the DAG. overlay is the runtime-override
// parameter scope (highest precedence); onlyTasks, if non-empty,
// restricts execution to that set — every other task is marked SKIPPED
// before the run begins, and the engine does not pull in its ancestors
// (spec.md §4.5).
func (e *Engine) Run(ctx context.Context, overlay map[string]string, onlyTasks []string) (*Outcome, error) {
	wf := e.Graph.Workflow
	refDate := resolveRefDate(overlay)
	runID := uuid.New().String()

	reg := newRegistry(e.Graph.TopologicalOrder())
	applyOnlyTasksFilter(reg, e.Graph, onlyTasks)
	for _, id := range onlyTasks {
		for _, p := range e.Graph.Predecessors(id) {
			if reg.get(p) == StateSkipped {
				logger.Warn(ctx, "upstream task excluded by only_tasks is treated as satisfied; its outputs are not produced in this run", "task_id", id, "upstream", p)
			}
		}
	}

	e.Emitter.Emit(ctx, alert.Event{Kind: alert.KindWorkflowStart, RunID: runID})

	failFastTriggered := false
	for layer := 0; layer < e.Graph.LayerCount() && !failFastTriggered; layer++ {
		select {
		case <-ctx.Done():
			cancelRemaining(reg, e.Graph.TopologicalOrder())
			failFastTriggered = true
			continue
		default:
		}

		ready := e.prepareLayer(reg, layer)
		if len(ready) == 0 {
			continue
		}

		anyFailed := e.dispatchLayer(ctx, reg, overlay, refDate, runID, ready)

		if anyFailed && wf.FailFast {
			cancelRemaining(reg, e.Graph.TopologicalOrder())
			failFastTriggered = true
		}
	}

	results := reg.snapshot()
	success := aggregateSuccess(results)

	if success {
		e.Emitter.Emit(ctx, alert.Event{Kind: alert.KindWorkflowSucceeded, RunID: runID})
	} else {
		e.Emitter.Emit(ctx, alert.Event{Kind: alert.KindWorkflowFailed, RunID: runID})
	}

	return &Outcome{RunID: runID, Results: results, Success: success}, nil
}

// applyOnlyTasksFilter marks every task not in onlyTasks as SKIPPED,
// before the run begins. An empty/nil onlyTasks means "run everything".
func applyOnlyTasksFilter(reg *registry, g *dag.Graph, onlyTasks []string) {
	if len(onlyTasks) == 0 {
		return
	}
	included := make(map[string]bool, len(onlyTasks))
	for _, id := range onlyTasks {
		included[id] = true
	}
	for _, id := range g.TopologicalOrder() {
		if !included[id] {
			reg.transition(id, StateSkipped)
		}
	}
}

// prepareLayer returns the ids at this layer that are ready to dispatch,
// transitioning to CANCELLED any PENDING task whose predecessors include
// a FAILED or CANCELLED task (spec.md §4.5 step 1).
func (e *Engine) prepareLayer(reg *registry, layer int) []string {
	var ready []string
	for _, id := range e.Graph.NodesAtLayer(layer) {
		if reg.get(id) != StatePending {
			continue
		}
		if predecessorBlocked(reg, e.Graph.Predecessors(id)) {
			reg.transition(id, StateCancelled)
			continue
		}
		ready = append(ready, id)
	}
	return ready
}

func predecessorBlocked(reg *registry, predecessors []string) bool {
	for _, p := range predecessors {
		switch reg.get(p) {
		case StateFailed, StateCancelled:
			return true
		}
	}
	return false
}

// dispatchLayer runs every ready task concurrently, bounded by
// e.Concurrency, and reports whether any task in the layer failed.
func (e *Engine) dispatchLayer(ctx context.Context, reg *registry, overlay map[string]string, refDate time.Time, runID string, ready []string) bool {
	g, gctx := errgroup.WithContext(ctx)
	if e.Concurrency > 0 {
		g.SetLimit(e.Concurrency)
	}

	failures := make(chan bool, len(ready))

	for _, id := range ready {
		id := id
		g.Go(func() error {
			failed := e.runOne(gctx, reg, overlay, refDate, runID, id)
			failures <- failed
			return nil
		})
	}
	_ = g.Wait()
	close(failures)

	anyFailed := false
	for f := range failures {
		anyFailed = anyFailed || f
	}
	return anyFailed
}

// runOne resolves a task's effective parameter overlay, dispatches it to
// its runner, and records the resulting state transition. Returns true if
// the task failed.
func (e *Engine) runOne(ctx context.Context, reg *registry, overlay map[string]string, refDate time.Time, runID string, taskID string) bool {
	node, _ := e.Graph.Node(taskID)
	task := node.Task

	reg.transition(taskID, StateRunning)
	reg.recordStart(taskID, time.Now())

	store := params.NewStore(overlay, task.Params, e.Graph.Workflow.Params)
	resolver := params.NewResolver(ctx, store, refDate)

	// resolvedParams is the task's own parameter map after template
	// resolution — the "params.<name>" accessor namespace and the
	// --key=value flag source (spec.md §4.6, §9), distinct from the full
	// merged overlay the resolver itself draws on.
	resolvedParams := make(map[string]string, len(task.Params))
	for k, v := range task.Params {
		resolvedParams[k] = resolver.Resolve(v)
	}

	r, ok := e.Runners.For(task.Type)
	if !ok {
		logger.Error(ctx, "no runner registered for task type", "task_id", taskID, "type", task.Type)
		reg.transition(taskID, StateFailed)
		reg.recordOutcome(taskID, time.Now(), runner.Outcome{Status: runner.StatusError, ErrorMessage: "no runner for task type"})
		e.Emitter.Emit(ctx, alert.Event{Kind: alert.KindTaskFailed, RunID: runID, TaskID: taskID, ErrorText: "no runner for task type"})
		return true
	}

	in := runner.Input{
		Task:           task,
		ResolvedParams: resolvedParams,
		Resolver:       resolver,
		WorkingDir:     task.WorkingDir,
	}

	out, err := r.Invoke(ctx, in)
	now := time.Now()
	reg.recordOutcome(taskID, now, out)

	if err != nil || out.Status == runner.StatusError {
		reg.transition(taskID, StateFailed)
		errText := out.ErrorMessage
		if err != nil {
			errText = err.Error()
		}
		e.Emitter.Emit(ctx, alert.Event{Kind: alert.KindTaskFailed, RunID: runID, TaskID: taskID, ErrorText: errText})
		return true
	}

	reg.transition(taskID, StateSucceeded)
	e.Emitter.Emit(ctx, alert.Event{Kind: alert.KindTaskSucceeded, RunID: runID, TaskID: taskID})
	return false
}

// cancelRemaining transitions every PENDING task to CANCELLED, used on
// fail-fast trip or external abort (spec.md §5).
func cancelRemaining(reg *registry, allIDs []string) {
	for _, id := range allIDs {
		if reg.get(id) == StatePending {
			reg.transition(id, StateCancelled)
		}
	}
}

// aggregateSuccess reports whether every non-SKIPPED task SUCCEEDED
// (spec.md §4.5).
func aggregateSuccess(results []TaskResult) bool {
	for _, r := range results {
		if r.State == StateSkipped {
			continue
		}
		if r.State != StateSucceeded {
			return false
		}
	}
	return true
}

// resolveRefDate determines the run's reference date: overridden by a
// runtime parameter named "ref_date" (format YYYY-MM-DD), defaulting to
// the system date at engine start (spec.md §4.2, §6).
func resolveRefDate(overlay map[string]string) time.Time {
	if raw, ok := overlay[refDateParam]; ok {
		if d, err := time.Parse("2006-01-02", raw); err == nil {
			return d
		}
	}
	return time.Now()
}
