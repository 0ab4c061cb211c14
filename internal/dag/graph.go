// Package dag builds and validates the in-memory graph of tasks and
// dependencies, and computes the layer assignment the engine schedules by.
package dag

import (
	"fmt"
	"sort"

	"github.com/ningyanhui/scheduler-dag/internal/config"
)

// Node is one task in the graph plus its resolved edges.
type Node struct {
	Task         config.TaskDescriptor
	Predecessors []string
	Successors   []string
	Layer        int
}

// Graph is the validated, in-memory representation of a workflow's DAG.
type Graph struct {
	Workflow *config.WorkflowDescriptor
	nodes    map[string]*Node
	order    []string // insertion order, for stable iteration
	layers   map[int][]string
	maxLayer int
}

// Build constructs a Graph from a WorkflowDescriptor: inserts nodes and
// edges, rejects any edge referencing an undeclared node (already checked
// by internal/config, re-checked here defensively), detects cycles via
// DFS naming a witness, and computes the layer assignment.
func Build(wf *config.WorkflowDescriptor) (*Graph, error) {
	g := &Graph{
		Workflow: wf,
		nodes:    make(map[string]*Node, len(wf.Tasks)),
		layers:   make(map[int][]string),
	}

	for _, t := range wf.Tasks {
		g.nodes[t.ID] = &Node{Task: t}
		g.order = append(g.order, t.ID)
	}

	for _, e := range wf.Dependencies {
		from, ok := g.nodes[e.From]
		if !ok {
			return nil, fmt.Errorf("dag: edge references undeclared task %q", e.From)
		}
		to, ok := g.nodes[e.To]
		if !ok {
			return nil, fmt.Errorf("dag: edge references undeclared task %q", e.To)
		}
		from.Successors = append(from.Successors, e.To)
		to.Predecessors = append(to.Predecessors, e.From)
	}

	if cyclePath, ok := g.findCycle(); ok {
		return nil, fmt.Errorf("dag: cycle detected: %s", formatCycle(cyclePath))
	}

	g.assignLayers()
	return g, nil
}

func formatCycle(path []string) string {
	out := ""
	for i, id := range path {
		if i > 0 {
			out += " -> "
		}
		out += id
	}
	return out
}

// findCycle runs a DFS with a recursion-stack color map, returning the
// witness cycle path (start..repeated-node) if one exists.
func (g *Graph) findCycle() ([]string, bool) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(g.order))
	var path []string

	var visit func(id string) ([]string, bool)
	visit = func(id string) ([]string, bool) {
		color[id] = gray
		path = append(path, id)

		for _, next := range g.nodes[id].Successors {
			switch color[next] {
			case gray:
				// Found the back-edge; build the witness path from its
				// first occurrence.
				start := indexOf(path, next)
				return append(append([]string{}, path[start:]...), next), true
			case white:
				if cyc, found := visit(next); found {
					return cyc, true
				}
			}
		}

		color[id] = black
		path = path[:len(path)-1]
		return nil, false
	}

	for _, id := range g.order {
		if color[id] == white {
			if cyc, found := visit(id); found {
				return cyc, true
			}
		}
	}
	return nil, false
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// assignLayers computes layer(v) = 1 + max(layer(u) for u -> v), with
// sources (no predecessors) at layer 0. The graph is already known
// acyclic, so a simple memoised recursion terminates.
func (g *Graph) assignLayers() {
	memo := make(map[string]int, len(g.order))

	var layerOf func(id string) int
	layerOf = func(id string) int {
		if l, ok := memo[id]; ok {
			return l
		}
		preds := g.nodes[id].Predecessors
		if len(preds) == 0 {
			memo[id] = 0
			return 0
		}
		max := 0
		for _, p := range preds {
			if l := layerOf(p) + 1; l > max {
				max = l
			}
		}
		memo[id] = max
		return max
	}

	for _, id := range g.order {
		l := layerOf(id)
		g.nodes[id].Layer = l
		g.layers[l] = append(g.layers[l], id)
		if l > g.maxLayer {
			g.maxLayer = l
		}
	}
	for l := range g.layers {
		sort.Strings(g.layers[l])
	}
}

// Node returns the node for id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Predecessors returns the ids of id's direct predecessors.
func (g *Graph) Predecessors(id string) []string {
	if n, ok := g.nodes[id]; ok {
		return n.Predecessors
	}
	return nil
}

// Successors returns the ids of id's direct successors.
func (g *Graph) Successors(id string) []string {
	if n, ok := g.nodes[id]; ok {
		return n.Successors
	}
	return nil
}

// TopologicalOrder returns all node ids ordered by increasing layer, with
// a stable secondary sort by id.
func (g *Graph) TopologicalOrder() []string {
	out := make([]string, 0, len(g.order))
	for l := 0; l <= g.maxLayer; l++ {
		out = append(out, g.layers[l]...)
	}
	return out
}

// LayerCount returns the number of distinct layers in the graph.
func (g *Graph) LayerCount() int { return g.maxLayer + 1 }

// NodesAtLayer returns the ids of every node at layer k, in a stable order.
func (g *Graph) NodesAtLayer(k int) []string {
	return g.layers[k]
}
