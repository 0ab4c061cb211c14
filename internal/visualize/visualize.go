// Package visualize renders a DAG snapshot as Graphviz DOT text.
package visualize

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/ningyanhui/scheduler-dag/internal/dag"
	"github.com/ningyanhui/scheduler-dag/internal/engine"
)

var dotTemplate = template.Must(template.New("dot").Parse(`digraph {{.Name}} {
  rankdir=LR;
  node [shape=box, style=filled, fontname="Helvetica"];
{{- range .Nodes}}
  "{{.ID}}" [label="{{.ID}}\n{{.Type}}"{{if .Color}}, fillcolor="{{.Color}}"{{end}}];
{{- end}}
{{- range .Edges}}
  "{{.From}}" -> "{{.To}}";
{{- end}}
}
`))

type dotNode struct {
	ID    string
	Type  string
	Color string
}

type dotEdge struct {
	From string
	To   string
}

type dotData struct {
	Name  string
	Nodes []dotNode
	Edges []dotEdge
}

// Render emits the structural DOT representation of g: one node per task
// labelled with id and type, one edge per dependency, no state coloring.
func Render(g *dag.Graph) (string, error) {
	return render(g, nil)
}

// RenderStatus emits the DOT representation of g with nodes colored by
// their final state in results, for rendering a post-run snapshot.
func RenderStatus(g *dag.Graph, results []engine.TaskResult) (string, error) {
	byID := make(map[string]engine.TaskResult, len(results))
	for _, r := range results {
		byID[r.TaskID] = r
	}
	return render(g, byID)
}

func render(g *dag.Graph, states map[string]engine.TaskResult) (string, error) {
	data := dotData{Name: sanitizeName(g.Workflow.Name)}

	for _, id := range g.TopologicalOrder() {
		node, _ := g.Node(id)
		color := ""
		if states != nil {
			color = stateColor(states[id].State)
		}
		data.Nodes = append(data.Nodes, dotNode{ID: id, Type: string(node.Task.Type), Color: color})
	}

	for _, id := range g.TopologicalOrder() {
		for _, succ := range g.Successors(id) {
			data.Edges = append(data.Edges, dotEdge{From: id, To: succ})
		}
	}

	var b strings.Builder
	if err := dotTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("visualize: rendering DOT: %w", err)
	}
	return b.String(), nil
}

func stateColor(state engine.State) string {
	switch state {
	case engine.StateSucceeded:
		return "#b6e3a8"
	case engine.StateFailed:
		return "#e38a8a"
	case engine.StateCancelled:
		return "#d9d9d9"
	case engine.StateSkipped:
		return "#f0e0a0"
	case engine.StateRunning:
		return "#a8cbe3"
	default:
		return "#ffffff"
	}
}

// sanitizeName strips characters DOT's unquoted graph-id grammar
// disallows, since the workflow name is rendered unquoted as the graph
// name.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "workflow"
	}
	return b.String()
}
