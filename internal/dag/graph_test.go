package dag

import (
	"testing"

	"github.com/ningyanhui/scheduler-dag/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wf(tasks []string, edges [][2]string) *config.WorkflowDescriptor {
	wd := &config.WorkflowDescriptor{Name: "wf", FailFast: true}
	for _, id := range tasks {
		wd.Tasks = append(wd.Tasks, config.TaskDescriptor{ID: id, Type: config.TaskShell, Command: "echo " + id})
	}
	for _, e := range edges {
		wd.Dependencies = append(wd.Dependencies, config.DependencyEdge{From: e[0], To: e[1]})
	}
	return wd
}

func TestBuildLinearLayers(t *testing.T) {
	g, err := Build(wf([]string{"A", "B", "C"}, [][2]string{{"A", "B"}, {"B", "C"}}))
	require.NoError(t, err)
	assert.Equal(t, 3, g.LayerCount())
	assert.Equal(t, []string{"A"}, g.NodesAtLayer(0))
	assert.Equal(t, []string{"B"}, g.NodesAtLayer(1))
	assert.Equal(t, []string{"C"}, g.NodesAtLayer(2))
}

func TestBuildDiamondLayers(t *testing.T) {
	// A -> B, A -> C, B -> D, C -> D
	g, err := Build(wf([]string{"A", "B", "C", "D"}, [][2]string{
		{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"},
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, g.LayerCount())
	assert.Equal(t, []string{"A"}, g.NodesAtLayer(0))
	assert.ElementsMatch(t, []string{"B", "C"}, g.NodesAtLayer(1))
	assert.Equal(t, []string{"D"}, g.NodesAtLayer(2))
}

func TestBuildDetectsCycle(t *testing.T) {
	_, err := Build(wf([]string{"A", "B"}, [][2]string{{"A", "B"}, {"B", "A"}}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle detected")
}

func TestBuildRejectsUndeclaredEdge(t *testing.T) {
	_, err := Build(wf([]string{"A"}, [][2]string{{"A", "ghost"}}))
	require.Error(t, err)
}

func TestPredecessorsSuccessors(t *testing.T) {
	g, err := Build(wf([]string{"A", "B"}, [][2]string{{"A", "B"}}))
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, g.Predecessors("B"))
	assert.Equal(t, []string{"B"}, g.Successors("A"))
	assert.Empty(t, g.Predecessors("A"))
}

func TestTopologicalOrder(t *testing.T) {
	g, err := Build(wf([]string{"A", "B", "C"}, [][2]string{{"A", "B"}, {"A", "C"}}))
	require.NoError(t, err)
	order := g.TopologicalOrder()
	require.Len(t, order, 3)
	assert.Equal(t, "A", order[0])
}
