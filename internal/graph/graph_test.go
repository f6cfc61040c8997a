package graph

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/models"
)

func fixedPlacer(x, y float64) Placer {
	return func(models.Task) models.Position { return models.Position{X: x, Y: y} }
}

func TestBuild_FiltersDanglingAndSelfLoops(t *testing.T) {
	tasks := []models.Task{
		{ID: "a"},
		{ID: "b", Dependencies: []string{"a", "x", "b"}},
	}

	g := Build(tasks, fixedPlacer(0, 0))

	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, Edge{ID: "a-b", Source: "a", Target: "b"}, g.Edges[0])
}

func TestBuild_DeduplicatesPairs(t *testing.T) {
	tasks := []models.Task{
		{ID: "a"},
		{ID: "b", Dependencies: []string{"a", "a"}},
		{ID: "c", Dependencies: []string{"a", "b"}},
	}

	g := Build(tasks, nil)

	assert.Equal(t, []Edge{
		{ID: "a-b", Source: "a", Target: "b"},
		{ID: "a-c", Source: "a", Target: "c"},
		{ID: "b-c", Source: "b", Target: "c"},
	}, g.Edges)
}

func TestBuild_HyphenatedIDs(t *testing.T) {
	tasks := []models.Task{
		{ID: "a"},
		{ID: "a-b"},
		{ID: "c", Dependencies: []string{"a-b"}},
		{ID: "b-c", Dependencies: []string{"a"}},
	}

	g := Build(tasks, nil)

	require.Len(t, g.Edges, 2)
	assert.Equal(t, Edge{ID: "a-b-c", Source: "a-b", Target: "c"}, g.Edges[0])
	assert.Equal(t, Edge{ID: "a-b-c", Source: "a", Target: "b-c"}, g.Edges[1])
}

func TestBuild_Positions(t *testing.T) {
	tasks := []models.Task{
		{ID: "a", Position: &models.Position{X: 100, Y: 200}},
		{ID: "b"},
	}

	g := Build(tasks, fixedPlacer(7, 9))

	assert.Equal(t, models.Position{X: 100, Y: 200}, g.Nodes[0].Position)
	assert.False(t, g.Nodes[0].Placed)
	assert.Equal(t, models.Position{X: 7, Y: 9}, g.Nodes[1].Position)
	assert.True(t, g.Nodes[1].Placed)
}

func TestRandomPlacer_StaysInLayoutArea(t *testing.T) {
	place := RandomPlacer(rand.New(rand.NewSource(1)))
	for i := 0; i < 100; i++ {
		p := place(models.Task{})
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.Less(t, p.X, constants.GraphLayoutWidth)
		assert.GreaterOrEqual(t, p.Y, 0.0)
		assert.Less(t, p.Y, constants.GraphLayoutHeight)
	}
}

func TestBuild_Empty(t *testing.T) {
	g := Build(nil, nil)
	assert.Empty(t, g.Nodes)
	assert.NotNil(t, g.Edges)
}

func TestConnectEdge(t *testing.T) {
	tasks := []models.Task{{ID: "a"}, {ID: "b"}}

	updated, ok := ConnectEdge("a", "b", tasks)
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, updated.Dependencies)
	assert.Nil(t, tasks[1].Dependencies)

	tasks[1] = updated
	updated, ok = ConnectEdge("a", "b", tasks)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "a"}, updated.Dependencies, "duplicates are appended as-is")

	_, ok = ConnectEdge("a", "missing", tasks)
	assert.False(t, ok)
	_, ok = ConnectEdge("", "b", tasks)
	assert.False(t, ok)
}

func TestConnectEdge_AllowsCycles(t *testing.T) {
	tasks := []models.Task{{ID: "a", Dependencies: []string{"b"}}, {ID: "b"}}

	updated, ok := ConnectEdge("a", "b", tasks)
	require.True(t, ok)
	tasks[1] = updated

	assert.Equal(t, []string{"a", "b", "a"}, FindCycle(tasks))
}

func TestMoveNode(t *testing.T) {
	tasks := []models.Task{{ID: "a", Status: "todo", Dependencies: []string{"z"}}}

	updated, ok := MoveNode("a", models.Position{X: 3, Y: 4}, tasks)
	require.True(t, ok)
	assert.Equal(t, &models.Position{X: 3, Y: 4}, updated.Position)
	assert.Equal(t, models.ColumnID("todo"), updated.Status)
	assert.Equal(t, []string{"z"}, updated.Dependencies)
	assert.Nil(t, tasks[0].Position)

	_, ok = MoveNode("nope", models.Position{}, tasks)
	assert.False(t, ok)
}

func TestFindCycle(t *testing.T) {
	acyclic := []models.Task{
		{ID: "1"},
		{ID: "2", Dependencies: []string{"1"}},
		{ID: "3", Dependencies: []string{"1", "2", "missing"}},
	}
	assert.Nil(t, FindCycle(acyclic))

	selfLoop := []models.Task{{ID: "1", Dependencies: []string{"1"}}}
	assert.Equal(t, []string{"1", "1"}, FindCycle(selfLoop))
}

func TestUnmetDependencies(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Status: "done"},
		{ID: "2", Status: "todo"},
		{ID: "3", Status: "todo", Dependencies: []string{"1", "2", "gone"}},
	}
	assert.Equal(t, []string{"2"}, UnmetDependencies(tasks[2], tasks, "done"))
}
