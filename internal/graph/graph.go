// Package graph derives the dependency graph view from a board's tasks.
package graph

import (
	"math/rand"

	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/models"
)

type Node struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Status   models.ColumnID `json:"status"`
	Priority models.Priority `json:"priority"`
	Position models.Position `json:"position"`
	// Placed is set when Position was generated for this build and is not yet persisted.
	Placed bool `json:"placed,omitempty"`
}

// Edge points from a dependency to the task that depends on it.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// edgeKey identifies a (dependency, task) pair. Edge.ID is display only and
// can collide when ids contain hyphens.
type edgeKey struct {
	source, target string
}

type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Placer chooses a layout position for a task that has none.
type Placer func(task models.Task) models.Position

// RandomPlacer scatters nodes over the default layout area.
func RandomPlacer(rng *rand.Rand) Placer {
	return func(models.Task) models.Position {
		return models.Position{
			X: rng.Float64() * constants.GraphLayoutWidth,
			Y: rng.Float64() * constants.GraphLayoutHeight,
		}
	}
}

// Build returns one node per task and one edge per distinct
// (dependency, task) pair. Self-loops and dependencies on ids outside
// tasks are dropped.
func Build(tasks []models.Task, place Placer) Graph {
	known := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		known[t.ID] = struct{}{}
	}

	g := Graph{Nodes: make([]Node, 0, len(tasks)), Edges: []Edge{}}
	seen := make(map[edgeKey]struct{})
	for _, t := range tasks {
		n := Node{ID: t.ID, Title: t.Title, Status: t.Status, Priority: t.Priority}
		if t.Position != nil {
			n.Position = *t.Position
		} else if place != nil {
			n.Position = place(t)
			n.Placed = true
		}
		g.Nodes = append(g.Nodes, n)

		for _, dep := range t.Dependencies {
			if dep == t.ID {
				continue
			}
			if _, ok := known[dep]; !ok {
				continue
			}
			key := edgeKey{source: dep, target: t.ID}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			g.Edges = append(g.Edges, Edge{ID: dep + "-" + t.ID, Source: dep, Target: t.ID})
		}
	}
	return g
}

// ConnectEdge appends sourceID to the target task's dependencies and returns
// the updated target. It performs no cycle or duplicate checks.
func ConnectEdge(sourceID, targetID string, tasks []models.Task) (models.Task, bool) {
	if sourceID == "" {
		return models.Task{}, false
	}
	for _, t := range tasks {
		if t.ID != targetID {
			continue
		}
		updated := t.Clone()
		updated.Dependencies = append(updated.Dependencies, sourceID)
		return updated, true
	}
	return models.Task{}, false
}

// MoveNode records a new layout position for a task. Status and
// dependencies are left as they are.
func MoveNode(taskID string, pos models.Position, tasks []models.Task) (models.Task, bool) {
	for _, t := range tasks {
		if t.ID != taskID {
			continue
		}
		updated := t.Clone()
		updated.Position = &pos
		return updated, true
	}
	return models.Task{}, false
}
