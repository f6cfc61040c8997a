package graph

import "github.com/yukikurage/taskboard/internal/models"

// FindCycle returns the ids along one dependency cycle, first id repeated at
// the end, or nil when the graph is acyclic. Connecting edges never consults
// it; it only reports.
func FindCycle(tasks []models.Task) []string {
	deps := make(map[string][]string, len(tasks))
	for _, t := range tasks {
		deps[t.ID] = t.Dependencies
	}

	const (
		unvisited = iota
		inStack
		done
	)
	state := make(map[string]int, len(tasks))
	var stack []string

	var visit func(id string) []string
	visit = func(id string) []string {
		state[id] = inStack
		stack = append(stack, id)
		for _, dep := range deps[id] {
			if _, ok := deps[dep]; !ok {
				continue
			}
			switch state[dep] {
			case inStack:
				for i, s := range stack {
					if s == dep {
						cycle := append([]string(nil), stack[i:]...)
						return append(cycle, dep)
					}
				}
			case unvisited:
				if c := visit(dep); c != nil {
					return c
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
		return nil
	}

	for _, t := range tasks {
		if state[t.ID] == unvisited {
			if c := visit(t.ID); c != nil {
				return c
			}
		}
	}
	return nil
}

// UnmetDependencies lists the dependencies of task that are present in tasks
// but not yet in the done column.
func UnmetDependencies(task models.Task, tasks []models.Task, done models.ColumnID) []string {
	status := make(map[string]models.ColumnID, len(tasks))
	for _, t := range tasks {
		status[t.ID] = t.Status
	}
	var unmet []string
	for _, dep := range task.Dependencies {
		if s, ok := status[dep]; ok && dep != task.ID && s != done {
			unmet = append(unmet, dep)
		}
	}
	return unmet
}
