package kanban

import "github.com/yukikurage/taskboard/internal/models"

// ArrayMove returns a copy of s with the element at from moved to index to,
// shifting the elements in between by one.
func ArrayMove[T any](s []T, from, to int) []T {
	out := make([]T, 0, len(s))
	out = append(out, s[:from]...)
	out = append(out, s[from+1:]...)
	moved := s[from]
	out = append(out, moved)
	copy(out[to+1:], out[to:len(out)-1])
	out[to] = moved
	return out
}

// MoveWithinColumn moves activeID to overID's index among the tasks sharing
// activeID's status. The reordered siblings go back into the slots the column
// occupied, so tasks of other columns keep their positions in the list.
func MoveWithinColumn(tasks []models.Task, activeID, overID string) ([]models.Task, bool) {
	ai := findTask(tasks, activeID)
	if ai < 0 {
		return tasks, false
	}
	status := tasks[ai].Status

	var slots []int
	from, to := -1, -1
	for i, t := range tasks {
		if t.Status != status {
			continue
		}
		if t.ID == activeID {
			from = len(slots)
		}
		if t.ID == overID {
			to = len(slots)
		}
		slots = append(slots, i)
	}
	if to < 0 || from == to {
		return tasks, false
	}

	column := make([]models.Task, len(slots))
	for k, idx := range slots {
		column[k] = tasks[idx]
	}
	column = ArrayMove(column, from, to)

	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	for k, idx := range slots {
		out[idx] = column[k]
	}
	return out, true
}
