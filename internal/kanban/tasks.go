package kanban

import (
	"strings"

	"github.com/yukikurage/taskboard/internal/models"
)

// Lane is one rendered column with its tasks in persisted order.
type Lane struct {
	Column models.Column `json:"column"`
	Tasks  []models.Task `json:"tasks"`
}

// TasksByStatus returns the tasks in a column, in list order.
func TasksByStatus(tasks []models.Task, status models.ColumnID) []models.Task {
	out := []models.Task{}
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// Lanes groups tasks by column. Tasks matching no column are returned as orphans.
func Lanes(tasks []models.Task, columns []models.Column) ([]Lane, []models.Task) {
	lanes := make([]Lane, len(columns))
	known := make(map[models.ColumnID]struct{}, len(columns))
	for i, c := range columns {
		lanes[i] = Lane{Column: c, Tasks: TasksByStatus(tasks, c.Status)}
		known[c.Status] = struct{}{}
	}
	orphans := []models.Task{}
	for _, t := range tasks {
		if _, ok := known[t.Status]; !ok {
			orphans = append(orphans, t)
		}
	}
	return lanes, orphans
}

// UpsertTask replaces the task with the same id in place, or prepends it when
// it is new. Tasks without a title are rejected.
func UpsertTask(tasks []models.Task, task models.Task) ([]models.Task, bool) {
	if !models.HasTitle(task.Title) {
		return tasks, false
	}
	task.Title = strings.TrimSpace(task.Title)
	task.Description = strings.TrimSpace(task.Description)

	if i := findTask(tasks, task.ID); i >= 0 {
		out := make([]models.Task, len(tasks))
		copy(out, tasks)
		out[i] = task
		return out, true
	}
	out := make([]models.Task, 0, len(tasks)+1)
	out = append(out, task)
	return append(out, tasks...), true
}

// ReplaceTask swaps in an updated task by id. Unknown ids leave the list unchanged.
func ReplaceTask(tasks []models.Task, task models.Task) ([]models.Task, bool) {
	i := findTask(tasks, task.ID)
	if i < 0 {
		return tasks, false
	}
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	out[i] = task
	return out, true
}

// RemoveTask drops the task with the given id.
func RemoveTask(tasks []models.Task, id string) ([]models.Task, bool) {
	i := findTask(tasks, id)
	if i < 0 {
		return tasks, false
	}
	out := make([]models.Task, 0, len(tasks)-1)
	out = append(out, tasks[:i]...)
	return append(out, tasks[i+1:]...), true
}

// FindTask returns the task with the given id.
func FindTask(tasks []models.Task, id string) (models.Task, bool) {
	if i := findTask(tasks, id); i >= 0 {
		return tasks[i], true
	}
	return models.Task{}, false
}

// Filter keeps tasks whose title or description contains query
// (case-insensitive) and that belong to group. group is "all" or empty,
// a priority name, or a column status.
func Filter(tasks []models.Task, query, group string) []models.Task {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []models.Task{}
	for _, t := range tasks {
		if q != "" &&
			!strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			continue
		}
		switch models.Priority(group) {
		case "", "all":
		case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
			if t.Priority != models.Priority(group) {
				continue
			}
		default:
			if t.Status != models.ColumnID(group) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
