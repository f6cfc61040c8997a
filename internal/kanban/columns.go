package kanban

import (
	"strings"

	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/utils"
)

// AddColumn appends a column whose id and status are derived from title.
// A slug already used by another column gets a numeric suffix.
func AddColumn(columns []models.Column, title string) ([]models.Column, models.Column, bool) {
	if !models.HasTitle(title) {
		return columns, models.Column{}, false
	}
	base := utils.SlugOrFallback(title, "column")
	id := models.ColumnID(utils.UniqueSlug(base, func(s string) bool {
		_, taken := findColumn(columns, models.ColumnID(s))
		return taken
	}))

	col := models.Column{ID: id, Title: strings.TrimSpace(title), Status: id}
	out := make([]models.Column, 0, len(columns)+1)
	out = append(out, columns...)
	return append(out, col), col, true
}

// RenameColumn changes only the title, so task assignments stay valid.
func RenameColumn(columns []models.Column, id models.ColumnID, title string) ([]models.Column, bool) {
	if !models.HasTitle(title) {
		return columns, false
	}
	out := make([]models.Column, len(columns))
	copy(out, columns)
	for i := range out {
		if out[i].ID == id {
			out[i].Title = strings.TrimSpace(title)
			return out, true
		}
	}
	return columns, false
}

// DeleteColumnAndTasks removes the column and hard-deletes every task whose
// status equals the column's status.
func DeleteColumnAndTasks(columns []models.Column, tasks []models.Task, id models.ColumnID) ([]models.Column, []models.Task, bool) {
	col, ok := findColumn(columns, id)
	if !ok {
		return columns, tasks, false
	}
	keptTasks := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status != col.Status {
			keptTasks = append(keptTasks, t)
		}
	}
	return withoutColumn(columns, id), keptTasks, true
}

// DeleteColumnReassignTasks removes the column and moves its tasks to the
// column identified by to, keeping their order.
func DeleteColumnReassignTasks(columns []models.Column, tasks []models.Task, id, to models.ColumnID) ([]models.Column, []models.Task, bool) {
	if id == to {
		return columns, tasks, false
	}
	col, ok := findColumn(columns, id)
	if !ok {
		return columns, tasks, false
	}
	dest, ok := findColumn(columns, to)
	if !ok {
		return columns, tasks, false
	}
	moved := make([]models.Task, len(tasks))
	for i, t := range tasks {
		if t.Status == col.Status {
			t = t.Clone()
			t.Status = dest.Status
		}
		moved[i] = t
	}
	return withoutColumn(columns, id), moved, true
}

func withoutColumn(columns []models.Column, id models.ColumnID) []models.Column {
	out := make([]models.Column, 0, len(columns))
	for _, c := range columns {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}
