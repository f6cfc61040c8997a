package kanban

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard/internal/models"
)

func TestAddColumn(t *testing.T) {
	cols, col, ok := AddColumn(models.DefaultColumns(), "  Code Review ")

	require.True(t, ok)
	assert.Equal(t, models.Column{ID: "code-review", Title: "Code Review", Status: "code-review"}, col)
	assert.Len(t, cols, 4)
	assert.Equal(t, col, cols[3])
}

func TestAddColumn_CollisionGetsSuffix(t *testing.T) {
	cols, col, ok := AddColumn(models.DefaultColumns(), "Done")
	require.True(t, ok)
	assert.Equal(t, models.ColumnID("done-2"), col.ID)
	assert.Equal(t, models.ColumnID("done-2"), col.Status)

	_, col, ok = AddColumn(cols, "done")
	require.True(t, ok)
	assert.Equal(t, models.ColumnID("done-3"), col.ID)
}

func TestAddColumn_EmptyTitleIsNoop(t *testing.T) {
	base := models.DefaultColumns()
	cols, _, ok := AddColumn(base, "   ")
	assert.False(t, ok)
	assert.Equal(t, base, cols)
}

func TestRenameColumn(t *testing.T) {
	base := models.DefaultColumns()

	cols, ok := RenameColumn(base, "todo", "Backlog")
	require.True(t, ok)
	assert.Equal(t, models.Column{ID: "todo", Title: "Backlog", Status: "todo"}, cols[0])
	assert.Equal(t, "To Do", base[0].Title)

	_, ok = RenameColumn(base, "nope", "X")
	assert.False(t, ok)
	_, ok = RenameColumn(base, "todo", " ")
	assert.False(t, ok)
}

func TestDeleteColumnAndTasks(t *testing.T) {
	columns := models.DefaultColumns()
	tasks := []models.Task{
		task("1", "todo"), task("2", "in-progress"), task("3", "done"), task("4", "in-progress"),
	}

	cols, out, ok := DeleteColumnAndTasks(columns, tasks, "in-progress")

	require.True(t, ok)
	assert.Equal(t, []models.ColumnID{"todo", "done"}, []models.ColumnID{cols[0].ID, cols[1].ID})
	assert.Equal(t, []string{"1", "3"}, ids(out))
}

func TestDeleteColumnAndTasks_UnknownColumn(t *testing.T) {
	columns := models.DefaultColumns()
	tasks := []models.Task{task("1", "todo")}

	cols, out, ok := DeleteColumnAndTasks(columns, tasks, "archive")
	assert.False(t, ok)
	assert.Len(t, cols, 3)
	assert.Len(t, out, 1)
}

func TestDeleteColumnReassignTasks(t *testing.T) {
	columns := models.DefaultColumns()
	tasks := []models.Task{task("1", "todo"), task("2", "in-progress"), task("3", "done")}

	cols, out, ok := DeleteColumnReassignTasks(columns, tasks, "in-progress", "todo")

	require.True(t, ok)
	assert.Len(t, cols, 2)
	assert.Equal(t, []string{"1", "2", "3"}, ids(out))
	assert.Equal(t, models.ColumnID("todo"), out[1].Status)
	assert.Equal(t, models.ColumnID("in-progress"), tasks[1].Status)

	_, _, ok = DeleteColumnReassignTasks(columns, tasks, "in-progress", "archive")
	assert.False(t, ok)
	_, _, ok = DeleteColumnReassignTasks(columns, tasks, "todo", "todo")
	assert.False(t, ok)
}
