package dto

import (
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/services"
)

// TaskRequest is the task form body. A blank title makes the request a no-op.
type TaskRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Status       string   `json:"status"`
	Priority     string   `json:"priority"`
	Dependencies []string `json:"dependencies"`
	DueDate      string   `json:"dueDate"`
}

// ToInput converts the request to service input for task id (empty creates)
func (r TaskRequest) ToInput(id string) services.SaveTaskInput {
	return services.SaveTaskInput{
		ID:           id,
		Title:        r.Title,
		Description:  r.Description,
		Status:       models.ColumnID(r.Status),
		Priority:     models.Priority(r.Priority),
		Dependencies: r.Dependencies,
		DueDate:      r.DueDate,
	}
}

// TaskListResponse represents a board's task list
type TaskListResponse struct {
	Tasks []models.Task `json:"tasks"`
}

// GenerateTasksRequest is the body of AI task drafting
type GenerateTasksRequest struct {
	Text   string `json:"text" binding:"required"`
	Status string `json:"status"`
}

// ColumnRequest is the body of column create/rename
type ColumnRequest struct {
	Title string `json:"title"`
}

// ColumnListResponse represents a board's columns
type ColumnListResponse struct {
	Columns []models.Column `json:"columns"`
}

// DragStartRequest starts a drag once the pointer travelled far enough
type DragStartRequest struct {
	TaskID   string  `json:"taskId" binding:"required"`
	Distance float64 `json:"distance"`
}

// DragTargetRequest names what the pointer is over: a column id, a task id or nothing
type DragTargetRequest struct {
	OverID string `json:"overId"`
}

// DragResponse reports the drag state and what changed
type DragResponse struct {
	ActiveID string        `json:"activeId"`
	Task     *models.Task  `json:"task,omitempty"`
	Tasks    []models.Task `json:"tasks,omitempty"`
}

// ConnectEdgeRequest makes target depend on source
type ConnectEdgeRequest struct {
	Source string `json:"source" binding:"required"`
	Target string `json:"target" binding:"required"`
}

// MoveNodeRequest is a node's new graph position
type MoveNodeRequest struct {
	X *float64 `json:"x" binding:"required"`
	Y *float64 `json:"y" binding:"required"`
}

// Position returns the requested position
func (r MoveNodeRequest) Position() models.Position {
	return models.Position{X: *r.X, Y: *r.Y}
}

// GraphResponse is the dependency graph with analysis
type GraphResponse = services.GraphView
