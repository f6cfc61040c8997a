// Package kanban implements the board's drag-and-drop transitions and column
// operations as pure functions over task and column lists.
//
// Callers load a board's tasks and columns, apply one operation, and persist
// whatever comes back. Nothing in this package touches storage.
package kanban

import (
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/models"
)

type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetColumn
	TargetTask
)

func (k TargetKind) String() string {
	switch k {
	case TargetColumn:
		return "column"
	case TargetTask:
		return "task"
	default:
		return "none"
	}
}

// Target is whatever the pointer is over during a drag.
type Target struct {
	Kind TargetKind
	ID   string
}

// ResolveTarget classifies overID. Column ids win over task ids; an unknown or
// empty id resolves to TargetNone.
func ResolveTarget(tasks []models.Task, columns []models.Column, overID string) Target {
	if overID == "" {
		return Target{Kind: TargetNone}
	}
	if _, ok := findColumn(columns, models.ColumnID(overID)); ok {
		return Target{Kind: TargetColumn, ID: overID}
	}
	if findTask(tasks, overID) >= 0 {
		return Target{Kind: TargetTask, ID: overID}
	}
	return Target{Kind: TargetNone}
}

// DragOver computes the live status reassignment for the dragged task.
// It returns the updated task and true only when the status changes.
func DragOver(tasks []models.Task, columns []models.Column, activeID string, over Target) (models.Task, bool) {
	ai := findTask(tasks, activeID)
	if ai < 0 {
		return models.Task{}, false
	}
	active := tasks[ai]

	switch over.Kind {
	case TargetColumn:
		col, ok := findColumn(columns, models.ColumnID(over.ID))
		if !ok || col.Status == active.Status {
			return models.Task{}, false
		}
		updated := active.Clone()
		updated.Status = col.Status
		return updated, true
	case TargetTask:
		if over.ID == activeID {
			return models.Task{}, false
		}
		oi := findTask(tasks, over.ID)
		if oi < 0 || tasks[oi].Status == active.Status {
			return models.Task{}, false
		}
		updated := active.Clone()
		updated.Status = tasks[oi].Status
		return updated, true
	default:
		return models.Task{}, false
	}
}

// DragEnd reorders the dragged task within its column when it was dropped on a
// sibling with the same status. Any other drop leaves the list untouched.
//
// The reordered column is written back into the slots it already occupied
// (see MoveWithinColumn) rather than appended after the other columns' tasks,
// so [1,2,3] with 2 dropped on 1 becomes [2,1,3] and other columns never move.
func DragEnd(tasks []models.Task, activeID string, over Target) ([]models.Task, bool) {
	if over.Kind != TargetTask || over.ID == activeID {
		return tasks, false
	}
	ai := findTask(tasks, activeID)
	oi := findTask(tasks, over.ID)
	if ai < 0 || oi < 0 || tasks[ai].Status != tasks[oi].Status {
		return tasks, false
	}
	return MoveWithinColumn(tasks, activeID, over.ID)
}

type DragState int

const (
	Idle DragState = iota
	Dragging
)

// Session tracks one drag gesture. The zero value is Idle.
type Session struct {
	ActiveID string
}

func (s *Session) State() DragState {
	if s.ActiveID == "" {
		return Idle
	}
	return Dragging
}

// Start enters Dragging once the pointer has moved at least the activation
// distance, so a click never starts a drag. Unknown task ids are ignored.
func (s *Session) Start(tasks []models.Task, activeID string, distance float64) bool {
	if distance < constants.DragActivationDistance || findTask(tasks, activeID) < 0 {
		return false
	}
	s.ActiveID = activeID
	return true
}

// Over applies drag-over rules while Dragging.
func (s *Session) Over(tasks []models.Task, columns []models.Column, overID string) (models.Task, bool) {
	if s.State() != Dragging {
		return models.Task{}, false
	}
	return DragOver(tasks, columns, s.ActiveID, ResolveTarget(tasks, columns, overID))
}

// End finishes the gesture and returns to Idle. Status changes made during
// drag-over are kept whether or not a reorder happens.
func (s *Session) End(tasks []models.Task, columns []models.Column, overID string) ([]models.Task, bool) {
	if s.State() != Dragging {
		return tasks, false
	}
	activeID := s.ActiveID
	s.ActiveID = ""
	return DragEnd(tasks, activeID, ResolveTarget(tasks, columns, overID))
}

// Cancel returns to Idle without rolling anything back.
func (s *Session) Cancel() {
	s.ActiveID = ""
}

func findTask(tasks []models.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func findColumn(columns []models.Column, id models.ColumnID) (models.Column, bool) {
	for _, c := range columns {
		if c.ID == id {
			return c, true
		}
	}
	return models.Column{}, false
}
