package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/graph"
	"github.com/yukikurage/taskboard/internal/kanban"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/realtime"
	"github.com/yukikurage/taskboard/internal/repository"
)

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
	ErrAITooManyTasks         = fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
)

// BoardService applies kanban and graph operations to a board's stored tasks
// and columns. Each operation loads the board, applies one change, saves it
// once and publishes a change event.
type BoardService struct {
	repo    repository.Repository
	events  realtime.Publisher
	drafter TaskDrafter
	place   graph.Placer
	mu      sync.Mutex
}

// NewBoardService creates a new BoardService. events and drafter may be nil.
func NewBoardService(repo repository.Repository, events realtime.Publisher, drafter TaskDrafter) *BoardService {
	return &BoardService{
		repo:    repo,
		events:  events,
		drafter: drafter,
		place:   graph.RandomPlacer(rand.New(rand.NewSource(time.Now().UnixNano()))),
	}
}

// SetPlacer replaces the layout used for tasks without a graph position
func (s *BoardService) SetPlacer(place graph.Placer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.place = place
}

// SaveTaskInput represents the task form. An empty ID creates a task.
type SaveTaskInput struct {
	ID           string
	Title        string
	Description  string
	Status       models.ColumnID
	Priority     models.Priority
	Dependencies []string
	DueDate      string
}

// GraphView is the dependency graph plus advisory analysis
type GraphView struct {
	graph.Graph
	Cycle   []string            `json:"cycle,omitempty"`
	Blocked map[string][]string `json:"blocked"`
}

// Tasks returns the board's tasks in persisted order, filtered by query and group
func (s *BoardService) Tasks(boardID, query, group string) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.repo.LoadTasks(boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	return kanban.Filter(tasks, query, group), nil
}

// Columns returns the board's columns, or the defaults when none were saved
func (s *BoardService) Columns(boardID string) ([]models.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.columns(s.repo, boardID)
}

// Lanes groups the board's tasks by column
func (s *BoardService) Lanes(boardID string) ([]kanban.Lane, []models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, columns, err := s.load(boardID)
	if err != nil {
		return nil, nil, err
	}
	lanes, orphans := kanban.Lanes(tasks, columns)
	return lanes, orphans, nil
}

// SaveTask creates a task when input.ID is empty, otherwise edits that task.
// A blank title or an unknown id is ignored. Edits keep the task's graph position.
func (s *BoardService) SaveTask(ctx context.Context, boardID string, input SaveTaskInput) (*models.Task, error) {
	if !models.HasTitle(input.Title) {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, columns, err := s.load(boardID)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" && len(columns) > 0 {
		status = columns[0].Status
	}

	task := models.NewTask(status, models.ParsePriority(string(input.Priority)))
	if input.ID != "" {
		existing, ok := kanban.FindTask(tasks, input.ID)
		if !ok {
			return nil, nil
		}
		task.ID = existing.ID
		task.Position = existing.Position
		if input.Status == "" {
			task.Status = existing.Status
		}
	}
	task.Title = input.Title
	task.Description = input.Description
	task.DueDate = strings.TrimSpace(input.DueDate)
	if len(input.Dependencies) > 0 {
		task.Dependencies = append([]string(nil), input.Dependencies...)
	}

	updated, ok := kanban.UpsertTask(tasks, task)
	if !ok {
		return nil, nil
	}
	if err := s.repo.SaveTasks(boardID, updated); err != nil {
		return nil, fmt.Errorf("failed to save tasks: %w", err)
	}

	saved, _ := kanban.FindTask(updated, task.ID)
	s.publish(ctx, boardID, realtime.EventTasksChanged, "task.saved")
	return &saved, nil
}

// DeleteTask removes a task. Dependencies on it elsewhere are left dangling
// and ignored by the graph.
func (s *BoardService) DeleteTask(ctx context.Context, boardID, taskID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.repo.LoadTasks(boardID)
	if err != nil {
		return false, fmt.Errorf("failed to load tasks: %w", err)
	}
	updated, ok := kanban.RemoveTask(tasks, taskID)
	if !ok {
		return false, nil
	}
	if err := s.repo.SaveTasks(boardID, updated); err != nil {
		return false, fmt.Errorf("failed to save tasks: %w", err)
	}

	s.publish(ctx, boardID, realtime.EventTasksChanged, "task.deleted")
	return true, nil
}

// DragStart reports whether a press on taskID became a drag. Nothing is written.
func (s *BoardService) DragStart(boardID, taskID string, distance float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.repo.LoadTasks(boardID)
	if err != nil {
		return false, fmt.Errorf("failed to load tasks: %w", err)
	}
	var session kanban.Session
	return session.Start(tasks, taskID, distance), nil
}

// DragOver applies live column reassignment for the dragged task and
// persists it. It returns nil when the status did not change.
func (s *BoardService) DragOver(ctx context.Context, boardID, activeID, overID string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, columns, err := s.load(boardID)
	if err != nil {
		return nil, err
	}

	session := kanban.Session{ActiveID: activeID}
	moved, ok := session.Over(tasks, columns, overID)
	if !ok {
		return nil, nil
	}
	updated, _ := kanban.ReplaceTask(tasks, moved)
	if err := s.repo.SaveTasks(boardID, updated); err != nil {
		return nil, fmt.Errorf("failed to save tasks: %w", err)
	}

	s.publish(ctx, boardID, realtime.EventTasksChanged, "drag.over")
	return &moved, nil
}

// DragEnd finishes a drag. A drop on a same-column sibling reorders the
// column and persists the full list; any other drop changes nothing.
func (s *BoardService) DragEnd(ctx context.Context, boardID, activeID, overID string) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, columns, err := s.load(boardID)
	if err != nil {
		return nil, err
	}

	session := kanban.Session{ActiveID: activeID}
	reordered, ok := session.End(tasks, columns, overID)
	if !ok {
		return nil, nil
	}
	if err := s.repo.SaveTasks(boardID, reordered); err != nil {
		return nil, fmt.Errorf("failed to save tasks: %w", err)
	}

	s.publish(ctx, boardID, realtime.EventTasksChanged, "drag.end")
	return reordered, nil
}

// AddColumn appends a column derived from title
func (s *BoardService) AddColumn(ctx context.Context, boardID, title string) (*models.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	columns, err := s.columns(s.repo, boardID)
	if err != nil {
		return nil, err
	}
	updated, col, ok := kanban.AddColumn(columns, title)
	if !ok {
		return nil, nil
	}
	if err := s.repo.SaveColumns(boardID, updated); err != nil {
		return nil, fmt.Errorf("failed to save columns: %w", err)
	}

	s.publish(ctx, boardID, realtime.EventColumnsChanged, "column.added")
	return &col, nil
}

// RenameColumn changes a column's title only
func (s *BoardService) RenameColumn(ctx context.Context, boardID string, id models.ColumnID, title string) (*models.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	columns, err := s.columns(s.repo, boardID)
	if err != nil {
		return nil, err
	}
	updated, ok := kanban.RenameColumn(columns, id, title)
	if !ok {
		return nil, nil
	}
	if err := s.repo.SaveColumns(boardID, updated); err != nil {
		return nil, fmt.Errorf("failed to save columns: %w", err)
	}

	for _, c := range updated {
		if c.ID == id {
			s.publish(ctx, boardID, realtime.EventColumnsChanged, "column.renamed")
			return &c, nil
		}
	}
	return nil, nil
}

// DeleteColumn removes a column. With an empty reassignTo its tasks are
// deleted; otherwise they move to column reassignTo.
func (s *BoardService) DeleteColumn(ctx context.Context, boardID string, id, reassignTo models.ColumnID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := false
	err := s.repo.WithTx(func(tx repository.Repository) error {
		columns, err := s.columns(tx, boardID)
		if err != nil {
			return err
		}
		tasks, err := tx.LoadTasks(boardID)
		if err != nil {
			return err
		}

		var (
			cols []models.Column
			next []models.Task
			ok   bool
		)
		if reassignTo == "" {
			cols, next, ok = kanban.DeleteColumnAndTasks(columns, tasks, id)
		} else {
			cols, next, ok = kanban.DeleteColumnReassignTasks(columns, tasks, id, reassignTo)
		}
		if !ok {
			return nil
		}
		if err := tx.SaveColumns(boardID, cols); err != nil {
			return err
		}
		if err := tx.SaveTasks(boardID, next); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete column: %w", err)
	}

	if deleted {
		s.publish(ctx, boardID, realtime.EventColumnsChanged, "column.deleted")
		s.publish(ctx, boardID, realtime.EventTasksChanged, "column.deleted")
	}
	return deleted, nil
}

// Graph derives the dependency graph. Positions generated for tasks that had
// none are saved in one write so the layout stays put.
func (s *BoardService) Graph(ctx context.Context, boardID string) (*GraphView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, columns, err := s.load(boardID)
	if err != nil {
		return nil, err
	}

	g := graph.Build(tasks, s.place)
	placed := false
	for i, n := range g.Nodes {
		if !n.Placed {
			continue
		}
		pos := n.Position
		tasks[i].Position = &pos
		placed = true
	}
	if placed {
		if err := s.repo.SaveTasks(boardID, tasks); err != nil {
			return nil, fmt.Errorf("failed to save graph layout: %w", err)
		}
		s.publish(ctx, boardID, realtime.EventTasksChanged, "graph.placed")
	}

	view := &GraphView{
		Graph:   g,
		Cycle:   graph.FindCycle(tasks),
		Blocked: map[string][]string{},
	}
	if done, ok := doneStatus(columns); ok {
		for _, t := range tasks {
			if t.Status == done {
				continue
			}
			if unmet := graph.UnmetDependencies(t, tasks, done); len(unmet) > 0 {
				view.Blocked[t.ID] = unmet
			}
		}
	}
	return view, nil
}

// ConnectEdge makes targetID depend on sourceID
func (s *BoardService) ConnectEdge(ctx context.Context, boardID, sourceID, targetID string) (*models.Task, error) {
	return s.updateTask(ctx, boardID, "graph.connected", func(tasks []models.Task) (models.Task, bool) {
		return graph.ConnectEdge(sourceID, targetID, tasks)
	})
}

// MoveNode stores a task's graph position
func (s *BoardService) MoveNode(ctx context.Context, boardID, taskID string, pos models.Position) (*models.Task, error) {
	return s.updateTask(ctx, boardID, "graph.moved", func(tasks []models.Task) (models.Task, bool) {
		return graph.MoveNode(taskID, pos, tasks)
	})
}

// GenerateTasks drafts tasks from text and adds them to column status
func (s *BoardService) GenerateTasks(ctx context.Context, boardID, text string, status models.ColumnID) ([]models.Task, error) {
	if s.drafter == nil {
		return nil, ErrAIServiceNotConfigured
	}

	drafts, err := s.drafter.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}
	if len(drafts) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(drafts) > constants.MaxAIGeneratedTasks {
		return nil, ErrAITooManyTasks
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, columns, err := s.load(boardID)
	if err != nil {
		return nil, err
	}
	if status == "" && len(columns) > 0 {
		status = columns[0].Status
	}

	cutoff := time.Now().Add(-24 * time.Hour)
	created := make([]models.Task, 0, len(drafts))
	for i := len(drafts) - 1; i >= 0; i-- {
		d := drafts[i]
		task := models.NewTask(status, models.ParsePriority(d.Priority))
		task.Title = d.Title
		task.Description = d.Description
		if d.DueDate != nil && !d.DueDate.Before(cutoff) {
			task.DueDate = d.DueDate.Format("2006-01-02")
		}

		var ok bool
		if tasks, ok = kanban.UpsertTask(tasks, task); ok {
			created = append([]models.Task{tasks[0]}, created...)
		}
	}
	if len(created) == 0 {
		return nil, ErrAINoValidTasks
	}

	if err := s.repo.SaveTasks(boardID, tasks); err != nil {
		return nil, fmt.Errorf("failed to save tasks: %w", err)
	}
	s.publish(ctx, boardID, realtime.EventTasksChanged, "tasks.generated")
	return created, nil
}

func (s *BoardService) updateTask(ctx context.Context, boardID, reason string, apply func([]models.Task) (models.Task, bool)) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.repo.LoadTasks(boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	task, ok := apply(tasks)
	if !ok {
		return nil, nil
	}
	updated, _ := kanban.ReplaceTask(tasks, task)
	if err := s.repo.SaveTasks(boardID, updated); err != nil {
		return nil, fmt.Errorf("failed to save tasks: %w", err)
	}

	s.publish(ctx, boardID, realtime.EventTasksChanged, reason)
	return &task, nil
}

func (s *BoardService) load(boardID string) ([]models.Task, []models.Column, error) {
	tasks, err := s.repo.LoadTasks(boardID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	columns, err := s.columns(s.repo, boardID)
	if err != nil {
		return nil, nil, err
	}
	return tasks, columns, nil
}

func (s *BoardService) columns(repo repository.Repository, boardID string) ([]models.Column, error) {
	columns, found, err := repo.LoadColumns(boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}
	if !found {
		return models.DefaultColumns(), nil
	}
	return columns, nil
}

func (s *BoardService) publish(ctx context.Context, boardID, eventType, reason string) {
	if s.events == nil {
		return
	}
	s.events.Publish(realtime.Event{
		Type:    eventType,
		BoardID: boardID,
		Data:    map[string]string{"reason": reason},
		Origin:  realtime.OriginFrom(ctx),
	})
}

// doneStatus picks the column that counts as finished: the one with status
// "done", else the last column.
func doneStatus(columns []models.Column) (models.ColumnID, bool) {
	if len(columns) == 0 {
		return "", false
	}
	for _, c := range columns {
		if c.Status == "done" {
			return c.Status, true
		}
	}
	return columns[len(columns)-1].Status, true
}
