package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/services"
)

type TaskHandler struct {
	boards *services.BoardService
}

func NewTaskHandler(boards *services.BoardService) *TaskHandler {
	return &TaskHandler{boards: boards}
}

// ListTasks returns the board's tasks in persisted order
// Filters: ?q= searches title and description, ?group= is all, a priority or a status
func (h *TaskHandler) ListTasks(c *gin.Context) {
	board, _ := middleware.GetBoard(c)

	tasks, err := h.boards.Tasks(board.ID, c.Query("q"), c.Query("group"))
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TaskListResponse{Tasks: tasks})
}

// CreateTask adds a task at the top of the board
func (h *TaskHandler) CreateTask(c *gin.Context) {
	h.saveTask(c, "", http.StatusCreated)
}

// UpdateTask edits a task in place
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	h.saveTask(c, c.Param("taskID"), http.StatusOK)
}

func (h *TaskHandler) saveTask(c *gin.Context, taskID string, status int) {
	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	board, _ := middleware.GetBoard(c)
	task, err := h.boards.SaveTask(c.Request.Context(), board.ID, req.ToInput(taskID))
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	if task == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(status, task)
}

// DeleteTask removes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	board, _ := middleware.GetBoard(c)
	if _, err := h.boards.DeleteTask(c.Request.Context(), board.ID, c.Param("taskID")); err != nil {
		apierrors.FromService(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GenerateTasks drafts tasks from text using AI and adds them to the board
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	var req dto.GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	board, _ := middleware.GetBoard(c)
	tasks, err := h.boards.GenerateTasks(c.Request.Context(), board.ID, req.Text, models.ColumnID(req.Status))
	switch {
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
		return
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks),
		errors.Is(err, services.ErrAITooManyTasks):
		apierrors.RespondWithError(c, http.StatusUnprocessableEntity,
			apierrors.NewAPIError(apierrors.ErrCodeOperationFailed, err.Error()))
		return
	case err != nil:
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.TaskListResponse{Tasks: tasks})
}
