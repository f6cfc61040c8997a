package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/services"
)

// DragHandler drives the drag gesture. The dragged task id lives in the
// client's session between requests.
type DragHandler struct {
	boards *services.BoardService
}

func NewDragHandler(boards *services.BoardService) *DragHandler {
	return &DragHandler{boards: boards}
}

// Start begins a drag when the pointer moved at least the activation distance
func (h *DragHandler) Start(c *gin.Context) {
	var req dto.DragStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	board, _ := middleware.GetBoard(c)
	started, err := h.boards.DragStart(board.ID, req.TaskID, req.Distance)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	if !started {
		c.Status(http.StatusNoContent)
		return
	}

	if err := middleware.SetActiveDrag(c, board.ID, req.TaskID); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}
	c.JSON(http.StatusOK, dto.DragResponse{ActiveID: req.TaskID})
}

// Over reassigns the dragged task's column live
func (h *DragHandler) Over(c *gin.Context) {
	var req dto.DragTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	board, _ := middleware.GetBoard(c)
	activeID := middleware.GetActiveDrag(c, board.ID)
	if activeID == "" {
		c.Status(http.StatusNoContent)
		return
	}

	task, err := h.boards.DragOver(c.Request.Context(), board.ID, activeID, req.OverID)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	if task == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, dto.DragResponse{ActiveID: activeID, Task: task})
}

// End finishes the drag, reordering within the column when dropped on a sibling
func (h *DragHandler) End(c *gin.Context) {
	var req dto.DragTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	board, _ := middleware.GetBoard(c)
	activeID := middleware.GetActiveDrag(c, board.ID)
	if activeID == "" {
		c.Status(http.StatusNoContent)
		return
	}
	if err := middleware.ClearActiveDrag(c, board.ID); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	tasks, err := h.boards.DragEnd(c.Request.Context(), board.ID, activeID, req.OverID)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	if tasks == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, dto.DragResponse{Tasks: tasks})
}

// Cancel abandons the drag. Column changes made while dragging stay.
func (h *DragHandler) Cancel(c *gin.Context) {
	board, _ := middleware.GetBoard(c)
	if err := middleware.ClearActiveDrag(c, board.ID); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}
	c.Status(http.StatusNoContent)
}
