package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/services"
)

type GraphHandler struct {
	boards *services.BoardService
}

func NewGraphHandler(boards *services.BoardService) *GraphHandler {
	return &GraphHandler{boards: boards}
}

// GetGraph returns the board's dependency graph
func (h *GraphHandler) GetGraph(c *gin.Context) {
	board, _ := middleware.GetBoard(c)
	view, err := h.boards.Graph(c.Request.Context(), board.ID)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ConnectEdge adds source to target's dependencies
func (h *GraphHandler) ConnectEdge(c *gin.Context) {
	var req dto.ConnectEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	board, _ := middleware.GetBoard(c)
	task, err := h.boards.ConnectEdge(c.Request.Context(), board.ID, req.Source, req.Target)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	if task == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, task)
}

// MoveNode stores a node's graph position
func (h *GraphHandler) MoveNode(c *gin.Context) {
	var req dto.MoveNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	board, _ := middleware.GetBoard(c)
	task, err := h.boards.MoveNode(c.Request.Context(), board.ID, c.Param("taskID"), req.Position())
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	if task == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, task)
}
