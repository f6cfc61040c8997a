package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/services"
)

type ColumnHandler struct {
	boards *services.BoardService
}

func NewColumnHandler(boards *services.BoardService) *ColumnHandler {
	return &ColumnHandler{boards: boards}
}

// ListColumns returns the board's columns
func (h *ColumnHandler) ListColumns(c *gin.Context) {
	board, _ := middleware.GetBoard(c)
	columns, err := h.boards.Columns(board.ID)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ColumnListResponse{Columns: columns})
}

// AddColumn appends a column named after the title
func (h *ColumnHandler) AddColumn(c *gin.Context) {
	var req dto.ColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	board, _ := middleware.GetBoard(c)
	col, err := h.boards.AddColumn(c.Request.Context(), board.ID, req.Title)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	if col == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, col)
}

// RenameColumn changes a column's title
func (h *ColumnHandler) RenameColumn(c *gin.Context) {
	var req dto.ColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	board, _ := middleware.GetBoard(c)
	col, err := h.boards.RenameColumn(c.Request.Context(), board.ID, models.ColumnID(c.Param("columnID")), req.Title)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	if col == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, col)
}

// DeleteColumn removes a column. Its tasks are deleted, or moved to the
// column given by ?reassignTo=
func (h *ColumnHandler) DeleteColumn(c *gin.Context) {
	board, _ := middleware.GetBoard(c)
	_, err := h.boards.DeleteColumn(
		c.Request.Context(),
		board.ID,
		models.ColumnID(c.Param("columnID")),
		models.ColumnID(c.Query("reassignTo")),
	)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
