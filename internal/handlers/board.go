package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/services"
	"github.com/yukikurage/taskboard/internal/utils"
)

type BoardHandler struct {
	directory *services.DirectoryService
	boards    *services.BoardService
}

func NewBoardHandler(directory *services.DirectoryService, boards *services.BoardService) *BoardHandler {
	return &BoardHandler{directory: directory, boards: boards}
}

// ListBoards returns all boards, optionally filtered by ?workspaceId=
func (h *BoardHandler) ListBoards(c *gin.Context) {
	boards, err := h.directory.ListBoards(c.Query("workspaceId"))
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBoardListResponse(boards, utils.GetPaginationParams(c)))
}

// CreateBoard creates a board, or returns the one with the same id
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	var req dto.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	board, err := h.directory.CreateBoard(c.Request.Context(), req.ToInput())
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	if board == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, board)
}

// GetBoard returns the board with its columns and lanes
// Board is already loaded by RequireBoard middleware
func (h *BoardHandler) GetBoard(c *gin.Context) {
	board, _ := middleware.GetBoard(c)

	columns, err := h.boards.Columns(board.ID)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	lanes, orphans, err := h.boards.Lanes(board.ID)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BoardDetailResponse{
		Board:   board,
		Columns: columns,
		Lanes:   lanes,
		Orphans: orphans,
	})
}

// RenameBoard changes the board's display name
func (h *BoardHandler) RenameBoard(c *gin.Context) {
	var req dto.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	board, _ := middleware.GetBoard(c)
	renamed, err := h.directory.RenameBoard(c.Request.Context(), board.ID, req.Name)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	if renamed == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, renamed)
}

// TogglePin flips the board's pinned flag
func (h *BoardHandler) TogglePin(c *gin.Context) {
	board, _ := middleware.GetBoard(c)
	updated, err := h.directory.TogglePin(c.Request.Context(), board.ID)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	if updated == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteBoard removes the board with its tasks and columns
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	board, _ := middleware.GetBoard(c)
	if _, err := h.directory.DeleteBoard(c.Request.Context(), board.ID); err != nil {
		apierrors.FromService(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetTour reports whether the onboarding tour was shown
func (h *BoardHandler) GetTour(c *gin.Context) {
	shown, err := h.directory.TourShown()
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TourResponse{Shown: shown})
}

// MarkTourShown records that the onboarding tour was shown
func (h *BoardHandler) MarkTourShown(c *gin.Context) {
	if err := h.directory.MarkTourShown(); err != nil {
		apierrors.FromService(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TourResponse{Shown: true})
}
