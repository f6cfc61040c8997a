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

type WorkspaceHandler struct {
	directory *services.DirectoryService
}

func NewWorkspaceHandler(directory *services.DirectoryService) *WorkspaceHandler {
	return &WorkspaceHandler{directory: directory}
}

// ListWorkspaces returns every workspace
func (h *WorkspaceHandler) ListWorkspaces(c *gin.Context) {
	list, err := h.directory.ListWorkspaces()
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.WorkspaceListResponse{Workspaces: list})
}

// CreateWorkspace creates a workspace, or returns the one with the same id
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	var req dto.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	ws, err := h.directory.CreateWorkspace(c.Request.Context(), req.Name)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	if ws == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, ws)
}

// RenameWorkspace renames a workspace; its id follows the new name
func (h *WorkspaceHandler) RenameWorkspace(c *gin.Context) {
	var req dto.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	ws, _ := middleware.GetWorkspace(c)
	renamed, err := h.directory.RenameWorkspace(c.Request.Context(), ws.ID, req.Name)
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

// DeleteWorkspace removes a workspace and moves its boards to the first remaining one
func (h *WorkspaceHandler) DeleteWorkspace(c *gin.Context) {
	ws, _ := middleware.GetWorkspace(c)
	if _, err := h.directory.DeleteWorkspace(c.Request.Context(), ws.ID); err != nil {
		apierrors.FromService(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListBoards returns the workspace's boards, pinned first
func (h *WorkspaceHandler) ListBoards(c *gin.Context) {
	ws, _ := middleware.GetWorkspace(c)
	boards, err := h.directory.ListBoards(ws.ID)
	if err != nil {
		apierrors.FromService(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBoardListResponse(boards, utils.GetPaginationParams(c)))
}
