package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/constants"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/models"
)

// WorkspaceLookup finds workspaces by id
type WorkspaceLookup interface {
	GetWorkspace(id string) (*models.Workspace, error)
}

// RequireWorkspace loads the workspace named by the :workspaceID parameter
func RequireWorkspace(workspaces WorkspaceLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := workspaces.GetWorkspace(c.Param("workspaceID"))
		if err != nil {
			apierrors.FromService(c, err)
			c.Abort()
			return
		}
		if ws == nil {
			apierrors.NotFound(c, "Workspace not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyWorkspace, *ws)
		c.Next()
	}
}

// GetWorkspace retrieves the workspace loaded by RequireWorkspace
func GetWorkspace(c *gin.Context) (models.Workspace, bool) {
	v, exists := c.Get(constants.ContextKeyWorkspace)
	if !exists {
		return models.Workspace{}, false
	}
	ws, ok := v.(models.Workspace)
	return ws, ok
}
