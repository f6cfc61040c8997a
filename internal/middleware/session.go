package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/constants"
)

// Each board keeps its own in-flight drag in the client's session.
func dragKey(boardID string) string {
	return constants.SessionKeyActiveDrag + ":" + boardID
}

// GetActiveDrag returns the task being dragged on boardID, or ""
func GetActiveDrag(c *gin.Context, boardID string) string {
	session := sessions.Default(c)
	id, _ := session.Get(dragKey(boardID)).(string)
	return id
}

// SetActiveDrag records taskID as the task being dragged on boardID
func SetActiveDrag(c *gin.Context, boardID, taskID string) error {
	session := sessions.Default(c)
	session.Set(dragKey(boardID), taskID)
	return session.Save()
}

// ClearActiveDrag returns boardID's drag state to idle
func ClearActiveDrag(c *gin.Context, boardID string) error {
	session := sessions.Default(c)
	session.Delete(dragKey(boardID))
	return session.Save()
}
