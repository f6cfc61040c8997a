package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/constants"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/models"
)

// BoardLookup finds boards by id
type BoardLookup interface {
	GetBoard(id string) (*models.Board, error)
}

// RequireBoard loads the board named by the :boardID parameter and aborts
// with 404 when it does not exist
func RequireBoard(boards BoardLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		boardID := c.Param("boardID")
		if boardID == "" {
			apierrors.BadRequest(c, "Invalid board ID")
			c.Abort()
			return
		}

		board, err := boards.GetBoard(boardID)
		if err != nil {
			apierrors.FromService(c, err)
			c.Abort()
			return
		}
		if board == nil {
			apierrors.NotFound(c, "Board not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyBoard, *board)
		c.Next()
	}
}

// GetBoard retrieves the board loaded by RequireBoard
func GetBoard(c *gin.Context) (models.Board, bool) {
	v, exists := c.Get(constants.ContextKeyBoard)
	if !exists {
		return models.Board{}, false
	}
	board, ok := v.(models.Board)
	return board, ok
}
