package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/realtime"
	"github.com/yukikurage/taskboard/internal/services"
)

// Dependencies are the services the HTTP API is built on. AllowedOrigins
// limits which browser origins may open the websocket feed.
type Dependencies struct {
	Directory      *services.DirectoryService
	Boards         *services.BoardService
	Hub            *realtime.Hub
	AllowedOrigins []string
}

// RegisterRoutes mounts the health check, the JSON API under /api and the
// websocket feed. Session middleware must already be installed on r.
func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	workspaceHandler := NewWorkspaceHandler(deps.Directory)
	boardHandler := NewBoardHandler(deps.Directory, deps.Boards)
	taskHandler := NewTaskHandler(deps.Boards)
	columnHandler := NewColumnHandler(deps.Boards)
	dragHandler := NewDragHandler(deps.Boards)
	graphHandler := NewGraphHandler(deps.Boards)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task board API is running",
		})
	})

	r.Use(middleware.ClientTab())

	if deps.Hub != nil {
		r.GET("/ws", NewRealtimeHandler(deps.Hub, deps.AllowedOrigins).ServeWS)
	}

	api := r.Group("/api")
	{
		workspaces := api.Group("/workspaces")
		{
			workspaces.GET("", workspaceHandler.ListWorkspaces)
			workspaces.POST("", workspaceHandler.CreateWorkspace)

			workspace := workspaces.Group("/:workspaceID")
			workspace.Use(middleware.RequireWorkspace(deps.Directory))
			{
				workspace.PUT("", workspaceHandler.RenameWorkspace)
				workspace.DELETE("", workspaceHandler.DeleteWorkspace)
				workspace.GET("/boards", workspaceHandler.ListBoards)
			}
		}

		boards := api.Group("/boards")
		{
			boards.GET("", boardHandler.ListBoards)
			boards.POST("", boardHandler.CreateBoard)

			board := boards.Group("/:boardID")
			board.Use(middleware.RequireBoard(deps.Directory))
			{
				board.GET("", boardHandler.GetBoard)
				board.PUT("", boardHandler.RenameBoard)
				board.DELETE("", boardHandler.DeleteBoard)
				board.POST("/pin", boardHandler.TogglePin)

				board.GET("/tasks", taskHandler.ListTasks)
				board.POST("/tasks", taskHandler.CreateTask)
				board.POST("/tasks/generate", taskHandler.GenerateTasks)
				board.PUT("/tasks/:taskID", taskHandler.UpdateTask)
				board.DELETE("/tasks/:taskID", taskHandler.DeleteTask)

				board.GET("/columns", columnHandler.ListColumns)
				board.POST("/columns", columnHandler.AddColumn)
				board.PUT("/columns/:columnID", columnHandler.RenameColumn)
				board.DELETE("/columns/:columnID", columnHandler.DeleteColumn)

				board.POST("/drag/start", dragHandler.Start)
				board.POST("/drag/over", dragHandler.Over)
				board.POST("/drag/end", dragHandler.End)
				board.POST("/drag/cancel", dragHandler.Cancel)

				board.GET("/graph", graphHandler.GetGraph)
				board.POST("/graph/edges", graphHandler.ConnectEdge)
				board.PUT("/graph/nodes/:taskID", graphHandler.MoveNode)
			}
		}

		api.GET("/tour", boardHandler.GetTour)
		api.POST("/tour", boardHandler.MarkTourShown)
	}
}
