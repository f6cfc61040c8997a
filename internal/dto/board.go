package dto

import (
	"github.com/yukikurage/taskboard/internal/kanban"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/services"
	"github.com/yukikurage/taskboard/internal/utils"
)

// NameRequest is the body of workspace create/rename and board rename
type NameRequest struct {
	Name string `json:"name"`
}

// CreateBoardRequest is the body of board creation
type CreateBoardRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	WorkspaceID string `json:"workspaceId"`
}

// ToInput converts the request to service input
func (r CreateBoardRequest) ToInput() services.CreateBoardInput {
	return services.CreateBoardInput{
		Name:        r.Name,
		Category:    models.BoardCategory(r.Category),
		Description: r.Description,
		Icon:        r.Icon,
		WorkspaceID: r.WorkspaceID,
	}
}

// WorkspaceListResponse represents the workspace list
type WorkspaceListResponse struct {
	Workspaces []models.Workspace `json:"workspaces"`
}

// BoardListResponse represents a paginated list of boards
type BoardListResponse struct {
	Boards     []models.Board           `json:"boards"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// BoardDetailResponse is a board with its Kanban lanes
type BoardDetailResponse struct {
	Board   models.Board    `json:"board"`
	Columns []models.Column `json:"columns"`
	Lanes   []kanban.Lane   `json:"lanes"`
	Orphans []models.Task   `json:"orphans"`
}

// TourResponse reports the onboarding tour flag
type TourResponse struct {
	Shown bool `json:"shown"`
}

// ToBoardListResponse pages boards with the given parameters
func ToBoardListResponse(boards []models.Board, params utils.PaginationParams) BoardListResponse {
	start, end := params.Window(len(boards))
	return BoardListResponse{
		Boards: boards[start:end],
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int64(len(boards)),
		},
	}
}
