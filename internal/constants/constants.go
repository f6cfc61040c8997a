package constants

// Storage keys
const (
	StorageKeyWorkspaces   = "kanban-workspaces"
	StorageKeyBoards       = "kanban-boards"
	StorageKeyTasksPrefix  = "kanban-tasks:"
	StorageKeyColumnPrefix = "kanban-columns:"
	FlagFirstOpen          = "kanban-first-open"
	FlagTourShown          = "kanban-tour-shown"
)

// Session and context keys
const (
	SessionCookieName     = "taskboard_session"
	SessionKeyActiveDrag  = "active_drag_id"
	ContextKeyBoard       = "board"
	ContextKeyWorkspace   = "workspace"
	ContextKeyClientTabID = "tab_id"
)

// Drag and graph layout
const (
	// DragActivationDistance is the pointer travel (px) before a press becomes a drag.
	DragActivationDistance = 8.0
	GraphLayoutWidth       = 500.0
	GraphLayoutHeight      = 300.0
)

// Seed data
const (
	DefaultWorkspaceName    = "Wokhop Team Front-end"
	ExampleBoardName        = "Teste"
	ExampleBoardDescription = "Board de testes com tarefas de exemplo"
	ExampleBoardIcon        = "🧪"
)

// LegacyExampleBoardNames are example boards from older releases that were created
// without a workspace. They are purged on startup.
var LegacyExampleBoardNames = []string{"BackOffice", "Corporate", "Teramed", "Baika Pay"}

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// AI drafting
const (
	MaxAIGeneratedTasks = 20
)
