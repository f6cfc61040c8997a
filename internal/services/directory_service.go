package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/realtime"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/utils"
)

// DirectoryService manages workspaces and boards: CRUD, pinning, first-run
// seeding and startup migrations.
type DirectoryService struct {
	repo   repository.Repository
	events realtime.Publisher
	now    func() time.Time
	mu     sync.Mutex
}

// NewDirectoryService creates a new DirectoryService. events may be nil.
func NewDirectoryService(repo repository.Repository, events realtime.Publisher) *DirectoryService {
	return &DirectoryService{
		repo:   repo,
		events: events,
		now:    time.Now,
	}
}

// CreateBoardInput represents parameters to create a new board
type CreateBoardInput struct {
	Name        string
	Category    models.BoardCategory
	Description string
	Icon        string
	WorkspaceID string
}

// ListWorkspaces returns all workspaces in creation order
func (s *DirectoryService) ListWorkspaces() ([]models.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.repo.LoadWorkspaces()
	if err != nil {
		return nil, fmt.Errorf("failed to load workspaces: %w", err)
	}
	return list, nil
}

// GetWorkspace returns a workspace by id, or nil when it does not exist
func (s *DirectoryService) GetWorkspace(id string) (*models.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.repo.LoadWorkspaces()
	if err != nil {
		return nil, fmt.Errorf("failed to load workspaces: %w", err)
	}
	if i := indexWorkspace(list, id); i >= 0 {
		ws := list[i]
		return &ws, nil
	}
	return nil, nil
}

// CreateWorkspace creates a workspace whose id is the slug of name. An
// existing workspace with that id is returned unchanged. Empty names are ignored.
func (s *DirectoryService) CreateWorkspace(ctx context.Context, name string) (*models.Workspace, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ws, created, err := s.createWorkspace(s.repo, name)
	if err != nil {
		return nil, err
	}
	if created {
		s.publish(ctx, realtime.Event{Type: realtime.EventWorkspacesChanged})
	}
	return ws, nil
}

// RenameWorkspace renames a workspace and regenerates its id from the new
// name. Boards pointing at the old id follow it in the same write.
func (s *DirectoryService) RenameWorkspace(ctx context.Context, id, name string) (*models.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var renamed *models.Workspace
	err := s.repo.WithTx(func(tx repository.Repository) error {
		list, err := tx.LoadWorkspaces()
		if err != nil {
			return err
		}
		i := indexWorkspace(list, id)
		if i < 0 {
			return nil
		}

		oldID := list[i].ID
		newID := oldID
		if slug := utils.Slugify(name); slug != "" && slug != oldID {
			newID = utils.UniqueSlug(slug, func(candidate string) bool {
				return indexWorkspace(list, candidate) >= 0
			})
		}
		list[i].ID = newID
		list[i].Name = name
		if err := tx.SaveWorkspaces(list); err != nil {
			return err
		}

		if newID != oldID {
			if err := repointBoards(tx, oldID, newID); err != nil {
				return err
			}
		}
		ws := list[i]
		renamed = &ws
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rename workspace: %w", err)
	}

	if renamed != nil {
		s.publish(ctx, realtime.Event{Type: realtime.EventWorkspacesChanged})
		if renamed.ID != id {
			s.publish(ctx, realtime.Event{Type: realtime.EventBoardsChanged})
		}
	}
	return renamed, nil
}

// DeleteWorkspace removes a workspace. Its boards move to the first remaining
// workspace; when none remains they keep the dangling id.
func (s *DirectoryService) DeleteWorkspace(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := false
	err := s.repo.WithTx(func(tx repository.Repository) error {
		list, err := tx.LoadWorkspaces()
		if err != nil {
			return err
		}
		i := indexWorkspace(list, id)
		if i < 0 {
			return nil
		}
		list = append(list[:i], list[i+1:]...)
		if err := tx.SaveWorkspaces(list); err != nil {
			return err
		}
		deleted = true

		if len(list) == 0 {
			return nil
		}
		return repointBoards(tx, id, list[0].ID)
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete workspace: %w", err)
	}

	if deleted {
		s.publish(ctx, realtime.Event{Type: realtime.EventWorkspacesChanged})
		s.publish(ctx, realtime.Event{Type: realtime.EventBoardsChanged})
	}
	return deleted, nil
}

// EnsureWorkspacesSeeded creates the default workspace when there are none
// and returns the workspace list.
func (s *DirectoryService) EnsureWorkspacesSeeded(ctx context.Context) ([]models.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, seeded, err := s.ensureWorkspacesSeeded(s.repo)
	if err != nil {
		return nil, err
	}
	if seeded {
		s.publish(ctx, realtime.Event{Type: realtime.EventWorkspacesChanged})
	}
	return list, nil
}

// ListBoards returns boards pinned first, then newest first. An empty
// workspaceID lists every board.
func (s *DirectoryService) ListBoards(workspaceID string) ([]models.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	boards, err := s.repo.LoadBoards()
	if err != nil {
		return nil, fmt.Errorf("failed to load boards: %w", err)
	}

	out := make([]models.Board, 0, len(boards))
	for _, b := range boards {
		if workspaceID == "" || b.WorkspaceID == workspaceID {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pinned != out[j].Pinned {
			return out[i].Pinned
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out, nil
}

// GetBoard returns a board by id, or nil when it does not exist
func (s *DirectoryService) GetBoard(id string) (*models.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	boards, err := s.repo.LoadBoards()
	if err != nil {
		return nil, fmt.Errorf("failed to load boards: %w", err)
	}
	if i := indexBoard(boards, id); i >= 0 {
		b := boards[i]
		return &b, nil
	}
	return nil, nil
}

// CreateBoard creates a board whose id is the slug of its name. An existing
// board with that id is returned unchanged. Empty names are ignored.
func (s *DirectoryService) CreateBoard(ctx context.Context, input CreateBoardInput) (*models.Board, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	board, created, err := s.createBoard(s.repo, input)
	if err != nil {
		return nil, err
	}
	if created {
		s.publish(ctx, realtime.Event{Type: realtime.EventBoardsChanged, BoardID: board.ID})
	}
	return board, nil
}

// RenameBoard changes a board's display name. The id is kept.
func (s *DirectoryService) RenameBoard(ctx context.Context, id, name string) (*models.Board, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	return s.updateBoard(ctx, id, func(b *models.Board) { b.Name = name })
}

// TogglePin flips a board's pinned flag
func (s *DirectoryService) TogglePin(ctx context.Context, id string) (*models.Board, error) {
	return s.updateBoard(ctx, id, func(b *models.Board) { b.Pinned = !b.Pinned })
}

// DeleteBoard removes a board together with its tasks and columns
func (s *DirectoryService) DeleteBoard(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := false
	err := s.repo.WithTx(func(tx repository.Repository) error {
		boards, err := tx.LoadBoards()
		if err != nil {
			return err
		}
		i := indexBoard(boards, id)
		if i < 0 {
			return nil
		}
		boards = append(boards[:i], boards[i+1:]...)
		if err := tx.SaveBoards(boards); err != nil {
			return err
		}
		deleted = true
		return tx.DeleteBoardData(id)
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete board: %w", err)
	}

	if deleted {
		s.publish(ctx, realtime.Event{Type: realtime.EventBoardsChanged, BoardID: id})
	}
	return deleted, nil
}

// EnsureExampleBoard creates the pinned example board in the first workspace
// and seeds its sample tasks and columns when they are missing.
func (s *DirectoryService) EnsureExampleBoard(ctx context.Context) (*models.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	board, err := s.ensureExampleBoard(s.repo)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, realtime.Event{Type: realtime.EventBoardsChanged, BoardID: board.ID})
	return board, nil
}

// Bootstrap runs on every start. The first run seeds the default workspace
// and the example board; every run purges legacy example boards, attaches
// boards without a workspace to the first workspace and drops task and
// column collections whose board is gone.
func (s *DirectoryService) Bootstrap(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	opened, err := s.repo.Flag(constants.FlagFirstOpen)
	if err != nil {
		return fmt.Errorf("failed to read first-open flag: %w", err)
	}
	if !opened {
		err := s.repo.WithTx(func(tx repository.Repository) error {
			if _, err := s.ensureExampleBoard(tx); err != nil {
				return err
			}
			return tx.SetFlag(constants.FlagFirstOpen)
		})
		if err != nil {
			return fmt.Errorf("failed to seed first run: %w", err)
		}
		log.Printf("Seeded default workspace and example board")
	}

	if err := s.cleanupExampleBoards(); err != nil {
		return err
	}
	if err := s.migrateBoardsToDefaultWorkspace(); err != nil {
		return err
	}
	if err := s.pruneOrphanBoardData(); err != nil {
		return err
	}

	s.publish(ctx, realtime.Event{Type: realtime.EventBoardsChanged})
	return nil
}

// TourShown reports whether the onboarding tour was already displayed
func (s *DirectoryService) TourShown() (bool, error) {
	shown, err := s.repo.Flag(constants.FlagTourShown)
	if err != nil {
		return false, fmt.Errorf("failed to read tour flag: %w", err)
	}
	return shown, nil
}

// MarkTourShown records that the onboarding tour was displayed
func (s *DirectoryService) MarkTourShown() error {
	if err := s.repo.SetFlag(constants.FlagTourShown); err != nil {
		return fmt.Errorf("failed to set tour flag: %w", err)
	}
	return nil
}

func (s *DirectoryService) createWorkspace(repo repository.Repository, name string) (*models.Workspace, bool, error) {
	list, err := repo.LoadWorkspaces()
	if err != nil {
		return nil, false, fmt.Errorf("failed to load workspaces: %w", err)
	}

	id := utils.SlugOrFallback(name, "ws")
	if i := indexWorkspace(list, id); i >= 0 {
		ws := list[i]
		return &ws, false, nil
	}

	ws := models.Workspace{ID: id, Name: strings.TrimSpace(name), CreatedAt: s.now().UnixMilli()}
	list = append(list, ws)
	if err := repo.SaveWorkspaces(list); err != nil {
		return nil, false, fmt.Errorf("failed to save workspaces: %w", err)
	}
	return &ws, true, nil
}

func (s *DirectoryService) ensureWorkspacesSeeded(repo repository.Repository) ([]models.Workspace, bool, error) {
	list, err := repo.LoadWorkspaces()
	if err != nil {
		return nil, false, fmt.Errorf("failed to load workspaces: %w", err)
	}
	if len(list) > 0 {
		return list, false, nil
	}
	ws, _, err := s.createWorkspace(repo, constants.DefaultWorkspaceName)
	if err != nil {
		return nil, false, err
	}
	return []models.Workspace{*ws}, true, nil
}

func (s *DirectoryService) createBoard(repo repository.Repository, input CreateBoardInput) (*models.Board, bool, error) {
	boards, err := repo.LoadBoards()
	if err != nil {
		return nil, false, fmt.Errorf("failed to load boards: %w", err)
	}

	id := utils.SlugOrFallback(input.Name, "board")
	if i := indexBoard(boards, id); i >= 0 {
		b := boards[i]
		return &b, false, nil
	}

	workspaceID := input.WorkspaceID
	if workspaceID == "" {
		list, err := repo.LoadWorkspaces()
		if err != nil {
			return nil, false, fmt.Errorf("failed to load workspaces: %w", err)
		}
		if len(list) > 0 {
			workspaceID = list[0].ID
		}
	}

	board := models.Board{
		ID:          id,
		Name:        strings.TrimSpace(input.Name),
		Category:    models.ParseCategory(string(input.Category)),
		CreatedAt:   s.now().UnixMilli(),
		Description: strings.TrimSpace(input.Description),
		Icon:        input.Icon,
		WorkspaceID: workspaceID,
	}
	boards = append(boards, board)
	if err := repo.SaveBoards(boards); err != nil {
		return nil, false, fmt.Errorf("failed to save boards: %w", err)
	}
	return &board, true, nil
}

func (s *DirectoryService) updateBoard(ctx context.Context, id string, mutate func(*models.Board)) (*models.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	boards, err := s.repo.LoadBoards()
	if err != nil {
		return nil, fmt.Errorf("failed to load boards: %w", err)
	}
	i := indexBoard(boards, id)
	if i < 0 {
		return nil, nil
	}
	mutate(&boards[i])
	if err := s.repo.SaveBoards(boards); err != nil {
		return nil, fmt.Errorf("failed to save boards: %w", err)
	}

	b := boards[i]
	s.publish(ctx, realtime.Event{Type: realtime.EventBoardsChanged, BoardID: b.ID})
	return &b, nil
}

func (s *DirectoryService) ensureExampleBoard(repo repository.Repository) (*models.Board, error) {
	var board *models.Board
	err := repo.WithTx(func(tx repository.Repository) error {
		list, _, err := s.ensureWorkspacesSeeded(tx)
		if err != nil {
			return err
		}

		b, _, err := s.createBoard(tx, CreateBoardInput{
			Name:        constants.ExampleBoardName,
			Category:    models.CategoryWork,
			Description: constants.ExampleBoardDescription,
			Icon:        constants.ExampleBoardIcon,
			WorkspaceID: list[0].ID,
		})
		if err != nil {
			return err
		}

		boards, err := tx.LoadBoards()
		if err != nil {
			return err
		}
		if i := indexBoard(boards, b.ID); i >= 0 && !boards[i].Pinned {
			boards[i].Pinned = true
			if err := tx.SaveBoards(boards); err != nil {
				return err
			}
		}
		b.Pinned = true

		tasks, err := tx.LoadTasks(b.ID)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			if err := tx.SaveTasks(b.ID, exampleTasks()); err != nil {
				return err
			}
		}

		if _, found, err := tx.LoadColumns(b.ID); err != nil {
			return err
		} else if !found {
			if err := tx.SaveColumns(b.ID, exampleColumns()); err != nil {
				return err
			}
		}

		board = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed example board: %w", err)
	}
	return board, nil
}

func (s *DirectoryService) cleanupExampleBoards() error {
	legacy := make(map[string]struct{}, len(constants.LegacyExampleBoardNames))
	for _, name := range constants.LegacyExampleBoardNames {
		legacy[name] = struct{}{}
	}

	boards, err := s.repo.LoadBoards()
	if err != nil {
		return fmt.Errorf("failed to load boards: %w", err)
	}
	kept := make([]models.Board, 0, len(boards))
	for _, b := range boards {
		if _, isLegacy := legacy[b.Name]; isLegacy && b.WorkspaceID == "" {
			continue
		}
		kept = append(kept, b)
	}
	if len(kept) == len(boards) {
		return nil
	}

	log.Printf("Removing %d legacy example boards", len(boards)-len(kept))
	if err := s.repo.SaveBoards(kept); err != nil {
		return fmt.Errorf("failed to save boards: %w", err)
	}
	return nil
}

func (s *DirectoryService) migrateBoardsToDefaultWorkspace() error {
	boards, err := s.repo.LoadBoards()
	if err != nil {
		return fmt.Errorf("failed to load boards: %w", err)
	}
	missing := false
	for _, b := range boards {
		if b.WorkspaceID == "" {
			missing = true
			break
		}
	}
	if !missing {
		return nil
	}

	return s.repo.WithTx(func(tx repository.Repository) error {
		list, _, err := s.ensureWorkspacesSeeded(tx)
		if err != nil {
			return err
		}
		for i := range boards {
			if boards[i].WorkspaceID == "" {
				boards[i].WorkspaceID = list[0].ID
			}
		}
		return tx.SaveBoards(boards)
	})
}

func (s *DirectoryService) pruneOrphanBoardData() error {
	boards, err := s.repo.LoadBoards()
	if err != nil {
		return fmt.Errorf("failed to load boards: %w", err)
	}
	ids, err := s.repo.BoardDataIDs()
	if err != nil {
		return fmt.Errorf("failed to list board data: %w", err)
	}

	for _, id := range ids {
		if indexBoard(boards, id) >= 0 {
			continue
		}
		log.Printf("Pruning data of deleted board %q", id)
		if err := s.repo.DeleteBoardData(id); err != nil {
			return fmt.Errorf("failed to prune board %q: %w", id, err)
		}
	}
	return nil
}

func (s *DirectoryService) publish(ctx context.Context, ev realtime.Event) {
	if s.events == nil {
		return
	}
	ev.Origin = realtime.OriginFrom(ctx)
	s.events.Publish(ev)
}

func repointBoards(repo repository.Repository, from, to string) error {
	boards, err := repo.LoadBoards()
	if err != nil {
		return err
	}
	changed := false
	for i := range boards {
		if boards[i].WorkspaceID == from {
			boards[i].WorkspaceID = to
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return repo.SaveBoards(boards)
}

func indexWorkspace(list []models.Workspace, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func indexBoard(boards []models.Board, id string) int {
	for i := range boards {
		if boards[i].ID == id {
			return i
		}
	}
	return -1
}

func exampleTasks() []models.Task {
	return []models.Task{
		{
			ID:          "t1",
			Title:       "Configurar projeto",
			Description: "Inicializar repositório e configurações básicas.",
			Status:      "todo",
			Priority:    models.PriorityHigh,
		},
		{
			ID:           "t2",
			Title:        "Criar componentes UI",
			Description:  "Buttons, inputs, modais.",
			Status:       "in-progress",
			Priority:     models.PriorityMedium,
			Dependencies: []string{"t1"},
		},
		{
			ID:           "t3",
			Title:        "Integração i18n",
			Description:  "Português e Inglês.",
			Status:       "done",
			Priority:     models.PriorityLow,
			Dependencies: []string{"t2"},
		},
	}
}

func exampleColumns() []models.Column {
	return []models.Column{
		{ID: "todo", Title: "A Fazer", Status: "todo"},
		{ID: "in-progress", Title: "Em Progresso", Status: "in-progress"},
		{ID: "done", Title: "Concluído", Status: "done"},
	}
}
