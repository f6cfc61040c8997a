package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/models"
)

var (
	// ErrStorageWrite is returned when the storage medium rejects a write (quota, I/O, constraint).
	ErrStorageWrite = errors.New("repository: storage write failed")
	// ErrStorageRead is returned when the storage medium cannot be read at all.
	ErrStorageRead = errors.New("repository: storage read failed")
)

// Repository defines typed access to every persisted collection. Absent or
// malformed records read as empty collections.
type Repository interface {
	// LoadWorkspaces returns the workspace collection in stored order
	LoadWorkspaces() ([]models.Workspace, error)

	// SaveWorkspaces replaces the workspace collection
	SaveWorkspaces(workspaces []models.Workspace) error

	// LoadBoards returns the board collection in stored order
	LoadBoards() ([]models.Board, error)

	// SaveBoards replaces the board collection
	SaveBoards(boards []models.Board) error

	// LoadTasks returns a board's task list
	LoadTasks(boardID string) ([]models.Task, error)

	// SaveTasks replaces a board's task list
	SaveTasks(boardID string, tasks []models.Task) error

	// LoadColumns returns a board's columns and whether a column list was ever saved
	LoadColumns(boardID string) ([]models.Column, bool, error)

	// SaveColumns replaces a board's column list
	SaveColumns(boardID string, columns []models.Column) error

	// DeleteBoardData removes a board's task and column collections
	DeleteBoardData(boardID string) error

	// BoardDataIDs lists board ids that have a stored task or column collection
	BoardDataIDs() ([]string, error)

	// Flag reports whether a one-time marker is set
	Flag(name string) (bool, error)

	// SetFlag sets a one-time marker
	SetFlag(name string) error

	// WithTx runs fn against a repository whose writes are committed atomically
	WithTx(fn func(repo Repository) error) error
}

// TasksKey is the storage key of a board's task collection
func TasksKey(boardID string) string {
	return constants.StorageKeyTasksPrefix + boardID
}

// ColumnsKey is the storage key of a board's column collection
func ColumnsKey(boardID string) string {
	return constants.StorageKeyColumnPrefix + boardID
}

type kvRepository struct {
	kv KVStore
}

// NewRepository creates a Repository on top of a key-value store
func NewRepository(kv KVStore) Repository {
	return &kvRepository{kv: kv}
}

func (r *kvRepository) LoadWorkspaces() ([]models.Workspace, error) {
	list, _, err := loadList[models.Workspace](r.kv, constants.StorageKeyWorkspaces)
	return list, err
}

func (r *kvRepository) SaveWorkspaces(workspaces []models.Workspace) error {
	return r.save(constants.StorageKeyWorkspaces, workspaces)
}

func (r *kvRepository) LoadBoards() ([]models.Board, error) {
	list, _, err := loadList[models.Board](r.kv, constants.StorageKeyBoards)
	return list, err
}

func (r *kvRepository) SaveBoards(boards []models.Board) error {
	return r.save(constants.StorageKeyBoards, boards)
}

func (r *kvRepository) LoadTasks(boardID string) ([]models.Task, error) {
	list, _, err := loadList[models.Task](r.kv, TasksKey(boardID))
	return list, err
}

func (r *kvRepository) SaveTasks(boardID string, tasks []models.Task) error {
	return r.save(TasksKey(boardID), tasks)
}

func (r *kvRepository) LoadColumns(boardID string) ([]models.Column, bool, error) {
	return loadList[models.Column](r.kv, ColumnsKey(boardID))
}

func (r *kvRepository) SaveColumns(boardID string, columns []models.Column) error {
	return r.save(ColumnsKey(boardID), columns)
}

func (r *kvRepository) DeleteBoardData(boardID string) error {
	if err := r.kv.Delete(TasksKey(boardID), ColumnsKey(boardID)); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}

func (r *kvRepository) BoardDataIDs() ([]string, error) {
	seen := make(map[string]struct{})
	ids := []string{}
	for _, prefix := range []string{constants.StorageKeyTasksPrefix, constants.StorageKeyColumnPrefix} {
		keys, err := r.kv.Keys(prefix)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
		}
		for _, k := range keys {
			id := strings.TrimPrefix(k, prefix)
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *kvRepository) Flag(name string) (bool, error) {
	raw, ok, err := r.kv.Get(name)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	if !ok {
		return false, nil
	}
	var set bool
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		// Older data stored bare markers such as "1".
		return strings.TrimSpace(raw) != "", nil
	}
	return set, nil
}

func (r *kvRepository) SetFlag(name string) error {
	return r.save(name, true)
}

func (r *kvRepository) WithTx(fn func(repo Repository) error) error {
	err := r.kv.Batch(func(tx KVStore) error {
		return fn(&kvRepository{kv: tx})
	})
	if err != nil && !errors.Is(err, ErrStorageWrite) && !errors.Is(err, ErrStorageRead) {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return err
}

// loadList decodes the list stored under key. It reports found=false for
// missing keys, JSON null and malformed values (which are logged), always
// returning a non-nil slice.
func loadList[T any](kv KVStore, key string) ([]T, bool, error) {
	raw, ok, err := kv.Get(key)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []T{}, false, nil
	}
	var list []T
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Printf("Ignoring malformed record %q: %v", key, err)
		return []T{}, false, nil
	}
	if list == nil {
		return []T{}, false, nil
	}
	return list, true, nil
}

func (r *kvRepository) save(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := r.kv.Set(key, string(raw)); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}
