package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/database"
	"github.com/yukikurage/taskboard/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// RepositoryTestSuite runs the same behaviour checks against every KVStore
type RepositoryTestSuite struct {
	suite.Suite
	newStore func(t *testing.T) KVStore
	kv       KVStore
	repo     Repository
}

func (s *RepositoryTestSuite) SetupTest() {
	s.kv = s.newStore(s.T())
	s.repo = NewRepository(s.kv)
}

func (s *RepositoryTestSuite) TestAbsentKeysAreEmpty() {
	ws, err := s.repo.LoadWorkspaces()
	s.Require().NoError(err)
	s.NotNil(ws)
	s.Empty(ws)

	tasks, err := s.repo.LoadTasks("nope")
	s.Require().NoError(err)
	s.NotNil(tasks)
	s.Empty(tasks)

	cols, found, err := s.repo.LoadColumns("nope")
	s.Require().NoError(err)
	s.False(found)
	s.Empty(cols)
}

func (s *RepositoryTestSuite) TestRoundTripKeepsOrder() {
	tasks := []models.Task{
		{ID: "2", Title: "B", Status: "todo", Priority: models.PriorityLow, Dependencies: []string{"1"}},
		{ID: "1", Title: "A", Status: "todo", Priority: models.PriorityHigh, Position: &models.Position{X: 1, Y: 2}, DueDate: "2026-01-31"},
	}
	s.Require().NoError(s.repo.SaveTasks("board", tasks))

	loaded, err := s.repo.LoadTasks("board")
	s.Require().NoError(err)
	s.Equal(tasks, loaded)

	other, err := s.repo.LoadTasks("other")
	s.Require().NoError(err)
	s.Empty(other)
}

func (s *RepositoryTestSuite) TestMalformedDataIsEmpty() {
	s.Require().NoError(s.kv.Set(constants.StorageKeyBoards, "{not json"))
	s.Require().NoError(s.kv.Set(ColumnsKey("b"), `{"id":"todo"}`))
	s.Require().NoError(s.kv.Set(TasksKey("b"), "null"))

	boards, err := s.repo.LoadBoards()
	s.Require().NoError(err)
	s.Empty(boards)

	cols, found, err := s.repo.LoadColumns("b")
	s.Require().NoError(err)
	s.False(found)
	s.Empty(cols)

	tasks, err := s.repo.LoadTasks("b")
	s.Require().NoError(err)
	s.NotNil(tasks)
	s.Empty(tasks)
}

func (s *RepositoryTestSuite) TestSavedEmptyColumnsAreFound() {
	s.Require().NoError(s.repo.SaveColumns("b", []models.Column{}))

	cols, found, err := s.repo.LoadColumns("b")
	s.Require().NoError(err)
	s.True(found)
	s.Empty(cols)
}

func (s *RepositoryTestSuite) TestDeleteBoardData() {
	s.Require().NoError(s.repo.SaveTasks("b", []models.Task{{ID: "1", Title: "x"}}))
	s.Require().NoError(s.repo.SaveColumns("b", models.DefaultColumns()))
	s.Require().NoError(s.repo.SaveTasks("keep", []models.Task{{ID: "2", Title: "y"}}))

	ids, err := s.repo.BoardDataIDs()
	s.Require().NoError(err)
	s.ElementsMatch([]string{"b", "keep"}, ids)

	s.Require().NoError(s.repo.DeleteBoardData("b"))

	tasks, _ := s.repo.LoadTasks("b")
	s.Empty(tasks)
	_, found, _ := s.repo.LoadColumns("b")
	s.False(found)
	kept, _ := s.repo.LoadTasks("keep")
	s.Len(kept, 1)
}

func (s *RepositoryTestSuite) TestFlags() {
	set, err := s.repo.Flag(constants.FlagFirstOpen)
	s.Require().NoError(err)
	s.False(set)

	s.Require().NoError(s.repo.SetFlag(constants.FlagFirstOpen))

	set, err = s.repo.Flag(constants.FlagFirstOpen)
	s.Require().NoError(err)
	s.True(set)

	s.Require().NoError(s.kv.Set(constants.FlagTourShown, "1"))
	set, _ = s.repo.Flag(constants.FlagTourShown)
	s.True(set)
}

func (s *RepositoryTestSuite) TestWithTxCommits() {
	err := s.repo.WithTx(func(tx Repository) error {
		if err := tx.SaveWorkspaces([]models.Workspace{{ID: "squad", Name: "Squad"}}); err != nil {
			return err
		}
		return tx.SaveBoards([]models.Board{{ID: "b", Name: "B", WorkspaceID: "squad"}})
	})
	s.Require().NoError(err)

	ws, _ := s.repo.LoadWorkspaces()
	boards, _ := s.repo.LoadBoards()
	s.Len(ws, 1)
	s.Equal("squad", boards[0].WorkspaceID)
}

func (s *RepositoryTestSuite) TestWithTxRollsBack() {
	s.Require().NoError(s.repo.SaveWorkspaces([]models.Workspace{{ID: "team", Name: "Team"}}))

	boom := errors.New("boom")
	err := s.repo.WithTx(func(tx Repository) error {
		if err := tx.SaveWorkspaces([]models.Workspace{{ID: "squad", Name: "Squad"}}); err != nil {
			return err
		}
		return boom
	})
	s.Require().Error(err)
	s.ErrorIs(err, ErrStorageWrite)

	ws, _ := s.repo.LoadWorkspaces()
	s.Equal("team", ws[0].ID)
}

func TestRepository_Memory(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newStore: func(t *testing.T) KVStore { return NewMemoryKVStore() },
	})
}

func TestRepository_SQLite(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newStore: func(t *testing.T) KVStore {
			db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
			require.NoError(t, err)
			require.NoError(t, database.Migrate(db))

			sqlDB, err := db.DB()
			require.NoError(t, err)
			// One connection keeps every query on the same in-memory database.
			sqlDB.SetMaxOpenConns(1)
			t.Cleanup(func() { sqlDB.Close() })

			return NewGormKVStore(db)
		},
	})
}

func newMockRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return NewRepository(NewGormKVStore(db)), mock
}

func TestRepository_WriteFailureIsTyped(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("INSERT INTO `records`").WillReturnError(errors.New("quota exceeded"))

	err := repo.SaveTasks("b", []models.Task{{ID: "1", Title: "x"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageWrite)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ReadFailureIsTyped(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT \\* FROM `records`").WillReturnError(errors.New("disk I/O error"))

	_, err := repo.LoadBoards()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageRead)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_TxFailureRollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `records`").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err := repo.WithTx(func(tx Repository) error {
		return tx.SaveBoards([]models.Board{{ID: "b"}})
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageWrite)
	assert.NoError(t, mock.ExpectationsWereMet())
}
