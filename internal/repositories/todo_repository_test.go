package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"todo-tracker/backend/internal/models"
	"todo-tracker/backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, repositories.AutoMigrate(db))
	return db
}

func createTodo(t *testing.T, repo *repositories.GormTodoRepository, task string) models.Todo {
	t.Helper()
	todo := models.Todo{Task: task, Priority: models.DefaultPriority}
	require.NoError(t, repo.Create(context.Background(), &todo))
	return todo
}

func TestTodoRepository_CreateAndGet(t *testing.T) {
	repo := repositories.NewTodoRepository(setupTestDB(t))
	ctx := context.Background()

	created := createTodo(t, repo, "Buy milk")
	assert.NotEqual(t, uuid.Nil, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Task)
	assert.Equal(t, models.Tags{}, got.Tags)
}

func TestTodoRepository_GetMissing(t *testing.T) {
	repo := repositories.NewTodoRepository(setupTestDB(t))

	_, err := repo.GetByID(context.Background(), uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTodoRepository_ListOrderedByCreation(t *testing.T) {
	repo := repositories.NewTodoRepository(setupTestDB(t))

	empty, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, task := range []string{"first", "second", "third"} {
		createTodo(t, repo, task)
		time.Sleep(2 * time.Millisecond)
	}

	todos, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, todos, 3)
	assert.Equal(t, "first", todos[0].Task)
	assert.Equal(t, "second", todos[1].Task)
	assert.Equal(t, "third", todos[2].Task)
}

func TestTodoRepository_UpdateColumns(t *testing.T) {
	repo := repositories.NewTodoRepository(setupTestDB(t))
	ctx := context.Background()
	created := createTodo(t, repo, "Buy milk")

	updated, err := repo.Update(ctx, created.ID, map[string]interface{}{
		"priority": 5,
		"tags":     models.Tags{"home"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", updated.Task)
	assert.Equal(t, 5, updated.Priority)
	assert.Equal(t, models.Tags{"home"}, updated.Tags)

	unchanged, err := repo.Update(ctx, created.ID, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, 5, unchanged.Priority)
}

func TestTodoRepository_UpdateMissing(t *testing.T) {
	repo := repositories.NewTodoRepository(setupTestDB(t))

	_, err := repo.Update(context.Background(), uuid.Must(uuid.NewV4()), map[string]interface{}{"task": "x"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTodoRepository_ToggleCompleted(t *testing.T) {
	repo := repositories.NewTodoRepository(setupTestDB(t))
	ctx := context.Background()
	created := createTodo(t, repo, "Buy milk")

	toggled, err := repo.ToggleCompleted(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	toggled, err = repo.ToggleCompleted(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)

	_, err = repo.ToggleCompleted(ctx, uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTodoRepository_Delete(t *testing.T) {
	repo := repositories.NewTodoRepository(setupTestDB(t))
	ctx := context.Background()
	created := createTodo(t, repo, "Buy milk")

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err := repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, created.ID), gorm.ErrRecordNotFound)
}

func TestTodoRepository_StoreFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "todos"`).WillReturnError(errors.New("connection refused"))

	_, err = repositories.NewTodoRepository(db).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}
