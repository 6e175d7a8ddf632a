package repositories

import (
	"context"

	"todo-tracker/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// TodoRepository is the narrow persistence contract the service layer
// depends on. Missing rows are reported as gorm.ErrRecordNotFound.
type TodoRepository interface {
	List(ctx context.Context) ([]models.Todo, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Todo, error)
	Create(ctx context.Context, todo *models.Todo) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (models.Todo, error)
	ToggleCompleted(ctx context.Context, id uuid.UUID) (models.Todo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormTodoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) *GormTodoRepository {
	return &GormTodoRepository{db: db}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Todo{})
}

func (r *GormTodoRepository) List(ctx context.Context) ([]models.Todo, error) {
	todos := make([]models.Todo, 0)
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

func (r *GormTodoRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Todo, error) {
	var todo models.Todo
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&todo).Error
	return todo, err
}

func (r *GormTodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

// Update writes only the given columns; an empty map is a read.
func (r *GormTodoRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (models.Todo, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	result := r.db.WithContext(ctx).Model(&models.Todo{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return models.Todo{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Todo{}, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// ToggleCompleted flips the flag in a single statement.
func (r *GormTodoRepository) ToggleCompleted(ctx context.Context, id uuid.UUID) (models.Todo, error) {
	result := r.db.WithContext(ctx).Model(&models.Todo{}).Where("id = ?", id).
		Update("completed", gorm.Expr("NOT completed"))
	if result.Error != nil {
		return models.Todo{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Todo{}, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *GormTodoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Todo{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
