package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"todo-tracker/backend/internal/models"
	"todo-tracker/backend/internal/repositories"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TodoService interface {
	ListTodos(ctx context.Context) ([]models.Todo, error)
	GetTodo(ctx context.Context, id string) (models.Todo, error)
	CreateTodo(ctx context.Context, input CreateTodoInput) (models.Todo, error)
	UpdateTodo(ctx context.Context, id string, input UpdateTodoInput) (models.Todo, error)
	ToggleTodoCompletion(ctx context.Context, id string) (models.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
}

type TodoServiceImpl struct {
	repo repositories.TodoRepository
}

func NewTodoService(repo repositories.TodoRepository) *TodoServiceImpl {
	return &TodoServiceImpl{repo: repo}
}

func (s *TodoServiceImpl) ListTodos(ctx context.Context) ([]models.Todo, error) {
	todos, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return todos, nil
}

func (s *TodoServiceImpl) GetTodo(ctx context.Context, id string) (models.Todo, error) {
	todoID, err := parseID(id)
	if err != nil {
		return models.Todo{}, err
	}
	todo, err := s.repo.GetByID(ctx, todoID)
	if err != nil {
		return models.Todo{}, storeError(err)
	}
	return todo, nil
}

func (s *TodoServiceImpl) CreateTodo(ctx context.Context, input CreateTodoInput) (models.Todo, error) {
	if strings.TrimSpace(input.Task) == "" {
		return models.Todo{}, fmt.Errorf("%w: task is required", ErrValidation)
	}

	todo := models.Todo{
		Task:        input.Task,
		Priority:    models.DefaultPriority,
		Description: input.Description,
		Tags:        models.Tags{},
		AssignedTo:  input.AssignedTo,
		Category:    input.Category,
	}
	if input.Priority != nil {
		todo.Priority = *input.Priority
	}
	if input.Tags != nil {
		todo.Tags = models.Tags(input.Tags)
	}
	if input.DueDate != nil {
		dueDate, err := ParseDueDate(*input.DueDate)
		if err != nil {
			return models.Todo{}, err
		}
		todo.DueDate = dueDate
	}

	if err := s.repo.Create(ctx, &todo); err != nil {
		return models.Todo{}, storeError(err)
	}
	return todo, nil
}

func (s *TodoServiceImpl) UpdateTodo(ctx context.Context, id string, input UpdateTodoInput) (models.Todo, error) {
	todoID, err := parseID(id)
	if err != nil {
		return models.Todo{}, err
	}

	fields, err := updateColumns(input)
	if err != nil {
		return models.Todo{}, err
	}

	todo, err := s.repo.Update(ctx, todoID, fields)
	if err != nil {
		return models.Todo{}, storeError(err)
	}
	return todo, nil
}

func (s *TodoServiceImpl) ToggleTodoCompletion(ctx context.Context, id string) (models.Todo, error) {
	todoID, err := parseID(id)
	if err != nil {
		return models.Todo{}, err
	}
	todo, err := s.repo.ToggleCompleted(ctx, todoID)
	if err != nil {
		return models.Todo{}, storeError(err)
	}
	return todo, nil
}

func (s *TodoServiceImpl) DeleteTodo(ctx context.Context, id string) error {
	todoID, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, todoID); err != nil {
		return storeError(err)
	}
	return nil
}

// updateColumns maps the supplied fields to column assignments. Fields
// that were not supplied never appear in the result.
func updateColumns(input UpdateTodoInput) (map[string]interface{}, error) {
	fields := make(map[string]interface{})

	if input.Task.Set {
		if input.Task.Null || strings.TrimSpace(input.Task.Value) == "" {
			return nil, fmt.Errorf("%w: task must not be empty", ErrValidation)
		}
		fields["task"] = input.Task.Value
	}
	if input.Priority.Set {
		if input.Priority.Null {
			return nil, fmt.Errorf("%w: priority must not be null", ErrValidation)
		}
		fields["priority"] = input.Priority.Value
	}
	if input.Description.Set {
		fields["description"] = input.Description.Ptr()
	}
	if input.DueDate.Set {
		dueDate, err := ParseDueDate(input.DueDate.Value)
		if err != nil {
			return nil, err
		}
		fields["due_date"] = dueDate
	}
	if input.Tags.Set {
		tags := models.Tags{}
		if !input.Tags.Null && input.Tags.Value != nil {
			tags = models.Tags(input.Tags.Value)
		}
		fields["tags"] = tags
	}
	if input.AssignedTo.Set {
		fields["assigned_to"] = input.AssignedTo.Ptr()
	}
	if input.Category.Set {
		fields["category"] = input.Category.Ptr()
	}

	return fields, nil
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.FromString(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid todo id %q", ErrValidation, id)
	}
	return parsed, nil
}

func storeError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrStore, err)
}
