package graphql

import (
	"time"

	"todo-tracker/backend/internal/models"

	gql "github.com/graph-gophers/graphql-go"
)

type todoResolver struct {
	todo models.Todo
}

func newTodoResolvers(todos []models.Todo) []*todoResolver {
	out := make([]*todoResolver, len(todos))
	for i := range todos {
		out[i] = &todoResolver{todo: todos[i]}
	}
	return out
}

func (r *todoResolver) ID() gql.ID {
	return gql.ID(r.todo.ID.String())
}

func (r *todoResolver) Task() string {
	return r.todo.Task
}

func (r *todoResolver) Completed() bool {
	return r.todo.Completed
}

func (r *todoResolver) Priority() int32 {
	return int32(r.todo.Priority)
}

func (r *todoResolver) Description() *string {
	return r.todo.Description
}

func (r *todoResolver) DueDate() *string {
	if r.todo.DueDate == nil {
		return nil
	}
	s := formatTime(*r.todo.DueDate)
	return &s
}

func (r *todoResolver) CreatedAt() string {
	return formatTime(r.todo.CreatedAt)
}

func (r *todoResolver) UpdatedAt() string {
	return formatTime(r.todo.UpdatedAt)
}

func (r *todoResolver) Tags() []string {
	if r.todo.Tags == nil {
		return []string{}
	}
	return r.todo.Tags
}

func (r *todoResolver) AssignedTo() *string {
	return r.todo.AssignedTo
}

func (r *todoResolver) Category() *string {
	return r.todo.Category
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
