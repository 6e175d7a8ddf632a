package graphql

import (
	"context"

	"todo-tracker/backend/internal/services"

	gql "github.com/graph-gophers/graphql-go"
)

// Resolver is the root resolver for queries and mutations.
type Resolver struct {
	todos services.TodoService
}

func NewResolver(todos services.TodoService) *Resolver {
	return &Resolver{todos: todos}
}

func (r *Resolver) Todos(ctx context.Context) ([]*todoResolver, error) {
	todos, err := r.todos.ListTodos(ctx)
	if err != nil {
		return nil, err
	}
	return newTodoResolvers(todos), nil
}

func (r *Resolver) Todo(ctx context.Context, args struct{ ID gql.ID }) (*todoResolver, error) {
	todo, err := r.todos.GetTodo(ctx, string(args.ID))
	if err != nil {
		return nil, err
	}
	return &todoResolver{todo: todo}, nil
}

type addTodoArgs struct {
	Task        string
	Priority    *int32
	Description *string
	DueDate     *string
	Tags        *[]string
	TagsText    *string
	AssignedTo  *string
	Category    *string
}

func (r *Resolver) AddTodo(ctx context.Context, args addTodoArgs) (*todoResolver, error) {
	input := services.CreateTodoInput{
		Task:        args.Task,
		Description: args.Description,
		DueDate:     args.DueDate,
		AssignedTo:  args.AssignedTo,
		Category:    args.Category,
	}
	if args.Priority != nil {
		p := int(*args.Priority)
		input.Priority = &p
	}
	switch {
	case args.Tags != nil:
		input.Tags = *args.Tags
	case args.TagsText != nil:
		input.Tags = services.ParseTags(*args.TagsText)
	}

	todo, err := r.todos.CreateTodo(ctx, input)
	if err != nil {
		return nil, err
	}
	return &todoResolver{todo: todo}, nil
}

type updateTodoArgs struct {
	ID          gql.ID
	Task        gql.NullString
	Priority    gql.NullInt
	Description gql.NullString
	DueDate     gql.NullString
	Tags        *[]string
	TagsText    gql.NullString
	AssignedTo  gql.NullString
	Category    gql.NullString
}

// UpdateTodo applies only the arguments present in the request. A null
// or omitted tags list leaves tags unchanged; an empty list clears them.
func (r *Resolver) UpdateTodo(ctx context.Context, args updateTodoArgs) (*todoResolver, error) {
	input := services.UpdateTodoInput{
		Task:        nullString(args.Task),
		Description: nullString(args.Description),
		DueDate:     nullString(args.DueDate),
		AssignedTo:  nullString(args.AssignedTo),
		Category:    nullString(args.Category),
	}
	if args.Priority.Set {
		if args.Priority.Value == nil {
			input.Priority = services.Null[int]()
		} else {
			input.Priority = services.Some(int(*args.Priority.Value))
		}
	}
	switch {
	case args.Tags != nil:
		input.Tags = services.Some(*args.Tags)
	case args.TagsText.Set && args.TagsText.Value != nil:
		input.Tags = services.Some(services.ParseTags(*args.TagsText.Value))
	}

	todo, err := r.todos.UpdateTodo(ctx, string(args.ID), input)
	if err != nil {
		return nil, err
	}
	return &todoResolver{todo: todo}, nil
}

func (r *Resolver) ToggleTodoCompletion(ctx context.Context, args struct{ ID gql.ID }) (*todoResolver, error) {
	todo, err := r.todos.ToggleTodoCompletion(ctx, string(args.ID))
	if err != nil {
		return nil, err
	}
	return &todoResolver{todo: todo}, nil
}

func (r *Resolver) DeleteTodo(ctx context.Context, args struct{ ID gql.ID }) (bool, error) {
	if err := r.todos.DeleteTodo(ctx, string(args.ID)); err != nil {
		return false, err
	}
	return true, nil
}

func nullString(v gql.NullString) services.Field[string] {
	switch {
	case !v.Set:
		return services.Field[string]{}
	case v.Value == nil:
		return services.Null[string]()
	default:
		return services.Some(*v.Value)
	}
}
