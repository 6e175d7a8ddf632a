package graphql_test

import (
	"context"
	"encoding/json"
	"testing"

	"todo-tracker/backend/internal/graphql"
	"todo-tracker/backend/internal/repositories"
	"todo-tracker/backend/internal/services"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type todoJSON struct {
	ID          string   `json:"id"`
	Task        string   `json:"task"`
	Completed   bool     `json:"completed"`
	Priority    int      `json:"priority"`
	Description *string  `json:"description"`
	DueDate     *string  `json:"dueDate"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
	Tags        []string `json:"tags"`
	AssignedTo  *string  `json:"assignedTo"`
	Category    *string  `json:"category"`
}

const todoFields = `id task completed priority description dueDate createdAt updatedAt tags assignedTo category`

func newTestSchema(t *testing.T) *gql.Schema {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, repositories.AutoMigrate(db))

	return graphql.NewSchema(services.NewTodoService(repositories.NewTodoRepository(db)))
}

func exec(t *testing.T, schema *gql.Schema, query string, vars map[string]interface{}, out interface{}) *gql.Response {
	t.Helper()
	resp := schema.Exec(context.Background(), query, "", vars)
	if out != nil && len(resp.Errors) == 0 {
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
	return resp
}

func addTodo(t *testing.T, schema *gql.Schema, vars map[string]interface{}) todoJSON {
	t.Helper()
	var data struct{ AddTodo todoJSON }
	resp := exec(t, schema, `mutation($task: String!, $priority: Int, $description: String, $dueDate: String, $tags: [String!], $tagsText: String, $assignedTo: String, $category: String) {
		addTodo(task: $task, priority: $priority, description: $description, dueDate: $dueDate, tags: $tags, tagsText: $tagsText, assignedTo: $assignedTo, category: $category) { `+todoFields+` }
	}`, vars, &data)
	require.Empty(t, resp.Errors)
	return data.AddTodo
}

func TestSchema_ParsesEmbeddedSchema(t *testing.T) {
	assert.NotPanics(t, func() { graphql.NewSchema(services.NewTodoService(nil)) })
	assert.Contains(t, graphql.Schema, "toggleTodoCompletion")
}

func TestResolver_AddTodoDefaults(t *testing.T) {
	schema := newTestSchema(t)

	todo := addTodo(t, schema, map[string]interface{}{"task": "Buy milk"})

	assert.NotEmpty(t, todo.ID)
	assert.Equal(t, "Buy milk", todo.Task)
	assert.False(t, todo.Completed)
	assert.Equal(t, 1, todo.Priority)
	assert.Equal(t, []string{}, todo.Tags)
	assert.Nil(t, todo.Description)
	assert.Nil(t, todo.DueDate)
	assert.NotEmpty(t, todo.CreatedAt)
	assert.NotEmpty(t, todo.UpdatedAt)
}

func TestResolver_AddTodoAllFields(t *testing.T) {
	schema := newTestSchema(t)

	todo := addTodo(t, schema, map[string]interface{}{
		"task":        "Write report",
		"priority":    3,
		"description": "quarterly",
		"dueDate":     "2026-12-01",
		"tags":        []interface{}{"work", "urgent"},
		"assignedTo":  "sam",
		"category":    "office",
	})

	assert.Equal(t, 3, todo.Priority)
	assert.Equal(t, "quarterly", *todo.Description)
	assert.Equal(t, "2026-12-01T00:00:00Z", *todo.DueDate)
	assert.Equal(t, []string{"work", "urgent"}, todo.Tags)
	assert.Equal(t, "sam", *todo.AssignedTo)
	assert.Equal(t, "office", *todo.Category)
}

func TestResolver_AddTodoTagsText(t *testing.T) {
	schema := newTestSchema(t)

	todo := addTodo(t, schema, map[string]interface{}{"task": "x", "tagsText": "a, b ,c"})
	assert.Equal(t, []string{"a", "b", "c"}, todo.Tags)

	todo = addTodo(t, schema, map[string]interface{}{"task": "y", "tags": []interface{}{"z"}, "tagsText": "a, b"})
	assert.Equal(t, []string{"z"}, todo.Tags)
}

func TestResolver_AddTodoValidation(t *testing.T) {
	schema := newTestSchema(t)

	resp := exec(t, schema, `mutation { addTodo(task: "") { id } }`, nil, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "validation failed: task is required", resp.Errors[0].Message)

	var data struct{ Todos []todoJSON }
	exec(t, schema, `{ todos { id } }`, nil, &data)
	assert.Empty(t, data.Todos)
}

func TestResolver_TodosAndTodo(t *testing.T) {
	schema := newTestSchema(t)

	var list struct{ Todos []todoJSON }
	resp := exec(t, schema, `{ todos { `+todoFields+` } }`, nil, &list)
	require.Empty(t, resp.Errors)
	assert.NotNil(t, list.Todos)
	assert.Empty(t, list.Todos)

	first := addTodo(t, schema, map[string]interface{}{"task": "first"})
	addTodo(t, schema, map[string]interface{}{"task": "second"})

	exec(t, schema, `{ todos { id task } }`, nil, &list)
	require.Len(t, list.Todos, 2)
	assert.Equal(t, "first", list.Todos[0].Task)
	assert.Equal(t, "second", list.Todos[1].Task)

	var one struct{ Todo todoJSON }
	resp = exec(t, schema, `query($id: ID!) { todo(id: $id) { id task } }`, map[string]interface{}{"id": first.ID}, &one)
	require.Empty(t, resp.Errors)
	assert.Equal(t, first.ID, one.Todo.ID)
}

func TestResolver_TodoNotFound(t *testing.T) {
	schema := newTestSchema(t)

	resp := exec(t, schema, `{ todo(id: "6f1c1d0e-8f8a-4f55-9a1e-3c3b2b1a0f00") { id } }`, nil, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "todo not found", resp.Errors[0].Message)
}

func TestResolver_UpdateTodoPresence(t *testing.T) {
	schema := newTestSchema(t)
	created := addTodo(t, schema, map[string]interface{}{
		"task":        "Buy milk",
		"description": "2 liters",
		"assignedTo":  "sam",
		"dueDate":     "2026-12-01",
		"tags":        []interface{}{"home"},
	})

	var data struct{ UpdateTodo todoJSON }
	resp := exec(t, schema, `mutation($id: ID!) { updateTodo(id: $id, priority: 3) { `+todoFields+` } }`,
		map[string]interface{}{"id": created.ID}, &data)
	require.Empty(t, resp.Errors)
	assert.Equal(t, 3, data.UpdateTodo.Priority)
	assert.Equal(t, "Buy milk", data.UpdateTodo.Task)
	assert.Equal(t, "2 liters", *data.UpdateTodo.Description)
	assert.Equal(t, []string{"home"}, data.UpdateTodo.Tags)
	require.NotNil(t, data.UpdateTodo.DueDate)
	assert.Equal(t, *created.DueDate, *data.UpdateTodo.DueDate)

	resp = exec(t, schema, `mutation($id: ID!) { updateTodo(id: $id, description: "", assignedTo: null, dueDate: null) { `+todoFields+` } }`,
		map[string]interface{}{"id": created.ID}, &data)
	require.Empty(t, resp.Errors)
	require.NotNil(t, data.UpdateTodo.Description)
	assert.Equal(t, "", *data.UpdateTodo.Description)
	assert.Nil(t, data.UpdateTodo.AssignedTo)
	assert.Nil(t, data.UpdateTodo.DueDate)
	assert.Equal(t, 3, data.UpdateTodo.Priority)

	resp = exec(t, schema, `mutation($id: ID!) { updateTodo(id: $id, tagsText: "x, y") { tags } }`,
		map[string]interface{}{"id": created.ID}, &data)
	require.Empty(t, resp.Errors)
	assert.Equal(t, []string{"x", "y"}, data.UpdateTodo.Tags)

	resp = exec(t, schema, `mutation($id: ID!) { updateTodo(id: $id, tags: []) { tags } }`,
		map[string]interface{}{"id": created.ID}, &data)
	require.Empty(t, resp.Errors)
	assert.Equal(t, []string{}, data.UpdateTodo.Tags)
}

func TestResolver_UpdateTodoEmptyDueDateClears(t *testing.T) {
	schema := newTestSchema(t)
	created := addTodo(t, schema, map[string]interface{}{"task": "Buy milk", "dueDate": "2026-12-01"})
	require.NotNil(t, created.DueDate)

	var data struct{ UpdateTodo todoJSON }
	resp := exec(t, schema, `mutation($id: ID!, $dueDate: String) { updateTodo(id: $id, dueDate: $dueDate) { `+todoFields+` } }`,
		map[string]interface{}{"id": created.ID, "dueDate": ""}, &data)
	require.Empty(t, resp.Errors)
	assert.Nil(t, data.UpdateTodo.DueDate)
	assert.Equal(t, "Buy milk", data.UpdateTodo.Task)
}

func TestResolver_UpdateTodoOnlyID(t *testing.T) {
	schema := newTestSchema(t)
	created := addTodo(t, schema, map[string]interface{}{"task": "Buy milk", "category": "home"})

	var data struct{ UpdateTodo todoJSON }
	resp := exec(t, schema, `mutation($id: ID!) { updateTodo(id: $id) { `+todoFields+` } }`,
		map[string]interface{}{"id": created.ID}, &data)
	require.Empty(t, resp.Errors)
	assert.Equal(t, created.Task, data.UpdateTodo.Task)
	assert.Equal(t, "home", *data.UpdateTodo.Category)
}

func TestResolver_ToggleAndDelete(t *testing.T) {
	schema := newTestSchema(t)
	created := addTodo(t, schema, map[string]interface{}{"task": "Buy milk"})
	vars := map[string]interface{}{"id": created.ID}

	var toggled struct{ ToggleTodoCompletion todoJSON }
	exec(t, schema, `mutation($id: ID!) { toggleTodoCompletion(id: $id) { completed } }`, vars, &toggled)
	assert.True(t, toggled.ToggleTodoCompletion.Completed)

	exec(t, schema, `mutation($id: ID!) { toggleTodoCompletion(id: $id) { completed } }`, vars, &toggled)
	assert.False(t, toggled.ToggleTodoCompletion.Completed)

	var deleted struct{ DeleteTodo bool }
	resp := exec(t, schema, `mutation($id: ID!) { deleteTodo(id: $id) }`, vars, &deleted)
	require.Empty(t, resp.Errors)
	assert.True(t, deleted.DeleteTodo)

	resp = exec(t, schema, `mutation($id: ID!) { deleteTodo(id: $id) }`, vars, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "todo not found", resp.Errors[0].Message)

	resp = exec(t, schema, `mutation($id: ID!) { toggleTodoCompletion(id: $id) { id } }`, vars, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "todo not found", resp.Errors[0].Message)
}
