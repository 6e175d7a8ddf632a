package client

import (
	"context"
	"encoding/json"
	"fmt"
)

const todoFields = `id task completed priority description dueDate createdAt updatedAt tags assignedTo category`

type Todo struct {
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

const (
	listTodosQuery = `query { todos { ` + todoFields + ` } }`
	getTodoQuery   = `query($id: ID!) { todo(id: $id) { ` + todoFields + ` } }`
	addTodoQuery   = `mutation($task: String!, $priority: Int, $description: String, $dueDate: String, $tags: [String!], $assignedTo: String, $category: String) {
  addTodo(task: $task, priority: $priority, description: $description, dueDate: $dueDate, tags: $tags, assignedTo: $assignedTo, category: $category) { ` + todoFields + ` }
}`
	toggleTodoQuery = `mutation($id: ID!) { toggleTodoCompletion(id: $id) { ` + todoFields + ` } }`
	deleteTodoQuery = `mutation($id: ID!) { deleteTodo(id: $id) }`
)

// updateArgs lists the optional updateTodo arguments in schema order.
var updateArgs = []struct{ name, typ string }{
	{"task", "String"},
	{"priority", "Int"},
	{"description", "String"},
	{"dueDate", "String"},
	{"tags", "[String!]"},
	{"assignedTo", "String"},
	{"category", "String"},
}

// UpdateTodoQuery builds an updateTodo mutation that mentions only the
// keys present in fields, so absent fields stay untouched on the server.
func UpdateTodoQuery(fields map[string]interface{}) string {
	params := "$id: ID!"
	args := "id: $id"
	for _, a := range updateArgs {
		if _, ok := fields[a.name]; !ok {
			continue
		}
		params += fmt.Sprintf(", $%s: %s", a.name, a.typ)
		args += fmt.Sprintf(", %s: $%s", a.name, a.name)
	}
	return fmt.Sprintf("mutation(%s) { updateTodo(%s) { %s } }", params, args, todoFields)
}

func (c *Client) ListTodos(ctx context.Context) ([]Todo, error) {
	var data struct {
		Todos []Todo `json:"todos"`
	}
	if err := c.do(ctx, listTodosQuery, nil, &data); err != nil {
		return nil, err
	}
	return data.Todos, nil
}

func (c *Client) GetTodo(ctx context.Context, id string) (Todo, error) {
	var data struct {
		Todo Todo `json:"todo"`
	}
	err := c.do(ctx, getTodoQuery, map[string]interface{}{"id": id}, &data)
	return data.Todo, err
}

// AddTodo sends every supplied form field; task is the only required one.
func (c *Client) AddTodo(ctx context.Context, task string, fields map[string]interface{}) (Todo, error) {
	vars := map[string]interface{}{"task": task}
	for k, v := range fields {
		vars[k] = v
	}
	var data struct {
		AddTodo Todo `json:"addTodo"`
	}
	err := c.do(ctx, addTodoQuery, vars, &data)
	return data.AddTodo, err
}

func (c *Client) UpdateTodo(ctx context.Context, id string, fields map[string]interface{}) (Todo, error) {
	vars := map[string]interface{}{"id": id}
	for k, v := range fields {
		vars[k] = v
	}
	var data struct {
		UpdateTodo Todo `json:"updateTodo"`
	}
	err := c.do(ctx, UpdateTodoQuery(fields), vars, &data)
	return data.UpdateTodo, err
}

func (c *Client) ToggleTodo(ctx context.Context, id string) (Todo, error) {
	var data struct {
		ToggleTodoCompletion Todo `json:"toggleTodoCompletion"`
	}
	err := c.do(ctx, toggleTodoQuery, map[string]interface{}{"id": id}, &data)
	return data.ToggleTodoCompletion, err
}

func (c *Client) DeleteTodo(ctx context.Context, id string) (bool, error) {
	var data struct {
		DeleteTodo bool `json:"deleteTodo"`
	}
	err := c.do(ctx, deleteTodoQuery, map[string]interface{}{"id": id}, &data)
	return data.DeleteTodo, err
}

// do checks errors before data.
func (c *Client) do(ctx context.Context, query string, vars map[string]interface{}, out interface{}) error {
	resp, err := c.Send(ctx, query, vars)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	if len(resp.Data) == 0 {
		return fmt.Errorf("response contained no data")
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}
	return nil
}
