package cli_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todo-tracker/backend/internal/cli"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

func fakeServer(t *testing.T, reply string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req recordedRequest
		require.NoError(t, json.Unmarshal(body, &req))
		requests = append(requests, req)
		w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func run(t *testing.T, endpoint string, args ...string) (string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "none.yaml")
	cmd := cli.NewRootCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{"--config", cfg, "--endpoint", endpoint}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	cmd := cli.NewRootCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())

	for _, name := range []string{"list", "get", "add", "update", "toggle", "delete", "version"} {
		assert.Contains(t, out.String(), name)
	}
}

func TestListCommand(t *testing.T) {
	srv, requests := fakeServer(t, `{"data":{"todos":[{"id":"1","task":"Buy milk","tags":[]}]}}`)

	out, err := run(t, srv.URL, "list")
	require.NoError(t, err)
	assert.Contains(t, out, `"task": "Buy milk"`)
	require.Len(t, *requests, 1)
	assert.Contains(t, (*requests)[0].Query, "todos")
}

func TestAddCommand_SendsTagsAsList(t *testing.T) {
	srv, requests := fakeServer(t, `{"data":{"addTodo":{"id":"1","task":"Buy milk"}}}`)

	_, err := run(t, srv.URL, "add", "Buy milk", "--tags", "home, errand", "--priority", "2")
	require.NoError(t, err)

	vars := (*requests)[0].Variables
	assert.Equal(t, "Buy milk", vars["task"])
	assert.Equal(t, []interface{}{"home", "errand"}, vars["tags"])
	assert.Equal(t, float64(2), vars["priority"])
	assert.NotContains(t, vars, "category")
}

func TestUpdateCommand_OnlyChangedFlags(t *testing.T) {
	srv, requests := fakeServer(t, `{"data":{"updateTodo":{"id":"1","task":"Buy milk"}}}`)

	_, err := run(t, srv.URL, "update", "1", "--description", "", "--unset", "due")
	require.NoError(t, err)

	req := (*requests)[0]
	assert.Equal(t, map[string]interface{}{"id": "1", "description": "", "dueDate": nil}, req.Variables)
	assert.Contains(t, req.Query, "description: $description")
	assert.Contains(t, req.Query, "dueDate: $dueDate")
	assert.NotContains(t, req.Query, "$task")
	assert.NotContains(t, req.Query, "$priority")
}

func TestUpdateCommand_RejectsUnknownUnset(t *testing.T) {
	srv, requests := fakeServer(t, `{}`)

	_, err := run(t, srv.URL, "update", "1", "--unset", "task")
	require.Error(t, err)
	assert.Empty(t, *requests)
}

func TestCommand_SurfacesFirstError(t *testing.T) {
	srv, _ := fakeServer(t, `{"errors":[{"message":"todo not found"}]}`)

	_, err := run(t, srv.URL, "toggle", "missing")
	require.Error(t, err)
	assert.Equal(t, "todo not found", err.Error())
}

func TestDeleteCommand(t *testing.T) {
	srv, _ := fakeServer(t, `{"data":{"deleteTodo":true}}`)

	out, err := run(t, srv.URL, "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"deleteTodo": true`)
}

func TestEndpointFromConfigFile(t *testing.T) {
	srv, requests := fakeServer(t, `{"data":{"todo":{"id":"1","task":"x"}}}`)

	path := filepath.Join(t.TempDir(), "todoctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint: "+srv.URL+"\n"), 0o600))

	cmd := cli.NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"--config", path, "get", "1"})
	require.NoError(t, cmd.Execute())
	assert.Len(t, *requests, 1)
}

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())

	assert.True(t, strings.HasPrefix(out.String(), "todoctl version "+cli.Version))
}
