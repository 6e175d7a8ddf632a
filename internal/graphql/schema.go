package graphql

import (
	_ "embed"

	"todo-tracker/backend/internal/services"

	gql "github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var Schema string

// NewSchema parses the embedded schema and binds it to the todo service.
// It panics if the resolvers do not match the schema.
func NewSchema(todos services.TodoService) *gql.Schema {
	return gql.MustParseSchema(Schema, NewResolver(todos))
}
