package handlers

import (
	"net/http"

	"todo-tracker/backend/internal/graphql"

	"github.com/gin-gonic/gin"
	gql "github.com/graph-gophers/graphql-go"
)

type graphQLRequest struct {
	Query         string                 `json:"query" binding:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type GraphQLHandler struct {
	schema *gql.Schema
}

func NewGraphQLHandler(schema *gql.Schema) *GraphQLHandler {
	return &GraphQLHandler{schema: schema}
}

// Serve executes one GraphQL request. Resolver errors are reported in the
// response envelope with status 200; only a malformed body yields 400.
// Declared variables the client did not send are treated as absent
// arguments rather than null.
func (h *GraphQLHandler) Serve(c *gin.Context) {
	var req graphQLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"message": err.Error()}}})
		return
	}

	query := graphql.DropUnsetVariables(req.Query, req.OperationName, req.Variables)
	resp := h.schema.Exec(c.Request.Context(), query, req.OperationName, req.Variables)
	c.JSON(http.StatusOK, resp)
}
