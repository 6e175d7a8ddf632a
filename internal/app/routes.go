package app

import (
	"net/http"

	"todo-tracker/backend/internal/graphql"
	"todo-tracker/backend/internal/handlers"
	"todo-tracker/backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

const GraphQLPath = "/api/graphql"

func newRouter(a *App) *gin.Engine {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RecoveryWithLog())
	if a.cfg.IsProduction() {
		r.Use(middleware.RequestLogger())
	} else {
		r.Use(gin.Logger())
	}
	r.Use(a.monitor.Middleware())
	r.Use(middleware.CORS(a.cfg.CORS.AllowedOrigins))

	Setup(r, a)
	return r
}

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, a *App) {
	r.GET("/", rootHandler())
	a.monitor.Register(r)

	api := r.Group("/api")
	if a.limiter != nil {
		api.Use(a.limiter.Middleware())
	}

	graphQLHandler := handlers.NewGraphQLHandler(graphql.NewSchema(a.todos))
	api.POST("/graphql", graphQLHandler.Serve)
}

func rootHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Todo Tracker API",
			"graphql": GraphQLPath,
			"health":  "/health",
			"metrics": "/metrics",
		})
	}
}
