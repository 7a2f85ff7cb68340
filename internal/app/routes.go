package app

import (
	"context"
	"log/slog"

	"github.com/birlikkoshan/todo-live/internal/broadcast"
	"github.com/birlikkoshan/todo-live/internal/config"
	"github.com/birlikkoshan/todo-live/internal/handlers"
	"github.com/birlikkoshan/todo-live/internal/metrics"
	"github.com/birlikkoshan/todo-live/internal/render"
	"github.com/birlikkoshan/todo-live/internal/service"
	"github.com/birlikkoshan/todo-live/internal/stream"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	_ "github.com/birlikkoshan/todo-live/docs"
)

type routeDeps struct {
	logger   *slog.Logger
	todos    *service.TodoService
	bus      *broadcast.Bus
	renderer *render.Renderer
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	streams  context.Context
}

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, deps routeDeps) {
	todoHandler := handlers.NewTodoHandler(deps.todos, deps.renderer, deps.logger)
	streamHandler := handlers.NewStreamHandler(deps.streams, deps.bus, deps.renderer, stream.Options{
		KeepAlive: cfg.Stream.KeepAlivePeriod.Duration(),
		Logger:    deps.logger.With("component", "stream"),
		Metrics:   deps.metrics,
	})

	r.GET("/", todoHandler.Index)
	r.GET("/health", healthHandler(cfg, deps.bus))
	r.GET("/version", versionHandler(cfg))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{})))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	registerTodoRoutes(r.Group(""), todoHandler, streamHandler)
}

func healthHandler(cfg config.Config, bus *broadcast.Bus) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env, "subscribers": bus.SubscriberCount()})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTodoRoutes(g *gin.RouterGroup, h *handlers.TodoHandler, s *handlers.StreamHandler) {
	g.GET("/todos", h.List)
	g.POST("/todos", h.Create)
	g.GET("/todos/stream", s.Events)
	g.GET("/todos/ws", s.WebSocket)
	g.GET("/todos/:id", h.GetByID)
	g.PUT("/todos/:id", h.Update)
	g.DELETE("/todos/:id", h.Delete)
}
