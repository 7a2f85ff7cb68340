package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/birlikkoshan/todo-live/internal/broadcast"
	"github.com/birlikkoshan/todo-live/internal/cache"
	"github.com/birlikkoshan/todo-live/internal/config"
	"github.com/birlikkoshan/todo-live/internal/logging"
	"github.com/birlikkoshan/todo-live/internal/metrics"
	"github.com/birlikkoshan/todo-live/internal/render"
	"github.com/birlikkoshan/todo-live/internal/repo"
	"github.com/birlikkoshan/todo-live/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg    config.Config
	logger *slog.Logger

	pg     *pgxpool.Pool
	sqlite *sql.DB
	redis  *redis.Client

	bus      *broadcast.Bus
	registry *prometheus.Registry
	router   *gin.Engine

	// streams is cancelled by StopStreams; every live update session
	// derives its lifetime from it.
	streams     context.Context
	stopStreams context.CancelFunc
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}
	a.streams, a.stopStreams = context.WithCancel(context.Background())

	todoRepo, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	var listCache service.ListCache
	if cfg.Redis.Enabled() {
		rdb, err := newRedis(ctx, cfg.Redis)
		if err != nil {
			a.closeStore()
			return nil, err
		}
		a.redis = rdb
		listCache = cache.NewTodoCache(rdb, cfg.Redis.DefaultTTL.Duration())
	} else {
		logger.Info("redis not configured, list cache disabled")
	}

	renderer, err := render.New()
	if err != nil {
		a.closeStore()
		return nil, err
	}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(a.registry)

	a.bus = broadcast.NewBus(broadcast.Options{
		Capacity: cfg.Stream.BacklogCapacity,
		Metrics:  m,
	})
	publisher := broadcast.NewPublisher(a.bus, logger.With("component", "publisher"), m)
	todoSvc := service.NewTodoService(todoRepo, listCache, publisher, logger.With("component", "todos"))

	a.router = newRouter(cfg, routeDeps{
		logger:   logger,
		todos:    todoSvc,
		bus:      a.bus,
		renderer: renderer,
		registry: a.registry,
		metrics:  m,
		streams:  a.streams,
	})
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// Handler is the router wrapped with request logging.
func (a *App) Handler() http.Handler {
	return logging.RequestLog(a.logger, a.router)
}

// StopStreams ends every open live update session and any opened later.
// Call it before shutting the HTTP server down, which otherwise waits for
// the streams to finish.
func (a *App) StopStreams() {
	a.stopStreams()
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	a.stopStreams()
	a.bus.Close()
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, a.closeStore())
	return errors.Join(errs...)
}

func (a *App) openStore(ctx context.Context) (repo.TodoRepo, error) {
	switch a.cfg.DB.Driver {
	case config.DriverPostgres:
		if err := runPostgresMigrations(a.cfg.DB.DSN, a.logger); err != nil {
			return nil, err
		}
		pool, err := newPostgres(ctx, a.cfg.DB.DSN)
		if err != nil {
			return nil, err
		}
		a.pg = pool
		return repo.NewPGTodoRepo(pool), nil
	default:
		db, err := repo.OpenSQLite(ctx, a.cfg.DB.DSN)
		if err != nil {
			return nil, err
		}
		if err := repo.Migrate(db, repo.DialectSQLite, a.logger); err != nil {
			db.Close()
			return nil, err
		}
		a.sqlite = db
		return repo.NewSQLiteTodoRepo(db), nil
	}
}

func (a *App) closeStore() error {
	if a.pg != nil {
		a.pg.Close()
	}
	if a.sqlite != nil {
		return a.sqlite.Close()
	}
	return nil
}

func newPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func runPostgresMigrations(dsn string, logger *slog.Logger) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	return repo.Migrate(db, repo.DialectPostgres, logger)
}

func newRouter(cfg config.Config, deps routeDeps) *gin.Engine {
	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Cache-Control", "Last-Event-ID", "HX-Request", "HX-Target", "HX-Trigger", "HX-Current-URL"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))

	Setup(r, cfg, deps)
	return r
}
