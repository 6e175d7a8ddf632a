package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"todo-tracker/backend/internal/cache"
	"todo-tracker/backend/internal/config"
	"todo-tracker/backend/internal/database"
	"todo-tracker/backend/internal/middleware"
	"todo-tracker/backend/internal/monitoring"
	"todo-tracker/backend/internal/repositories"
	"todo-tracker/backend/internal/services"
	"todo-tracker/backend/internal/worker"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/logger"
)

type App struct {
	cfg     *config.Config
	pool    *database.DatabasePool
	redis   *cache.RedisCache
	cache   *cache.MultiLevelCache
	todos   *services.CachedTodoService
	worker  *worker.Worker
	warmer  *cache.CacheWarmer
	limiter *middleware.RateLimiter
	monitor *monitoring.Monitor
	router  *gin.Engine
	cancel  context.CancelFunc
}

// New connects the store and, when enabled, Redis, then builds the router.
// Background components are not running until Start is called.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	a := &App{cfg: cfg, monitor: monitoring.NewMonitor()}

	pool, err := newDatabase(cfg)
	if err != nil {
		return nil, err
	}
	a.pool = pool

	if cfg.Redis.Enabled {
		rc, err := newRedis(cfg)
		if err != nil {
			pool.Close()
			return nil, err
		}
		a.redis = rc
	}

	a.cache = cache.NewMultiLevelCache(a.redis)

	serviceConfig := services.CachedTodoServiceConfig{
		TodoTTL: cfg.Cache.TodoTTL,
		ListTTL: cfg.Cache.ListTTL,
	}
	if a.redis != nil {
		serviceConfig.Queue = worker.NewJobQueue(a.redis.Client())
	}
	repo := repositories.NewTodoRepository(pool.DB)
	a.todos = services.NewCachedTodoService(services.NewTodoService(repo), a.cache, serviceConfig)

	if a.redis != nil {
		a.worker = worker.NewWorker(worker.WorkerConfig{
			RedisClient:  a.redis.Client(),
			PollInterval: cfg.Worker.PollInterval,
			Queues:       cfg.Worker.Queues,
		})
		a.worker.RegisterHandler(worker.JobTypeWarmTodoList, a.todos.HandleWarmJob)
		a.worker.RegisterHandler(worker.JobTypeWarmTodo, a.todos.HandleWarmJob)
	}

	a.warmer = cache.NewCacheWarmer(a.cache, &cache.WarmupStrategy{
		ConcurrentJobs: 1,
		WarmupInterval: warmupInterval(cfg.Cache.ListTTL),
		HealthCheckFunc: func(ctx context.Context) bool {
			return a.pool.HealthCheck(ctx) == nil
		},
	})
	for _, job := range a.todos.WarmupJobs() {
		a.warmer.AddWarmupJob(job)
	}

	if cfg.RateLimit.Enabled {
		a.limiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMin:  cfg.RateLimit.RequestsPerMin,
			BurstSize:       cfg.RateLimit.BurstSize,
			CleanupInterval: cfg.RateLimit.CleanupInterval,
		})
	}

	a.registerChecks()
	a.router = newRouter(a)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Todos() *services.CachedTodoService {
	return a.todos
}

// Start runs the cache warmer, the warmup worker and the rate limiter
// cleanup until Close is called.
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)

	a.warmer.Start(ctx)
	if a.worker != nil {
		a.worker.Start(a.cfg.Worker.Concurrency)
	}
	if a.limiter != nil {
		go a.limiter.Run(ctx)
	}
}

// Close stops the background jobs, waiting at most until ctx is done, and
// then releases the cache and the database pool.
func (a *App) Close(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}

	var errs []error
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if a.worker != nil {
			a.worker.Stop()
		}
		a.warmer.Stop()
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		errs = append(errs, fmt.Errorf("stop background jobs: %w", ctx.Err()))
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if a.pool != nil {
		if err := a.pool.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (a *App) registerChecks() {
	a.monitor.RegisterHealthCheck("database", a.pool.HealthCheck)
	a.monitor.RegisterStats("database", a.pool.Stats)
	a.monitor.RegisterStats("cache", a.todos.GetCacheStats)
	a.monitor.RegisterStats("warmer", a.warmer.GetStats)
	if a.redis != nil {
		a.monitor.RegisterHealthCheck("redis", a.redis.Health)
	}
}

func newDatabase(cfg *config.Config) (*database.DatabasePool, error) {
	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Warn
	}

	pool, err := database.NewDatabasePool(&database.PoolConfig{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.GetDatabaseDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := repositories.AutoMigrate(pool.DB); err != nil {
			pool.Close()
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		log.Println("Database schema migrated")
	}
	return pool, nil
}

func newRedis(cfg *config.Config) (*cache.RedisCache, error) {
	rc := cache.NewRedisCache(&cache.CacheConfig{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		KeyPrefix:    cache.DefaultCacheConfig().KeyPrefix,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Health(ctx); err != nil {
		rc.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Printf("Connected to Redis at %s", cfg.GetRedisAddr())
	return rc, nil
}

// warmupInterval is half the list TTL.
func warmupInterval(listTTL time.Duration) time.Duration {
	if listTTL <= 0 {
		return 5 * time.Minute
	}
	return listTTL / 2
}
