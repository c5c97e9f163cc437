// Package app assembles the HTTP service: config, logging, metrics, storage,
// the middleware chain, routes and background jobs.
package app

import (
	contextPkg "context"
	"fmt"
	"os"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ridgeline/mediavault/pkg/configs"
	"github.com/ridgeline/mediavault/pkg/internal/jobs"
	"github.com/ridgeline/mediavault/pkg/internal/router"
	"github.com/ridgeline/mediavault/pkg/internal/storage"
	"github.com/ridgeline/mediavault/pkg/log"
	"github.com/ridgeline/mediavault/pkg/metrics"
	"github.com/ridgeline/mediavault/pkg/middleware"
	"github.com/ridgeline/mediavault/pkg/scheduler"
)

type App struct {
	Engine  *gin.Engine
	config  *configs.AppConfig
	manager *storage.Manager
	sched   *scheduler.Scheduler
}

// NewApp boots the service. Initialization failures are fatal: a media
// service without its store or config has nothing useful to serve.
func NewApp(configPath string) *App {
	ctx := contextPkg.Background()

	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	log.Init()

	config := configs.GetConfig()

	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(config.Server),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.PrometheusMiddleware(),
		middleware.RateLimitMiddleware(config.RateLimit),
		middleware.CircuitBreakerMiddleware(config.CircuitBreaker),
		middleware.StorageMiddleware(manager),
		middleware.AuthMiddleware(config.Auth),
	)

	root := engine.Group("")
	router.RegisterHealthRoutes(root)
	router.RegisterImagesRoutes(root)

	metrics.RegisterEndpoint(config.Metrics, engine)

	// Local-disk assets are served straight from the engine under the
	// public prefix.
	if config.Media.Backend == configs.BackendLocal {
		engine.Static(config.Media.PublicPrefix, config.Media.LocalRoot)
	}

	sched, err := scheduler.NewScheduler()
	if err != nil {
		fmt.Printf("Error creating scheduler: %v\n", err)
		os.Exit(1)
	}

	if err := jobs.RegisterAll(ctx, sched, manager); err != nil {
		fmt.Printf("Error registering jobs: %v\n", err)
		os.Exit(1)
	}

	sched.Start()

	return &App{
		Engine:  engine,
		config:  config,
		manager: manager,
		sched:   sched,
	}
}

// Run serves HTTP until the listener fails or the process is stopped.
func (a *App) Run() error {
	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	log.Logger().Info().Str("addr", addr).Msg("mediavault listening")

	return a.Engine.Run(addr)
}

// Shutdown releases background resources.
func (a *App) Shutdown(ctx contextPkg.Context) error {
	if err := a.sched.Shutdown(); err != nil {
		log.Logger().Warn().Err(err).Msg("scheduler shutdown failed")
	}

	return a.manager.Close(ctx)
}
