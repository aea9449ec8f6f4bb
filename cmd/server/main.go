package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sudo-init-do/bazaar/internal/admin"
	"github.com/sudo-init-do/bazaar/internal/catalog"
	"github.com/sudo-init-do/bazaar/internal/catalog/seed"
	"github.com/sudo-init-do/bazaar/internal/config"
	"github.com/sudo-init-do/bazaar/internal/db"
	"github.com/sudo-init-do/bazaar/internal/jobs"
	"github.com/sudo-init-do/bazaar/internal/live"
	"github.com/sudo-init-do/bazaar/internal/logx"
	mware "github.com/sudo-init-do/bazaar/internal/middleware"
	"github.com/sudo-init-do/bazaar/internal/notepad"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load config")
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Environment()})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catalog source
	var source catalog.Source = seed.Source{}
	if cfg.Catalog.Source == "postgres" {
		db.Init(cfg.Database)
		defer db.Conn.Close()
		source = db.CatalogSource{Pool: db.Conn}
	}
	registry, err := catalog.LoadRegistry(ctx, source)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load catalog")
	}

	// Notepad storage
	var rdb *redis.Client
	var notes notepad.Repository = notepad.NewMemoryRepository()
	if cfg.Redis.Enabled() {
		if rdb, err = cfg.Redis.NewClient(ctx); err != nil {
			logx.Fatal().Err(err).Msg("unable to connect to redis")
		}
		defer rdb.Close()
		notes = notepad.NewRedisRepository(rdb, 30*24*time.Hour)
	} else {
		logx.Warn().Msg("REDIS_URL not set, notepad entries are kept in memory")
	}

	shuffler := jobs.NewShuffler(registry)
	var scheduler jobs.Scheduler = &jobs.TickerScheduler{Shuffler: shuffler, Interval: cfg.Catalog.ShuffleInterval}
	if cfg.Catalog.ShuffleBackend == "asynq" {
		if scheduler, err = jobs.NewAsynqScheduler(shuffler, cfg.Catalog.ShuffleInterval, cfg.Redis.URL); err != nil {
			logx.Fatal().Err(err).Msg("failed to configure asynq")
		}
	}

	hub := live.NewHub(registry)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(mware.RequestLogger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.CORSOrigins}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		rctx := c.Request().Context()
		if cfg.Catalog.Source == "postgres" && !db.Ready(rctx) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db unreachable"})
		}
		if rdb != nil && rdb.Ping(rctx).Err() != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "redis unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Public routes
	catalogGroup := e.Group("/catalog")
	(&catalog.Handler{
		Registry:     registry,
		DefaultLimit: cfg.Catalog.DefaultLimit,
		MaxLimit:     cfg.Catalog.MaxLimit,
	}).Register(catalogGroup)
	catalogGroup.GET("/:vertical/live", hub.Serve)

	// Notepad writes are rate limited per IP
	notepadGroup := e.Group("/notepad")
	notepadGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rateLimit(cfg.RateLimit))))
	(&notepad.Handler{Service: notepad.NewService(notes)}).Register(notepadGroup)

	// Admin routes
	if cfg.Auth.JWTSecret == "" {
		logx.Warn().Msg("JWT_SECRET not set, admin routes are disabled")
	} else {
		adminGroup := e.Group("/admin")
		adminGroup.Use(mware.JWT([]byte(cfg.Auth.JWTSecret)))
		(&admin.Handler{
			Registry:  registry,
			Shuffler:  shuffler,
			Source:    source,
			Listeners: hub.Listeners,
		}).Register(adminGroup)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return scheduler.Run(gctx)
	})
	g.Go(func() error {
		logx.Info().Str("port", cfg.Port).Str("source", cfg.Catalog.Source).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logx.Error().Err(err).Msg("server stopped with error")
	}
	logx.Info().Msg("server stopped")
}

func rateLimit(perSecond int) rate.Limit {
	if perSecond <= 0 {
		return 20
	}
	return rate.Limit(perSecond)
}
