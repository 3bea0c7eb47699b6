package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"scheduling-api/core/cache"
	"scheduling-api/core/config"
	"scheduling-api/core/database"
	"scheduling-api/core/logger"
	"scheduling-api/core/middleware"
	"scheduling-api/core/queue"
	"scheduling-api/migrations"
	"scheduling-api/modules/auth"
	"scheduling-api/modules/event"
	"scheduling-api/modules/slot"
	"scheduling-api/modules/timetable"
)

// Run boots the whole service: config, database with migrations, redis,
// the HTTP API and the background regeneration worker. It blocks until a
// shutdown signal arrives.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.LogLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	if err := migrations.Run(db.SQLx().DB); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		logger.Warn("Server:Run:CacheUnavailable", "error", err)
		redisCache = nil
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	mw := middleware.NewMiddleware(cfg.Auth)
	e.Use(mw.RequestID())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	var cacheIface cache.Cache
	if redisCache != nil {
		cacheIface = redisCache
	}
	auth.Init(e, &db, cfg)
	timetableSvc := timetable.Init(e, &db, cacheIface, cfg)
	slot.Init(e, &db, cfg)
	event.Init(e, &db, cfg)

	worker := queue.NewServer(cfg)
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskSlotRegeneration, timetableSvc.HandleRegenerationTask)

	scheduler, err := queue.NewScheduler(cfg)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	if err := worker.Start(mux); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Run:HTTP", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("Server:Run:ShuttingDown")

	scheduler.Shutdown()
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return err
	}
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			logger.Warn("Server:Run:CacheClose", "error", err)
		}
	}
	return nil
}
