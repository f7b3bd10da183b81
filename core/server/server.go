package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/RahulGiri5677/nookly-sub000/core/cache"
	"github.com/RahulGiri5677/nookly-sub000/core/config"
	"github.com/RahulGiri5677/nookly-sub000/core/constants"
	"github.com/RahulGiri5677/nookly-sub000/core/database"
	"github.com/RahulGiri5677/nookly-sub000/core/logger"
	"github.com/RahulGiri5677/nookly-sub000/core/middleware"
	"github.com/RahulGiri5677/nookly-sub000/core/queue"
	"github.com/RahulGiri5677/nookly-sub000/modules/attendance"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook"
	"github.com/RahulGiri5677/nookly-sub000/modules/notification"
)

// Run wires every module together and serves until interrupted.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Server.LogLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	c, err := cache.NewCache(cfg.Redis)
	if err != nil {
		return err
	}
	defer c.Close()

	q := queue.NewClient(cfg.Redis)
	defer q.Close()
	worker := queue.NewWorker(cfg.Redis)

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RequestID())

	e.GET("/health", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	mw := middleware.NewMiddleware(c)

	// Notification goes first: the nook module delivers through it.
	private := e.Group("/api/v1/private")
	notifSvc := notification.Init(private, db, mw, q, worker)
	nook.Init(e, db, c, mw, q, notifSvc)
	attendance.Init(e, db, c, mw, worker)

	if err := worker.Start(); err != nil {
		return fmt.Errorf("failed to start task worker: %w", err)
	}

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", err)
		}
	}()
	logger.Info("Server started", "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	return nil
}
