package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	kingpin "github.com/alecthomas/kingpin/v2"
	"github.com/gin-gonic/gin"

	"github.com/hashfx/techblog/cmd/blog/router"
	"github.com/hashfx/techblog/internal/logger"
	"github.com/hashfx/techblog/config"
)

// @title           techblog API
// @version         1.0
// @description     Read-only JSON view of the blog posts
// @BasePath        /api/v1
func main() {
	var (
		configFile = kingpin.Flag("config", "Path to config.yaml (default: search upward from the working directory)").Short('c').Envar("TECHBLOG_CONFIG").String()
		addrFlag   = kingpin.Flag("addr", "Listen address, overrides server.addr").Envar("TECHBLOG_ADDR").String()
		logLevel   = kingpin.Flag("log-level", "Log level, overrides logging.level and LOG_LEVEL").Envar("TECHBLOG_LOG_LEVEL").Enum("", "debug", "info", "warn", "error")
	)
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.ErrorWithFields("failed to load config", logger.Fields{"path": *configFile, "error": err.Error()})
		os.Exit(1)
	}

	level := cfg.LogLevel()
	if *logLevel != "" {
		level = *logLevel
	}
	logger.Init(level)
	if level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	app, err := build(ctx, cfg)
	cancel()
	if err != nil {
		logger.ErrorWithFields("failed to start", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
	defer app.close()

	engine, err := router.New(app.deps)
	if err != nil {
		logger.ErrorWithFields("failed to build router", logger.Fields{"error": err.Error()})
		app.close()
		os.Exit(1)
	}

	addr := cfg.Server.Addr
	if *addrFlag != "" {
		addr = *addrFlag
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           router.WithCORS(engine, cfg.Server.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.InfoWithFields("server listening", logger.Fields{
			"addr":     addr,
			"driver":   cfg.Database.Driver,
			"mail":     cfg.Mail.Mode,
			"uploads":  cfg.Uploads.Backend,
			"per_page": cfg.Params.NoOfPosts,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		logger.ErrorWithFields("server failed", logger.Fields{"error": err.Error()})
		app.close()
		os.Exit(1)
	case <-quit:
	}
	logger.Log.Info("shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithFields("server forced to shutdown", logger.Fields{"error": err.Error()})
	}
	logger.Log.Info("server stopped")
}
