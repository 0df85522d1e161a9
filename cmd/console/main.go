package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erp/catalogconsole/internal/application/console"
	"github.com/erp/catalogconsole/internal/infrastructure/config"
	"github.com/erp/catalogconsole/internal/infrastructure/logger"
	"github.com/erp/catalogconsole/internal/infrastructure/remote"
	"github.com/erp/catalogconsole/internal/interfaces/http/handler"
	"github.com/erp/catalogconsole/internal/interfaces/http/router"
	"github.com/erp/catalogconsole/internal/interfaces/http/session"
	"github.com/erp/catalogconsole/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.ForEnvironment(cfg.App.Env, logger.Config{
		Name:       cfg.App.Name,
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	}))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		logger.Sync(log)
	}()

	log.Info("Starting catalog console",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("remote", cfg.Remote.BaseURL),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	remoteMetrics, err := remote.NewMetrics(registry)
	if err != nil {
		log.Fatal("Failed to register metrics", zap.Error(err))
	}

	// Remote store client, shared by every session
	client, err := remote.NewClient(remote.Config{
		BaseURL:        cfg.Remote.BaseURL,
		ProductsPath:   cfg.Remote.ProductsPath,
		CategoriesPath: cfg.Remote.CategoriesPath,
		Timeout:        cfg.Remote.Timeout,
		Headers:        cfg.Remote.Headers,
	},
		remote.WithLogger(log.Named("remote")),
		remote.WithMetrics(remoteMetrics),
	)
	if err != nil {
		log.Fatal("Failed to create remote client", zap.Error(err))
	}

	// One controller per page session
	sessions := session.NewStore(
		func(n console.Notifier) *console.Controller {
			return console.NewController(client, n,
				console.WithDescriptionLimit(cfg.UI.DescriptionLimit),
				console.WithLogger(log.Named("console")),
			)
		},
		session.WithNoticeTTL(cfg.UI.NoticeTTL),
		session.WithIdleTimeout(cfg.UI.SessionIdleTimeout),
		session.WithSecureCookie(cfg.App.Env == "production"),
		session.WithLogger(log.Named("session")),
	)

	engine, err := view.NewEngine(view.WithLocale(cfg.UI.Locale))
	if err != nil {
		log.Fatal("Failed to load templates", zap.Error(err))
	}

	// Setup routes
	opts := []router.RouterOption{
		router.WithTrustedProxies(cfg.HTTP.TrustedProxies),
		router.WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, router.WithMetrics(cfg.Metrics.Path, registry))
	}
	r, err := router.NewRouter(log, opts...)
	if err != nil {
		log.Fatal("Failed to create router", zap.Error(err))
	}
	r.Register(handler.NewConsoleHandler(engine, sessions))
	r.Register(handler.NewHealthHandler(sessions))

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r.Setup(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sessions.Run(sweepCtx, time.Minute)

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
