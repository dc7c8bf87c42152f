package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tour-guide-api/internal/audit"
	"github.com/BruksfildServices01/tour-guide-api/internal/cache"
	"github.com/BruksfildServices01/tour-guide-api/internal/config"
	dbpkg "github.com/BruksfildServices01/tour-guide-api/internal/db"
	"github.com/BruksfildServices01/tour-guide-api/internal/logger"
	"github.com/BruksfildServices01/tour-guide-api/internal/middleware"
	"github.com/BruksfildServices01/tour-guide-api/internal/routes"
	"github.com/BruksfildServices01/tour-guide-api/internal/storage"
	"github.com/BruksfildServices01/tour-guide-api/internal/timezone"
	"github.com/BruksfildServices01/tour-guide-api/internal/validators"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	if cfg.JWTSecret == "changeme" {
		if cfg.IsProduction() {
			log.Fatal("JWT_SECRET must be set in production")
		}
		log.Warn("using the default JWT secret")
	}
	if !timezone.IsValid(cfg.Timezone) {
		log.Warn("unknown TIMEZONE, falling back to UTC", zap.String("timezone", cfg.Timezone))
	}

	db := dbpkg.NewDB(cfg, log)

	rdb, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("redis unavailable", zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()

	store, err := storage.New(cfg.Upload, log)
	if err != nil {
		log.Fatal("failed to init avatar storage", zap.Error(err))
	}

	if err := validators.Register(); err != nil {
		log.Fatal("failed to register validators", zap.Error(err))
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := routes.NewEngine(cfg)
	if err != nil {
		log.Fatal("invalid trusted proxies", zap.Error(err))
	}
	r.Use(
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSMiddleware(cfg.ClientURL),
	)

	routes.RegisterRoutes(r, routes.Deps{
		DB:     db,
		Config: cfg,
		Redis:  rdb,
		Store:  store,
		Audit:  auditDispatcher,
		Log:    log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	// in-flight requests are done, flush what they queued
	auditDispatcher.Close()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
