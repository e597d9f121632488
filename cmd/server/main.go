package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/galactusaurus/roster-opt/internal/api"
	"github.com/galactusaurus/roster-opt/internal/config"
	"github.com/galactusaurus/roster-opt/internal/ws"
	"github.com/galactusaurus/roster-opt/pkg/cache"
	"github.com/galactusaurus/roster-opt/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	structuredLogger := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	logger.WithService("roster-opt").WithFields(logrus.Fields{
		"environment": cfg.Env,
		"port":        cfg.Port,
	}).Info("Starting lineup optimization service")

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Redis is optional: without it the service still optimizes, it just
	// skips batch caching.
	var redisClient *redis.Client
	var lineupCache *cache.LineupCache
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.WithService("roster-opt").Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.WithService("roster-opt").Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		lineupCache = cache.NewLineupCache(redisClient, structuredLogger)
	}

	wsHub := ws.NewHub(structuredLogger)
	go wsHub.Run()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	optimizationHandler := api.NewOptimizationHandler(lineupCache, wsHub, cfg, structuredLogger)
	healthHandler := api.NewHealthHandler(redisClient)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/optimize", optimizationHandler.OptimizeLineups)
		apiV1.POST("/optimize/validate", optimizationHandler.ValidateRequest)
	}

	router.GET("/ws/progress", wsHub.HandleWebSocket)
	router.GET("/health", healthHandler.Health)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.WithService("roster-opt").WithField("port", cfg.Port).Info("Service started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithService("roster-opt").Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.WithService("roster-opt").Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithService("roster-opt").Fatalf("Forced to shutdown: %v", err)
	}

	logger.WithService("roster-opt").Info("Service exited")
}
