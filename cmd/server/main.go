package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"circletrust/backend/internal/app"
	"circletrust/backend/internal/config"
	"circletrust/backend/internal/handler"
	"circletrust/backend/internal/logging"
	"circletrust/backend/internal/metrics"
	"circletrust/backend/internal/profile"
	"circletrust/backend/internal/snapshot"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	// Swagger imports
	_ "circletrust/backend/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	if _, err := config.LoadConfig(); err != nil {
		log.Fatalf("config: %v", err)
	}
}

// @title           Circle Trust API
// @version         1.0
// @description     Tiered trust circles, peoples-of-peoples discovery and trust scores.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.AppConfig
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	collector := metrics.New()

	orch, err := app.NewOrchestrator(cfg, logger, collector)
	if err != nil {
		logger.Fatal("open edge store", zap.String("driver", cfg.DatabaseDriver), zap.Error(err))
	}
	defer orch.Close()
	jobs := snapshot.NewJobRegistry(orch)

	var profiles handler.ProfileHydrator
	if cfg.ProfileServiceURL != "" {
		pcfg := profile.DefaultConfig(cfg.ProfileServiceURL)
		pcfg.Timeout = cfg.ProfileTimeout
		profiles = profile.NewClient(pcfg, logger)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), logging.GinLogger(logger, collector))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	router.GET("/metrics", gin.WrapH(collector.Handler()))

	handler.RegisterRoutes(router, handler.NewCircleHandler(orch, jobs, profiles, logger), cfg.JWTSecret)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("driver", cfg.DatabaseDriver),
			zap.String("invalidation", cfg.InvalidationMode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}
