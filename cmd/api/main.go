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

	"github.com/Nahnamehran/study-planner/config"
	"github.com/Nahnamehran/study-planner/handlers"
	"github.com/Nahnamehran/study-planner/logging"
	"github.com/Nahnamehran/study-planner/middleware"
	"github.com/Nahnamehran/study-planner/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional in production
	_ = godotenv.Load()

	cfg, err := config.LoadFile(os.Getenv("STUDYPLAN_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("init services", zap.String("store", cfg.StoreBackend), zap.String("ai_provider", cfg.AIProvider))
	store, closeStore, err := services.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize store", zap.Error(err))
	}
	defer closeStore()

	completer, err := services.NewCompleter(ctx, cfg, logger)
	if err != nil {
		// generation requests will fail with a configuration error; everything else still works
		logger.Warn("ai provider unavailable", zap.Error(err))
	}

	cacheService := services.NewCacheService(cfg.CacheTTL, 2*cfg.CacheTTL)
	planner := services.NewPlannerService(completer, store, cacheService, services.GenerationParamsFrom(cfg), logger,
		services.WithCacheTTL(cfg.CacheTTL),
		services.WithInFlightTTL(cfg.AITimeout),
	)
	users := services.NewUserService(store, logger)

	planHandler := handlers.NewPlanHandler(planner, cfg.ReminderWindow, logger)
	userHandler := handlers.NewUserHandler(users)
	uploadFileHandler := handlers.NewUploadFileHandler(planner, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gin.Recovery())

	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
				"time":   time.Now(),
			})
		})

		api.POST("/register", userHandler.Register)
		api.GET("/users/:userId", userHandler.GetUser)

		api.POST("/plan", planHandler.GeneratePlan)
		api.POST("/plans/import", uploadFileHandler.ImportPlan)
		api.GET("/plans/:id", planHandler.GetPlan)
		api.POST("/plans/:id/toggle", planHandler.TogglePlanBlock)
		api.GET("/plans/:id/reminders", planHandler.GetReminders)
		api.GET("/plans/:id/export", planHandler.ExportPlan)
		api.GET("/users/:userId/plans", planHandler.ListPlans)

		api.POST("/cache/invalidate", planHandler.InvalidateCache)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}
	go func() {
		logger.Info("starting server", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
