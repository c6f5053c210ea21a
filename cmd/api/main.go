package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scq-risk-api/config"
	"scq-risk-api/handlers"
	"scq-risk-api/middleware"
	"scq-risk-api/models"
	"scq-risk-api/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Model artifact is mandatory: refuse to serve without it.
	model, err := services.LoadRiskModel(cfg.Model.Path)
	if err != nil {
		log.Fatalf("failed to load risk model: %v", err)
	}
	log.Printf("risk model loaded: version=%s trees=%d", model.Version, len(model.Trees))

	db, err := gorm.Open(postgres.Open(cfg.Database.GetDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql db handle: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Evaluation{}); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	cache, err := services.NewCacheService(cfg.Redis)
	if err != nil {
		log.Printf("redis unavailable, caching and live feed disabled: %v", err)
	}
	defer cache.Close()

	store := services.NewEvaluationStore(db)
	authService := services.NewAuthService(cfg.JWT)

	authHandler := handlers.NewAuthHandler(db, authService)
	predictHandler := handlers.NewPredictHandler(model, model.Info())
	evalHandler := handlers.NewEvaluationHandler(store, model, cache)
	statsHandler := handlers.NewStatsHandler(store, cache)

	router := gin.Default()
	router.Use(middleware.SetupCORS(cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		if err := sqlDB.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN", "database": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "UP",
			"database": "connected",
			"cache":    cache.Available(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)

		v1.POST("/predict", predictHandler.Predict)
		v1.POST("/submit", evalHandler.Submit)
		v1.GET("/model/info", predictHandler.ModelInfo)
		v1.GET("/stats/public", statsHandler.GetPublicStats)

		protected := v1.Group("")
		protected.Use(middleware.RequireAuth(authService))
		{
			protected.GET("/evaluations", evalHandler.List)
			protected.GET("/evaluations/:id", evalHandler.GetByID)
			protected.GET("/stats", statsHandler.GetStats)
		}
	}

	router.GET("/ws/evaluations", handlers.EvaluationsWebSocket(cache, authService))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
