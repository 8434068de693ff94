package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prsight/prsight/internal/handlers"
	"github.com/prsight/prsight/internal/middleware"
	"github.com/prsight/prsight/internal/repositories"
	"github.com/prsight/prsight/internal/services"
	"github.com/prsight/prsight/pkg/config"
	"github.com/prsight/prsight/pkg/database"
	"github.com/prsight/prsight/pkg/logger"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gin.SetMode(config.AppConfig.Server.Mode)
	logger.Init()

	// Initialize database
	if err := database.Init(config.AppConfig.Database.Path); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Initialize dependencies
	pullRequestRepo := repositories.NewPullRequestRepository(database.DB)
	reviewRepo := repositories.NewReviewRepository(database.DB)

	githubService := services.NewGitHubService()
	analyzerService := services.NewAnalyzerService(config.AppConfig.Reviewer.APIKey, config.AppConfig.Reviewer.Model)
	analysisService := services.NewAnalysisService(githubService, analyzerService, pullRequestRepo, reviewRepo)
	reviewService := services.NewReviewService(reviewRepo, pullRequestRepo)
	reportService := services.NewReportService()

	// Initialize router
	router := gin.Default()

	// Apply middleware
	router.Use(middleware.CORS(config.AppConfig.CORS.AllowedOrigins))

	// Setup routes
	setupRoutes(router, analysisService, reviewService, reportService)

	// Setup server
	server := &http.Server{
		Addr:         ":" + config.AppConfig.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(config.AppConfig.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(config.AppConfig.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", config.AppConfig.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

func setupRoutes(router *gin.Engine, analysisService *services.AnalysisService, reviewService *services.ReviewService, reportService *services.ReportService) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	analysisHandler := handlers.NewAnalysisHandler(analysisService)
	reviewHandler := handlers.NewReviewHandler(reviewService, reportService)

	api := router.Group("/api")
	{
		api.GET("/", healthHandler.Root)
		api.POST("/analyze-pr", analysisHandler.AnalyzePullRequest)
		api.GET("/reviews", reviewHandler.ListReviews)
		api.GET("/reviews/:id", reviewHandler.GetReview)
		api.GET("/reviews/:id/export", reviewHandler.ExportReview)
		api.GET("/pull-requests", reviewHandler.ListPullRequests)
		api.GET("/metrics", reviewHandler.QualityMetrics)
		api.GET("/security-issues", reviewHandler.SecurityIssues)
		api.GET("/dashboard-stats", reviewHandler.DashboardStats)
	}

	// Health check endpoint
	router.GET("/health", healthHandler.HealthCheck)
}
