package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"color-profile-backend/internal/config"
	"color-profile-backend/internal/database"
	"color-profile-backend/internal/detect"
	"color-profile-backend/internal/handlers"
	"color-profile-backend/internal/insight"
	"color-profile-backend/internal/middleware"
	"color-profile-backend/internal/realtime"
	"color-profile-backend/internal/services"
	"color-profile-backend/internal/session"
	"color-profile-backend/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	// Run migrations
	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}
	if err := migrator.Run(); err != nil {
		migrator.Close()
		log.Fatalf("Migration failed: %v", err)
	}
	migrator.Close()
	log.Println("Migrations completed successfully")

	// Database client
	dbClient, err := database.NewClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database client: %v", err)
	}
	defer dbClient.Close()

	// External clients
	detectClient := detect.NewClient(cfg.FaceAPIBaseURL, cfg.FaceAPIKey)
	insightClient := insight.NewClient(cfg.InsightAPIBaseURL, cfg.InsightAPIKey)

	storageClient, err := storage.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}

	realtimeClient, err := realtime.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey)
	if err != nil {
		log.Fatalf("Failed to initialize realtime client: %v", err)
	}

	// Services
	sessionService := session.NewService(dbClient, cfg.SessionTTL)
	orchestrator := services.NewOrchestrator(dbClient, dbClient, storageClient, insightClient, realtimeClient)

	// Handlers
	sessionsHandler := handlers.NewSessionsHandler(sessionService)
	selfieHandler := handlers.NewSelfieHandler(sessionService, detectClient, storageClient)
	questionnaireHandler := handlers.NewQuestionnaireHandler(sessionService)
	analyzeHandler := handlers.NewAnalyzeHandler(orchestrator)
	analysesHandler := handlers.NewAnalysesHandler(dbClient)
	webhookHandler := handlers.NewWebhookHandler(cfg, sessionService)

	// Setup router
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	// API routes; sessions are purchasable anonymously, so auth is optional
	api := router.Group("/api/v1")
	api.Use(middleware.OptionalAuthMiddleware(cfg))

	api.POST("/sessions", sessionsHandler.CreateSession)
	api.POST("/sessions/:session_id/selfie", selfieHandler.Submit)
	api.POST("/sessions/:session_id/questionnaire", questionnaireHandler.Submit)
	api.POST("/sessions/:session_id/analyze", analyzeHandler.Start)
	api.GET("/sessions/:session_id/status", sessionsHandler.GetStatus)
	api.GET("/analyses/:analysis_id", analysesHandler.Get)

	// Webhook (no user auth, uses shared token)
	router.POST("/api/v1/webhooks/payment", webhookHandler.HandlePaymentWebhook)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
