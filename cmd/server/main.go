package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"caseflow/internal/auth"
	"caseflow/internal/config"
	"caseflow/internal/handler"
	"caseflow/internal/middleware"
	"caseflow/internal/repository/postgres"
	postgresCasefile "caseflow/internal/repository/postgres/casefile"
	"caseflow/internal/service/analyze"
	serviceCasefile "caseflow/internal/service/casefile"
	"caseflow/internal/service/classify"
	"caseflow/internal/service/notify"
	"caseflow/internal/service/recommend"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	logOutput := io.Writer(os.Stdout)
	if cfg.Environment == "prod" {
		if f, err := config.SetupLogFile("logs", 10); err == nil {
			defer f.Close()
			logOutput = io.MultiWriter(os.Stdout, f)
		} else {
			slog.Warn("log file setup failed, logging to stdout only", "error", err)
		}
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	docRepo := postgresCasefile.NewDocumentRepository(repoConfig)
	analysisRepo := postgresCasefile.NewAnalysisRepository(repoConfig)
	notificationRepo := postgres.NewNotificationRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Notice hub and notification service
	hub := notify.NewHub(logger)
	notificationService := notify.NewNotificationService(notificationRepo, hub, logger)

	// Classification rules
	rules, err := classify.LoadRules()
	if err != nil {
		log.Fatalf("Failed to load classification rules: %v", err)
	}
	classifier := classify.NewClassifier(rules)

	// Recommendation engine
	treeService := serviceCasefile.NewTreeService(docRepo, logger)
	recommendService := recommend.NewService(notificationService, hub, docRepo, logger)
	engine := recommend.NewEngine(docRepo, analysisRepo, treeService, classifier, recommendService, cfg.ScanInterval, logger)
	go engine.Run(ctx)

	// Collection services
	docService := serviceCasefile.NewDocumentService(docRepo, engine, logger)
	folderService := serviceCasefile.NewFolderService(docRepo, txManager, engine, logger)

	// AI analysis pipeline
	extractor := analyze.NewOpenAIExtractor(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	analysisService := analyze.NewAnalysisService(docRepo, analysisRepo, extractor, engine, logger)

	// Handlers
	docHandler := handler.NewDocumentHandler(docService, analysisService, logger)
	folderHandler := handler.NewFolderHandler(folderService, treeService, logger)
	recommendationHandler := handler.NewRecommendationHandler(engine, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", docHandler.HealthCheck)

	// Document routes
	mux.HandleFunc("POST /api/documents", docHandler.CreateDocument)
	mux.HandleFunc("GET /api/documents", docHandler.ListDocuments)
	mux.HandleFunc("GET /api/documents/{id}", docHandler.GetDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", docHandler.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", docHandler.DeleteDocument)
	mux.HandleFunc("POST /api/documents/{id}/analyze", docHandler.AnalyzeDocument)
	mux.HandleFunc("GET /api/documents/{id}/analysis", docHandler.GetAnalysis)

	// Folder management routes
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)
	mux.HandleFunc("POST /api/folders/merge", folderHandler.MergeFolders)
	mux.HandleFunc("GET /api/forms/search", folderHandler.SearchForms)
	mux.HandleFunc("GET /api/tree", folderHandler.GetTree)

	// Recommendation routes
	mux.HandleFunc("GET /api/recommendation", recommendationHandler.GetRecommendation)
	mux.HandleFunc("POST /api/recommendation/accept", recommendationHandler.AcceptRecommendation)
	mux.HandleFunc("POST /api/recommendation/dismiss", recommendationHandler.DismissRecommendation)

	// Notification routes
	mux.HandleFunc("GET /api/notifications", notificationHandler.ListNotifications)
	mux.HandleFunc("POST /api/notifications/{id}/read", notificationHandler.MarkRead)

	// Notice stream (WebSocket)
	mux.HandleFunc("GET /api/notices/stream", hub.HandleStream)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	httpHandler = middleware.AuthMiddleware(jwtVerifier)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived notice streams
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
