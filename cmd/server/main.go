package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"docjays/internal/auth"
	"docjays/internal/config"
	"docjays/internal/handler"
	"docjays/internal/metrics"
	"docjays/internal/middleware"
	"docjays/internal/repository/postgres"
	revisionsvc "docjays/internal/service/revision"
	"docjays/internal/service/tools"
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

	// LOG_DIR mirrors logs to timestamped files in addition to stdout
	var logOut io.Writer = os.Stdout
	if dir := os.Getenv("LOG_DIR"); dir != "" {
		logFile, err := config.SetupLogFile(dir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Token verification is optional in dev; without it every request runs
	// as the configured dev user
	var jwtVerifier auth.JWTVerifier
	if cfg.JWKSURL != "" {
		var err error
		jwtVerifier, err = auth.NewJWTVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
	} else {
		logger.Warn("JWKS_URL not set, running without token verification")
	}

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	revisionRepo := postgres.NewRevisionRepository(repoConfig)
	documentRepo := postgres.NewDocumentRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Create the revision engine
	m := metrics.New()
	revisionService := revisionsvc.NewRevisionService(revisionRepo, documentRepo, txManager, m, logger)

	// Register engine operations as assistant tools
	toolRegistry := tools.NewToolRegistry()
	tools.RegisterRevisionTools(toolRegistry, revisionService)

	// Create handlers
	revisionHandler := handler.NewRevisionHandler(revisionService, logger)
	toolsHandler := handler.NewToolsHandler(toolRegistry, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check and metrics
	mux.HandleFunc("GET /health", revisionHandler.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Revision routes
	mux.HandleFunc("POST /api/revisions", revisionHandler.CreateRevision)
	mux.HandleFunc("GET /api/revisions/{id}", revisionHandler.GetRevision)
	mux.HandleFunc("GET /api/revisions/{id}/status", revisionHandler.GetRevisionStatus)
	mux.HandleFunc("POST /api/revisions/{id}/propose", revisionHandler.ProposeRevision)
	mux.HandleFunc("POST /api/revisions/{id}/approve", revisionHandler.ApproveRevision)
	mux.HandleFunc("POST /api/revisions/{id}/reject", revisionHandler.RejectRevision)
	mux.HandleFunc("POST /api/revisions/{id}/rebase", revisionHandler.RebaseRevision)

	// Document-scoped listing
	mux.HandleFunc("GET /api/documents/{id}/revisions", revisionHandler.ListRevisions)

	// Assistant tool protocol
	mux.HandleFunc("GET /api/tools", toolsHandler.ListTools)
	mux.HandleFunc("POST /api/tools/execute", toolsHandler.ExecuteTool)

	// Build middleware chain; applied in reverse order (they wrap each other)
	// Order: CORS → Metrics → Recovery → Auth → Routes
	var root http.Handler = mux
	root = middleware.Auth(jwtVerifier, cfg.DevUserID)(root)
	root = middleware.Recovery(logger)(root)
	root = middleware.Metrics(m)(root)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Source-Client"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Serve until interrupted, then drain in-flight requests
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-shutdown
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
