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

	"folio/internal/auth"
	"folio/internal/config"
	"folio/internal/events"
	"folio/internal/handler"
	"folio/internal/middleware"
	"folio/internal/random"
	"folio/internal/repository/postgres"
	"folio/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logOutput := io.Writer(os.Stdout)
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Printf("warning: file logging disabled: %v", err)
		} else {
			defer logFile.Close()
			logOutput = io.MultiWriter(os.Stdout, logFile)
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

	// Create JWT verifier
	verifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer verifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	pageRepo := postgres.NewPageRepository(repoConfig)
	requestRepo := postgres.NewRequestRepository(repoConfig)
	voteRepo := postgres.NewVoteRepository(repoConfig)
	accountRepo := postgres.NewAccountRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Event bus and entropy source for treasury distribution
	bus := events.NewBus()
	entropy, err := random.NewSeededSource()
	if err != nil {
		log.Fatalf("Failed to seed entropy source: %v", err)
	}

	// Create services
	pageService := service.NewPageService(pageRepo, txManager, bus, logger)
	updateService := service.NewUpdateService(pageRepo, requestRepo, txManager, bus, logger)
	feeService := service.NewFeeService(pageRepo, requestRepo, accountRepo, txManager, entropy, logger)
	ownershipService := service.NewOwnershipService(pageRepo, txManager, logger)
	voteService := service.NewVoteService(pageRepo, voteRepo, txManager, bus, logger)
	accountService := service.NewAccountService(accountRepo, logger)

	// Create handlers
	pageHandler := handler.NewPageHandler(pageService, logger)
	requestHandler := handler.NewRequestHandler(updateService, logger)
	feeHandler := handler.NewFeeHandler(feeService, logger)
	ownershipHandler := handler.NewOwnershipHandler(ownershipService, logger)
	voteHandler := handler.NewVoteHandler(voteService, logger)
	accountHandler := handler.NewAccountHandler(accountService, logger)
	eventsHandler := handler.NewEventsHandler(bus, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", pageHandler.HealthCheck)

	// Page routes
	mux.HandleFunc("POST /api/pages", pageHandler.CreatePage)
	mux.HandleFunc("GET /api/pages", pageHandler.ListPages)
	mux.HandleFunc("GET /api/pages/{id}", pageHandler.GetPage)

	// Update request routes
	mux.HandleFunc("POST /api/pages/{id}/requests", requestHandler.RequestUpdate)
	mux.HandleFunc("GET /api/pages/{id}/requests", requestHandler.ListRequests)
	mux.HandleFunc("GET /api/pages/{id}/requests/{rid}", requestHandler.GetRequest)
	mux.HandleFunc("POST /api/pages/{id}/requests/{rid}/approvals", requestHandler.ApproveRequest)

	// Payout routes
	mux.HandleFunc("POST /api/pages/{id}/withdrawals", feeHandler.Withdraw)
	mux.HandleFunc("POST /api/pages/{id}/distributions", feeHandler.DistributeTreasury)

	// Ownership routes
	mux.HandleFunc("PUT /api/pages/{id}/ownership", ownershipHandler.ChangeOwnership)

	// Vote routes
	mux.HandleFunc("POST /api/pages/{id}/votes", voteHandler.Vote)

	// Account routes
	mux.HandleFunc("GET /api/accounts/me", accountHandler.GetMyBalance)

	// Event stream
	mux.HandleFunc("GET /api/events", eventsHandler.Stream)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS -> Recovery -> Auth -> Routes
	root = middleware.Auth(verifier)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
