package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	httpapi "openshelf-backend/internal/api/http"
	"openshelf-backend/internal/config"
	"openshelf-backend/internal/logger"
	"openshelf-backend/internal/repository/postgres"
	"openshelf-backend/internal/security"
	"openshelf-backend/internal/service"
	"openshelf-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting OpenShelf Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Storage
	logger.Info("Using local storage", "upload_dir", cfg.Storage.UploadDir)
	localStore, err := storage.NewLocalStorage(cfg.Storage.UploadDir, cfg.Storage.BaseURL)
	if err != nil {
		logger.Error("Failed to initialize local storage", "error", err)
		log.Fatalf("Failed to initialize local storage: %v", err)
	}

	// Initialize Services
	emailSvc := service.NewEmailService(&cfg.SendGrid)
	desk := service.NewHoldDesk(
		store.CopyRepository,
		store.MaterialRepository,
		store.PatronRepository,
		store.ReservationRepository,
		store.NotificationRepository,
		emailSvc,
		cfg.Policy.PickupWindow(),
	)

	authSvc := service.NewAuthService(store.UserRepository, store.PatronRepository, tokenManager, &cfg.JWT)
	circSvc := service.NewCirculationService(store.LoanRepository, store.PatronRepository, desk, &cfg.Policy)
	fineSvc := service.NewFineService(store.FineRepository)
	resSvc := service.NewReservationService(store.ReservationRepository, store.PatronRepository, desk, &cfg.Policy)
	patronSvc := service.NewPatronService(store.PatronRepository, &cfg.Policy)
	catalogSvc := service.NewCatalogService(store.MaterialRepository, store.CopyRepository, store.BranchRepository, localStore)
	noteSvc := service.NewNotificationService(store.NotificationRepository)
	reportSvc := service.NewReportService(store.ReportRepository)
	batchSvc := service.NewBatchService(
		store.LoanRepository,
		store.PatronRepository,
		store.ReservationRepository,
		store.CopyRepository,
		store.MaterialRepository,
		store.NotificationRepository,
		emailSvc,
		desk,
	)

	// Build router
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:          authSvc,
		Circulation:   circSvc,
		Fines:         fineSvc,
		Reservations:  resSvc,
		Patrons:       patronSvc,
		Catalog:       catalogSvc,
		Notifications: noteSvc,
		Batch:         batchSvc,
		Reports:       reportSvc,
		Store:         localStore,
		Tokens:        tokenManager,
	})

	addr := cfg.GetServerAddress()
	logger.Info("HTTP server listening", "address", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Error("HTTP server stopped", "error", err)
		log.Fatalf("HTTP server stopped: %v", err)
	}
}
