package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"openshelf-backend/internal/config"
	"openshelf-backend/internal/jobs"
	"openshelf-backend/internal/logger"
	"openshelf-backend/internal/repository/postgres"
	"openshelf-backend/internal/scheduler"
	"openshelf-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'mark-overdue-loans', 'all-nightly')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting OpenShelf Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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
	reportSvc := service.NewReportService(store.ReportRepository)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(batchSvc, reportSvc, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "mark-overdue-loans":
		jobRunner.MarkOverdueLoans()
	case "send-overdue-reminders":
		jobRunner.SendOverdueReminders()
	case "expire-reservations":
		jobRunner.ExpireReservations()
	case "expire-memberships":
		jobRunner.ExpireMemberships()
	case "daily-report":
		jobRunner.DailyReport()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - mark-overdue-loans\n")
		fmt.Printf("  - send-overdue-reminders\n")
		fmt.Printf("  - expire-reservations\n")
		fmt.Printf("  - expire-memberships\n")
		fmt.Printf("  - daily-report\n")
		fmt.Printf("  - all-nightly\n")
		os.Exit(1)
	}
}
