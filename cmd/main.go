package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loan-ledger/internal/api"
	mw "loan-ledger/internal/api/middleware"
	"loan-ledger/internal/batch"
	"loan-ledger/internal/config"
	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/importer"
	"loan-ledger/internal/event"
	"loan-ledger/internal/infrastructure/database/migrations"
	"loan-ledger/internal/infrastructure/database/postgres"
	"loan-ledger/internal/infrastructure/logging"
	"loan-ledger/internal/infrastructure/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	defaultSweepSchedule = "*/30 * * * *"
	sweepJobTimeout      = 5 * time.Minute
	rabbitMQRetryCount   = 5
)

// @title Loan Ledger API
// @version 1.0
// @description Loan customer records, comments and spreadsheet import.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, logger := initializeApp()

	dbPool := initializeDatabase(cfg, logger)
	defer closeDatabase(dbPool, logger)

	if cfg.Database.AutoMigrate {
		runMigrations(dbPool, logger)
	}

	publisher, closePublisher := initializePublisher(cfg, logger)
	defer closePublisher()

	customerService := initializeServices(dbPool, publisher, logger)
	staging := initializeStaging(cfg, logger)

	sweepJob := batch.NewStagingSweepJob(staging, cfg.Upload.MaxFileAge, logger)
	cronScheduler := startBatchJobs(cfg, logger, sweepJob)

	rateLimiter := mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger)
	defer rateLimiter.Stop()

	router := api.SetupRouter(api.Dependencies{
		CustomerService: customerService,
		Importer:        importer.NewImporter(customerService, logger),
		Staging:         staging,
		DB:              dbPool,
		RateLimiter:     rateLimiter,
	}, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed())

	return cfg, logger
}

func initializeDatabase(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	return dbPool
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

func runMigrations(dbPool *pgxpool.Pool, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := migrations.Run(ctx, dbPool, migrations.Up, logger); err != nil {
		logger.Error("Failed to apply database migrations", "error", err)
		dbPool.Close()
		os.Exit(1)
	}
}

// initializePublisher connects to RabbitMQ when enabled. Without a broker
// customer events are dropped rather than failing requests.
func initializePublisher(cfg *config.Config, logger *slog.Logger) (event.EventPublisher, func()) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("RabbitMQ disabled, customer events will not be published")
		return event.NewNoopPublisher(logger), func() {}
	}

	conn, err := connectRabbitMQ(cfg.RabbitMQ.URL, logger)
	if err != nil {
		logger.Error("RabbitMQ unavailable, continuing without event publishing", slog.Any("error", err))
		return event.NewNoopPublisher(logger), func() {}
	}

	publisher, err := event.NewRabbitMQEventPublisher(conn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		logger.Error("Failed to set up RabbitMQ publisher, continuing without event publishing", slog.Any("error", err))
		_ = conn.Close()
		return event.NewNoopPublisher(logger), func() {}
	}

	return publisher, func() {
		logger.Info("Closing RabbitMQ connection...")
		if err := conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			logger.Warn("Failed to close RabbitMQ connection", slog.Any("error", err))
		}
	}
}

func connectRabbitMQ(uri string, logger *slog.Logger) (*amqp.Connection, error) {
	if uri == "" {
		return nil, errors.New("RabbitMQ URL is not configured")
	}

	var conn *amqp.Connection
	var err error
	for i := 1; i <= rabbitMQRetryCount; i++ {
		conn, err = amqp.Dial(uri)
		if err == nil {
			logger.Info("Successfully connected to RabbitMQ")

			go func() {
				blockChan := conn.NotifyBlocked(make(chan amqp.Blocking, 1))
				closeChan := conn.NotifyClose(make(chan *amqp.Error, 1))

				select {
				case b := <-blockChan:
					logger.Warn("RabbitMQ Connection Blocked", "reason", b.Reason)
				case e := <-closeChan:
					if e != nil {
						logger.Error("RabbitMQ Connection Closed", slog.Any("error", e))
					}
				}
			}()

			return conn, nil
		}
		logger.Warn("Failed to connect to RabbitMQ, retrying...",
			slog.Int("attempt", i),
			slog.Int("max_attempts", rabbitMQRetryCount),
			slog.Any("error", err),
		)
		time.Sleep(time.Duration(i*2) * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", rabbitMQRetryCount, err)
}

func initializeServices(dbPool *pgxpool.Pool, publisher event.EventPublisher, logger *slog.Logger) customer.CustomerService {
	logger.Info("Initializing application components...")
	customerRepo := postgres.NewCustomerRepository(dbPool, logger)
	commentRepo := postgres.NewCommentRepository(dbPool, logger)
	return customer.NewCustomerService(customerRepo, commentRepo, publisher, logger)
}

func initializeStaging(cfg *config.Config, logger *slog.Logger) *storage.Staging {
	staging, err := storage.NewStaging(afero.NewOsFs(), cfg.Upload.StagingDir, logger)
	if err != nil {
		logger.Error("Failed to prepare upload staging directory", "dir", cfg.Upload.StagingDir, "error", err)
		os.Exit(1)
	}
	return staging
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	var triggerReason string
	select {
	case sig := <-shutdownChan:
		triggerReason = "signal: " + sig.String()
		logger.Info("Shutdown signal received.", "signal", sig.String())
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
		}
		triggerReason = "server exited"
	}

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	if triggerReason != "server exited" {
		select {
		case err := <-serverErrors:
			if err != nil {
				logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
			}
		case <-time.After(5 * time.Second):
			logger.Warn("Timed out waiting for server goroutine confirmation.")
		}
	}

	logger.Info("Application shutdown process complete.")
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, sweepJob *batch.StagingSweepJob) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	scheduleSpec := cfg.Upload.SweepSchedule
	if scheduleSpec == "" {
		scheduleSpec = defaultSweepSchedule
		logger.Warn("Staging sweep schedule not configured, using default", "schedule", scheduleSpec)
	}

	jobID, err := c.AddJob(scheduleSpec, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", "StagingSweep")

		ctx, cancel := context.WithTimeout(context.Background(), sweepJobTimeout)
		defer cancel()

		if runErr := sweepJob.Run(ctx); runErr != nil {
			jobLogger.Error("Staging sweep job finished with error", slog.Any("error", runErr))
		}
	}))
	if err != nil {
		logger.Error("Failed to schedule staging sweep job", "schedule", scheduleSpec, slog.Any("error", err))
	} else {
		logger.Info("Scheduled staging sweep job", "schedule", scheduleSpec, "job_id", jobID)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}
