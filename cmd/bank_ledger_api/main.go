package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/bank_ledger_api/internal/core/duplicates"
	portsrepo "github.com/SscSPs/bank_ledger_api/internal/core/ports/repositories"
	"github.com/SscSPs/bank_ledger_api/internal/core/services"
	"github.com/SscSPs/bank_ledger_api/internal/handlers"
	"github.com/SscSPs/bank_ledger_api/internal/middleware"
	"github.com/SscSPs/bank_ledger_api/internal/platform/config"
	"github.com/SscSPs/bank_ledger_api/internal/repositories/database/inmemory"
	"github.com/SscSPs/bank_ledger_api/internal/repositories/database/pgsql"
	"github.com/SscSPs/bank_ledger_api/internal/repositories/database/sqlite"
	"github.com/SscSPs/bank_ledger_api/internal/utils"
	"github.com/SscSPs/bank_ledger_api/pkg/database"
	"github.com/gin-gonic/gin"
)

// @title Bank Ledger API
// @version 1.0
// @description Banks, accounts and transactions, with duplicate transaction detection.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, err := openStorage(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer repos.Close()

	engine := duplicates.NewEngine(cfg.DuplicateWindow)
	logger.Info("Duplicate detection configured", slog.Duration("window", engine.Window()))

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	serviceContainer := services.NewServiceContainer(repos, engine, posthogClient)

	rateLimiter, err := middleware.NewLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.PosthogMiddleware(posthogClient),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shut down", slog.String("error", err.Error()))
	}
}

// openStorage migrates and opens the configured backend.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Info("Using in-memory storage")
		return inmemory.NewRepositoryProvider(inmemory.NewStore()), nil

	case config.StorageSQLite:
		logger.Info("Running database migrations...", slog.String("dir", cfg.MigrationsDir()))
		applied, err := database.RunSQLiteMigrations(cfg.SQLitePath, cfg.MigrationsDir())
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		logMigrations(logger, applied)

		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		logger.Info("SQLite database opened", slog.String("path", cfg.SQLitePath))
		return sqlite.NewRepositoryProvider(db), nil

	default:
		logger.Info("Running database migrations...", slog.String("dir", cfg.MigrationsDir()))
		applied, err := database.RunPostgresMigrations(cfg.DatabaseURL, cfg.MigrationsDir())
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		logMigrations(logger, applied)

		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(dbPool), nil
	}
}

func logMigrations(logger *slog.Logger, applied bool) {
	if applied {
		logger.Info("Database migrations applied successfully.")
		return
	}
	logger.Info("No new migrations to apply.")
}
