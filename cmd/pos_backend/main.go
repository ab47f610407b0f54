package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kavindus/autoparts_pos_app/internal/cache"
	portssvc "github.com/kavindus/autoparts_pos_app/internal/core/ports/services"
	"github.com/kavindus/autoparts_pos_app/internal/core/services"
	"github.com/kavindus/autoparts_pos_app/internal/handlers"
	"github.com/kavindus/autoparts_pos_app/internal/middleware"
	"github.com/kavindus/autoparts_pos_app/internal/platform/config"
	"github.com/kavindus/autoparts_pos_app/internal/platform/database"
	"github.com/kavindus/autoparts_pos_app/internal/repositories/database/pgsql"
)

// @title AutoParts POS Backend API
// @version 1.0
// @description Transaction integrity core for the auto-parts POS backend.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Product cache; falls back to a no-op cache when redis is absent.
	productCache := newProductCache(cfg, logger)

	svcs := buildServices(dbPool, productCache)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, svcs)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildServices wires repositories into the service container.
func buildServices(dbPool *pgxpool.Pool, productCache cache.ProductCache) *portssvc.ServiceContainer {
	txManager := pgsql.NewTxManager(dbPool)
	productRepo := pgsql.NewProductRepository(dbPool, productCache)
	txnReadRepo := pgsql.NewTransactionReadRepository(dbPool)
	userRepo := pgsql.NewUserRepository(dbPool)

	sequenceSvc := services.NewSequenceService()
	ledger := services.NewInventoryLedger()

	return &portssvc.ServiceContainer{
		Auth:        services.NewAuthService(userRepo),
		Checkout:    services.NewCheckoutService(txManager, productRepo, sequenceSvc, ledger),
		Dispute:     services.NewDisputeService(txManager, productRepo, ledger),
		Settlement:  services.NewSettlementService(txManager),
		Transfer:    services.NewTransferService(txManager, productRepo),
		Transaction: services.NewTransactionService(txnReadRepo),
		Sequence:    sequenceSvc,
	}
}

// newProductCache connects to redis when configured and reachable.
func newProductCache(cfg *config.Config, logger *slog.Logger) cache.ProductCache {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, product caching disabled.")
		return cache.NoopProductCache{}
	}

	redisCache := cache.NewRedisProductCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redisCache.Ping(pingCtx); err != nil {
		logger.Warn("Redis unreachable, product caching disabled.", slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
		_ = redisCache.Close()
		return cache.NoopProductCache{}
	}

	logger.Info("Connected to redis product cache.", slog.String("addr", cfg.RedisAddr))
	return redisCache
}

// runMigrations applies all pending "up" migrations before the server starts.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	// Open a standard sql.DB connection for migrations using the pgx stdlib driver.
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
