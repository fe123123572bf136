package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/salepoint/salepoint/internal/app"
	"github.com/salepoint/salepoint/internal/auth"
	"github.com/salepoint/salepoint/internal/catalog/categories"
	"github.com/salepoint/salepoint/internal/catalog/products"
	"github.com/salepoint/salepoint/internal/inventory"
	"github.com/salepoint/salepoint/internal/licensing"
	"github.com/salepoint/salepoint/internal/observability"
	"github.com/salepoint/salepoint/internal/pos"
	"github.com/salepoint/salepoint/internal/receipts"
	"github.com/salepoint/salepoint/internal/reporting"
	"github.com/salepoint/salepoint/internal/settings"
	"github.com/salepoint/salepoint/internal/shared"
	"github.com/salepoint/salepoint/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "salepoint_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	clock := shared.SystemClock{}
	auditLogger := shared.NewAuditLogger(dbpool)

	licenseRepo := licensing.NewRepository(dbpool)
	licenseService := licensing.NewService(licenseRepo, clock)
	licenseHandler := licensing.NewHandler(licenseService)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, auditLogger)
	authHandler := auth.NewHandler(logger, authService)

	productRepo := products.NewRepository(dbpool)
	productService := products.NewService(productRepo, licenseService)
	productHandler := products.NewHandler(logger, productService, licenseService)

	categoryRepo := categories.NewRepository(dbpool)
	categoryService := categories.NewService(categoryRepo, licenseService)
	categoryHandler := categories.NewHandler(logger, categoryService, licenseService)

	inventoryRepo := inventory.NewRepository(dbpool)
	inventoryService := inventory.NewService(inventoryRepo, auditLogger)
	inventoryHandler := inventory.NewHandler(logger, inventoryService)

	cartSessions := pos.NewCartSessions(redisClient, cfg.CartTTL)
	posRepo := pos.NewRepository(dbpool)
	posService := pos.NewService(posRepo, cartSessions, licenseService, auditLogger, clock, cfg.TaxRate)
	posHandler := pos.NewHandler(logger, posService)

	reportRepo := reporting.NewRepository(dbpool)
	reportService := reporting.NewService(reportRepo, clock)
	reportHandler := reporting.NewHandler(logger, reportService, productService, licenseService, clock)

	settingsRepo := settings.NewRepository(dbpool)
	settingsService := settings.NewService(settingsRepo, auditLogger, cfg.BusinessName, cfg.Currency)
	settingsHandler := settings.NewHandler(logger, settingsService)

	receiptService := receipts.NewService(posService, settingsService, clock)
	receiptHandler := receipts.NewHandler(logger, receiptService)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		Metrics:          metrics,
		AuthHandler:      authHandler,
		ProductHandler:   productHandler,
		CategoryHandler:  categoryHandler,
		InventoryHandler: inventoryHandler,
		POSHandler:       posHandler,
		ReportHandler:    reportHandler,
		ReceiptHandler:   receiptHandler,
		SettingsHandler:  settingsHandler,
		LicenseHandler:   licenseHandler,
		JobHandler:       jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
