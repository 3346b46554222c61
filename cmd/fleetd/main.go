package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"

	"github.com/fmc-saas/fleet/internal/accounting/accounts"
	"github.com/fmc-saas/fleet/internal/accounting/journals"
	"github.com/fmc-saas/fleet/internal/accounting/refs"
	"github.com/fmc-saas/fleet/internal/app"
	"github.com/fmc-saas/fleet/internal/customers"
	"github.com/fmc-saas/fleet/internal/fleet/maintenance"
	"github.com/fmc-saas/fleet/internal/fleet/rentals"
	"github.com/fmc-saas/fleet/internal/fleet/vehicles"
	"github.com/fmc-saas/fleet/internal/platform/cache"
	"github.com/fmc-saas/fleet/internal/platform/db"
	"github.com/fmc-saas/fleet/internal/shared"
	"github.com/fmc-saas/fleet/jobs"
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis connect", slog.Any("error", err))
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	validate := validator.New()
	auditLogger := shared.NewAuditLogger(pool)

	accountsRepo := accounts.NewRepository(pool)
	accountsCache := accounts.NewCache(redisClient, cfg.AccountCacheTTL)
	accountsService := accounts.NewService(accountsRepo, accountsCache, logger)
	accountsHandler := accounts.NewHandler(logger, accountsService, validate)

	journalsRepo := journals.NewRepository(pool)
	journalsService := journals.NewService(journalsRepo, auditLogger)
	journalsHandler := journals.NewHandler(logger, journalsService)

	ledgerRefs := refs.NewResolver(cfg.LedgerRefs(), accountsService, logger)

	customersRepo := customers.NewRepository(pool)
	customersService := customers.NewService(customersRepo)
	customersHandler := customers.NewHandler(logger, customersService, validate)

	vehiclesRepo := vehicles.NewRepository(pool)
	vehiclesService := vehicles.NewService(vehiclesRepo)
	vehiclesHandler := vehicles.NewHandler(logger, vehiclesService, validate)

	maintenanceRepo := maintenance.NewRepository(pool)
	maintenanceService := maintenance.NewService(maintenanceRepo, journalsService, accountsService, ledgerRefs, vehiclesService, logger)
	maintenanceHandler := maintenance.NewHandler(logger, maintenanceService, validate)

	rentalsRepo := rentals.NewRepository(pool)
	rentalsService := rentals.NewService(rentalsRepo, journalsService, ledgerRefs, vehiclesService, customersService, logger)
	rentalsHandler := rentals.NewHandler(logger, rentalsService, validate)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		AccountsHandler:    accountsHandler,
		JournalsHandler:    journalsHandler,
		CustomersHandler:   customersHandler,
		VehiclesHandler:    vehiclesHandler,
		MaintenanceHandler: maintenanceHandler,
		RentalsHandler:     rentalsHandler,
		JobHandler:         jobHandler,
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
