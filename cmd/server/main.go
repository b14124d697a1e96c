package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/veltapay/custody/internal/adapter/http"
	"github.com/veltapay/custody/internal/adapter/http/handler"
	postgresRepo "github.com/veltapay/custody/internal/adapter/repository/postgres"
	redisRepo "github.com/veltapay/custody/internal/adapter/repository/redis"
	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/infrastructure/auth"
	"github.com/veltapay/custody/internal/infrastructure/config"
	"github.com/veltapay/custody/internal/infrastructure/eventpublisher"
	"github.com/veltapay/custody/internal/infrastructure/logger"
	"github.com/veltapay/custody/internal/infrastructure/metrics"
	"github.com/veltapay/custody/internal/infrastructure/postgres"
	"github.com/veltapay/custody/internal/infrastructure/redis"
	"github.com/veltapay/custody/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	ctx := context.Background()

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to run migrations")
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	m := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	walletRepo := postgresRepo.NewWalletRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	orderRepo := postgresRepo.NewOrderRepository(pool)
	feeRepo := postgresRepo.NewFeeConfigRepository(pool)
	profileRepo := postgresRepo.NewProfileRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Use cases
	auditUC := usecase.NewAuditUseCase(auditRepo, idGen, m)
	ledgerUC := usecase.NewLedgerUseCase(entryRepo, walletRepo, cache, idGen)
	transferUC := usecase.NewTransferUseCase(
		txManager, transferRepo, walletRepo, entryRepo, profileRepo,
		feeRepo, outboxRepo, auditUC, retrier, idGen, m,
	)
	orderUC := usecase.NewOrderUseCase(txManager, orderRepo, outboxRepo, auditUC, retrier, idGen, m)
	onboardingUC := usecase.NewOnboardingUseCase(txManager, profileRepo, walletRepo, outboxRepo, auditUC, idGen)
	reconUC := usecase.NewReconciliationUseCase(entryRepo, walletRepo, entryRepo)

	// Router
	routerCfg := httpAdapter.RouterConfig{
		TransferHandler:       handler.NewTransferHandler(transferUC),
		OrderHandler:          handler.NewOrderHandler(orderUC),
		WalletHandler:         handler.NewWalletHandler(ledgerUC, walletRepo),
		OnboardingHandler:     handler.NewOnboardingHandler(onboardingUC),
		AuditHandler:          handler.NewAuditHandler(auditUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconUC),
		HealthHandler:         handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		Metrics:               m,
		Logger:                appLogger,
	}

	if cfg.JWTSecret != "" {
		routerCfg.Verifier = auth.NewVerifier(cfg.JWTSecret)
	} else {
		appLogger.Warn().Msg("JWT_SECRET not set, running with a static admin actor")
		routerCfg.DevActor = &domain.Actor{ID: "dev-admin", Role: domain.RoleAdmin}
	}

	router := httpAdapter.NewRouter(routerCfg)

	// Outbox publisher
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(appLogger),
		Logger:     appLogger,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})
	go func() {
		if err := publisher.Start(publisherCtx); err != nil && publisherCtx.Err() == nil {
			appLogger.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server...")
	stopPublisher()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server stopped")
}
