package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campuscoin-ledger/config"
	httpHandler "campuscoin-ledger/internal/adapter/http/handler"
	pgStorage "campuscoin-ledger/internal/adapter/storage/postgres"
	redisStorage "campuscoin-ledger/internal/adapter/storage/redis"
	"campuscoin-ledger/internal/core/domain"
	"campuscoin-ledger/internal/core/ports"
	"campuscoin-ledger/internal/service"
	"campuscoin-ledger/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting CampusCoin ledger")

	ctx := context.Background()

	admin, err := domain.ParseAddress(cfg.Ledger.Admin)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid admin address in config")
	}
	university, err := domain.ParseAddress(cfg.Ledger.University)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid university address in config")
	}

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	if err := pgStorage.Migrate(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to run schema migration")
	}

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	accountRepo := pgStorage.NewAccountRepo(pool)
	membershipRepo := pgStorage.NewMembershipRepo(pool)
	providerRepo := pgStorage.NewProviderRepo(pool)
	stateRepo := pgStorage.NewStateRepo(pool)
	eventRepo := pgStorage.NewEventRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Genesis: write or verify the ledger state
	state, err := service.Bootstrap(ctx, stateRepo, accountRepo, transactor, service.GenesisParams{
		Admin:         admin,
		University:    university,
		InitialSupply: cfg.Ledger.InitialSupply,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap ledger state")
	}

	// Initialize core services
	sigSvc := service.NewHMACSignatureService()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Event fan-out: redis stream + signed observer webhooks
	eventStream := redisStorage.NewEventStream(rdb)
	notifier := service.NewWebhookNotifier(
		cfg.Webhook.ObserverURLs,
		cfg.Webhook.SigningKey,
		sigSvc,
		&http.Client{Timeout: 10 * time.Second},
		log,
	)

	// Initialize business services
	guard := service.NewAccessGuard(state.Admin)
	authSvc := service.NewAuthService(cfg.Auth.SecretHash, hashSvc, tokenSvc)
	ledgerSvc := service.NewLedgerService(
		accountRepo,
		membershipRepo,
		providerRepo,
		stateRepo,
		eventRepo,
		transactor,
		guard,
		state.University,
		eventStream,
		notifier,
		log,
	)
	registrySvc := service.NewRegistryService(
		membershipRepo,
		providerRepo,
		eventRepo,
		transactor,
		guard,
		eventStream,
		notifier,
		log,
	)
	querySvc := service.NewQueryService(accountRepo, stateRepo, eventRepo, cfg.Ledger.Name, cfg.Ledger.Symbol)

	// Initialize rate limit store
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		LedgerSvc:      ledgerSvc,
		RegistrySvc:    registrySvc,
		QuerySvc:       querySvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
