package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"momo-ledger/config"
	httpHandler "momo-ledger/internal/adapter/http/handler"
	"momo-ledger/internal/adapter/mail"
	"momo-ledger/internal/adapter/provider"
	pgStorage "momo-ledger/internal/adapter/storage/postgres"
	redisStorage "momo-ledger/internal/adapter/storage/redis"
	"momo-ledger/internal/core/domain"
	"momo-ledger/internal/core/ports"
	"momo-ledger/internal/service"
	"momo-ledger/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
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
		Msg("Starting Mobile Money Ledger")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	accountRepo := pgStorage.NewAccountRepo(pool)
	customerRepo := pgStorage.NewCustomerRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	historyRepo := pgStorage.NewStateHistoryRepo(pool)
	ledgerRepo := pgStorage.NewLedgerRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	otpStore := redisStorage.NewOtpStore(rdb)

	// Initialize core services
	pinHasher := service.NewArgon2PinHasher()
	tokenSvc := service.NewJWTTokenService(cfg.JWT)
	gateway := provider.NewMobileMoneyGateway(cfg.Provider, log)
	mailer := mail.NewSMTPMailer(cfg.Mail, log)

	// Initialize business services
	authSvc := service.NewAuthService(
		customerRepo,
		accountRepo,
		pinHasher,
		tokenSvc,
		otpStore,
		mailer,
		cfg.Otp,
		cfg.Ledger,
		log,
	)
	paymentSvc := service.NewPaymentService(
		ledgerRepo,
		accountRepo,
		customerRepo,
		txRepo,
		historyRepo,
		gateway,
		authSvc,
		transactor,
		cfg.Ledger,
		log,
	)

	// Ensure the ledger singleton and the provider float account exist
	if err := bootstrap(ctx, ledgerRepo, accountRepo, cfg.Ledger, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap ledger")
	}

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:         authSvc,
		PaymentSvc:      paymentSvc,
		AccountRepo:     accountRepo,
		TransactionRepo: txRepo,
		TokenSvc:        tokenSvc,
		HealthCheckers:  []ports.HealthChecker{pgHealth, redisHealth},
		Currency:        cfg.Ledger.Currency,
		Logger:          log,
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

// bootstrap idempotently creates the singleton ledger row and the configured
// provider's float account on first startup.
func bootstrap(ctx context.Context, ledgerRepo ports.LedgerRepository,
	accountRepo ports.AccountRepository, cfg config.LedgerConfig, log zerolog.Logger) error {

	ledger, err := ledgerRepo.GetSingleton(ctx)
	if err != nil {
		return err
	}
	if ledger == nil {
		if err := ledgerRepo.Create(ctx, domain.NewLedger(uuid.New())); err != nil {
			return err
		}
		log.Info().Msg("Ledger created")
	}

	float, err := accountRepo.GetFloatByProviderID(ctx, cfg.FloatProviderID)
	if err != nil {
		return err
	}
	if float == nil {
		account := domain.NewFloatAccount(uuid.New(), cfg.FloatProviderID, cfg.Currency)
		if err := accountRepo.Create(ctx, account); err != nil {
			return err
		}
		log.Info().
			Str("provider_id", cfg.FloatProviderID).
			Str("account_number", account.Number).
			Msg("Float account created")
	}

	return nil
}
