package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finbot/internal/ai"
	"finbot/internal/categories"
	"finbot/internal/classifier"
	"finbot/internal/config"
	"finbot/internal/database"
	"finbot/internal/events"
	"finbot/internal/logger"
	"finbot/internal/middleware"
	"finbot/internal/server"
	"finbot/internal/services"
	"finbot/internal/validator"
)

// @title           Finbot API
// @version         1.0
// @description     Finbot records income and expenses from free-text chat messages, classifies them and builds statements.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey APIKey
// @in header
// @name X-API-Key
// @description Shared key of the chat frontend.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Env == "production" && cfg.PipelineAPIKey == "" {
		log.Warn("PIPELINE_API_KEY is not set, internal endpoints are disabled")
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	table, err := categories.Load(cfg.CategoriesFile)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen, err := ai.New(ctx, cfg, nil)
	if err != nil {
		return fmt.Errorf("failed to create AI client: %w", err)
	}
	cls := classifier.New(gen, table, classifier.Options{
		Timeout:  cfg.AIRequestTimeout,
		Currency: cfg.CurrencySymbol,
	})
	if cls.AIEnabled() {
		log.Infof("AI classification enabled via %s", gen.Name())
	} else {
		log.Info("AI classification disabled, using keyword rules")
	}

	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		p, err := events.Dial(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			return fmt.Errorf("failed to connect to message broker: %w", err)
		}
		defer p.Close()
		publisher = p
		log.Infof("Publishing ledger events to exchange %s", cfg.AMQPExchange)
	}

	validator.Register()

	db := dbManager.DB()
	transactionService := services.NewTransactionService(db)
	userService := services.NewUserService(db, transactionService)
	messageService := services.NewMessageService(userService, transactionService, cls, publisher, services.AccessPolicy{
		Admins:           cfg.AdminUsers,
		AutoRegistration: cfg.AutoRegistration,
	})
	reportService := services.NewReportService(transactionService, cls, cfg.CurrencySymbol)

	router := server.NewRouter(server.Dependencies{
		Config:       cfg,
		Tokens:       middleware.NewTokenManager(cfg.JWTSecret, cfg.JWTExpirationDur),
		Users:        userService,
		Transactions: transactionService,
		Messages:     messageService,
		Reports:      reportService,
		Events:       publisher,
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		AIEnabled: cls.AIEnabled(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Finbot server on port %s", cfg.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
