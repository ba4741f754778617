package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "legalbooking/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"legalbooking/internal/ai"
	"legalbooking/internal/auth"
	"legalbooking/internal/cache"
	"legalbooking/internal/config"
	"legalbooking/internal/db"
	"legalbooking/internal/events"
	"legalbooking/internal/handler"
	"legalbooking/internal/jobs"
	"legalbooking/internal/logging"
	"legalbooking/internal/repository"
	"legalbooking/internal/router"
	"legalbooking/internal/service"
)

// @title Legal Booking API
// @version 1.0
// @description Consultation booking for a law office: lawyers, slots, reservations with tracking codes, and a slot assistant.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.IsDevelopment())
	slog.SetDefault(logger)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Fatalf("reset: %v", err)
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.RabbitURL, cfg.ReservationExchange)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	} else {
		logger.Info("RABBITMQ_URL not set, reservation events are not published")
	}

	var completer ai.Completer
	if cfg.OpenAIAPIKey != "" {
		completer = ai.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	} else {
		logger.Info("OPENAI_API_KEY not set, the assistant answers with raw search results")
	}

	// Initialize repositories
	repos := repository.New(gormDB)
	tx := repository.NewTransactor(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(repos.Users, jwtService, tokenStore)
	userService := service.NewUserService(repos, cacheClient, cfg.BcryptCost)
	lawyerService := service.NewLawyerService(repos, cacheClient)
	slotService := service.NewSlotService(repos, tx)
	reservationService := service.NewReservationService(repos, tx, publisher, logger)
	conversationService := service.NewConversationService(repos, tx)
	interactionService := service.NewInteractionService(repos)
	assistantService := service.NewAssistantService(slotService, repos, completer, cfg.AssistantLookahead, logger)

	e := echo.New()
	router.Register(e, cfg, jwtService.Secret(), logger, router.Handlers{
		Users:         handler.NewUserHandler(userService),
		Auth:          handler.NewAuthHandler(authService),
		Lawyers:       handler.NewLawyerHandler(lawyerService),
		Slots:         handler.NewSlotHandler(slotService),
		Reservations:  handler.NewReservationHandler(reservationService),
		Conversations: handler.NewConversationHandler(conversationService, interactionService),
		Assistant:     handler.NewAssistantHandler(assistantService),
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"database": db.Pinger{DB: gormDB},
			"redis":    cacheClient,
		}),
	})

	reconciler := jobs.NewReconciler(tx, logger)
	if cfg.ReconcileSchedule != "" {
		if err := reconciler.Start(cfg.ReconcileSchedule); err != nil {
			log.Fatalf("reconciler: %v", err)
		}
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server listening", slog.String("port", cfg.ServerPort), slog.String("swagger", swaggerURL(cfg.SwaggerHost)))
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Shutting down server", slog.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", slog.Any("error", err))
	}
	reconciler.Stop()
	logger.Info("Server stopped gracefully")
}

// swaggerURL builds the swagger UI address; host may already include a scheme.
func swaggerURL(host string) string {
	if host == "" {
		host = "localhost:8080"
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
