package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"legalbooking/internal/config"
	"legalbooking/internal/events"
	"legalbooking/internal/logging"
	"legalbooking/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.IsDevelopment())
	slog.SetDefault(logger)

	if cfg.RabbitURL == "" {
		logger.Error("RABBIT_URL is required")
		os.Exit(1)
	}

	consumer, err := events.NewConsumer(cfg.RabbitURL, cfg.ReservationExchange, cfg.NotifyQueue, events.AllReservationKeys)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Warn("close consumer", slog.Any("error", err))
		}
	}()

	var notifier notify.Notifier
	if cfg.SMTPHost != "" {
		notifier = notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
		logger.Info("Mail notifications enabled", slog.String("smtp_host", cfg.SMTPHost))
	} else {
		notifier = notify.NewConsole(logger)
		logger.Info("SMTP_HOST not set, logging notifications instead")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deliveries, err := consumer.Deliveries(ctx)
	if err != nil {
		logger.Error("Failed to start consuming", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("Notifier started", slog.String("queue", cfg.NotifyQueue))
	if err := notify.Run(ctx, deliveries, notifier, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Notifier stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Notifier stopped")
}
