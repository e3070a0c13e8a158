package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/template-dispatch-service/internal/config"
	"github.com/sangkips/template-dispatch-service/internal/domains/messages"
	"github.com/sangkips/template-dispatch-service/internal/mailer"
	"github.com/sangkips/template-dispatch-service/internal/queue"
	"github.com/sangkips/template-dispatch-service/internal/worker"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("worker failed")
	}
	log.Info().Msg("worker stopped")
}

func run() error {
	// Load configuration
	cfg, err := config.LoadConfig("", nil)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	config.SetupLogger(cfg.LogLevel, false)

	// Connect to RabbitMQ
	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer rabbitMQ.Close()

	// Deliver through Resend when it is configured, otherwise log
	var transport messages.MailTransport = mailer.NewLogTransport()
	if cfg.ResendAPIKey != "" {
		transport = mailer.NewResendTransport(mailer.ResendFromConfig(cfg))
	}
	w := worker.NewWorker(rabbitMQ, transport)

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
		cancel()
	}()

	// Start worker
	return w.Start(ctx)
}
