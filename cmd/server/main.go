package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/template-dispatch-service/internal/config"
	"github.com/sangkips/template-dispatch-service/internal/domains/templates"
	"github.com/sangkips/template-dispatch-service/internal/health"
	"github.com/sangkips/template-dispatch-service/internal/queue"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// run returns to main so the broker connection is closed on every exit path
func run() error {
	cfg, err := config.LoadConfig("", nil)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	config.SetupLogger(cfg.LogLevel, false)

	opts, err := cfg.EngineOptions()
	if err != nil {
		return fmt.Errorf("invalid engine settings: %w", err)
	}
	engine := templates.NewEngine(opts...)

	// The broker is only a health dependency when mail goes through it
	var pinger health.Pinger
	if cfg.Transport == config.TransportRabbitMQ {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		defer rabbitMQ.Close()
		pinger = rabbitMQ
	}

	r := newRouter(engine, pinger)

	log.Info().Msg("server starting on :" + cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// newRouter mounts the preview and health endpoints. pinger may be nil.
func newRouter(engine templates.Renderer, pinger health.Pinger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	templateHandler := templates.NewHandler(engine)
	r.Route("/templates", func(r chi.Router) {
		templateHandler.RegisterTemplateRoutes(r)
	})

	healthHandler := health.NewHandler(engine, pinger)
	r.Get("/health", healthHandler.Health)

	return r
}
