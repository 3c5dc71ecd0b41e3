package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"chat-api/internal/config"
	"chat-api/internal/domain/chat"
	"chat-api/internal/domain/ticket"
	"chat-api/internal/infrastructure/logger"
	"chat-api/internal/infrastructure/observability"
	"chat-api/internal/interfaces/httpserver"
)

// Application bundles the long-lived pieces of the service.
type Application struct {
	HTTPServer    *httpserver.HTTPServer
	ChatService   *chat.Service
	TicketService *ticket.Service
}

// Run serves HTTP until ctx is cancelled, then drains background work.
func (a *Application) Run(ctx context.Context) error {
	err := a.HTTPServer.Run(ctx)
	a.ChatService.Shutdown()
	a.TicketService.Shutdown()
	return err
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("initialize observability")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("shutdown telemetry")
			}
		}()
	}

	if !cfg.ChatflowConfigured() {
		log.Warn().Msg("FLOWISE_CHATFLOW_ID is not set, predictions will fail until it is configured")
	}

	application, err := CreateApplication(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create application")
	}

	if err := application.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("http server")
	}
	log.Info().Msg("server stopped")
}
