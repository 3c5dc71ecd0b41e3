//go:build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"chat-api/internal/config"
	"chat-api/internal/domain/conversation"
	"chat-api/internal/domain/flowise"
	"chat-api/internal/domain/ticket"
	"chat-api/internal/infrastructure/flowiseclient"
	"chat-api/internal/infrastructure/repository/memory"
	"chat-api/internal/interfaces/httpserver"
	"chat-api/internal/interfaces/httpserver/routes"
	"chat-api/internal/webhook"
)

func CreateApplication(cfg *config.Config, log zerolog.Logger) (*Application, error) {
	wire.Build(
		memory.NewStore,
		wire.Bind(new(conversation.Repository), new(*memory.Store)),
		wire.Bind(new(ticket.Repository), new(*memory.Store)),
		provideFlowiseClient,
		wire.Bind(new(flowise.Provider), new(*flowiseclient.Client)),
		webhook.NewHTTPNotifier,
		wire.Bind(new(webhook.Notifier), new(*webhook.HTTPNotifier)),
		provideChatService,
		ticket.NewService,
		provideUploadService,
		provideHandlers,
		routes.NewProvider,
		httpserver.NewHTTPServer,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
