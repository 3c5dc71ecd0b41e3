package main

import (
	"github.com/rs/zerolog"

	"chat-api/internal/config"
	"chat-api/internal/domain/chat"
	"chat-api/internal/domain/conversation"
	"chat-api/internal/domain/flowise"
	"chat-api/internal/domain/ticket"
	"chat-api/internal/domain/upload"
	"chat-api/internal/infrastructure/flowiseclient"
	"chat-api/internal/interfaces/httpserver/handlers"
)

func provideFlowiseClient(cfg *config.Config, log zerolog.Logger) *flowiseclient.Client {
	return flowiseclient.NewClient(flowiseclient.Config{
		BaseURL:    cfg.FlowiseAPIURL,
		APIKey:     cfg.FlowiseAPIKey,
		ChatflowID: cfg.FlowiseChatflowID,
		Timeout:    cfg.FlowiseTimeout,
		RetryDelay: cfg.RetryBaseDelay,
	}, log)
}

func provideChatService(cfg *config.Config, repo conversation.Repository, provider flowise.Provider, log zerolog.Logger) *chat.Service {
	return chat.NewService(repo, provider, cfg.DeliveredDelay, log)
}

func provideUploadService(cfg *config.Config, log zerolog.Logger) *upload.Service {
	return upload.NewService(cfg.MaxUploadBytes, log)
}

func provideHandlers(
	cfg *config.Config,
	chatService *chat.Service,
	ticketService *ticket.Service,
	uploadService *upload.Service,
	log zerolog.Logger,
) *handlers.Provider {
	return handlers.NewProvider(chatService, ticketService, uploadService, cfg.Environment, cfg.ChatflowConfigured(), log)
}
