package handlers

import (
	"github.com/rs/zerolog"

	"chat-api/internal/domain/chat"
	"chat-api/internal/domain/ticket"
	"chat-api/internal/domain/upload"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Chat   *ChatHandler
	Ticket *TicketHandler
	Upload *UploadHandler
	Health *HealthHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	chatService *chat.Service,
	ticketService *ticket.Service,
	uploadService *upload.Service,
	environment string,
	chatflowConfigured bool,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Chat:   NewChatHandler(chatService, environment, log),
		Ticket: NewTicketHandler(ticketService, environment, log),
		Upload: NewUploadHandler(uploadService, environment, log),
		Health: NewHealthHandler(chatflowConfigured),
	}
}
