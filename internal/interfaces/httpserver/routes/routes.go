package routes

import (
	"github.com/gin-gonic/gin"

	"chat-api/internal/interfaces/httpserver/handlers"
)

// Provider registers the API routes against the handler provider.
type Provider struct {
	handlers *handlers.Provider
}

// NewProvider constructs the route provider.
func NewProvider(handlerProvider *handlers.Provider) *Provider {
	return &Provider{handlers: handlerProvider}
}

// Register mounts all routes on the /api group.
func (p *Provider) Register(api *gin.RouterGroup) {
	chatGroup := api.Group("/chat")
	{
		chatGroup.POST("/send", p.handlers.Chat.Send)
		chatGroup.POST("/stream", p.handlers.Chat.Stream)
		chatGroup.POST("/history", p.handlers.Chat.History)
		chatGroup.GET("/conversations/:userId", p.handlers.Chat.Conversations)
		chatGroup.POST("/upload", p.handlers.Upload.Upload)
	}

	ticketGroup := api.Group("/tickets")
	{
		ticketGroup.POST("/create", p.handlers.Ticket.Create)
		ticketGroup.GET("/:ticketId", p.handlers.Ticket.Get)
	}

	api.GET("/health", p.handlers.Health.Health)
}
