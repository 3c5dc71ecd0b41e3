package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chat-api/internal/domain/upload"
	"chat-api/internal/interfaces/httpserver/dto"
)

// UploadHandler exposes the inline attachment endpoint.
type UploadHandler struct {
	service     *upload.Service
	environment string
	log         zerolog.Logger
}

// NewUploadHandler constructs the handler.
func NewUploadHandler(service *upload.Service, environment string, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		service:     service,
		environment: environment,
		log:         log.With().Str("handler", "upload").Logger(),
	}
}

// Upload handles POST /api/chat/upload. The file is validated, encoded
// as a data URL and handed back; nothing is stored server side.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorPayload{Error: "No file provided"})
		return
	}
	defer file.Close()

	if c.PostForm("conversationId") == "" || c.PostForm("messageId") == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorPayload{Error: "conversationId and messageId are required"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondInternal(c, h.environment, err, "Failed to upload file")
		return
	}

	attachment, err := h.service.Process(header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		var validationErr *upload.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, dto.ErrorPayload{Error: validationErr.Reason})
			return
		}
		respondInternal(c, h.environment, err, "Failed to upload file")
		return
	}

	c.JSON(http.StatusOK, dto.Envelope{
		Success: true,
		Data:    attachment,
	})
}
