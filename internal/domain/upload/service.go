// Package upload validates widget file uploads and encodes them as
// inline data-URL attachments. Nothing is persisted server side.
package upload

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"chat-api/internal/domain/conversation"
	"chat-api/internal/sanitize"
)

// allowedMIMEs is the upload allow-list: common image types, PDF,
// plain text and the Word formats.
var allowedMIMEs = map[string]struct{}{
	"image/jpeg":      {},
	"image/jpg":       {},
	"image/png":       {},
	"image/gif":       {},
	"image/webp":      {},
	"application/pdf": {},
	"text/plain":      {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// ValidationError describes a rejected upload. It maps to HTTP 400.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Service validates and encodes uploads.
type Service struct {
	maxBytes int64
	log      zerolog.Logger
}

// NewService constructs the upload service with the configured size cap.
func NewService(maxBytes int64, log zerolog.Logger) *Service {
	return &Service{
		maxBytes: maxBytes,
		log:      log.With().Str("component", "upload-service").Logger(),
	}
}

// Process validates the file and returns an inline attachment
// descriptor. Disallowed types, oversize payloads and unusable
// filenames are rejected before any encoding happens.
func (s *Service) Process(filename, declaredMIME string, data []byte) (*conversation.FileAttachment, error) {
	if len(data) == 0 {
		return nil, &ValidationError{Reason: "no file provided"}
	}

	if _, ok := allowedMIMEs[declaredMIME]; !ok {
		return nil, &ValidationError{Reason: fmt.Sprintf("file type %s not allowed", declaredMIME)}
	}

	if int64(len(data)) > s.maxBytes {
		return nil, &ValidationError{Reason: fmt.Sprintf("file size exceeds maximum allowed size of %dMB", s.maxBytes/1024/1024)}
	}

	cleaned := sanitize.Filename(filename)
	if cleaned == "" {
		return nil, &ValidationError{Reason: "invalid filename"}
	}

	// The declared type is what the caller promises; sniff the payload
	// and log when they disagree. The declared type still wins so that
	// plain-text variants survive detection quirks.
	if detected := mimetype.Detect(data); !detected.Is(declaredMIME) {
		s.log.Debug().
			Str("declared", declaredMIME).
			Str("detected", detected.String()).
			Str("filename", cleaned).
			Msg("upload mime mismatch")
	}

	dataURL := "data:" + declaredMIME + ";base64," + base64.StdEncoding.EncodeToString(data)

	return &conversation.FileAttachment{
		ID:         "file-" + uuid.NewString(),
		Filename:   cleaned,
		FileType:   declaredMIME,
		FileSize:   int64(len(data)),
		URL:        dataURL,
		UploadedAt: time.Now(),
	}, nil
}
