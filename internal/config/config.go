package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the chat service.
type Config struct {
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"chat-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"3001"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigin      string        `env:"CORS_ORIGIN" envDefault:"*"`

	FlowiseAPIURL     string        `env:"FLOWISE_API_URL" envDefault:"http://localhost:3000"`
	FlowiseAPIKey     string        `env:"FLOWISE_API_KEY"`
	FlowiseChatflowID string        `env:"FLOWISE_CHATFLOW_ID"`
	FlowiseTimeout    time.Duration `env:"FLOWISE_TIMEOUT" envDefault:"75s"`
	RetryBaseDelay    time.Duration `env:"RETRY_BASE_DELAY" envDefault:"1s"`

	DeliveredDelay time.Duration `env:"DELIVERED_DELAY" envDefault:"500ms"`

	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	MaxBodyBytes      int64         `env:"MAX_BODY_BYTES" envDefault:"10485760"`
	MaxUploadBytes    int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.FlowiseAPIURL = strings.TrimRight(cfg.FlowiseAPIURL, "/")

	if cfg.RateLimitRequests <= 0 {
		cfg.RateLimitRequests = 100
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = 15 * time.Minute
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = time.Second
	}

	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// ChatflowConfigured reports whether an upstream chatflow has been selected.
// The service still starts without one, it just cannot answer.
func (c *Config) ChatflowConfigured() bool {
	return strings.TrimSpace(c.FlowiseChatflowID) != ""
}
