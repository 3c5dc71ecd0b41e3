package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"chat-api/internal/config"
	middleware "chat-api/internal/interfaces/httpserver/middlewares"
	"chat-api/internal/interfaces/httpserver/routes"
)

type HTTPServer struct {
	engine *gin.Engine
	routes *routes.Provider
	config *config.Config
	logger zerolog.Logger
}

func NewHTTPServer(
	routeProvider *routes.Provider,
	cfg *config.Config,
	logger zerolog.Logger,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	server := HTTPServer{
		engine: gin.New(),
		routes: routeProvider,
		config: cfg,
		logger: logger,
	}
	server.engine.Use(gin.Recovery())
	server.engine.Use(middleware.RequestID())
	server.engine.Use(middleware.CORS(cfg.CORSOrigin))
	server.engine.Use(middleware.Logging(logger))
	server.engine.Use(middleware.Metrics())

	server.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	server.engine.GET("/readyz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	server.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := server.engine.Group("/api")
	api.Use(
		middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow),
		middleware.BodyLimit(cfg.MaxBodyBytes),
	)
	server.routes.Register(api)

	return &server
}

// Engine exposes the underlying router for tests.
func (s *HTTPServer) Engine() *gin.Engine {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info().Str("addr", s.config.Addr()).Msg("http server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
