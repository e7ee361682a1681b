package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"ieqi-server/confs"
	"ieqi-server/handlers"
	httpHandler "ieqi-server/handlers/http"
	"ieqi-server/usecases"

	"github.com/gin-gonic/gin"
)

type Server struct {
	cfg  *confs.Config
	app  *gin.Engine
	log  *slog.Logger
	http *http.Server
}

func NewServer(cfg *confs.Config, useCase *usecases.ReadingUseCase, log *slog.Logger) *Server {
	gin.SetMode(cfg.GinMode)
	app := NewRouter(cfg.APIKey, useCase, log)
	return &Server{
		cfg: cfg,
		app: app,
		log: log,
		http: &http.Server{
			Addr:    net.JoinHostPort("0.0.0.0", cfg.Port),
			Handler: app,
		},
	}
}

// NewRouter wires middleware and the exact method+path routes.
func NewRouter(apiKey string, useCase *usecases.ReadingUseCase, log *slog.Logger) *gin.Engine {
	app := gin.New()
	// Paths must match exactly; no redirect to /api/ieqi for /api/ieqi/.
	app.RedirectTrailingSlash = false
	app.RedirectFixedPath = false
	app.HandleMethodNotAllowed = false

	app.Use(
		handlers.CORS(),
		handlers.RequestID(),
		handlers.AccessLog(log),
		handlers.Recovery(log),
		handlers.FaultBoundary(log),
		handlers.APIKey(apiKey),
	)

	readingHandler := httpHandler.NewReadingHandler(useCase)

	app.GET("/", httpHandler.Health)

	api := app.Group("/api")
	{
		api.POST("/ieqi", readingHandler.Ingest)
		api.GET("/ieqi", readingHandler.ListRecent)
		api.GET("/ieqi/latest", readingHandler.Latest)
	}

	app.NoRoute(httpHandler.NotFound)

	return app
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.app }

// Start serves until ctx is cancelled, then drains in-flight requests for up
// to the configured shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.log.Info("shutting down http server")
	return s.http.Shutdown(shutdownCtx)
}
