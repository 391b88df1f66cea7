package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/avoronin/placekeeper/internal/logging"
	"github.com/rs/cors"
	sloghttp "github.com/samber/slog-http"
)

// Server wraps http.Server with request logging, CORS and graceful shutdown.
type Server struct {
	srv    *http.Server
	logger logging.Logger
}

// NewServer assembles the middleware chain around the API handler and any
// extra mounts (static uploads, health).
func NewServer(addr string, api *Handler, slogger *slog.Logger, logger logging.Logger, mounts map[string]http.Handler) *Server {
	mux := http.NewServeMux()
	mux.Handle("/api/", api)
	for pattern, handler := range mounts {
		mux.Handle(pattern, handler)
	}

	var root http.Handler = mux
	root = cors.AllowAll().Handler(root)
	root = sloghttp.New(slogger)(root)

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           root,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger.With("module", "http_server"),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.srv.Addr)

	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
