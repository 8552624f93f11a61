package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

// NewRouter mounts the REST handlers.
func NewRouter(handlers *Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/ping", handlers.Ping)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/best-move", handlers.BestMove)
		r.Get("/stats", handlers.Stats)
	})

	return r
}

// Start - starts the HTTP server and stops it when ctx is canceled.
func Start(ctx context.Context, logger *slog.Logger, port string, handlers *Handlers) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(handlers),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown http server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
