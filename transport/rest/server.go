package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

// Start - starts the HTTP server on the given port and blocks until ctx is canceled.
func Start(ctx context.Context, port string, handlers *Handlers) error {
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      newMux(handlers),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	failed := make(chan error, 1)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

func newMux(handlers *Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", handlers.Ping)
	mux.HandleFunc("GET /stats", handlers.Stats)
	mux.HandleFunc("GET /suggestion", handlers.Suggestion)
	mux.HandleFunc("GET /replays", handlers.Replays)
	mux.HandleFunc("GET /replays/{id}", handlers.ReplayByID)

	return mux
}
