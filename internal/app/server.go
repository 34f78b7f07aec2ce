package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/vk/gridcalc/internal/api"
)

// Serve runs the API until ctx is canceled, then shuts down gracefully. When
// ln is nil the configured listen address is used.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	cfg := a.config.Server
	logger := a.logger

	if ln == nil {
		if cfg.Listen == "" {
			return errors.New("server.listen must not be empty")
		}
		var err error
		ln, err = net.Listen("tcp", cfg.Listen)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.Listen, err)
		}
	}

	srv := api.New(api.Options{
		Limits:      a.limits(),
		Workers:     a.config.Engine.Workers,
		CORSOrigins: cfg.CORSOrigins,
		SocketIO:    cfg.SocketIO,
	})
	defer srv.Close()

	httpServer := &http.Server{
		Handler:      srv.Handler(a.ctx),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("🚀 Server starting", "address", fmt.Sprintf("http://%s", ln.Addr()), "socketio", cfg.SocketIO)
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			logger.Error("Server failed unexpectedly", "error", err)
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	logger.Info("🛑 Shutting down server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
		return err
	}
	logger.Info("🏁 Server stopped.")
	return nil
}
