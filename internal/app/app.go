package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"rental_billing/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// App manages the HTTP server and background workers.
type App struct {
	httpServer *http.Server
	workers    []worker.Worker
	port       int
	logger     *zap.Logger
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewApp creates the application server. The returned cleanup stops workers
// and drains in-flight requests.
func NewApp(port int, logger *zap.Logger, handler http.Handler, workers []worker.Worker) (*App, func(), error) {
	if port <= 0 {
		return nil, nil, fmt.Errorf("invalid port %d", port)
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		httpServer: httpServer,
		workers:    workers,
		port:       port,
		logger:     logger.Named("App"),
		ctx:        ctx,
		cancel:     cancel,
	}

	cleanup := func() {
		app.logger.Info("Cleanup: stopping server and workers...")
		app.cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
			app.logger.Error("HTTP server shutdown failed", zap.Error(err))
		}
		app.logger.Info("Cleanup finished.")
	}

	return app, cleanup, nil
}

// Run starts the server and workers, then blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	lis, err := net.Listen("tcp", a.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", a.port, err)
	}

	for _, w := range a.workers {
		go w.Start(a.ctx)
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("server started", zap.Int("port", a.port))
		if err := a.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		a.logger.Info("Shutting down server...")
	case err := <-serveErr:
		a.logger.Error("HTTP server Serve error", zap.Error(err))
		a.cancel()
		return err
	}

	a.cancel()
	return nil
}
