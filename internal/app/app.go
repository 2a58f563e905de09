package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"billscan/internal/config"
	"billscan/internal/infrastructure"
	"billscan/internal/services"
	transport "billscan/internal/transport/http"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Application is the assembled server: configuration, logger, services
// and the HTTP stack.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Server *http.Server
}

// NewApplication loads configuration and builds the full dependency
// graph.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port))

	keywords := cfg.EngineKeywords()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := transport.NewRouter(transport.RouterDeps{
		Config:   cfg,
		Logger:   logger,
		Registry: registry,
		Analysis: services.NewAnalysisService(keywords, logger),
		Compare:  services.NewCompareService(keywords, logger),
		Version:  Version,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{
		Config: cfg,
		Logger: logger,
		Server: server,
	}, nil
}

// Run serves until SIGINT/SIGTERM, then shuts down gracefully within
// the configured timeout.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down",
		slog.String("timeout", a.Config.Server.ShutdownTimeout.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	a.Logger.Info("shutdown complete")
	return nil
}
