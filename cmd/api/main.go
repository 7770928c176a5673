package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	domaincfg "github.com/shalles/web-mind/domain/config"
	"github.com/shalles/web-mind/infrastructure/config"
	"github.com/shalles/web-mind/infrastructure/di"
	"github.com/shalles/web-mind/interfaces/http/rest"
	"github.com/shalles/web-mind/pkg/extensions"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, err := di.InitializeContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Close()

	// Running sessions keep the limits they opened with; reloads apply
	// to maps opened afterwards. Log so operators can tell which is
	// which.
	container.LimitsWatcher.OnChange(func(next *domaincfg.DomainConfig) {
		container.Logger.Info("Editing limits updated",
			zap.Int("maxNodesPerMap", next.MaxNodesPerMap),
			zap.Int("maxHistoryDepth", next.MaxHistoryDepth),
		)
	})

	// Audit trail for every accepted mutation. Deployments that ship
	// plugins register them against container.Extensions the same way.
	container.Extensions.GetHookManager().Register(extensions.HookAfterCommandExecute,
		func(ctx context.Context, data interface{}) error {
			container.Logger.Debug("Command executed", zap.String("command", fmt.Sprintf("%T", data)))
			return nil
		})

	// Create router
	router := rest.NewRouter(
		cfg,
		container.CommandBus,
		container.QueryBus,
		container.Snapshots,
		container.Metrics,
		container.Logger,
	)

	handler, err := router.Setup()
	if err != nil {
		container.Logger.Fatal("Failed to set up router", zap.Error(err))
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		container.Logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	container.Logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown error", zap.Error(err))
	}

	log.Println("Server stopped")
}
