package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/adapters/modelstore"
	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/di"
	"github.com/mikey/spam-classifier/internal/ports"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	service *core.SpamFilterService,
	store modelstore.Store,
	servers []ports.Server,
) error {
	defer logger.Sync()
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close model store", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The API must not start without a model
	if err := service.LoadOrTrain(ctx); err != nil {
		logger.Error("Failed to load or train model", zap.Error(err))
		return err
	}

	started := make([]ports.Server, 0, len(servers))
	for _, server := range servers {
		if err := server.Start(); err != nil {
			logger.Error("Failed to start server", zap.Error(err))
			stopAll(logger, started)
			return err
		}
		started = append(started, server)
	}

	<-ctx.Done()
	logger.Info("Shutting down...")

	stopAll(logger, started)

	logger.Info("Shutdown complete")
	return nil
}

func stopAll(logger *zap.Logger, servers []ports.Server) {
	for i := len(servers) - 1; i >= 0; i-- {
		if err := servers[i].Stop(); err != nil {
			logger.Error("Failed to stop server", zap.Error(err))
		}
	}
}
