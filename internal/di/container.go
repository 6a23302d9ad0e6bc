package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/adapters/modelstore"
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/factory"
	"github.com/mikey/spam-classifier/internal/logging"
	"github.com/mikey/spam-classifier/internal/ports"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := ProvideCore(container); err != nil {
		return nil, err
	}

	// Register front ends
	if err := container.Provide(factory.NewServerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.ServerFactory) []ports.Server {
		return f.CreateServers()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// ProvideCore registers the model store, trainer, spam filter service and
// aggregator. The container must already provide *config.Config and *zap.Logger.
func ProvideCore(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewTrainerFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewSourceFactory); err != nil {
		return err
	}

	// Register model store
	if err := container.Provide(func(f *factory.StoreFactory) (modelstore.Store, error) {
		return f.CreateModelStore(context.Background())
	}); err != nil {
		return err
	}

	// Register spam filter service
	if err := container.Provide(func(
		store modelstore.Store,
		f *factory.TrainerFactory,
		logger *zap.Logger,
	) *core.SpamFilterService {
		return core.NewSpamFilterService(store, f.CreateTrainer(), f.DatasetPath(), logger)
	}); err != nil {
		return err
	}

	// Register aggregator
	if err := container.Provide(func(
		cfg *config.Config,
		service *core.SpamFilterService,
		logger *zap.Logger,
	) *core.Aggregator {
		batch := cfg.GetBatch()
		return core.NewAggregator(service, batch.Concurrency, batch.IsolateFailures, logger)
	}); err != nil {
		return err
	}

	return nil
}
