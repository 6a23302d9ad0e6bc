package factory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/adapters/modelstore"
	"github.com/mikey/spam-classifier/internal/config"
)

// StoreFactory creates model stores based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateModelStore creates a model store based on the configuration
func (f *StoreFactory) CreateModelStore(ctx context.Context) (modelstore.Store, error) {
	modelCfg := f.cfg.GetModel()

	switch modelCfg.Store {
	case "file":
		return modelstore.NewFileStore(modelCfg.Path, f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(modelCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return modelstore.NewSQLiteStore(modelCfg.SQLitePath, modelCfg.Name, f.logger)
	case "mysql":
		return modelstore.NewMySQLStore(modelCfg.MySQLDSN, modelCfg.Name, f.logger)
	case "redis":
		return modelstore.NewRedisStore(ctx, modelCfg.RedisAddr, modelCfg.RedisDB, modelCfg.RedisKey, f.logger)
	default:
		return nil, fmt.Errorf("unsupported model store: %s", modelCfg.Store)
	}
}
