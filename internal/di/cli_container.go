package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/logging"
)

// CLIFlags contains the global command line flags of the detector CLI
type CLIFlags struct {
	ConfigFile  string
	DatasetPath string
	Store       string
	ModelPath   string
	Verbose     bool
	JSONLog     bool
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		cfg, err := loadCLIConfig(flags)
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Debug("Loaded configuration from file", zap.String("file", used))
		}
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	if err := ProvideCore(container); err != nil {
		return nil, err
	}

	return container, nil
}

// loadCLIConfig reads the config file when given and lets explicit flags override it
func loadCLIConfig(flags *CLIFlags) (*config.Config, error) {
	var cfg *config.Config
	if flags.ConfigFile != "" {
		var err error
		cfg, err = config.NewFromFile(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.NewFromViper(config.NewEmptyViper())
	}

	if flags.DatasetPath != "" {
		cfg.Set("dataset.path", flags.DatasetPath)
	}
	if flags.Store != "" {
		cfg.Set("model.store", flags.Store)
	}
	if flags.ModelPath != "" {
		cfg.Set("model.path", flags.ModelPath)
	}
	return cfg, nil
}
