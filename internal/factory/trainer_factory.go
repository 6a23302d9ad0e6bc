package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/classifier"
	"github.com/mikey/spam-classifier/internal/config"
)

// TrainerFactory creates classifier trainers from the training configuration
type TrainerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewTrainerFactory creates a new trainer factory
func NewTrainerFactory(cfg *config.Config, logger *zap.Logger) *TrainerFactory {
	return &TrainerFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTrainer creates a trainer
func (f *TrainerFactory) CreateTrainer() *classifier.Trainer {
	training := f.cfg.GetTraining()
	return classifier.NewTrainer(classifier.TrainerConfig{
		TestFraction:    training.TestFraction,
		Seed:            training.Seed,
		Folds:           training.Folds,
		CrossValidation: training.CrossValidation,
		HashBits:        training.HashBits,
		L2:              training.L2,
		MaxIterations:   training.MaxIterations,
	}, f.logger)
}

// DatasetPath returns the configured dataset location
func (f *TrainerFactory) DatasetPath() string {
	return f.cfg.GetTraining().DatasetPath
}
