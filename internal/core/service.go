package core

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mikey/spam-classifier/internal/classifier"
)

// SpamFilterService owns the active model and serves predictions from it
type SpamFilterService struct {
	store       ModelStore
	trainer     Trainer
	datasetPath string
	logger      *zap.Logger

	model    atomic.Pointer[classifier.Model]
	training singleflight.Group
}

// NewSpamFilterService creates a new spam filter service with no model loaded
func NewSpamFilterService(
	store ModelStore,
	trainer Trainer,
	datasetPath string,
	logger *zap.Logger,
) *SpamFilterService {
	return &SpamFilterService{
		store:       store,
		trainer:     trainer,
		datasetPath: datasetPath,
		logger:      logger,
	}
}

// LoadOrTrain installs the stored model, training a new one if the store is empty
func (s *SpamFilterService) LoadOrTrain(ctx context.Context) error {
	model, err := s.store.Load(ctx)
	if err == nil {
		s.Install(model)
		s.logger.Info("Loaded model from store", zap.Time("trained_at", model.TrainedAt()))
		return nil
	}
	if !errors.Is(err, ErrModelNotFound) {
		return fmt.Errorf("failed to load model: %w", err)
	}

	s.logger.Info("No stored model, training a new one", zap.String("dataset", s.datasetPath))
	_, err = s.Train(ctx)
	return err
}

// Train fits a model on the dataset, saves it and makes it the active model.
// Concurrent calls share a single training run.
func (s *SpamFilterService) Train(ctx context.Context) (classifier.Metrics, error) {
	ch := s.training.DoChan("train", func() (interface{}, error) {
		model, report, err := s.trainer.Train(ctx, s.datasetPath)
		if err != nil {
			return nil, err
		}
		if err := s.store.Save(ctx, model); err != nil {
			return nil, fmt.Errorf("failed to save model: %w", err)
		}
		s.Install(model)
		s.logger.Info("Installed new model",
			zap.Int("train_size", report.TrainSize),
			zap.Int("test_size", report.TestSize),
			zap.Duration("duration", report.Duration))
		return report.Metrics, nil
	})

	select {
	case <-ctx.Done():
		return classifier.Metrics{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return classifier.Metrics{}, res.Err
		}
		if res.Shared {
			s.logger.Debug("Joined in-flight training run")
		}
		return res.Val.(classifier.Metrics), nil
	}
}

// Install makes model the active model
func (s *SpamFilterService) Install(model *classifier.Model) {
	s.model.Store(model)
}

// Model returns the active model, or nil
func (s *SpamFilterService) Model() *classifier.Model {
	return s.model.Load()
}

// Predict scores text with the active model
func (s *SpamFilterService) Predict(ctx context.Context, text string) (Prediction, error) {
	model := s.model.Load()
	if model == nil {
		return Prediction{}, ErrModelNotLoaded
	}
	return model.Predict(text)
}
