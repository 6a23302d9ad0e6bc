package core

import (
	"context"

	"github.com/mikey/spam-classifier/internal/classifier"
)

// ModelStore persists the single serialized model artifact
type ModelStore interface {
	// Load returns the stored model, or ErrModelNotFound when there is none
	Load(ctx context.Context) (*classifier.Model, error)

	// Save replaces the stored model
	Save(ctx context.Context, model *classifier.Model) error
}

// Trainer fits a model from a dataset file
type Trainer interface {
	Train(ctx context.Context, datasetPath string) (*classifier.Model, *classifier.Report, error)
}

// Predictor scores text against the active model
type Predictor interface {
	Predict(ctx context.Context, text string) (Prediction, error)
}
