package classifier

import "errors"

var (
	// ErrTraining is returned when the dataset cannot be loaded or the model cannot be fitted
	ErrTraining = errors.New("training failed")
	// ErrScoring is returned when a text cannot be scored against a model
	ErrScoring = errors.New("scoring failed")
)
