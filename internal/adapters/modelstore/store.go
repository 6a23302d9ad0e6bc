package modelstore

import (
	"fmt"

	"github.com/mikey/spam-classifier/internal/classifier"
	"github.com/mikey/spam-classifier/internal/core"
)

// Store is a model store that holds resources until closed
type Store interface {
	core.ModelStore
	Close() error
}

func encode(model *classifier.Model) ([]byte, error) {
	data, err := model.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize model: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*classifier.Model, error) {
	model, err := classifier.UnmarshalModel(data)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize model: %w", err)
	}
	return model, nil
}
