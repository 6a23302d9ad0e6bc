package modelstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/classifier"
	"github.com/mikey/spam-classifier/internal/core"
)

// FileStore keeps the model artifact in a single file
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore creates a new file store
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger,
	}
}

// Load reads the model file
func (s *FileStore) Load(ctx context.Context) (*classifier.Model, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.ErrModelNotFound
		}
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	return decode(data)
}

// Save writes the model next to the target and renames it into place,
// so readers never see a partially written file
func (s *FileStore) Save(ctx context.Context, model *classifier.Model) error {
	data, err := encode(model)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary model file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write model file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace model file: %w", err)
	}

	s.logger.Info("Saved model", zap.String("path", s.path), zap.Int("bytes", len(data)))
	return nil
}

// Close is a no-op
func (s *FileStore) Close() error {
	return nil
}
