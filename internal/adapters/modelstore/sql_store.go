package modelstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/classifier"
	"github.com/mikey/spam-classifier/internal/core"
)

// SQLStore keeps the model artifact as a blob row keyed by model name
type SQLStore struct {
	db          *sqlx.DB
	name        string
	upsertQuery string
	logger      *zap.Logger
}

type modelRow struct {
	Artifact []byte `db:"artifact"`
}

// Load reads the model row
func (s *SQLStore) Load(ctx context.Context) (*classifier.Model, error) {
	var row modelRow
	err := s.db.GetContext(ctx, &row, `SELECT artifact FROM models WHERE name = ?`, s.name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrModelNotFound
		}
		return nil, fmt.Errorf("failed to query model: %w", err)
	}
	return decode(row.Artifact)
}

// Save replaces the model row
func (s *SQLStore) Save(ctx context.Context, model *classifier.Model) error {
	data, err := encode(model)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, s.upsertQuery, s.name, data, model.TrainedAt(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store model: %w", err)
	}

	s.logger.Info("Saved model",
		zap.String("driver", s.db.DriverName()),
		zap.String("name", s.name),
		zap.Int("bytes", len(data)))
	return nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
