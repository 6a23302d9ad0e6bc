package modelstore

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// NewMySQLStore connects to MySQL and creates the models table if needed
func NewMySQLStore(dsn, name string, logger *zap.Logger) (*SQLStore, error) {
	// Connect pings the server
	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS models (
			name VARCHAR(255) PRIMARY KEY,
			artifact LONGBLOB NOT NULL,
			trained_at DATETIME(6),
			updated_at DATETIME(6)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	logger.Debug("Connected to MySQL model store")

	return &SQLStore{
		db:   db,
		name: name,
		upsertQuery: `
			INSERT INTO models (name, artifact, trained_at, updated_at)
			VALUES (?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				artifact = VALUES(artifact),
				trained_at = VALUES(trained_at),
				updated_at = VALUES(updated_at)
		`,
		logger: logger,
	}, nil
}
