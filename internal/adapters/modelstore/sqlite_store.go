package modelstore

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// NewSQLiteStore opens (and if needed creates) a SQLite model database
func NewSQLiteStore(dbPath, name string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS models (
			name TEXT PRIMARY KEY,
			artifact BLOB NOT NULL,
			trained_at TIMESTAMP,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	logger.Debug("Opened SQLite model store", zap.String("path", dbPath))

	return &SQLStore{
		db:   db,
		name: name,
		upsertQuery: `
			INSERT OR REPLACE INTO models (name, artifact, trained_at, updated_at)
			VALUES (?, ?, ?, ?)
		`,
		logger: logger,
	}, nil
}
