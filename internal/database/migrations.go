package database

import (
	"fmt"

	"github.com/killallgit/studio-api/internal/models"
)

// Models lists every table the service keeps
func Models() []any {
	return []any{
		&models.Session{},
		&models.Artifact{},
		&models.Job{},
	}
}

// InitializeWithMigrations opens the database and migrates all models
func InitializeWithMigrations(dbPath string, verbose bool) (*DB, error) {
	db, err := Initialize(dbPath, verbose)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return db, nil
}
