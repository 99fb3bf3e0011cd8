package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/hhtelecom/fieldcapture/app/models"
)

// Open opens the on-device store at the given path and migrates the
// schema. The returned handle is owned by the caller (the composition
// root) and passed by injection to everything that needs the store.
// Tests pass a mode=memory DSN.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", path, err)
	}

	err = db.AutoMigrate(
		&models.Report{},
		&models.Photo{},
		&models.QueuedRequest{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate store schema: %w", err)
	}

	return db, nil
}
