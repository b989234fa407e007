// database/bootstrap.go
package database

import (
	"fmt"
	"log/slog"

	"github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"docqa/config"
	"docqa/entities"
)

// Open connects to the configured database and migrates the schema.
func Open(cfg config.AppConfig) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dial = postgres.Open(cfg.DatabaseURL)
	case "sqlite", "":
		dial = sqlite.Open(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
	}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	slog.Info("[db] ready", "driver", cfg.DBDriver)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	// must run before AutoMigrate adds the unique index on filename
	if err := dedupeDocumentFilenames(db); err != nil {
		return fmt.Errorf("migrate documents: %w", err)
	}
	if err := db.AutoMigrate(
		&entities.Folder{},
		&entities.Document{},
		&entities.User{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// dedupeDocumentFilenames keeps only the newest row per filename in a
// documents table created before filenames were unique.
func dedupeDocumentFilenames(db *gorm.DB) error {
	if !db.Migrator().HasTable("documents") {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`DELETE FROM documents WHERE id NOT IN (SELECT MAX(id) FROM documents GROUP BY filename)`)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			slog.Warn("[db] removed duplicate documents", "rows", res.RowsAffected)
		}
		return nil
	})
}
