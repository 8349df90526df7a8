package database

import (
	"context"
	"fmt"

	"github.com/arboriq/arboriq-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var extensions = []string{
	`CREATE EXTENSION IF NOT EXISTS postgis`,
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
}

// spatialIndexes are not expressible through struct tags.
var spatialIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_trees_location ON trees USING GIST (location)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_boundary ON properties USING GIST (boundary)`,
	`CREATE INDEX IF NOT EXISTS idx_zones_boundary ON zones USING GIST (boundary)`,
	`CREATE INDEX IF NOT EXISTS idx_risk_alerts_exclusion_zone ON risk_alerts USING GIST (exclusion_zone)`,
	`CREATE INDEX IF NOT EXISTS idx_media_location ON media USING GIST (location)`,
}

// Migrate migrates the database schema
func Migrate(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	log.Info("Migrating database schema...")
	tx := db.WithContext(ctx)

	for _, stmt := range extensions {
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to enable extension: %w", err)
		}
	}

	if err := tx.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	for _, stmt := range spatialIndexes {
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create spatial index: %w", err)
		}
	}

	log.Info("Database schema migrated", zap.Int("tables", len(models.All())))
	return nil
}
