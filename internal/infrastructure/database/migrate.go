package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"talentbridge/marketplace-api/internal/infrastructure/database/entities"
)

// AutoMigrate applies the identity store schema.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(&entities.User{}); err != nil {
		return err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error; err != nil {
		return err
	}
	log.Debug().Int64("rows", count).Msg("users table migrated")
	return nil
}
