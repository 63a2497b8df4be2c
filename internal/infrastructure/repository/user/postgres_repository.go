package user

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"talentbridge/marketplace-api/internal/domain"
	domainuser "talentbridge/marketplace-api/internal/domain/user"
	"talentbridge/marketplace-api/internal/infrastructure/database/entities"
)

// PostgresRepository persists profiles via PostgreSQL using GORM.
type PostgresRepository struct {
	db *gorm.DB
}

var _ domainuser.Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a repository backed by the provided DB.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByID returns the profile row for id.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*domainuser.Profile, error) {
	var record entities.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return toDomain(&record), nil
}

// CreateIfAbsent inserts the profile, leaving an existing row with the same id untouched.
func (r *PostgresRepository) CreateIfAbsent(ctx context.Context, profile *domainuser.Profile) error {
	record := toEntity(profile)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(record).Error
}

// Update saves the mutable profile columns.
func (r *PostgresRepository) Update(ctx context.Context, profile *domainuser.Profile) error {
	result := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", profile.ID).
		Updates(map[string]any{
			"full_name":     profile.FullName,
			"email":         profile.Email,
			"role":          string(profile.Role),
			"profile_image": profile.ProfileImage,
			"updated_at":    profile.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainuser.ErrNotFound
	}
	return nil
}

func toEntity(profile *domainuser.Profile) *entities.User {
	return &entities.User{
		ID:           profile.ID,
		FullName:     profile.FullName,
		Email:        profile.Email,
		Role:         string(profile.Role),
		ProfileImage: profile.ProfileImage,
		CreatedAt:    profile.CreatedAt,
		UpdatedAt:    profile.UpdatedAt,
	}
}

func toDomain(record *entities.User) *domainuser.Profile {
	return &domainuser.Profile{
		ID:           record.ID,
		FullName:     record.FullName,
		Email:        record.Email,
		Role:         domain.Role(record.Role),
		ProfileImage: record.ProfileImage,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}
