package preferences

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/davidmreyes/pricewatch-backend/pkg/db/models"
)

// Repository handles user preference persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to preference operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByUser loads the preference row for a user.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&prefs).Error; err != nil {
		return nil, err
	}
	return &prefs, nil
}

// Upsert writes the preference row, inserting on first save.
func (r *Repository) Upsert(ctx context.Context, prefs *models.UserPreferences) error {
	if prefs == nil {
		return fmt.Errorf("preferences are required")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(prefs).Error
}
