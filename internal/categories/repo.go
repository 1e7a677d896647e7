package categories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidmreyes/pricewatch-backend/pkg/db/models"
	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
)

// Repository handles category persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to category operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new category row.
func (r *Repository) Create(ctx context.Context, category *models.Category) error {
	if category == nil {
		return fmt.Errorf("category is required")
	}
	return r.db.WithContext(ctx).Create(category).Error
}

// FindByID loads an active category by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, enums.RecordStatusActive).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByOwner returns the owner's active categories ordered by name.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, enums.RecordStatusActive).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindByIDs loads the owner's active categories matching the given IDs.
func (r *Repository) FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ? AND id IN ?", ownerID, enums.RecordStatusActive, ids).
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Update saves the provided category.
func (r *Repository) Update(ctx context.Context, category *models.Category) error {
	if category == nil {
		return fmt.Errorf("category is required")
	}
	return r.db.WithContext(ctx).Save(category).Error
}

// SoftDelete flips the category to the inactive status.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Update("status", enums.RecordStatusInactive).Error
}
