package items

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidmreyes/pricewatch-backend/pkg/db/models"
	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
	"github.com/davidmreyes/pricewatch-backend/pkg/pagination"
)

// Repository handles item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to item operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new item row along with its category links.
func (r *Repository) Create(ctx context.Context, item *models.Item) error {
	if item == nil {
		return fmt.Errorf("item is required")
	}
	return r.db.WithContext(ctx).Create(item).Error
}

// FindByID loads an active item with its categories preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).
		Preload("Categories", "status = ?", enums.RecordStatusActive).
		Where("id = ? AND status = ?", id, enums.RecordStatusActive).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns one cursor page of the owner's active items, newest first.
// It fetches limit+1 rows so the caller can detect the next page.
func (r *Repository) List(ctx context.Context, ownerID uuid.UUID, filter ListFilter, cursor *pagination.Cursor) ([]models.Item, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Preload("Categories", "status = ?", enums.RecordStatusActive).
		Where("items.owner_id = ? AND items.status = ?", ownerID, enums.RecordStatusActive)

	if search := strings.TrimSpace(filter.Search); search != "" {
		q = q.Where("LOWER(items.name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if brand := strings.TrimSpace(filter.Brand); brand != "" {
		q = q.Where("LOWER(items.brand) LIKE ?", "%"+strings.ToLower(brand)+"%")
	}
	if filter.Favorite != nil {
		q = q.Where("items.favorite = ?", *filter.Favorite)
	}
	if filter.Unit != nil {
		q = q.Where("items.unit = ?", *filter.Unit)
	}
	if filter.CategoryID != nil {
		q = q.Joins("JOIN item_categories ic ON ic.item_id = items.id").
			Where("ic.category_id = ?", *filter.CategoryID)
	}
	if cursor != nil {
		q = q.Where(
			"(items.created_at < ?) OR (items.created_at = ? AND items.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var items []models.Item
	if err := q.
		Order("items.created_at DESC, items.id DESC").
		Limit(pagination.LimitWithBuffer(filter.Page.Limit)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Update saves the provided item without touching category links.
func (r *Repository) Update(ctx context.Context, item *models.Item) error {
	if item == nil {
		return fmt.Errorf("item is required")
	}
	return r.db.WithContext(ctx).Omit("Categories").Save(item).Error
}

// ReplaceCategories swaps the item's category set.
func (r *Repository) ReplaceCategories(ctx context.Context, item *models.Item, categories []models.Category) error {
	if item == nil {
		return fmt.Errorf("item is required")
	}
	return r.db.WithContext(ctx).Model(item).Association("Categories").Replace(categories)
}

// SoftDelete flips the item to the inactive status.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", id).
		Update("status", enums.RecordStatusInactive).Error
}
