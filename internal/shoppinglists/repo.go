package shoppinglists

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidmreyes/pricewatch-backend/pkg/db/models"
	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
)

// Repository handles shopping list persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to shopping list operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new list row.
func (r *Repository) Create(ctx context.Context, list *models.ShoppingList) error {
	if list == nil {
		return fmt.Errorf("list is required")
	}
	return r.db.WithContext(ctx).Create(list).Error
}

// FindByID loads an active list with its entries preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ShoppingList, error) {
	var list models.ShoppingList
	if err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ? AND status = ?", id, enums.RecordStatusActive).
		First(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// FindByOwner returns the owner's active lists, newest first, without entries.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.ShoppingList, error) {
	var lists []models.ShoppingList
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, enums.RecordStatusActive).
		Order("created_at DESC").
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// Update saves the provided list header without touching entries.
func (r *Repository) Update(ctx context.Context, list *models.ShoppingList) error {
	if list == nil {
		return fmt.Errorf("list is required")
	}
	return r.db.WithContext(ctx).Omit("Entries").Save(list).Error
}

// SoftDelete flips the list to the inactive status.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ShoppingList{}).
		Where("id = ?", id).
		Update("status", enums.RecordStatusInactive).Error
}

// AddEntry persists a new list line.
func (r *Repository) AddEntry(ctx context.Context, entry *models.ShoppingListItem) error {
	if entry == nil {
		return fmt.Errorf("entry is required")
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindEntry loads a single entry belonging to the given list.
func (r *Repository) FindEntry(ctx context.Context, listID, entryID uuid.UUID) (*models.ShoppingListItem, error) {
	var entry models.ShoppingListItem
	if err := r.db.WithContext(ctx).
		Where("id = ? AND list_id = ?", entryID, listID).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateEntry saves the provided entry.
func (r *Repository) UpdateEntry(ctx context.Context, entry *models.ShoppingListItem) error {
	if entry == nil {
		return fmt.Errorf("entry is required")
	}
	return r.db.WithContext(ctx).Save(entry).Error
}

// RemoveEntry deletes the entry row.
func (r *Repository) RemoveEntry(ctx context.Context, listID, entryID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.ShoppingListItem{}, "id = ? AND list_id = ?", entryID, listID).Error
}
