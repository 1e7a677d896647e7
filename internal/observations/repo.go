package observations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidmreyes/pricewatch-backend/pkg/db/models"
	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
)

// Repository handles price observation persistence. Mutations that must stay
// atomic with the active-flag flip take an explicit transaction.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to observation operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads an observation regardless of status.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PriceObservation, error) {
	var obs models.PriceObservation
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&obs).Error; err != nil {
		return nil, err
	}
	return &obs, nil
}

// HistoryFilter narrows a history read. Nil fields are ignored.
type HistoryFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Currency *enums.Currency
}

// History returns the item's observations matching the filter, oldest
// sighting first.
func (r *Repository) History(ctx context.Context, itemID uuid.UUID, filter HistoryFilter) ([]models.PriceObservation, error) {
	q := r.db.WithContext(ctx).Where("item_id = ?", itemID)
	if filter.DateFrom != nil {
		q = q.Where("observed_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("observed_at <= ?", *filter.DateTo)
	}
	if filter.Currency != nil {
		q = q.Where("currency = ?", *filter.Currency)
	}

	var rows []models.PriceObservation
	if err := q.Order("observed_at ASC, created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Current loads the item's active observation.
func (r *Repository) Current(ctx context.Context, itemID uuid.UUID) (*models.PriceObservation, error) {
	var obs models.PriceObservation
	if err := r.db.WithContext(ctx).
		Where("item_id = ? AND status = ?", itemID, enums.RecordStatusActive).
		First(&obs).Error; err != nil {
		return nil, err
	}
	return &obs, nil
}

// DeactivateCurrentWithTx flips the item's active observation, if any, to inactive.
func (r *Repository) DeactivateCurrentWithTx(tx *gorm.DB, itemID uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.
		Model(&models.PriceObservation{}).
		Where("item_id = ? AND status = ?", itemID, enums.RecordStatusActive).
		Update("status", enums.RecordStatusInactive).Error
}

// CreateWithTx inserts the observation inside the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, obs *models.PriceObservation) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if obs == nil {
		return fmt.Errorf("observation is required")
	}
	return tx.Create(obs).Error
}

// DeleteWithTx removes the observation row inside the provided transaction.
func (r *Repository) DeleteWithTx(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Delete(&models.PriceObservation{}, "id = ?", id).Error
}

// LatestWithTx returns the item's most recent observation by sighting time.
func (r *Repository) LatestWithTx(tx *gorm.DB, itemID uuid.UUID) (*models.PriceObservation, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var obs models.PriceObservation
	if err := tx.
		Where("item_id = ?", itemID).
		Order("observed_at DESC, created_at DESC").
		First(&obs).Error; err != nil {
		return nil, err
	}
	return &obs, nil
}

// ActivateWithTx marks the given observation as the item's current price.
func (r *Repository) ActivateWithTx(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.
		Model(&models.PriceObservation{}).
		Where("id = ?", id).
		Update("status", enums.RecordStatusActive).Error
}
