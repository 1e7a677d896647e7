package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
)

// PriceObservation is a single timestamped price record for an item at a
// store. At most one observation per item carries the active status; the
// active one is semantically the item's current price.
type PriceObservation struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	ItemID     uuid.UUID          `gorm:"column:item_id;type:uuid;not null;index:price_observations_item_id_idx"`
	StoreID    uuid.UUID          `gorm:"column:store_id;type:uuid;not null;index:price_observations_store_id_idx"`
	Price      decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null"`
	Currency   enums.Currency     `gorm:"column:currency;type:text;not null"`
	ObservedAt time.Time          `gorm:"column:observed_at;not null;index:price_observations_observed_at_idx"`
	Location   *string            `gorm:"column:location"`
	Notes      *string            `gorm:"column:notes"`
	Status     enums.RecordStatus `gorm:"column:status;type:text;not null;default:'active'"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *PriceObservation) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
