package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
)

// Item represents a tracked shopping item owned by a user.
type Item struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID     uuid.UUID          `gorm:"column:owner_id;type:uuid;not null;index:items_owner_id_idx"`
	Name        string             `gorm:"column:name;not null"`
	Description *string            `gorm:"column:description"`
	Unit        enums.ItemUnit     `gorm:"column:unit;type:text;not null;default:'unit'"`
	Brand       *string            `gorm:"column:brand"`
	Favorite    bool               `gorm:"column:favorite;not null;default:false"`
	Status      enums.RecordStatus `gorm:"column:status;type:text;not null;default:'active'"`
	Categories  []Category         `gorm:"many2many:item_categories;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
