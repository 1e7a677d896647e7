package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
)

// Category groups a user's items. Names are unique per owner.
type Category struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID   uuid.UUID          `gorm:"column:owner_id;type:uuid;not null;index:categories_owner_id_idx;uniqueIndex:categories_owner_name_key"`
	Name      string             `gorm:"column:name;not null;uniqueIndex:categories_owner_name_key"`
	Status    enums.RecordStatus `gorm:"column:status;type:text;not null;default:'active'"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
