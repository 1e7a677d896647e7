package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
)

// Store is a place where prices are observed. A nil OwnerID marks a global
// store shared by every user; owned stores are private to their owner.
type Store struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID   *uuid.UUID         `gorm:"column:owner_id;type:uuid;index:stores_owner_id_idx"`
	Name      string             `gorm:"column:name;not null"`
	Type      enums.StoreType    `gorm:"column:type;type:text;not null;default:'other'"`
	Address   *string            `gorm:"column:address"`
	City      *string            `gorm:"column:city"`
	Country   *string            `gorm:"column:country"`
	Website   *string            `gorm:"column:website"`
	Status    enums.RecordStatus `gorm:"column:status;type:text;not null;default:'active'"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// IsGlobal reports whether the store is a shared read reference.
func (s *Store) IsGlobal() bool {
	return s.OwnerID == nil
}

func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
