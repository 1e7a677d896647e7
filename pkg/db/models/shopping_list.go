package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
)

// ShoppingList is a user-owned list of planned purchases.
type ShoppingList struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID   uuid.UUID          `gorm:"column:owner_id;type:uuid;not null;index:shopping_lists_owner_id_idx"`
	Name      string             `gorm:"column:name;not null"`
	Notes     *string            `gorm:"column:notes"`
	Status    enums.RecordStatus `gorm:"column:status;type:text;not null;default:'active'"`
	Entries   []ShoppingListItem `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (l *ShoppingList) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// ShoppingListItem joins a list to an item, optionally pinned to a store.
// PurchasedAt doubles as the checked-off marker.
type ShoppingListItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ListID      uuid.UUID       `gorm:"column:list_id;type:uuid;not null;index:shopping_list_items_list_id_idx"`
	ItemID      uuid.UUID       `gorm:"column:item_id;type:uuid;not null;index:shopping_list_items_item_id_idx"`
	StoreID     *uuid.UUID      `gorm:"column:store_id;type:uuid"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(10,3);not null;default:1"`
	Notes       *string         `gorm:"column:notes"`
	PurchasedAt *time.Time      `gorm:"column:purchased_at"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (e *ShoppingListItem) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
