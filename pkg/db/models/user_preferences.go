package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
)

// UserPreferences holds per-user defaults, one row per user.
type UserPreferences struct {
	UserID            uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey"`
	PreferredCurrency enums.Currency `gorm:"column:preferred_currency;type:text;not null;default:'USD'"`
	PreferredStoreID  *uuid.UUID     `gorm:"column:preferred_store_id;type:uuid"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
