package preferences

import (
	"time"

	"github.com/google/uuid"

	"github.com/davidmreyes/pricewatch-backend/pkg/db/models"
	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
)

// PreferencesDTO exposes per-user defaults in API responses.
type PreferencesDTO struct {
	PreferredCurrency enums.Currency `json:"preferred_currency"`
	PreferredStoreID  *uuid.UUID     `json:"preferred_store_id,omitempty"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// UpdatePreferencesInput captures the mutable defaults.
type UpdatePreferencesInput struct {
	PreferredCurrency *string    `json:"preferred_currency" validate:"omitempty,currency"`
	PreferredStoreID  *uuid.UUID `json:"preferred_store_id"`
}

// FromModel maps the persisted preferences into a DTO.
func FromModel(m *models.UserPreferences) *PreferencesDTO {
	if m == nil {
		return nil
	}
	return &PreferencesDTO{
		PreferredCurrency: m.PreferredCurrency,
		PreferredStoreID:  m.PreferredStoreID,
		UpdatedAt:         m.UpdatedAt,
	}
}
