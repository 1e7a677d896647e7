package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/davidmreyes/pricewatch-backend/pkg/db/models"
	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
)

// StoreDTO exposes a store in API responses.
type StoreDTO struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Type      enums.StoreType `json:"type"`
	Address   *string         `json:"address,omitempty"`
	City      *string         `json:"city,omitempty"`
	Country   *string         `json:"country,omitempty"`
	Website   *string         `json:"website,omitempty"`
	Global    bool            `json:"global"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateStoreInput captures creation-time fields.
type CreateStoreInput struct {
	Name    string  `json:"name" validate:"required,min=1,max=120"`
	Type    string  `json:"type" validate:"omitempty,store_type"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	City    *string `json:"city" validate:"omitempty,max=120"`
	Country *string `json:"country" validate:"omitempty,max=120"`
	Website *string `json:"website" validate:"omitempty,url,max=255"`
}

// UpdateStoreInput captures the mutable store fields.
type UpdateStoreInput struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=120"`
	Type    *string `json:"type" validate:"omitempty,store_type"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	City    *string `json:"city" validate:"omitempty,max=120"`
	Country *string `json:"country" validate:"omitempty,max=120"`
	Website *string `json:"website" validate:"omitempty,url,max=255"`
}

// FromModel maps the persisted store into a DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}
	return &StoreDTO{
		ID:        m.ID,
		Name:      m.Name,
		Type:      m.Type,
		Address:   m.Address,
		City:      m.City,
		Country:   m.Country,
		Website:   m.Website,
		Global:    m.IsGlobal(),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromModels maps a slice of stores.
func FromModels(ms []models.Store) []StoreDTO {
	dtos := make([]StoreDTO, 0, len(ms))
	for i := range ms {
		dtos = append(dtos, *FromModel(&ms[i]))
	}
	return dtos
}
