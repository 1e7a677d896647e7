package observations

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davidmreyes/pricewatch-backend/pkg/db/models"
	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
)

// ObservationDTO exposes a price observation in API responses.
type ObservationDTO struct {
	ID         uuid.UUID       `json:"id"`
	ItemID     uuid.UUID       `json:"item_id"`
	StoreID    uuid.UUID       `json:"store_id"`
	Price      decimal.Decimal `json:"price"`
	Currency   enums.Currency  `json:"currency"`
	ObservedAt time.Time       `json:"observed_at"`
	Location   *string         `json:"location,omitempty"`
	Notes      *string         `json:"notes,omitempty"`
	Current    bool            `json:"current"`
	CreatedAt  time.Time       `json:"created_at"`
}

// RecordObservationInput captures a new price sighting.
type RecordObservationInput struct {
	StoreID    uuid.UUID       `json:"store_id" validate:"required"`
	Price      decimal.Decimal `json:"price" validate:"required"`
	Currency   string          `json:"currency" validate:"required,currency"`
	ObservedAt *time.Time      `json:"observed_at"`
	Location   *string         `json:"location" validate:"omitempty,max=255"`
	Notes      *string         `json:"notes" validate:"omitempty,max=2000"`
}

// FromModel maps the persisted observation into a DTO.
func FromModel(m *models.PriceObservation) *ObservationDTO {
	if m == nil {
		return nil
	}
	return &ObservationDTO{
		ID:         m.ID,
		ItemID:     m.ItemID,
		StoreID:    m.StoreID,
		Price:      m.Price,
		Currency:   m.Currency,
		ObservedAt: m.ObservedAt,
		Location:   m.Location,
		Notes:      m.Notes,
		Current:    m.Status == enums.RecordStatusActive,
		CreatedAt:  m.CreatedAt,
	}
}

// FromModels maps a slice of observations.
func FromModels(ms []models.PriceObservation) []ObservationDTO {
	dtos := make([]ObservationDTO, 0, len(ms))
	for i := range ms {
		dtos = append(dtos, *FromModel(&ms[i]))
	}
	return dtos
}
