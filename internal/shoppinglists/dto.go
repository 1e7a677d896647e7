package shoppinglists

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davidmreyes/pricewatch-backend/pkg/db/models"
)

// EntryDTO exposes one line of a shopping list.
type EntryDTO struct {
	ID          uuid.UUID       `json:"id"`
	ItemID      uuid.UUID       `json:"item_id"`
	StoreID     *uuid.UUID      `json:"store_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Notes       *string         `json:"notes,omitempty"`
	PurchasedAt *time.Time      `json:"purchased_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ListDTO exposes a shopping list with its entries.
type ListDTO struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Notes     *string    `json:"notes,omitempty"`
	Entries   []EntryDTO `json:"entries"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ListSummaryDTO is the entry-free shape used by the index endpoint.
type ListSummaryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateListInput captures creation-time fields.
type CreateListInput struct {
	Name  string  `json:"name" validate:"required,min=1,max=120"`
	Notes *string `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateListInput captures the mutable list fields.
type UpdateListInput struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=120"`
	Notes *string `json:"notes" validate:"omitempty,max=2000"`
}

// AddEntryInput captures a new list line.
type AddEntryInput struct {
	ItemID   uuid.UUID        `json:"item_id" validate:"required"`
	StoreID  *uuid.UUID       `json:"store_id"`
	Quantity *decimal.Decimal `json:"quantity"`
	Notes    *string          `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateEntryInput captures the mutable entry fields.
type UpdateEntryInput struct {
	StoreID  *uuid.UUID       `json:"store_id"`
	Quantity *decimal.Decimal `json:"quantity"`
	Notes    *string          `json:"notes" validate:"omitempty,max=2000"`
}

// FromEntryModel maps the persisted entry into a DTO.
func FromEntryModel(m *models.ShoppingListItem) *EntryDTO {
	if m == nil {
		return nil
	}
	return &EntryDTO{
		ID:          m.ID,
		ItemID:      m.ItemID,
		StoreID:     m.StoreID,
		Quantity:    m.Quantity,
		Notes:       m.Notes,
		PurchasedAt: m.PurchasedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromModel maps the persisted list into a DTO.
func FromModel(m *models.ShoppingList) *ListDTO {
	if m == nil {
		return nil
	}
	entries := make([]EntryDTO, 0, len(m.Entries))
	for i := range m.Entries {
		entries = append(entries, *FromEntryModel(&m.Entries[i]))
	}
	return &ListDTO{
		ID:        m.ID,
		Name:      m.Name,
		Notes:     m.Notes,
		Entries:   entries,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Summaries maps a slice of lists to the index shape.
func Summaries(ms []models.ShoppingList) []ListSummaryDTO {
	dtos := make([]ListSummaryDTO, 0, len(ms))
	for i := range ms {
		dtos = append(dtos, ListSummaryDTO{
			ID:        ms[i].ID,
			Name:      ms[i].Name,
			Notes:     ms[i].Notes,
			CreatedAt: ms[i].CreatedAt,
			UpdatedAt: ms[i].UpdatedAt,
		})
	}
	return dtos
}
