package items

import (
	"time"

	"github.com/google/uuid"

	"github.com/davidmreyes/pricewatch-backend/internal/categories"
	"github.com/davidmreyes/pricewatch-backend/pkg/db/models"
	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
	"github.com/davidmreyes/pricewatch-backend/pkg/pagination"
)

// ItemDTO exposes a tracked item in API responses.
type ItemDTO struct {
	ID          uuid.UUID                `json:"id"`
	Name        string                   `json:"name"`
	Description *string                  `json:"description,omitempty"`
	Unit        enums.ItemUnit           `json:"unit"`
	Brand       *string                  `json:"brand,omitempty"`
	Favorite    bool                     `json:"favorite"`
	Categories  []categories.CategoryDTO `json:"categories"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// CreateItemInput captures creation-time fields.
type CreateItemInput struct {
	Name        string      `json:"name" validate:"required,min=1,max=120"`
	Description *string     `json:"description" validate:"omitempty,max=2000"`
	Unit        string      `json:"unit" validate:"omitempty,item_unit"`
	Brand       *string     `json:"brand" validate:"omitempty,max=120"`
	Favorite    bool        `json:"favorite"`
	CategoryIDs []uuid.UUID `json:"category_ids" validate:"omitempty,max=20"`
}

// UpdateItemInput captures the mutable item fields. A non-nil CategoryIDs
// replaces the full category set.
type UpdateItemInput struct {
	Name        *string      `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string      `json:"description" validate:"omitempty,max=2000"`
	Unit        *string      `json:"unit" validate:"omitempty,item_unit"`
	Brand       *string      `json:"brand" validate:"omitempty,max=120"`
	Favorite    *bool        `json:"favorite"`
	CategoryIDs *[]uuid.UUID `json:"category_ids" validate:"omitempty,max=20"`
}

// ListFilter narrows the item listing.
type ListFilter struct {
	Search     string
	Brand      string
	CategoryID *uuid.UUID
	Favorite   *bool
	Unit       *enums.ItemUnit
	Page       pagination.Params
}

// ItemPage is one cursor page of items.
type ItemPage struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// FromModel maps the persisted item into a DTO.
func FromModel(m *models.Item) *ItemDTO {
	if m == nil {
		return nil
	}
	return &ItemDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Unit:        m.Unit,
		Brand:       m.Brand,
		Favorite:    m.Favorite,
		Categories:  categories.FromModels(m.Categories),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
