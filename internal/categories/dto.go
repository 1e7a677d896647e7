package categories

import (
	"time"

	"github.com/google/uuid"

	"github.com/davidmreyes/pricewatch-backend/pkg/db/models"
)

// CategoryDTO exposes a category in API responses.
type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCategoryInput captures creation-time fields.
type CreateCategoryInput struct {
	Name string `json:"name" validate:"required,min=1,max=80"`
}

// UpdateCategoryInput captures the mutable fields.
type UpdateCategoryInput struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=80"`
}

// FromModel maps the persisted category into a DTO.
func FromModel(m *models.Category) *CategoryDTO {
	if m == nil {
		return nil
	}
	return &CategoryDTO{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromModels maps a slice of categories.
func FromModels(ms []models.Category) []CategoryDTO {
	dtos := make([]CategoryDTO, 0, len(ms))
	for i := range ms {
		dtos = append(dtos, *FromModel(&ms[i]))
	}
	return dtos
}
