package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidmreyes/pricewatch-backend/pkg/authz"
	"github.com/davidmreyes/pricewatch-backend/pkg/db"
	"github.com/davidmreyes/pricewatch-backend/pkg/db/models"
	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
	pkgerrors "github.com/davidmreyes/pricewatch-backend/pkg/errors"
)

type categoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// Service exposes category operations scoped to the requesting user.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateCategoryInput) (*CategoryDTO, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]CategoryDTO, error)
	Get(ctx context.Context, requesterID, id uuid.UUID) (*CategoryDTO, error)
	Update(ctx context.Context, requesterID, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	Delete(ctx context.Context, requesterID, id uuid.UUID) error
}

type service struct {
	repo categoryRepository
}

// NewService builds a category service with the provided repository.
func NewService(repo categoryRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	category := &models.Category{
		OwnerID: ownerID,
		Name:    name,
		Status:  enums.RecordStatusActive,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "categories_owner_name_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return FromModel(category), nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID) ([]CategoryDTO, error) {
	categories, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return FromModels(categories), nil
}

func (s *service) Get(ctx context.Context, requesterID, id uuid.UUID) (*CategoryDTO, error) {
	category, err := s.load(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(category), nil
}

func (s *service) Update(ctx context.Context, requesterID, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.load(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		category.Name = name
	}

	if err := s.repo.Update(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "categories_owner_name_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return FromModel(category), nil
}

func (s *service) Delete(ctx context.Context, requesterID, id uuid.UUID) error {
	if _, err := s.load(ctx, requesterID, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *service) load(ctx context.Context, requesterID, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if err := authz.EnsureOwner(&requesterID, &category.OwnerID); err != nil {
		return nil, err
	}
	return category, nil
}
