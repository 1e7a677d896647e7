package items

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidmreyes/pricewatch-backend/pkg/authz"
	"github.com/davidmreyes/pricewatch-backend/pkg/db/models"
	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
	pkgerrors "github.com/davidmreyes/pricewatch-backend/pkg/errors"
	"github.com/davidmreyes/pricewatch-backend/pkg/pagination"
)

type itemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	List(ctx context.Context, ownerID uuid.UUID, filter ListFilter, cursor *pagination.Cursor) ([]models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	ReplaceCategories(ctx context.Context, item *models.Item, categories []models.Category) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type categoryResolver interface {
	FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]models.Category, error)
}

// Service exposes item operations scoped to the requesting user.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateItemInput) (*ItemDTO, error)
	List(ctx context.Context, ownerID uuid.UUID, filter ListFilter) (*ItemPage, error)
	Get(ctx context.Context, requesterID, id uuid.UUID) (*ItemDTO, error)
	Update(ctx context.Context, requesterID, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	Delete(ctx context.Context, requesterID, id uuid.UUID) error
}

type service struct {
	repo       itemRepository
	categories categoryResolver
}

// NewService builds an item service with the provided repositories.
func NewService(repo itemRepository, categories categoryResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo, categories: categories}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateItemInput) (*ItemDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	unit := enums.ItemUnitUnit
	if strings.TrimSpace(input.Unit) != "" {
		parsed, err := enums.ParseItemUnit(input.Unit)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported unit")
		}
		unit = parsed
	}

	cats, err := s.resolveCategories(ctx, ownerID, input.CategoryIDs)
	if err != nil {
		return nil, err
	}

	item := &models.Item{
		OwnerID:     ownerID,
		Name:        name,
		Description: input.Description,
		Unit:        unit,
		Brand:       input.Brand,
		Favorite:    input.Favorite,
		Status:      enums.RecordStatusActive,
		Categories:  cats,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}
	return FromModel(item), nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID, filter ListFilter) (*ItemPage, error) {
	cursor, err := pagination.ParseCursor(filter.Page.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, ownerID, filter, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}

	limit := pagination.NormalizeLimit(filter.Page.Limit)
	page := &ItemPage{Items: make([]ItemDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			last := rows[limit-1]
			page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: last.CreatedAt,
				ID:        last.ID,
			})
			break
		}
		page.Items = append(page.Items, *FromModel(&rows[i]))
	}
	return page, nil
}

func (s *service) Get(ctx context.Context, requesterID, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.load(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(item), nil
}

func (s *service) Update(ctx context.Context, requesterID, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	item, err := s.load(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		item.Name = name
	}
	if input.Description != nil {
		item.Description = input.Description
	}
	if input.Unit != nil {
		unit, err := enums.ParseItemUnit(*input.Unit)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported unit")
		}
		item.Unit = unit
	}
	if input.Brand != nil {
		item.Brand = input.Brand
	}
	if input.Favorite != nil {
		item.Favorite = *input.Favorite
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
	}

	if input.CategoryIDs != nil {
		cats, err := s.resolveCategories(ctx, requesterID, *input.CategoryIDs)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceCategories(ctx, item, cats); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace item categories")
		}
		item.Categories = cats
	}

	return FromModel(item), nil
}

func (s *service) Delete(ctx context.Context, requesterID, id uuid.UUID) error {
	if _, err := s.load(ctx, requesterID, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
	}
	return nil
}

func (s *service) load(ctx context.Context, requesterID, id uuid.UUID) (*models.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if err := authz.EnsureOwner(&requesterID, &item.OwnerID); err != nil {
		return nil, err
	}
	return item, nil
}

// resolveCategories rejects IDs that do not resolve to the owner's own
// active categories.
func (s *service) resolveCategories(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	unique := make([]uuid.UUID, 0, len(ids))
	seen := map[uuid.UUID]struct{}{}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	cats, err := s.categories.FindByIDs(ctx, ownerID, unique)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load categories")
	}
	if len(cats) != len(unique) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category id")
	}
	return cats, nil
}
