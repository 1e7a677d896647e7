package stores

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

type storeRepository interface {
	Create(ctx context.Context, store *models.Store) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindVisible(ctx context.Context, userID uuid.UUID) ([]models.Store, error)
	Update(ctx context.Context, store *models.Store) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	HardDelete(ctx context.Context, id uuid.UUID) error
}

// Actor identifies the requesting user and their role.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.UserRoleAdmin
}

// Service exposes store operations. Global stores (no owner) are readable by
// everyone but only admins may change them.
type Service interface {
	Create(ctx context.Context, actor Actor, input CreateStoreInput) (*StoreDTO, error)
	CreateGlobal(ctx context.Context, actor Actor, input CreateStoreInput) (*StoreDTO, error)
	List(ctx context.Context, actor Actor) ([]StoreDTO, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*StoreDTO, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateStoreInput) (*StoreDTO, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
	DeleteGlobal(ctx context.Context, actor Actor, id uuid.UUID) error
}

type service struct {
	repo storeRepository
}

// NewService builds a store service with the provided repository.
func NewService(repo storeRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, actor Actor, input CreateStoreInput) (*StoreDTO, error) {
	store, err := buildStore(input)
	if err != nil {
		return nil, err
	}
	ownerID := actor.UserID
	store.OwnerID = &ownerID

	if err := s.repo.Create(ctx, store); err != nil {
		if db.IsUniqueViolation(err, "stores_owner_name_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "store name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}
	return FromModel(store), nil
}

func (s *service) CreateGlobal(ctx context.Context, actor Actor, input CreateStoreInput) (*StoreDTO, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	store, err := buildStore(input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}
	return FromModel(store), nil
}

func (s *service) List(ctx context.Context, actor Actor) ([]StoreDTO, error) {
	stores, err := s.repo.FindVisible(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	return FromModels(stores), nil
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*StoreDTO, error) {
	store, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return FromModel(store), nil
}

func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateStoreInput) (*StoreDTO, error) {
	store, err := s.loadMutable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		store.Name = name
	}
	if input.Type != nil {
		storeType, err := enums.ParseStoreType(*input.Type)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported store type")
		}
		store.Type = storeType
	}
	if input.Address != nil {
		store.Address = input.Address
	}
	if input.City != nil {
		store.City = input.City
	}
	if input.Country != nil {
		store.Country = input.Country
	}
	if input.Website != nil {
		store.Website = input.Website
	}

	if err := s.repo.Update(ctx, store); err != nil {
		if db.IsUniqueViolation(err, "stores_owner_name_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "store name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}
	return FromModel(store), nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := s.loadMutable(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete store")
	}
	return nil
}

// DeleteGlobal removes a global store row for good. Unlike the soft deletes
// everywhere else, retiring a catalog entry erases it. User-owned stores are
// out of scope here; admins curate only the shared catalog this way.
func (s *service) DeleteGlobal(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	store, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !store.IsGlobal() {
		return pkgerrors.New(pkgerrors.CodeValidation, "store is not part of the global catalog")
	}
	if err := s.repo.HardDelete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete store")
	}
	return nil
}

// loadVisible resolves a store the actor may read: global or their own.
func (s *service) loadVisible(ctx context.Context, actor Actor, id uuid.UUID) (*models.Store, error) {
	store, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if store.IsGlobal() || actor.IsAdmin() {
		return store, nil
	}
	if err := authz.EnsureOwner(&actor.UserID, store.OwnerID); err != nil {
		return nil, err
	}
	return store, nil
}

// loadMutable resolves a store the actor may change: their own, or any store
// for admins. Global stores are admin-only.
func (s *service) loadMutable(ctx context.Context, actor Actor, id uuid.UUID) (*models.Store, error) {
	store, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return store, nil
	}
	if store.IsGlobal() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	if err := authz.EnsureOwner(&actor.UserID, store.OwnerID); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}

func buildStore(input CreateStoreInput) (*models.Store, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	storeType := enums.StoreTypeOther
	if strings.TrimSpace(input.Type) != "" {
		parsed, err := enums.ParseStoreType(input.Type)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported store type")
		}
		storeType = parsed
	}

	return &models.Store{
		Name:    name,
		Type:    storeType,
		Address: input.Address,
		City:    input.City,
		Country: input.Country,
		Website: input.Website,
		Status:  enums.RecordStatusActive,
	}, nil
}
