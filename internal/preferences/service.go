package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidmreyes/pricewatch-backend/pkg/authz"
	"github.com/davidmreyes/pricewatch-backend/pkg/db/models"
	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
	pkgerrors "github.com/davidmreyes/pricewatch-backend/pkg/errors"
)

type preferencesRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error)
	Upsert(ctx context.Context, prefs *models.UserPreferences) error
}

type storeReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// Service exposes per-user preference operations.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*PreferencesDTO, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdatePreferencesInput) (*PreferencesDTO, error)
}

type service struct {
	repo   preferencesRepository
	stores storeReader
}

// NewService builds a preferences service with the provided repositories.
func NewService(repo preferencesRepository, stores storeReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("preferences repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo, stores: stores}, nil
}

// Get returns the stored preferences, falling back to defaults when the user
// has never saved any.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*PreferencesDTO, error) {
	prefs, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &PreferencesDTO{PreferredCurrency: enums.CurrencyUSD}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load preferences")
	}
	return FromModel(prefs), nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, input UpdatePreferencesInput) (*PreferencesDTO, error) {
	prefs, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load preferences")
		}
		prefs = &models.UserPreferences{
			UserID:            userID,
			PreferredCurrency: enums.CurrencyUSD,
		}
	}

	if input.PreferredCurrency != nil {
		currency, err := enums.ParseCurrency(*input.PreferredCurrency)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency")
		}
		prefs.PreferredCurrency = currency
	}

	if input.PreferredStoreID != nil {
		store, err := s.stores.FindByID(ctx, *input.PreferredStoreID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
		}
		// the preferred store must be global or owned by the user
		if !store.IsGlobal() {
			if err := authz.EnsureOwner(&userID, store.OwnerID); err != nil {
				return nil, err
			}
		}
		prefs.PreferredStoreID = input.PreferredStoreID
	}

	if err := s.repo.Upsert(ctx, prefs); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save preferences")
	}
	return FromModel(prefs), nil
}
