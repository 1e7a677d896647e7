package observations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidmreyes/pricewatch-backend/internal/stores"
	"github.com/davidmreyes/pricewatch-backend/pkg/authz"
	"github.com/davidmreyes/pricewatch-backend/pkg/db"
	"github.com/davidmreyes/pricewatch-backend/pkg/db/models"
	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
	pkgerrors "github.com/davidmreyes/pricewatch-backend/pkg/errors"
)

type itemReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

// Service records and reads price observations. Recording runs in a single
// transaction so the previous current price and the new one never coexist.
type Service interface {
	Record(ctx context.Context, requesterID, itemID uuid.UUID, input RecordObservationInput) (*ObservationDTO, error)
	History(ctx context.Context, requesterID, itemID uuid.UUID, filter HistoryFilter) ([]ObservationDTO, error)
	Current(ctx context.Context, requesterID, itemID uuid.UUID) (*ObservationDTO, error)
	Delete(ctx context.Context, requesterID, itemID, observationID uuid.UUID) error
}

type service struct {
	db    *db.Client
	items itemReader
}

// NewService builds an observation service with the provided dependencies.
func NewService(client *db.Client, items itemReader) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("database client required")
	}
	if items == nil {
		return nil, fmt.Errorf("item repository required")
	}
	return &service{db: client, items: items}, nil
}

func (s *service) Record(ctx context.Context, requesterID, itemID uuid.UUID, input RecordObservationInput) (*ObservationDTO, error) {
	if input.Price.IsNegative() || input.Price.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	currency, err := enums.ParseCurrency(input.Currency)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency")
	}

	item, err := s.loadItem(ctx, requesterID, itemID)
	if err != nil {
		return nil, err
	}

	observedAt := time.Now().UTC()
	if input.ObservedAt != nil {
		observedAt = input.ObservedAt.UTC()
	}
	if observedAt.After(time.Now().Add(time.Minute)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "observed_at cannot be in the future")
	}

	obs := &models.PriceObservation{
		ItemID:     item.ID,
		StoreID:    input.StoreID,
		Price:      input.Price.Round(2),
		Currency:   currency,
		ObservedAt: observedAt,
		Location:   input.Location,
		Notes:      input.Notes,
		Status:     enums.RecordStatusActive,
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		storeRepo := stores.NewRepository(tx)
		store, err := storeRepo.FindByIDWithTx(tx, input.StoreID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
		}
		if !store.IsGlobal() {
			if err := authz.EnsureOwner(&requesterID, store.OwnerID); err != nil {
				return err
			}
		}

		repo := NewRepository(tx)
		if err := repo.DeactivateCurrentWithTx(tx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retire current price")
		}
		if err := repo.CreateWithTx(tx, obs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record observation")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return FromModel(obs), nil
}

func (s *service) History(ctx context.Context, requesterID, itemID uuid.UUID, filter HistoryFilter) ([]ObservationDTO, error) {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date_from must not be after date_to")
	}
	if _, err := s.loadItem(ctx, requesterID, itemID); err != nil {
		return nil, err
	}
	rows, err := NewRepository(s.db.DB()).History(ctx, itemID, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price history")
	}
	return FromModels(rows), nil
}

func (s *service) Current(ctx context.Context, requesterID, itemID uuid.UUID) (*ObservationDTO, error) {
	if _, err := s.loadItem(ctx, requesterID, itemID); err != nil {
		return nil, err
	}
	obs, err := NewRepository(s.db.DB()).Current(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no price recorded")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load current price")
	}
	return FromModel(obs), nil
}

// Delete removes an observation. When the removed row was the current price,
// the most recent remaining sighting is promoted so the item keeps a current
// price as long as any history exists.
func (s *service) Delete(ctx context.Context, requesterID, itemID, observationID uuid.UUID) error {
	if _, err := s.loadItem(ctx, requesterID, itemID); err != nil {
		return err
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		var obs models.PriceObservation
		if err := tx.Where("id = ? AND item_id = ?", observationID, itemID).First(&obs).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "observation not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load observation")
		}

		wasCurrent := obs.Status == enums.RecordStatusActive
		if err := repo.DeleteWithTx(tx, obs.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete observation")
		}

		if wasCurrent {
			latest, err := repo.LatestWithTx(tx, itemID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load latest observation")
			}
			if err := repo.ActivateWithTx(tx, latest.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promote latest observation")
			}
		}
		return nil
	})
}

func (s *service) loadItem(ctx context.Context, requesterID, itemID uuid.UUID) (*models.Item, error) {
	item, err := s.items.FindByID(ctx, itemID)
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
