package inflation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/davidmreyes/pricewatch-backend/pkg/authz"
	"github.com/davidmreyes/pricewatch-backend/pkg/db/models"
	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
	pkgerrors "github.com/davidmreyes/pricewatch-backend/pkg/errors"
)

type itemReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

type priceReader interface {
	ObservationsInRange(ctx context.Context, itemID uuid.UUID, currency enums.Currency, from, to time.Time) ([]models.PriceObservation, error)
	OwnerItems(ctx context.Context, ownerID uuid.UUID) ([]models.Item, error)
}

// Service computes price inflation over a date window. Observations are
// filtered by currency; the earliest and latest sightings inside the window
// anchor the change. An item with fewer than two matching sightings yields an
// insufficient-data result rather than an error.
type Service interface {
	ComputeItem(ctx context.Context, requesterID, itemID uuid.UUID, currency enums.Currency, from, to time.Time) (*ItemInflationDTO, error)
	ComputeBasket(ctx context.Context, requesterID uuid.UUID, currency enums.Currency, from, to time.Time) (*ReportDTO, error)
}

type service struct {
	items  itemReader
	prices priceReader
}

// NewService builds an inflation service with the provided readers.
func NewService(items itemReader, prices priceReader) (Service, error) {
	if items == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if prices == nil {
		return nil, fmt.Errorf("price repository required")
	}
	return &service{items: items, prices: prices}, nil
}

func (s *service) ComputeItem(ctx context.Context, requesterID, itemID uuid.UUID, currency enums.Currency, from, to time.Time) (*ItemInflationDTO, error) {
	if err := validateWindow(from, to); err != nil {
		return nil, err
	}
	if !currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid currency")
	}

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

	return s.computeFor(ctx, item, currency, from, to)
}

func (s *service) ComputeBasket(ctx context.Context, requesterID uuid.UUID, currency enums.Currency, from, to time.Time) (*ReportDTO, error) {
	if err := validateWindow(from, to); err != nil {
		return nil, err
	}
	if !currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid currency")
	}

	items, err := s.prices.OwnerItems(ctx, requesterID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}

	report := &ReportDTO{From: from, To: to, Currency: currency, Items: []ItemInflationDTO{}}
	rates := make([]decimal.Decimal, 0, len(items))
	for i := range items {
		dto, err := s.computeFor(ctx, &items[i], currency, from, to)
		if err != nil {
			return nil, err
		}
		if dto.InsufficientData {
			report.SkippedItems++
			continue
		}
		report.Items = append(report.Items, *dto)
		rates = append(rates, *dto.PercentChange)
	}

	if avg, err := Average(rates); err == nil {
		report.AveragePercent = &avg
	}
	return report, nil
}

func (s *service) computeFor(ctx context.Context, item *models.Item, currency enums.Currency, from, to time.Time) (*ItemInflationDTO, error) {
	observations, err := s.prices.ObservationsInRange(ctx, item.ID, currency, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price history")
	}

	dto := &ItemInflationDTO{
		ItemID:           item.ID,
		ItemName:         item.Name,
		Currency:         currency,
		ObservationCount: len(observations),
	}
	if len(observations) < 2 {
		dto.InsufficientData = true
		return dto, nil
	}

	first := observations[0]
	last := observations[len(observations)-1]
	percent, absolute, err := Change(first.Price, last.Price)
	if err != nil {
		if errors.Is(err, ErrInsufficientData) {
			dto.InsufficientData = true
			return dto, nil
		}
		return nil, err
	}

	dto.StartPrice = &first.Price
	dto.StartDate = &first.ObservedAt
	dto.EndPrice = &last.Price
	dto.EndDate = &last.ObservedAt
	dto.PercentChange = &percent
	dto.AbsoluteChange = &absolute
	return dto, nil
}

func validateWindow(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start and end dates are required")
	}
	if from.After(to) {
		return pkgerrors.New(pkgerrors.CodeValidation, "start date must not be after end date")
	}
	if from.After(time.Now().Add(time.Minute)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "start date cannot be in the future")
	}
	return nil
}

// Repo provides the inflation-specific read queries.
type Repo struct {
	db *gorm.DB
}

// NewRepo binds a GORM DB to inflation reads.
func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// ObservationsInRange returns all sightings of the item in the given currency
// whose observed_at falls inside [from, to], oldest first. Superseded
// sightings count: history is read regardless of current/inactive status.
func (r *Repo) ObservationsInRange(ctx context.Context, itemID uuid.UUID, currency enums.Currency, from, to time.Time) ([]models.PriceObservation, error) {
	var observations []models.PriceObservation
	if err := r.db.WithContext(ctx).
		Where("item_id = ? AND currency = ? AND observed_at >= ? AND observed_at <= ?", itemID, currency, from, to).
		Order("observed_at ASC, created_at ASC").
		Find(&observations).Error; err != nil {
		return nil, err
	}
	return observations, nil
}

// OwnerItems lists the owner's active items for basket reports.
func (r *Repo) OwnerItems(ctx context.Context, ownerID uuid.UUID) ([]models.Item, error) {
	var items []models.Item
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, enums.RecordStatusActive).
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
