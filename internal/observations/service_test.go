package observations

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/davidmreyes/pricewatch-backend/internal/items"
	"github.com/davidmreyes/pricewatch-backend/pkg/config"
	"github.com/davidmreyes/pricewatch-backend/pkg/db"
	"github.com/davidmreyes/pricewatch-backend/pkg/db/models"
	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
	pkgerrors "github.com/davidmreyes/pricewatch-backend/pkg/errors"
	"github.com/davidmreyes/pricewatch-backend/pkg/logger"
)

type fixture struct {
	svc    Service
	client *db.Client
	owner  uuid.UUID
	item   *models.Item
	store  *models.Store
}

func setup(t *testing.T) *fixture {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		DSN:    "file:observations_" + uuid.NewString() + "?mode=memory&cache=shared",
	}, logg)
	require.NoError(t, err)
	require.NoError(t, client.DB().AutoMigrate(
		&models.Category{}, &models.Item{}, &models.Store{}, &models.PriceObservation{},
	))
	t.Cleanup(func() { client.Close() })

	owner := uuid.New()
	item := &models.Item{OwnerID: owner, Name: "Milk", Unit: enums.ItemUnitLiter, Status: enums.RecordStatusActive}
	require.NoError(t, client.DB().Create(item).Error)

	store := &models.Store{Name: "MegaMart", Type: enums.StoreTypeSupermarket, Status: enums.RecordStatusActive}
	require.NoError(t, client.DB().Create(store).Error)

	svc, err := NewService(client, items.NewRepository(client.DB()))
	require.NoError(t, err)

	return &fixture{svc: svc, client: client, owner: owner, item: item, store: store}
}

func (f *fixture) record(t *testing.T, price string) *ObservationDTO {
	t.Helper()
	dto, err := f.svc.Record(context.Background(), f.owner, f.item.ID, RecordObservationInput{
		StoreID:  f.store.ID,
		Price:    decimal.RequireFromString(price),
		Currency: "USD",
	})
	require.NoError(t, err)
	return dto
}

func TestRecordFirstObservationBecomesCurrent(t *testing.T) {
	f := setup(t)

	dto := f.record(t, "4.50")
	require.True(t, dto.Current)
	require.Equal(t, "4.5", dto.Price.String())

	current, err := f.svc.Current(context.Background(), f.owner, f.item.ID)
	require.NoError(t, err)
	require.Equal(t, dto.ID, current.ID)
}

func TestRecordRetiresPreviousCurrent(t *testing.T) {
	f := setup(t)

	first := f.record(t, "4.50")
	second := f.record(t, "4.75")

	current, err := f.svc.Current(context.Background(), f.owner, f.item.ID)
	require.NoError(t, err)
	require.Equal(t, second.ID, current.ID)

	// exactly one active row remains
	var count int64
	require.NoError(t, f.client.DB().
		Model(&models.PriceObservation{}).
		Where("item_id = ? AND status = ?", f.item.ID, enums.RecordStatusActive).
		Count(&count).Error)
	require.EqualValues(t, 1, count)

	history, err := f.svc.History(context.Background(), f.owner, f.item.ID, HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, history, 2)
	_ = first
}

func TestHistoryOldestFirstWithFilters(t *testing.T) {
	f := setup(t)

	at := func(hoursAgo int) *time.Time {
		ts := time.Now().UTC().Add(-time.Duration(hoursAgo) * time.Hour)
		return &ts
	}
	seed := func(price, currency string, observedAt *time.Time) {
		_, err := f.svc.Record(context.Background(), f.owner, f.item.ID, RecordObservationInput{
			StoreID:    f.store.ID,
			Price:      decimal.RequireFromString(price),
			Currency:   currency,
			ObservedAt: observedAt,
		})
		require.NoError(t, err)
	}
	seed("4.00", "USD", at(72))
	seed("3.80", "EUR", at(48))
	seed("4.50", "USD", at(24))

	history, err := f.svc.History(context.Background(), f.owner, f.item.ID, HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, history, 3)
	require.Equal(t, "4", history[0].Price.String())
	require.Equal(t, "4.5", history[2].Price.String())

	usd := enums.CurrencyUSD
	history, err = f.svc.History(context.Background(), f.owner, f.item.ID, HistoryFilter{Currency: &usd})
	require.NoError(t, err)
	require.Len(t, history, 2)

	history, err = f.svc.History(context.Background(), f.owner, f.item.ID, HistoryFilter{DateFrom: at(60), DateTo: at(12)})
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "3.8", history[0].Price.String())
}

func TestHistoryRejectsInvertedDateFilter(t *testing.T) {
	f := setup(t)

	now := time.Now().UTC()
	earlier := now.Add(-time.Hour)
	_, err := f.svc.History(context.Background(), f.owner, f.item.ID, HistoryFilter{DateFrom: &now, DateTo: &earlier})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestRecordUnknownStorePersistsNothing(t *testing.T) {
	f := setup(t)
	f.record(t, "4.50")

	_, err := f.svc.Record(context.Background(), f.owner, f.item.ID, RecordObservationInput{
		StoreID:  uuid.New(),
		Price:    decimal.RequireFromString("5.00"),
		Currency: "USD",
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	// the failed write neither added a row nor retired the current price
	var count int64
	require.NoError(t, f.client.DB().
		Model(&models.PriceObservation{}).
		Where("item_id = ?", f.item.ID).
		Count(&count).Error)
	require.EqualValues(t, 1, count)

	current, err := f.svc.Current(context.Background(), f.owner, f.item.ID)
	require.NoError(t, err)
	require.True(t, current.Current)
}

func TestRecordForeignStoreForbidden(t *testing.T) {
	f := setup(t)

	otherOwner := uuid.New()
	private := &models.Store{OwnerID: &otherOwner, Name: "Theirs", Type: enums.StoreTypeMarket, Status: enums.RecordStatusActive}
	require.NoError(t, f.client.DB().Create(private).Error)

	_, err := f.svc.Record(context.Background(), f.owner, f.item.ID, RecordObservationInput{
		StoreID:  private.ID,
		Price:    decimal.RequireFromString("5.00"),
		Currency: "USD",
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestRecordRejectsNonPositivePrice(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Record(context.Background(), f.owner, f.item.ID, RecordObservationInput{
		StoreID:  f.store.ID,
		Price:    decimal.Zero,
		Currency: "USD",
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestRecordRejectsFutureObservedAt(t *testing.T) {
	f := setup(t)

	future := time.Now().Add(48 * time.Hour)
	_, err := f.svc.Record(context.Background(), f.owner, f.item.ID, RecordObservationInput{
		StoreID:    f.store.ID,
		Price:      decimal.RequireFromString("4.50"),
		Currency:   "USD",
		ObservedAt: &future,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestHistoryForeignItemForbidden(t *testing.T) {
	f := setup(t)
	f.record(t, "4.50")

	_, err := f.svc.History(context.Background(), uuid.New(), f.item.ID, HistoryFilter{})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestDeleteCurrentPromotesLatestRemaining(t *testing.T) {
	f := setup(t)

	earlier := time.Now().Add(-2 * time.Hour)
	_, err := f.svc.Record(context.Background(), f.owner, f.item.ID, RecordObservationInput{
		StoreID:    f.store.ID,
		Price:      decimal.RequireFromString("4.00"),
		Currency:   "USD",
		ObservedAt: &earlier,
	})
	require.NoError(t, err)
	second := f.record(t, "4.75")

	require.NoError(t, f.svc.Delete(context.Background(), f.owner, f.item.ID, second.ID))

	current, err := f.svc.Current(context.Background(), f.owner, f.item.ID)
	require.NoError(t, err)
	require.Equal(t, "4", current.Price.String())
}

func TestDeleteLastObservationLeavesNoCurrent(t *testing.T) {
	f := setup(t)
	only := f.record(t, "4.50")

	require.NoError(t, f.svc.Delete(context.Background(), f.owner, f.item.ID, only.ID))

	_, err := f.svc.Current(context.Background(), f.owner, f.item.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
