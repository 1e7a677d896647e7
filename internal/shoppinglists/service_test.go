package shoppinglists

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/davidmreyes/pricewatch-backend/internal/items"
	"github.com/davidmreyes/pricewatch-backend/internal/stores"
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
		DSN:    "file:shoppinglists_" + uuid.NewString() + "?mode=memory&cache=shared",
	}, logg)
	require.NoError(t, err)
	require.NoError(t, client.DB().AutoMigrate(
		&models.Category{}, &models.Item{}, &models.Store{},
		&models.ShoppingList{}, &models.ShoppingListItem{},
	))
	t.Cleanup(func() { client.Close() })

	owner := uuid.New()
	item := &models.Item{OwnerID: owner, Name: "Milk", Unit: enums.ItemUnitLiter, Status: enums.RecordStatusActive}
	require.NoError(t, client.DB().Create(item).Error)
	store := &models.Store{Name: "MegaMart", Type: enums.StoreTypeSupermarket, Status: enums.RecordStatusActive}
	require.NoError(t, client.DB().Create(store).Error)

	svc, err := NewService(
		NewRepository(client.DB()),
		items.NewRepository(client.DB()),
		stores.NewRepository(client.DB()),
	)
	require.NoError(t, err)

	return &fixture{svc: svc, client: client, owner: owner, item: item, store: store}
}

func (f *fixture) createList(t *testing.T) *ListDTO {
	t.Helper()
	list, err := f.svc.Create(context.Background(), f.owner, CreateListInput{Name: "Weekly"})
	require.NoError(t, err)
	return list
}

func TestCreateAndGetList(t *testing.T) {
	f := setup(t)
	list := f.createList(t)

	got, err := f.svc.Get(context.Background(), f.owner, list.ID)
	require.NoError(t, err)
	require.Equal(t, "Weekly", got.Name)
	require.Empty(t, got.Entries)
}

func TestGetForeignListForbidden(t *testing.T) {
	f := setup(t)
	list := f.createList(t)

	_, err := f.svc.Get(context.Background(), uuid.New(), list.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestAddEntryDefaultsQuantity(t *testing.T) {
	f := setup(t)
	list := f.createList(t)

	entry, err := f.svc.AddEntry(context.Background(), f.owner, list.ID, AddEntryInput{ItemID: f.item.ID})
	require.NoError(t, err)
	require.Equal(t, "1", entry.Quantity.String())
	require.Nil(t, entry.PurchasedAt)

	got, err := f.svc.Get(context.Background(), f.owner, list.ID)
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
}

func TestAddEntryRejectsForeignItem(t *testing.T) {
	f := setup(t)
	list := f.createList(t)

	foreign := &models.Item{OwnerID: uuid.New(), Name: "Theirs", Unit: enums.ItemUnitUnit, Status: enums.RecordStatusActive}
	require.NoError(t, f.client.DB().Create(foreign).Error)

	_, err := f.svc.AddEntry(context.Background(), f.owner, list.ID, AddEntryInput{ItemID: foreign.ID})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestAddEntryUnknownStoreNotFound(t *testing.T) {
	f := setup(t)
	list := f.createList(t)

	bogus := uuid.New()
	_, err := f.svc.AddEntry(context.Background(), f.owner, list.ID, AddEntryInput{
		ItemID:  f.item.ID,
		StoreID: &bogus,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestAddEntryRejectsNonPositiveQuantity(t *testing.T) {
	f := setup(t)
	list := f.createList(t)

	zero := decimal.Zero
	_, err := f.svc.AddEntry(context.Background(), f.owner, list.ID, AddEntryInput{
		ItemID:   f.item.ID,
		Quantity: &zero,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSetPurchasedRoundTrip(t *testing.T) {
	f := setup(t)
	list := f.createList(t)
	entry, err := f.svc.AddEntry(context.Background(), f.owner, list.ID, AddEntryInput{ItemID: f.item.ID})
	require.NoError(t, err)

	checked, err := f.svc.SetPurchased(context.Background(), f.owner, list.ID, entry.ID, true)
	require.NoError(t, err)
	require.NotNil(t, checked.PurchasedAt)
	firstStamp := *checked.PurchasedAt

	// checking off again keeps the original timestamp
	again, err := f.svc.SetPurchased(context.Background(), f.owner, list.ID, entry.ID, true)
	require.NoError(t, err)
	require.Equal(t, firstStamp, *again.PurchasedAt)

	unchecked, err := f.svc.SetPurchased(context.Background(), f.owner, list.ID, entry.ID, false)
	require.NoError(t, err)
	require.Nil(t, unchecked.PurchasedAt)
}

func TestRemoveEntry(t *testing.T) {
	f := setup(t)
	list := f.createList(t)
	entry, err := f.svc.AddEntry(context.Background(), f.owner, list.ID, AddEntryInput{ItemID: f.item.ID})
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveEntry(context.Background(), f.owner, list.ID, entry.ID))

	got, err := f.svc.Get(context.Background(), f.owner, list.ID)
	require.NoError(t, err)
	require.Empty(t, got.Entries)

	err = f.svc.RemoveEntry(context.Background(), f.owner, list.ID, entry.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestDeleteListHidesIt(t *testing.T) {
	f := setup(t)
	list := f.createList(t)

	require.NoError(t, f.svc.Delete(context.Background(), f.owner, list.ID))

	_, err := f.svc.Get(context.Background(), f.owner, list.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	summaries, err := f.svc.List(context.Background(), f.owner)
	require.NoError(t, err)
	require.Empty(t, summaries)
}
