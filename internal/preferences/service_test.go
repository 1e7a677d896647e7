package preferences

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

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
	userID uuid.UUID
}

func setup(t *testing.T) *fixture {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		DSN:    "file:preferences_" + uuid.NewString() + "?mode=memory&cache=shared",
	}, logg)
	require.NoError(t, err)
	require.NoError(t, client.DB().AutoMigrate(&models.UserPreferences{}, &models.Store{}))
	t.Cleanup(func() { client.Close() })

	svc, err := NewService(NewRepository(client.DB()), stores.NewRepository(client.DB()))
	require.NoError(t, err)

	return &fixture{svc: svc, client: client, userID: uuid.New()}
}

func (f *fixture) seedStore(t *testing.T, ownerID *uuid.UUID) *models.Store {
	t.Helper()
	store := &models.Store{OwnerID: ownerID, Name: "MegaMart", Type: enums.StoreTypeSupermarket, Status: enums.RecordStatusActive}
	require.NoError(t, f.client.DB().Create(store).Error)
	return store
}

func TestGetDefaultsWhenUnset(t *testing.T) {
	f := setup(t)

	dto, err := f.svc.Get(context.Background(), f.userID)
	require.NoError(t, err)
	require.Equal(t, enums.CurrencyUSD, dto.PreferredCurrency)
	require.Nil(t, dto.PreferredStoreID)
}

func TestUpdateCurrencyRoundTrip(t *testing.T) {
	f := setup(t)

	eur := "EUR"
	dto, err := f.svc.Update(context.Background(), f.userID, UpdatePreferencesInput{PreferredCurrency: &eur})
	require.NoError(t, err)
	require.Equal(t, enums.CurrencyEUR, dto.PreferredCurrency)

	reloaded, err := f.svc.Get(context.Background(), f.userID)
	require.NoError(t, err)
	require.Equal(t, enums.CurrencyEUR, reloaded.PreferredCurrency)
}

func TestUpdateRejectsUnsupportedCurrency(t *testing.T) {
	f := setup(t)

	bogus := "doubloons"
	_, err := f.svc.Update(context.Background(), f.userID, UpdatePreferencesInput{PreferredCurrency: &bogus})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdatePinsGlobalOrOwnedStoreOnly(t *testing.T) {
	f := setup(t)

	global := f.seedStore(t, nil)
	dto, err := f.svc.Update(context.Background(), f.userID, UpdatePreferencesInput{PreferredStoreID: &global.ID})
	require.NoError(t, err)
	require.Equal(t, global.ID, *dto.PreferredStoreID)

	otherOwner := uuid.New()
	foreign := f.seedStore(t, &otherOwner)
	_, err = f.svc.Update(context.Background(), f.userID, UpdatePreferencesInput{PreferredStoreID: &foreign.ID})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestUpdateUnknownStoreNotFound(t *testing.T) {
	f := setup(t)

	missing := uuid.New()
	_, err := f.svc.Update(context.Background(), f.userID, UpdatePreferencesInput{PreferredStoreID: &missing})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestUpdateKeepsExistingFieldsOnPartialInput(t *testing.T) {
	f := setup(t)

	eur := "EUR"
	_, err := f.svc.Update(context.Background(), f.userID, UpdatePreferencesInput{PreferredCurrency: &eur})
	require.NoError(t, err)

	global := f.seedStore(t, nil)
	dto, err := f.svc.Update(context.Background(), f.userID, UpdatePreferencesInput{PreferredStoreID: &global.ID})
	require.NoError(t, err)
	require.Equal(t, enums.CurrencyEUR, dto.PreferredCurrency)
	require.Equal(t, global.ID, *dto.PreferredStoreID)
}
