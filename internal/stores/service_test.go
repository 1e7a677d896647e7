package stores

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/davidmreyes/pricewatch-backend/pkg/config"
	"github.com/davidmreyes/pricewatch-backend/pkg/db"
	"github.com/davidmreyes/pricewatch-backend/pkg/db/models"
	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
	pkgerrors "github.com/davidmreyes/pricewatch-backend/pkg/errors"
	"github.com/davidmreyes/pricewatch-backend/pkg/logger"
)

func testDB(t *testing.T) *db.Client {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		DSN:    "file:stores_" + uuid.NewString() + "?mode=memory&cache=shared",
	}, logg)
	require.NoError(t, err)
	require.NoError(t, client.DB().AutoMigrate(&models.Store{}))
	t.Cleanup(func() { client.Close() })
	return client
}

func testService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := testDB(t)
	svc, err := NewService(NewRepository(client.DB()))
	require.NoError(t, err)
	return svc, client
}

func userActor() Actor {
	return Actor{UserID: uuid.New(), Role: enums.UserRoleUser}
}

func adminActor() Actor {
	return Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}
}

func TestCreateOwnedStore(t *testing.T) {
	svc, _ := testService(t)
	actor := userActor()

	dto, err := svc.Create(context.Background(), actor, CreateStoreInput{
		Name: "Corner Market",
		Type: "market",
	})
	require.NoError(t, err)
	require.False(t, dto.Global)
	require.Equal(t, enums.StoreTypeMarket, dto.Type)
}

func TestCreateGlobalRequiresAdmin(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.CreateGlobal(context.Background(), userActor(), CreateStoreInput{Name: "MegaMart"})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	dto, err := svc.CreateGlobal(context.Background(), adminActor(), CreateStoreInput{Name: "MegaMart"})
	require.NoError(t, err)
	require.True(t, dto.Global)
}

func TestListIncludesGlobalAndOwnStoresOnly(t *testing.T) {
	svc, _ := testService(t)
	actor := userActor()
	other := userActor()

	_, err := svc.CreateGlobal(context.Background(), adminActor(), CreateStoreInput{Name: "MegaMart"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), actor, CreateStoreInput{Name: "Mine"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), other, CreateStoreInput{Name: "Theirs"})
	require.NoError(t, err)

	list, err := svc.List(context.Background(), actor)
	require.NoError(t, err)
	require.Len(t, list, 2)
	names := []string{list[0].Name, list[1].Name}
	require.ElementsMatch(t, []string{"MegaMart", "Mine"}, names)
}

func TestGetForeignStoreForbidden(t *testing.T) {
	svc, _ := testService(t)
	owner := userActor()

	dto, err := svc.Create(context.Background(), owner, CreateStoreInput{Name: "Mine"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), userActor(), dto.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	// global stores are readable by anyone
	global, err := svc.CreateGlobal(context.Background(), adminActor(), CreateStoreInput{Name: "MegaMart"})
	require.NoError(t, err)
	got, err := svc.Get(context.Background(), userActor(), global.ID)
	require.NoError(t, err)
	require.Equal(t, global.ID, got.ID)
}

func TestUpdateGlobalStoreAdminOnly(t *testing.T) {
	svc, _ := testService(t)

	global, err := svc.CreateGlobal(context.Background(), adminActor(), CreateStoreInput{Name: "MegaMart"})
	require.NoError(t, err)

	name := "MegaMart 2"
	_, err = svc.Update(context.Background(), userActor(), global.ID, UpdateStoreInput{Name: &name})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	updated, err := svc.Update(context.Background(), adminActor(), global.ID, UpdateStoreInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, name, updated.Name)
}

func TestDeleteHidesStore(t *testing.T) {
	svc, client := testService(t)
	actor := userActor()

	dto, err := svc.Create(context.Background(), actor, CreateStoreInput{Name: "Mine"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), actor, dto.ID))

	_, err = svc.Get(context.Background(), actor, dto.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	// soft delete keeps the row
	var count int64
	require.NoError(t, client.DB().Model(&models.Store{}).Where("id = ?", dto.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestDeleteGlobalRemovesRow(t *testing.T) {
	svc, client := testService(t)

	global, err := svc.CreateGlobal(context.Background(), adminActor(), CreateStoreInput{Name: "MegaMart"})
	require.NoError(t, err)

	err = svc.DeleteGlobal(context.Background(), userActor(), global.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	require.NoError(t, svc.DeleteGlobal(context.Background(), adminActor(), global.ID))

	var count int64
	require.NoError(t, client.DB().Model(&models.Store{}).Where("id = ?", global.ID).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestDeleteGlobalRejectsOwnedStore(t *testing.T) {
	svc, _ := testService(t)
	actor := userActor()

	dto, err := svc.Create(context.Background(), actor, CreateStoreInput{Name: "Mine"})
	require.NoError(t, err)

	err = svc.DeleteGlobal(context.Background(), adminActor(), dto.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
