package categories

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
	pkgerrors "github.com/davidmreyes/pricewatch-backend/pkg/errors"
	"github.com/davidmreyes/pricewatch-backend/pkg/logger"
)

func testDB(t *testing.T) *db.Client {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		DSN:    "file:categories_" + uuid.NewString() + "?mode=memory&cache=shared",
	}, logg)
	require.NoError(t, err)
	require.NoError(t, client.DB().AutoMigrate(&models.Category{}))
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

func TestCreateAndListCategories(t *testing.T) {
	svc, _ := testService(t)
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, CreateCategoryInput{Name: "Dairy"})
	require.NoError(t, err)
	require.Equal(t, "Dairy", created.Name)

	_, err = svc.Create(context.Background(), owner, CreateCategoryInput{Name: "Bakery"})
	require.NoError(t, err)

	list, err := svc.List(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Bakery", list[0].Name) // sorted by name
}

func TestCreateDuplicateNameConflicts(t *testing.T) {
	svc, _ := testService(t)
	owner := uuid.New()

	_, err := svc.Create(context.Background(), owner, CreateCategoryInput{Name: "Dairy"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), owner, CreateCategoryInput{Name: "Dairy"})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	// same name under another owner is fine
	_, err = svc.Create(context.Background(), uuid.New(), CreateCategoryInput{Name: "Dairy"})
	require.NoError(t, err)
}

func TestGetForeignCategoryForbidden(t *testing.T) {
	svc, _ := testService(t)
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, CreateCategoryInput{Name: "Dairy"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New(), created.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestUpdateRenamesCategory(t *testing.T) {
	svc, _ := testService(t)
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, CreateCategoryInput{Name: "Dairy"})
	require.NoError(t, err)

	name := "Dairy & Eggs"
	updated, err := svc.Update(context.Background(), owner, created.ID, UpdateCategoryInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, name, updated.Name)
}

func TestDeleteHidesCategory(t *testing.T) {
	svc, _ := testService(t)
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, CreateCategoryInput{Name: "Dairy"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), owner, created.ID))

	_, err = svc.Get(context.Background(), owner, created.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	list, err := svc.List(context.Background(), owner)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestDeleteMissingCategoryNotFound(t *testing.T) {
	svc, _ := testService(t)

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
