package users

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

type fixture struct {
	svc    Service
	client *db.Client
	user   *models.User
}

func setup(t *testing.T) *fixture {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		DSN:    "file:users_" + uuid.NewString() + "?mode=memory&cache=shared",
	}, logg)
	require.NoError(t, err)
	require.NoError(t, client.DB().AutoMigrate(&models.User{}))
	t.Cleanup(func() { client.Close() })

	user := &models.User{
		Email:        "sam@example.com",
		FirstName:    "Sam",
		LastName:     "Lee",
		PasswordHash: "x",
		Role:         enums.UserRoleUser,
		Status:       enums.RecordStatusActive,
	}
	require.NoError(t, client.DB().Create(user).Error)

	svc, err := NewService(NewRepository(client.DB()))
	require.NoError(t, err)

	return &fixture{svc: svc, client: client, user: user}
}

func strPtr(s string) *string { return &s }

func TestGetProfile(t *testing.T) {
	f := setup(t)

	dto, err := f.svc.Get(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.Equal(t, "sam@example.com", dto.Email)
	require.Equal(t, "Sam", dto.FirstName)
}

func TestGetUnknownAccount(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestUpdateProfilePartial(t *testing.T) {
	f := setup(t)

	dto, err := f.svc.UpdateProfile(context.Background(), f.user.ID, UpdateProfileInput{
		FirstName: strPtr("Samuel"),
	})
	require.NoError(t, err)
	require.Equal(t, "Samuel", dto.FirstName)
	require.Equal(t, "Lee", dto.LastName)

	reloaded, err := f.svc.Get(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.Equal(t, "Samuel", reloaded.FirstName)
}

func TestUpdateProfileRejectsBlankName(t *testing.T) {
	f := setup(t)

	_, err := f.svc.UpdateProfile(context.Background(), f.user.ID, UpdateProfileInput{
		LastName: strPtr("   "),
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDeactivateHidesAccount(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.svc.Deactivate(context.Background(), f.user.ID))

	_, err := f.svc.Get(context.Background(), f.user.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	// the row survives with a flipped status
	var persisted models.User
	require.NoError(t, f.client.DB().Where("id = ?", f.user.ID).First(&persisted).Error)
	require.Equal(t, enums.RecordStatusInactive, persisted.Status)
}
