package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpradhan/stockroom/app/models"
	"github.com/rpradhan/stockroom/app/repositories"
	"github.com/rpradhan/stockroom/app/services"
	"github.com/rpradhan/stockroom/pkg/auth"
)

func newAuthFixture(t *testing.T) (*services.AuthService, *services.UserService) {
	db := newTestDB(t)
	users := repositories.NewUserRepository(db)
	return services.NewAuthService(users), services.NewUserService(users)
}

func TestLoginAndRefresh(t *testing.T) {
	authSvc, userSvc := newAuthFixture(t)

	created, err := userSvc.Create(services.UserInput{
		Name:     "Manager",
		Email:    "manager@example.com",
		Password: "supersecret",
		Role:     models.RoleManager,
	})
	require.NoError(t, err)

	pair, err := authSvc.Login("manager@example.com", "supersecret")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Token)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, created.ID, pair.User.ID)

	claims, err := auth.ValidateToken(pair.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, models.RoleManager, claims.Role)

	refreshed, err := authSvc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token)
	assert.Equal(t, created.ID, refreshed.User.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	authSvc, userSvc := newAuthFixture(t)

	_, err := userSvc.Create(services.UserInput{
		Name:     "Manager",
		Email:    "manager@example.com",
		Password: "supersecret",
		Role:     models.RoleManager,
	})
	require.NoError(t, err)

	_, err = authSvc.Login("manager@example.com", "wrong")
	require.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = authSvc.Login("nobody@example.com", "supersecret")
	require.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestRefreshAfterDeletionFails(t *testing.T) {
	authSvc, userSvc := newAuthFixture(t)

	created, err := userSvc.Create(services.UserInput{
		Name:     "Temp",
		Email:    "temp@example.com",
		Password: "supersecret",
		Role:     models.RoleManager,
	})
	require.NoError(t, err)

	pair, err := authSvc.Login("temp@example.com", "supersecret")
	require.NoError(t, err)

	require.NoError(t, userSvc.Delete(created.ID))

	_, err = authSvc.Refresh(pair.RefreshToken)
	require.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestUserCreateRejectsDuplicateEmail(t *testing.T) {
	_, userSvc := newAuthFixture(t)

	in := services.UserInput{
		Name:     "First",
		Email:    "dup@example.com",
		Password: "supersecret",
		Role:     models.RoleAdmin,
	}
	_, err := userSvc.Create(in)
	require.NoError(t, err)

	_, err = userSvc.Create(in)
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
}

func TestUserUpdateKeepsPasswordWhenBlank(t *testing.T) {
	authSvc, userSvc := newAuthFixture(t)

	created, err := userSvc.Create(services.UserInput{
		Name:     "Keeper",
		Email:    "keeper@example.com",
		Password: "supersecret",
		Role:     models.RoleManager,
	})
	require.NoError(t, err)

	_, err = userSvc.Update(created.ID, services.UserInput{
		Name:  "Keeper Renamed",
		Email: "keeper@example.com",
		Role:  models.RoleAdmin,
	})
	require.NoError(t, err)

	pair, err := authSvc.Login("keeper@example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, "Keeper Renamed", pair.User.Name)
	assert.Equal(t, models.RoleAdmin, pair.User.Role)
}
