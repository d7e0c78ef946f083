package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/civistack/revena/internal/auth/domain"
	"github.com/civistack/revena/internal/auth/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Session{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func TestCreateUserValidations(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{Email: "not-an-email", Password: "longenough"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{Email: "a@example.com", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
}

func TestCreateUserDefaultsToTaxpayerRole(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:    "Alice@Example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTaxpayer, user.Role)
	// emails are normalized on the way in
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{Email: "a@example.com", Password: "s3cretpass"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{Email: "A@example.com", Password: "s3cretpass"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, domain.CreateUserRequest{Email: "a@example.com", Password: "s3cretpass"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "a@example.com", Password: "wrongpass1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	result, err := svc.Login(ctx, domain.LoginRequest{Email: "a@example.com", Password: "s3cretpass"})
	require.NoError(t, err)
	require.NotEmpty(t, result.RawToken)

	user, err := svc.Authenticate(ctx, result.RawToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{Email: "a@example.com", Password: "s3cretpass"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, domain.LoginRequest{Email: "a@example.com", Password: "s3cretpass"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.RawToken))

	_, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)

	// logging out an already dead token is harmless
	assert.NoError(t, svc.Logout(ctx, result.RawToken))
}

func TestAuthenticateRejectsGarbageTokens(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidSession)

	_, err = svc.Authenticate(ctx, "no-such-token")
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}
