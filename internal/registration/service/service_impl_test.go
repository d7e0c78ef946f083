package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/civistack/revena/internal/auth/domain"
	authrepository "github.com/civistack/revena/internal/auth/repository"
	authservice "github.com/civistack/revena/internal/auth/service"
	ledgerdomain "github.com/civistack/revena/internal/ledger/domain"
	ledgerrepository "github.com/civistack/revena/internal/ledger/repository"
	"github.com/civistack/revena/internal/registration/domain"
	taxpayerdomain "github.com/civistack/revena/internal/taxpayer/domain"
	taxpayerrepository "github.com/civistack/revena/internal/taxpayer/repository"
	taxpayerservice "github.com/civistack/revena/internal/taxpayer/service"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newRegistrationFixture(t *testing.T) (*gorm.DB, domain.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&authdomain.User{},
		&authdomain.Session{},
		&taxpayerdomain.TaxpayerProfile{},
		&ledgerdomain.AccountLedger{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	authSvc := authservice.New(authservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  authrepository.Provide(),
	})
	taxpayerSvc := taxpayerservice.New(taxpayerservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  taxpayerrepository.Provide(),
	})

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		AuthSvc:     authSvc,
		TaxpayerSvc: taxpayerSvc,
		LedgerRepo:  ledgerrepository.Provide(),
	})
	return db, svc
}

func validRequest() domain.Request {
	return domain.Request{
		Email:           "alice@example.com",
		Password:        "s3cretpass",
		ConfirmPassword: "s3cretpass",
		Declaration:     true,
		FirstName:       "Alice",
		LastName:        "Mwangi",
		MobilePhone:     "0700000001",
		NationalID:      "NID-ALICE",
		TINNumber:       "TIN-ALICE",
	}
}

func TestRegisterCreatesUserProfileAndLedger(t *testing.T) {
	db, svc := newRegistrationFixture(t)

	result, err := svc.Register(context.Background(), validRequest())
	require.NoError(t, err)

	// registered users are always taxpayers
	assert.Equal(t, authdomain.RoleTaxpayer, result.User.Role)
	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.Equal(t, result.User.ID, result.Profile.UserID)

	// the tax account starts with nothing due and nothing paid
	assert.Equal(t, result.Profile.ID, result.Ledger.ProfileID)
	assert.Equal(t, int64(0), result.Ledger.TotalDue)
	assert.Equal(t, int64(0), result.Ledger.OutstandingBalance)
	assert.True(t, result.Ledger.Reconciled())

	var ledgerCount int64
	require.NoError(t, db.Model(&ledgerdomain.AccountLedger{}).Count(&ledgerCount).Error)
	assert.Equal(t, int64(1), ledgerCount)
}

func TestRegisterRequiresDeclaration(t *testing.T) {
	_, svc := newRegistrationFixture(t)

	req := validRequest()
	req.Declaration = false
	_, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrDeclarationRequired)
}

func TestRegisterRequiresMatchingPasswords(t *testing.T) {
	_, svc := newRegistrationFixture(t)

	req := validRequest()
	req.ConfirmPassword = "different1"
	_, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrPasswordMismatch)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, svc := newRegistrationFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.NationalID = "NID-OTHER"
	req.TINNumber = "TIN-OTHER"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, authdomain.ErrUserExists)
}

func TestRegisterRollsBackOnDuplicateIdentity(t *testing.T) {
	db, svc := newRegistrationFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRequest())
	require.NoError(t, err)

	// same national id behind a fresh email: profile insert fails, so the
	// user created earlier in the transaction must not survive
	req := validRequest()
	req.Email = "bob@example.com"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, taxpayerdomain.ErrDuplicateIdentity)

	var userCount int64
	require.NoError(t, db.Model(&authdomain.User{}).Count(&userCount).Error)
	assert.Equal(t, int64(1), userCount)
}
