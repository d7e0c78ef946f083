package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/civistack/revena/internal/config"
	"github.com/civistack/revena/internal/ledger/domain"
	"github.com/civistack/revena/internal/ledger/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, allowCredit bool) (*gorm.DB, domain.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.AccountLedger{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Cfg:   config.Config{LedgerAllowCredit: allowCredit},
		Repo:  repository.Provide(),
	})
	return db, svc
}

func TestCreateLedger(t *testing.T) {
	_, svc := newTestService(t, false)
	ctx := context.Background()
	profileID := snowflake.ID(101)

	ledger, err := svc.Create(ctx, domain.CreateLedgerRequest{ProfileID: profileID, TotalDue: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(100), ledger.TotalDue)
	assert.Equal(t, int64(0), ledger.PaidAmount)
	assert.Equal(t, int64(100), ledger.OutstandingBalance)
	assert.Equal(t, domain.LedgerStatusActive, ledger.Status)

	_, err = svc.Create(ctx, domain.CreateLedgerRequest{ProfileID: profileID, TotalDue: 50})
	assert.ErrorIs(t, err, domain.ErrDuplicateLedger)
}

func TestApplyPaymentPersistsBalance(t *testing.T) {
	db, svc := newTestService(t, false)
	ctx := context.Background()
	profileID := snowflake.ID(102)

	_, err := svc.Create(ctx, domain.CreateLedgerRequest{ProfileID: profileID, TotalDue: 100})
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.ApplyPayment(ctx, tx, profileID, 40)
		return err
	})
	require.NoError(t, err)

	ledger, err := svc.GetByProfile(ctx, profileID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), ledger.PaidAmount)
	assert.Equal(t, int64(60), ledger.OutstandingBalance)
	assert.True(t, ledger.Reconciled())
	assert.Equal(t, domain.LedgerStatusActive, ledger.Status)
}

func TestApplyPaymentClosesFullyPaidLedger(t *testing.T) {
	db, svc := newTestService(t, false)
	ctx := context.Background()
	profileID := snowflake.ID(103)

	_, err := svc.Create(ctx, domain.CreateLedgerRequest{ProfileID: profileID, TotalDue: 100})
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.ApplyPayment(ctx, tx, profileID, 100)
		return err
	})
	require.NoError(t, err)

	ledger, err := svc.GetByProfile(ctx, profileID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ledger.OutstandingBalance)
	assert.Equal(t, domain.LedgerStatusClosed, ledger.Status)
}

func TestApplyPaymentRejectsOverpayment(t *testing.T) {
	db, svc := newTestService(t, false)
	ctx := context.Background()
	profileID := snowflake.ID(104)

	_, err := svc.Create(ctx, domain.CreateLedgerRequest{ProfileID: profileID, TotalDue: 50})
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.ApplyPayment(ctx, tx, profileID, 60)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrOverpaymentRejected)

	ledger, err := svc.GetByProfile(ctx, profileID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ledger.PaidAmount)
	assert.Equal(t, int64(50), ledger.OutstandingBalance)
}

func TestApplyPaymentAllowsCreditWhenConfigured(t *testing.T) {
	db, svc := newTestService(t, true)
	ctx := context.Background()
	profileID := snowflake.ID(105)

	_, err := svc.Create(ctx, domain.CreateLedgerRequest{ProfileID: profileID, TotalDue: 50})
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.ApplyPayment(ctx, tx, profileID, 80)
		return err
	})
	require.NoError(t, err)

	ledger, err := svc.GetByProfile(ctx, profileID)
	require.NoError(t, err)
	assert.Equal(t, int64(-30), ledger.OutstandingBalance)
	assert.True(t, ledger.Reconciled())
}

func TestAdjustReopensClosedLedger(t *testing.T) {
	db, svc := newTestService(t, false)
	ctx := context.Background()
	profileID := snowflake.ID(106)
	actorID := snowflake.ID(9)

	_, err := svc.Create(ctx, domain.CreateLedgerRequest{ProfileID: profileID, TotalDue: 100})
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.ApplyPayment(ctx, tx, profileID, 100)
		return err
	})
	require.NoError(t, err)

	ledger, err := svc.Adjust(ctx, domain.AdjustLedgerRequest{
		ProfileID: profileID,
		TotalDue:  150,
		ActorID:   actorID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(150), ledger.TotalDue)
	assert.Equal(t, int64(100), ledger.PaidAmount)
	assert.Equal(t, int64(50), ledger.OutstandingBalance)
	assert.Equal(t, domain.LedgerStatusActive, ledger.Status)
}

func TestAdjustUnknownProfile(t *testing.T) {
	_, svc := newTestService(t, false)

	_, err := svc.Adjust(context.Background(), domain.AdjustLedgerRequest{
		ProfileID: snowflake.ID(999),
		TotalDue:  10,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
