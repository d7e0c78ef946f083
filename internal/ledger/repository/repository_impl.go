package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/civistack/revena/internal/ledger/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, ledger *domain.AccountLedger) error {
	return db.WithContext(ctx).Create(ledger).Error
}

func (r *repo) FindByProfile(ctx context.Context, db *gorm.DB, profileID snowflake.ID) (*domain.AccountLedger, error) {
	return r.find(ctx, db, profileID, false)
}

func (r *repo) FindByProfileForUpdate(ctx context.Context, db *gorm.DB, profileID snowflake.ID) (*domain.AccountLedger, error) {
	return r.find(ctx, db, profileID, true)
}

func (r *repo) find(ctx context.Context, db *gorm.DB, profileID snowflake.ID, lock bool) (*domain.AccountLedger, error) {
	stmt := db.WithContext(ctx)
	// sqlite has no FOR UPDATE; its single-writer model serializes anyway
	if lock && db.Dialector.Name() != "sqlite" {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var ledger domain.AccountLedger
	err := stmt.Where("profile_id = ?", profileID).First(&ledger).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, ledger *domain.AccountLedger) error {
	return db.WithContext(ctx).Exec(
		`UPDATE tax_accounts
		 SET total_due = ?, paid_amount = ?, outstanding_balance = ?, next_payment_due = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		ledger.TotalDue,
		ledger.PaidAmount,
		ledger.OutstandingBalance,
		ledger.NextPaymentDue,
		ledger.Status,
		ledger.UpdatedAt,
		ledger.ID,
	).Error
}
