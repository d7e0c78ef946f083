package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, ledger *AccountLedger) error
	FindByProfile(ctx context.Context, db *gorm.DB, profileID snowflake.ID) (*AccountLedger, error)
	// FindByProfileForUpdate locks the ledger row for the duration of the
	// surrounding transaction on dialects that support it.
	FindByProfileForUpdate(ctx context.Context, db *gorm.DB, profileID snowflake.ID) (*AccountLedger, error)
	Update(ctx context.Context, db *gorm.DB, ledger *AccountLedger) error
}
