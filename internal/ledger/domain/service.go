package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrOverpaymentRejected = errors.New("overpayment_rejected")
	ErrDuplicateLedger     = errors.New("duplicate_ledger")
	ErrNotFound            = errors.New("not_found")
)

type CreateLedgerRequest struct {
	ProfileID snowflake.ID
	TotalDue  int64
}

type AdjustLedgerRequest struct {
	ProfileID      snowflake.ID
	TotalDue       int64
	NextPaymentDue *time.Time
	ActorID        snowflake.ID
}

type Service interface {
	Create(ctx context.Context, req CreateLedgerRequest) (*AccountLedger, error)
	GetByProfile(ctx context.Context, profileID snowflake.ID) (*AccountLedger, error)
	// ApplyPayment mutates the ledger for profileID inside tx. Callers own the
	// transaction; the settlement service is the only production caller.
	ApplyPayment(ctx context.Context, tx *gorm.DB, profileID snowflake.ID, amount int64) (*AccountLedger, error)
	Adjust(ctx context.Context, req AdjustLedgerRequest) (*AccountLedger, error)
}
