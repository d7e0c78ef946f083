package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type LedgerStatus string

const (
	LedgerStatusActive    LedgerStatus = "active"
	LedgerStatusSuspended LedgerStatus = "suspended"
	LedgerStatusClosed    LedgerStatus = "closed"
)

// AccountLedger is the authoritative balance record for one taxpayer.
// Amounts are integer minor units. The invariant
// OutstandingBalance == TotalDue - PaidAmount must hold after every mutation;
// only the settlement service and the administrative adjustment path write it.
type AccountLedger struct {
	ID                 snowflake.ID `gorm:"primaryKey" json:"id"`
	ProfileID          snowflake.ID `gorm:"uniqueIndex;not null" json:"profile_id"`
	TotalDue           int64        `gorm:"not null;default:0" json:"total_due"`
	PaidAmount         int64        `gorm:"not null;default:0" json:"paid_amount"`
	OutstandingBalance int64        `gorm:"not null;default:0" json:"outstanding_balance"`
	NextPaymentDue     *time.Time   `json:"next_payment_due,omitempty"`
	Status             LedgerStatus `gorm:"type:text;not null;default:'active'" json:"status"`
	CreatedAt          time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"not null" json:"updated_at"`
}

func (AccountLedger) TableName() string { return "tax_accounts" }

// Apply credits a payment against the ledger. allowCredit selects the
// overpayment policy: a false value rejects any payment that would push the
// outstanding balance below zero.
func (l *AccountLedger) Apply(amount int64, allowCredit bool) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !allowCredit && l.OutstandingBalance-amount < 0 {
		return ErrOverpaymentRejected
	}

	l.PaidAmount += amount
	l.OutstandingBalance -= amount
	return nil
}

// RecomputeStatus closes a fully paid ledger. Suspended ledgers stay suspended.
func (l *AccountLedger) RecomputeStatus() {
	if l.Status != LedgerStatusActive {
		return
	}
	if l.OutstandingBalance == 0 && l.TotalDue > 0 {
		l.Status = LedgerStatusClosed
	}
}

// Reconciled reports whether the balance invariant holds.
func (l *AccountLedger) Reconciled() bool {
	return l.OutstandingBalance == l.TotalDue-l.PaidAmount
}
