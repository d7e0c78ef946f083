package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Method string

const (
	MethodMobileMoney   Method = "mobile_money"
	MethodPesapal       Method = "pesapal"
	MethodControlNumber Method = "control_number"
)

func (m Method) Valid() bool {
	switch m {
	case MethodMobileMoney, MethodPesapal, MethodControlNumber:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	switch s {
	case StatusPaid, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// PaymentRequest is a request to pay against a taxpayer's ledger. It is
// created Pending and transitions to exactly one terminal state exactly once;
// terminal requests are immutable.
type PaymentRequest struct {
	ID                snowflake.ID  `gorm:"primaryKey" json:"id"`
	ProfileID         snowflake.ID  `gorm:"not null;index" json:"profile_id"`
	TaxTypeID         *snowflake.ID `gorm:"index" json:"tax_type_id,omitempty"`
	Amount            int64         `gorm:"not null" json:"amount"`
	Method            Method        `gorm:"type:text;not null" json:"method"`
	Status            Status        `gorm:"type:text;not null;default:'pending';index" json:"status"`
	ControlNumber     string        `gorm:"type:text;index" json:"control_number,omitempty"`
	ProviderReference string        `gorm:"type:text;index" json:"provider_reference,omitempty"`
	SettledAt         *time.Time    `json:"settled_at,omitempty"`
	CreatedAt         time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time     `gorm:"not null" json:"updated_at"`
}

func (PaymentRequest) TableName() string { return "payment_requests" }
