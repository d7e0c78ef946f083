package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/civistack/revena/internal/ledger/domain"
	paymentdomain "github.com/civistack/revena/internal/payment/domain"
)

// DashboardSummary is the taxpayer-facing snapshot of one ledger.
type DashboardSummary struct {
	ProfileID          snowflake.ID                   `json:"profile_id"`
	TotalDue           int64                          `json:"total_due"`
	PaidAmount         int64                          `json:"paid_amount"`
	OutstandingBalance int64                          `json:"outstanding_balance"`
	NextPaymentDue     *time.Time                     `json:"next_payment_due,omitempty"`
	Status             ledgerdomain.LedgerStatus      `json:"status"`
	RecentPayments     []paymentdomain.PaymentRequest `json:"recent_payments"`
}

// AdminMetrics aggregates authority-wide figures for the admin dashboard.
type AdminMetrics struct {
	TotalTaxpayers  int64 `json:"total_taxpayers"`
	TotalRevenue    int64 `json:"total_revenue"`
	PendingRequests int64 `json:"pending_requests"`
}

// UnpaidAccount is one row of the unpaid accounts report.
type UnpaidAccount struct {
	ProfileID          snowflake.ID `json:"profile_id"`
	DisplayName        string       `json:"display_name"`
	OutstandingBalance int64        `json:"outstanding_balance"`
}

// Service exposes read-only aggregations. Reads may run concurrently with
// settlements and are not linearizable with in-flight transactions.
type Service interface {
	DashboardSummary(ctx context.Context, profileID snowflake.ID) (*DashboardSummary, error)
	AdminMetrics(ctx context.Context) (*AdminMetrics, error)
	UnpaidAccounts(ctx context.Context) ([]UnpaidAccount, error)
}
