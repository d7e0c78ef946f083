package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/civistack/revena/internal/ledger/domain"
	paymentdomain "github.com/civistack/revena/internal/payment/domain"
	"github.com/civistack/revena/internal/reporting/domain"
	taxpayerdomain "github.com/civistack/revena/internal/taxpayer/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	LedgerSvc   ledgerdomain.Service
	PaymentRepo paymentdomain.Repository
	ProfileRepo taxpayerdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	ledgerSvc   ledgerdomain.Service
	paymentRepo paymentdomain.Repository
	profileRepo taxpayerdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("reporting.service"),
		ledgerSvc:   p.LedgerSvc,
		paymentRepo: p.PaymentRepo,
		profileRepo: p.ProfileRepo,
	}
}

func (s *Service) DashboardSummary(ctx context.Context, profileID snowflake.ID) (*domain.DashboardSummary, error) {
	ledger, err := s.ledgerSvc.GetByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	recent, err := s.paymentRepo.List(ctx, s.db, paymentdomain.ListRequest{
		ProfileID: profileID,
		Limit:     10,
	})
	if err != nil {
		return nil, err
	}

	return &domain.DashboardSummary{
		ProfileID:          profileID,
		TotalDue:           ledger.TotalDue,
		PaidAmount:         ledger.PaidAmount,
		OutstandingBalance: ledger.OutstandingBalance,
		NextPaymentDue:     ledger.NextPaymentDue,
		Status:             ledger.Status,
		RecentPayments:     recent,
	}, nil
}

func (s *Service) AdminMetrics(ctx context.Context) (*domain.AdminMetrics, error) {
	taxpayers, err := s.profileRepo.Count(ctx, s.db)
	if err != nil {
		return nil, err
	}

	revenue, err := s.paymentRepo.SumAmountByStatus(ctx, s.db, paymentdomain.StatusPaid)
	if err != nil {
		return nil, err
	}

	pending, err := s.paymentRepo.CountByStatus(ctx, s.db, paymentdomain.StatusPending)
	if err != nil {
		return nil, err
	}

	return &domain.AdminMetrics{
		TotalTaxpayers:  taxpayers,
		TotalRevenue:    revenue,
		PendingRequests: pending,
	}, nil
}

func (s *Service) UnpaidAccounts(ctx context.Context) ([]domain.UnpaidAccount, error) {
	type row struct {
		ProfileID          snowflake.ID
		FirstName          string
		MiddleName         string
		LastName           string
		OutstandingBalance int64
	}

	var rows []row
	err := s.db.WithContext(ctx).Raw(
		`SELECT a.profile_id, p.first_name, p.middle_name, p.last_name, a.outstanding_balance
		 FROM tax_accounts a
		 JOIN taxpayer_profiles p ON p.id = a.profile_id
		 WHERE a.outstanding_balance > 0
		 ORDER BY a.outstanding_balance DESC`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.UnpaidAccount, 0, len(rows))
	for _, r := range rows {
		profile := taxpayerdomain.TaxpayerProfile{
			FirstName:  r.FirstName,
			MiddleName: r.MiddleName,
			LastName:   r.LastName,
		}
		accounts = append(accounts, domain.UnpaidAccount{
			ProfileID:          r.ProfileID,
			DisplayName:        profile.DisplayName(),
			OutstandingBalance: r.OutstandingBalance,
		})
	}
	return accounts, nil
}
