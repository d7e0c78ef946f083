package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/civistack/revena/internal/audit/domain"
	"github.com/civistack/revena/internal/config"
	"github.com/civistack/revena/internal/ledger/domain"
	"github.com/civistack/revena/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Cfg      config.Config
	Repo     domain.Repository
	AuditSvc auditdomain.Service `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	cfg      config.Config
	repo     domain.Repository
	auditSvc auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("ledger.service"),
		genID:    p.GenID,
		cfg:      p.Cfg,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateLedgerRequest) (*domain.AccountLedger, error) {
	if req.ProfileID == 0 {
		return nil, domain.ErrNotFound
	}
	if req.TotalDue < 0 {
		return nil, domain.ErrInvalidAmount
	}

	now := time.Now().UTC()
	ledger := domain.AccountLedger{
		ID:                 s.genID.Generate(),
		ProfileID:          req.ProfileID,
		TotalDue:           req.TotalDue,
		PaidAmount:         0,
		OutstandingBalance: req.TotalDue,
		Status:             domain.LedgerStatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Insert(ctx, s.db, &ledger); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateLedger
		}
		return nil, err
	}

	return &ledger, nil
}

func (s *Service) GetByProfile(ctx context.Context, profileID snowflake.ID) (*domain.AccountLedger, error) {
	ledger, err := s.repo.FindByProfile(ctx, s.db, profileID)
	if err != nil {
		return nil, err
	}
	if ledger == nil {
		return nil, domain.ErrNotFound
	}
	return ledger, nil
}

// ApplyPayment locks, mutates and persists the ledger inside the caller's
// transaction so the payment transition and the balance update commit together.
func (s *Service) ApplyPayment(ctx context.Context, tx *gorm.DB, profileID snowflake.ID, amount int64) (*domain.AccountLedger, error) {
	ledger, err := s.repo.FindByProfileForUpdate(ctx, tx, profileID)
	if err != nil {
		return nil, err
	}
	if ledger == nil {
		return nil, domain.ErrNotFound
	}

	if err := ledger.Apply(amount, s.cfg.LedgerAllowCredit); err != nil {
		return nil, err
	}
	ledger.RecomputeStatus()
	ledger.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, tx, ledger); err != nil {
		return nil, err
	}

	return ledger, nil
}

func (s *Service) Adjust(ctx context.Context, req domain.AdjustLedgerRequest) (*domain.AccountLedger, error) {
	if req.TotalDue < 0 {
		return nil, domain.ErrInvalidAmount
	}

	var adjusted *domain.AccountLedger
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ledger, err := s.repo.FindByProfileForUpdate(ctx, tx, req.ProfileID)
		if err != nil {
			return err
		}
		if ledger == nil {
			return domain.ErrNotFound
		}

		ledger.TotalDue = req.TotalDue
		ledger.OutstandingBalance = ledger.TotalDue - ledger.PaidAmount
		if req.NextPaymentDue != nil {
			ledger.NextPaymentDue = req.NextPaymentDue
		}
		if ledger.Status == domain.LedgerStatusClosed && ledger.OutstandingBalance > 0 {
			ledger.Status = domain.LedgerStatusActive
		}
		ledger.RecomputeStatus()
		ledger.UpdatedAt = time.Now().UTC()

		if err := s.repo.Update(ctx, tx, ledger); err != nil {
			return err
		}

		if s.auditSvc != nil {
			targetID := ledger.ID.String()
			if err := s.auditSvc.Record(ctx, tx, &req.ActorID, "ledger.adjust", "tax_account", &targetID, map[string]any{
				"profile_id":  ledger.ProfileID.String(),
				"total_due":   ledger.TotalDue,
				"outstanding": ledger.OutstandingBalance,
			}); err != nil {
				return err
			}
		}

		adjusted = ledger
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("ledger adjusted",
		zap.String("profile_id", req.ProfileID.String()),
		zap.Int64("total_due", adjusted.TotalDue),
	)
	return adjusted, nil
}
