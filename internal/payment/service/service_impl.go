package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/civistack/revena/internal/audit/domain"
	ledgerdomain "github.com/civistack/revena/internal/ledger/domain"
	obsmetrics "github.com/civistack/revena/internal/observability/metrics"
	"github.com/civistack/revena/internal/payment/domain"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	LedgerSvc  ledgerdomain.Service
	AuditSvc   auditdomain.Service   `optional:"true"`
	ObsMetrics *obsmetrics.Metrics   `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	ledgerSvc  ledgerdomain.Service
	auditSvc   auditdomain.Service
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("payment.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		ledgerSvc:  p.LedgerSvc,
		auditSvc:   p.AuditSvc,
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.PaymentRequest, error) {
	if req.ProfileID == 0 {
		return nil, domain.ErrNotFound
	}
	if req.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if !req.Method.Valid() {
		return nil, domain.ErrInvalidMethod
	}

	now := time.Now().UTC()
	request := domain.PaymentRequest{
		ID:        s.genID.Generate(),
		ProfileID: req.ProfileID,
		TaxTypeID: req.TaxTypeID,
		Amount:    req.Amount,
		Method:    req.Method,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Method == domain.MethodControlNumber {
		request.ControlNumber = newControlNumber()
	}

	if err := s.repo.Insert(ctx, s.db, &request); err != nil {
		return nil, err
	}

	s.obsMetrics.RecordPaymentRequest(string(req.Method))
	s.log.Info("payment request created",
		zap.String("request_id", request.ID.String()),
		zap.String("profile_id", request.ProfileID.String()),
		zap.Int64("amount", request.Amount),
		zap.String("method", string(request.Method)),
	)
	return &request, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.PaymentRequest, error) {
	return s.repo.List(ctx, s.db, req)
}

// Settle is the only path by which a payment request's monetary effect
// reaches a ledger. The request row is locked first, so two racing settlement
// signals for the same request produce exactly one ledger update.
func (s *Service) Settle(ctx context.Context, req domain.SettleRequest) (*domain.SettleResult, error) {
	var result domain.SettleResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		request, err := s.repo.FindByIDForUpdate(ctx, tx, req.RequestID)
		if err != nil {
			return err
		}
		if request == nil {
			return domain.ErrNotFound
		}

		if request.Status == domain.StatusPaid {
			ledger, err := s.ledgerSvc.GetByProfile(ctx, request.ProfileID)
			if err != nil {
				return err
			}
			result = domain.SettleResult{Request: request, Ledger: ledger, AlreadySettled: true}
			return nil
		}
		if request.Status.Terminal() {
			return domain.ErrInvalidTransition
		}

		now := time.Now().UTC()
		request.Status = domain.StatusPaid
		request.SettledAt = &now
		request.UpdatedAt = now
		if ref := strings.TrimSpace(req.ProviderReference); ref != "" {
			request.ProviderReference = ref
		}
		if err := s.repo.Update(ctx, tx, request); err != nil {
			return err
		}

		ledger, err := s.ledgerSvc.ApplyPayment(ctx, tx, request.ProfileID, request.Amount)
		if err != nil {
			return err
		}

		if s.auditSvc != nil {
			var actor *snowflake.ID
			if req.ActorID != 0 {
				actor = &req.ActorID
			}
			targetID := request.ID.String()
			if err := s.auditSvc.Record(ctx, tx, actor, "payment.settle", "payment_request", &targetID, map[string]any{
				"profile_id":         request.ProfileID.String(),
				"amount":             request.Amount,
				"provider_reference": request.ProviderReference,
				"outstanding":        ledger.OutstandingBalance,
			}); err != nil {
				return err
			}
		}

		result = domain.SettleResult{Request: request, Ledger: ledger}
		return nil
	})
	if err != nil {
		s.obsMetrics.RecordSettlement("rejected")
		return nil, err
	}

	if result.AlreadySettled {
		s.obsMetrics.RecordSettlement("duplicate")
		s.log.Info("settlement repeated, no-op",
			zap.String("request_id", req.RequestID.String()),
		)
		return &result, nil
	}

	s.obsMetrics.RecordSettlement("settled")
	s.log.Info("payment settled",
		zap.String("request_id", result.Request.ID.String()),
		zap.Int64("amount", result.Request.Amount),
		zap.Int64("outstanding", result.Ledger.OutstandingBalance),
	)
	return &result, nil
}

func (s *Service) MarkFailed(ctx context.Context, requestID, actorID snowflake.ID) (*domain.PaymentRequest, error) {
	return s.terminate(ctx, requestID, domain.StatusFailed, actorID, 0)
}

func (s *Service) Cancel(ctx context.Context, requestID, profileID snowflake.ID) (*domain.PaymentRequest, error) {
	return s.terminate(ctx, requestID, domain.StatusCancelled, 0, profileID)
}

// terminate moves a pending request to Failed or Cancelled. ownerProfileID,
// when non-zero, restricts the transition to the request's owner.
func (s *Service) terminate(ctx context.Context, requestID snowflake.ID, status domain.Status, actorID, ownerProfileID snowflake.ID) (*domain.PaymentRequest, error) {
	var terminated *domain.PaymentRequest

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		request, err := s.repo.FindByIDForUpdate(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if request == nil {
			return domain.ErrNotFound
		}
		if ownerProfileID != 0 && request.ProfileID != ownerProfileID {
			return domain.ErrForbiddenOwner
		}
		if request.Status != domain.StatusPending {
			return domain.ErrInvalidTransition
		}

		request.Status = status
		request.UpdatedAt = time.Now().UTC()
		if err := s.repo.Update(ctx, tx, request); err != nil {
			return err
		}

		if s.auditSvc != nil {
			var actor *snowflake.ID
			if actorID != 0 {
				actor = &actorID
			}
			targetID := request.ID.String()
			if err := s.auditSvc.Record(ctx, tx, actor, "payment."+string(status), "payment_request", &targetID, map[string]any{
				"profile_id": request.ProfileID.String(),
				"amount":     request.Amount,
			}); err != nil {
				return err
			}
		}

		terminated = request
		return nil
	})
	if err != nil {
		return nil, err
	}
	return terminated, nil
}

// newControlNumber returns an 8-character opaque payment token.
func newControlNumber() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:8])
}
