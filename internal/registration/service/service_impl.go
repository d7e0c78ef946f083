package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/civistack/revena/internal/auth/domain"
	ledgerdomain "github.com/civistack/revena/internal/ledger/domain"
	"github.com/civistack/revena/internal/registration/domain"
	taxpayerdomain "github.com/civistack/revena/internal/taxpayer/domain"
	"github.com/civistack/revena/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	AuthSvc     authdomain.Service
	TaxpayerSvc taxpayerdomain.Service
	LedgerRepo  ledgerdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	authSvc     authdomain.Service
	taxpayerSvc taxpayerdomain.Service
	ledgerRepo  ledgerdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("registration.service"),
		genID:       p.GenID,
		authSvc:     p.AuthSvc,
		taxpayerSvc: p.TaxpayerSvc,
		ledgerRepo:  p.LedgerRepo,
	}
}

func (s *Service) Register(ctx context.Context, req domain.Request) (*domain.Result, error) {
	if req.Password != req.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}
	if !req.Declaration {
		return nil, domain.ErrDeclarationRequired
	}

	var result domain.Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.authSvc.CreateUserInTx(ctx, tx, authdomain.CreateUserRequest{
			Email:    req.Email,
			Password: req.Password,
			Role:     authdomain.RoleTaxpayer,
		})
		if err != nil {
			return err
		}

		profile, err := s.taxpayerSvc.CreateInTx(ctx, tx, taxpayerdomain.CreateProfileRequest{
			UserID:           user.ID,
			FirstName:        req.FirstName,
			MiddleName:       req.MiddleName,
			LastName:         req.LastName,
			Gender:           req.Gender,
			DateOfBirth:      req.DateOfBirth,
			MobilePhone:      req.MobilePhone,
			NationalID:       req.NationalID,
			TINNumber:        req.TINNumber,
			PassportNumber:   req.PassportNumber,
			Ward:             req.Ward,
			StreetVillage:    req.StreetVillage,
			HouseNumber:      req.HouseNumber,
			TaxpayerType:     req.TaxpayerType,
			PropertyType:     req.PropertyType,
			PropertyLocation: req.PropertyLocation,
			BusinessName:     req.BusinessName,
		})
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		ledger := ledgerdomain.AccountLedger{
			ID:        s.genID.Generate(),
			ProfileID: profile.ID,
			Status:    ledgerdomain.LedgerStatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.ledgerRepo.Insert(ctx, tx, &ledger); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return ledgerdomain.ErrDuplicateLedger
			}
			return err
		}

		result = domain.Result{User: user, Profile: profile, Ledger: &ledger}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("taxpayer registered",
		zap.String("user_id", result.User.ID.String()),
		zap.String("profile_id", result.Profile.ID.String()),
	)
	return &result, nil
}
