package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/civistack/revena/internal/taxpayer/domain"
	"github.com/civistack/revena/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("taxpayer.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreateInTx(ctx context.Context, tx *gorm.DB, req domain.CreateProfileRequest) (*domain.TaxpayerProfile, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return nil, domain.ErrInvalidName
	}
	mobile := strings.TrimSpace(req.MobilePhone)
	if mobile == "" {
		return nil, domain.ErrInvalidMobile
	}
	nationalID := strings.TrimSpace(req.NationalID)
	if nationalID == "" {
		return nil, domain.ErrInvalidNationalID
	}
	tin := strings.TrimSpace(req.TINNumber)
	if tin == "" {
		return nil, domain.ErrInvalidTIN
	}

	taxpayerType := req.TaxpayerType
	if taxpayerType == "" {
		taxpayerType = domain.TaxpayerTypeIndividual
	}

	now := time.Now().UTC()
	profile := domain.TaxpayerProfile{
		ID:               s.genID.Generate(),
		UserID:           req.UserID,
		FirstName:        firstName,
		MiddleName:       strings.TrimSpace(req.MiddleName),
		LastName:         lastName,
		Gender:           strings.ToLower(strings.TrimSpace(req.Gender)),
		DateOfBirth:      req.DateOfBirth,
		MobilePhone:      mobile,
		NationalID:       nationalID,
		TINNumber:        tin,
		PassportNumber:   strings.TrimSpace(req.PassportNumber),
		Ward:             strings.TrimSpace(req.Ward),
		StreetVillage:    strings.TrimSpace(req.StreetVillage),
		HouseNumber:      strings.TrimSpace(req.HouseNumber),
		TaxpayerType:     taxpayerType,
		PropertyType:     req.PropertyType,
		PropertyLocation: strings.TrimSpace(req.PropertyLocation),
		BusinessName:     strings.TrimSpace(req.BusinessName),
		RegisteredAt:     now,
		AccountStatus:    "active",
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Insert(ctx, tx, &profile); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateIdentity
		}
		return nil, err
	}

	return &profile, nil
}

func (s *Service) GetByUser(ctx context.Context, userID snowflake.ID) (*domain.TaxpayerProfile, error) {
	profile, err := s.repo.FindByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}
	return profile, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateProfileRequest) (*domain.TaxpayerProfile, error) {
	profile, err := s.repo.FindByUser(ctx, s.db, req.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}

	if req.MobilePhone != nil {
		mobile := strings.TrimSpace(*req.MobilePhone)
		if mobile == "" {
			return nil, domain.ErrInvalidMobile
		}
		profile.MobilePhone = mobile
	}
	if req.Ward != nil {
		profile.Ward = strings.TrimSpace(*req.Ward)
	}
	if req.StreetVillage != nil {
		profile.StreetVillage = strings.TrimSpace(*req.StreetVillage)
	}
	if req.HouseNumber != nil {
		profile.HouseNumber = strings.TrimSpace(*req.HouseNumber)
	}
	if req.PropertyType != nil {
		profile.PropertyType = *req.PropertyType
	}
	if req.PropertyLocation != nil {
		profile.PropertyLocation = strings.TrimSpace(*req.PropertyLocation)
	}
	if req.BusinessName != nil {
		profile.BusinessName = strings.TrimSpace(*req.BusinessName)
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

func (s *Service) List(ctx context.Context, req domain.ListProfilesRequest) ([]domain.TaxpayerProfile, error) {
	return s.repo.List(ctx, s.db, req)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx, s.db)
}
