package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/civistack/revena/internal/taxtype/domain"
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
		log:   p.Log.Named("taxtype.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, name string) (*domain.TaxType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	taxType := domain.TaxType{
		ID:        s.genID.Generate(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, &taxType); err != nil {
		return nil, err
	}
	return &taxType, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*domain.TaxType, error) {
	taxType, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if taxType == nil {
		return nil, domain.ErrNotFound
	}
	return taxType, nil
}

func (s *Service) List(ctx context.Context) ([]domain.TaxType, error) {
	return s.repo.List(ctx, s.db)
}
