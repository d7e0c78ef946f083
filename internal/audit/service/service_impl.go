package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/civistack/revena/internal/audit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
	}
}

func (s *Service) Record(ctx context.Context, tx *gorm.DB, actorID *snowflake.ID, action, targetType string, targetID *string, detail map[string]any) error {
	conn := tx
	if conn == nil {
		conn = s.db
	}

	entry := domain.Entry{
		ID:         s.genID.Generate(),
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Detail:     datatypes.JSONMap(detail),
		CreatedAt:  time.Now().UTC(),
	}
	if entry.Detail == nil {
		entry.Detail = datatypes.JSONMap{}
	}

	if err := conn.WithContext(ctx).Create(&entry).Error; err != nil {
		s.log.Error("audit write failed", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Entry, error) {
	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	stmt := s.db.WithContext(ctx).Model(&domain.Entry{})
	if req.Action != "" {
		stmt = stmt.Where("action = ?", req.Action)
	}

	var entries []domain.Entry
	err := stmt.Order("created_at desc, id desc").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
