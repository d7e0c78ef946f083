package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/civistack/revena/internal/payment/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, request *domain.PaymentRequest) error {
	return db.WithContext(ctx).Create(request).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.PaymentRequest, error) {
	return r.find(ctx, db, id, false)
}

func (r *repo) FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.PaymentRequest, error) {
	return r.find(ctx, db, id, true)
}

func (r *repo) find(ctx context.Context, db *gorm.DB, id snowflake.ID, lock bool) (*domain.PaymentRequest, error) {
	stmt := db.WithContext(ctx)
	// sqlite has no FOR UPDATE; its single-writer model serializes anyway
	if lock && db.Dialector.Name() != "sqlite" {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var request domain.PaymentRequest
	err := stmt.Where("id = ?", id).First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// FindByReference matches a provider notification to a request by control
// number first, then by provider reference.
func (r *repo) FindByReference(ctx context.Context, db *gorm.DB, reference string) (*domain.PaymentRequest, error) {
	var request domain.PaymentRequest
	err := db.WithContext(ctx).
		Where("control_number = ? OR provider_reference = ?", reference, reference).
		Order("created_at asc").
		First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, request *domain.PaymentRequest) error {
	return db.WithContext(ctx).Exec(
		`UPDATE payment_requests
		 SET status = ?, provider_reference = ?, settled_at = ?, updated_at = ?
		 WHERE id = ?`,
		request.Status,
		request.ProviderReference,
		request.SettledAt,
		request.UpdatedAt,
		request.ID,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.PaymentRequest, error) {
	stmt := db.WithContext(ctx).Model(&domain.PaymentRequest{})
	if filter.ProfileID != 0 {
		stmt = stmt.Where("profile_id = ?", filter.ProfileID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var requests []domain.PaymentRequest
	err := stmt.Order("created_at desc, id desc").Limit(limit).Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *repo) SumAmountByStatus(ctx context.Context, db *gorm.DB, status domain.Status) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.PaymentRequest{}).
		Where("status = ?", status).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repo) CountByStatus(ctx context.Context, db *gorm.DB, status domain.Status) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.PaymentRequest{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
