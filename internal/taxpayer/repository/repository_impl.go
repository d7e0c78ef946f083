package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/civistack/revena/internal/taxpayer/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, profile *domain.TaxpayerProfile) error {
	return db.WithContext(ctx).Create(profile).Error
}

func (r *repo) FindByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.TaxpayerProfile, error) {
	var profile domain.TaxpayerProfile
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.TaxpayerProfile, error) {
	var profile domain.TaxpayerProfile
	err := db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, profile *domain.TaxpayerProfile) error {
	return db.WithContext(ctx).Exec(
		`UPDATE taxpayer_profiles
		 SET mobile_phone = ?, ward = ?, street_village = ?, house_number = ?,
		     property_type = ?, property_location = ?, business_name = ?, updated_at = ?
		 WHERE id = ?`,
		profile.MobilePhone,
		profile.Ward,
		profile.StreetVillage,
		profile.HouseNumber,
		profile.PropertyType,
		profile.PropertyLocation,
		profile.BusinessName,
		profile.UpdatedAt,
		profile.ID,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListProfilesRequest) ([]domain.TaxpayerProfile, error) {
	stmt := db.WithContext(ctx).Model(&domain.TaxpayerProfile{})
	if filter.TaxpayerType != "" {
		stmt = stmt.Where("taxpayer_type = ?", filter.TaxpayerType)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if filter.Offset > 0 {
		stmt = stmt.Offset(filter.Offset)
	}

	var profiles []domain.TaxpayerProfile
	err := stmt.Order("registered_at desc, id desc").Limit(limit).Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.TaxpayerProfile{}).Count(&count).Error
	return count, err
}
