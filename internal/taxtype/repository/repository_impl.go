package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/civistack/revena/internal/taxtype/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, taxType *domain.TaxType) error {
	return db.WithContext(ctx).Create(taxType).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.TaxType, error) {
	var taxType domain.TaxType
	err := db.WithContext(ctx).Where("id = ?", id).First(&taxType).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &taxType, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.TaxType, error) {
	var taxTypes []domain.TaxType
	err := db.WithContext(ctx).Order("name asc").Find(&taxTypes).Error
	if err != nil {
		return nil, err
	}
	return taxTypes, nil
}
