package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, profile *TaxpayerProfile) error
	FindByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*TaxpayerProfile, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*TaxpayerProfile, error)
	Update(ctx context.Context, db *gorm.DB, profile *TaxpayerProfile) error
	List(ctx context.Context, db *gorm.DB, filter ListProfilesRequest) ([]TaxpayerProfile, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
