package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, request *PaymentRequest) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PaymentRequest, error)
	// FindByIDForUpdate locks the request row so racing settlement signals
	// serialize on it.
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PaymentRequest, error)
	FindByReference(ctx context.Context, db *gorm.DB, reference string) (*PaymentRequest, error)
	Update(ctx context.Context, db *gorm.DB, request *PaymentRequest) error
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]PaymentRequest, error)
	SumAmountByStatus(ctx context.Context, db *gorm.DB, status Status) (int64, error)
	CountByStatus(ctx context.Context, db *gorm.DB, status Status) (int64, error)
}
