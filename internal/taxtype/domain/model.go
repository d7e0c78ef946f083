package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrNotFound    = errors.New("not_found")
)

// TaxType is a lookup entity used to categorize payment requests.
type TaxType struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
}

func (TaxType) TableName() string { return "tax_types" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, taxType *TaxType) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*TaxType, error)
	List(ctx context.Context, db *gorm.DB) ([]TaxType, error)
}

type Service interface {
	Create(ctx context.Context, name string) (*TaxType, error)
	GetByID(ctx context.Context, id snowflake.ID) (*TaxType, error)
	List(ctx context.Context) ([]TaxType, error)
}
