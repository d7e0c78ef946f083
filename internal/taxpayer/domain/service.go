package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("not_found")
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidMobile     = errors.New("invalid_mobile_phone")
	ErrInvalidNationalID = errors.New("invalid_national_id")
	ErrInvalidTIN        = errors.New("invalid_tin_number")
	ErrDuplicateIdentity = errors.New("duplicate_identity")
)

type CreateProfileRequest struct {
	UserID           snowflake.ID
	FirstName        string
	MiddleName       string
	LastName         string
	Gender           string
	DateOfBirth      *time.Time
	MobilePhone      string
	NationalID       string
	TINNumber        string
	PassportNumber   string
	Ward             string
	StreetVillage    string
	HouseNumber      string
	TaxpayerType     TaxpayerType
	PropertyType     PropertyType
	PropertyLocation string
	BusinessName     string
}

// UpdateProfileRequest carries the mutable contact and address fields.
// Identity fields (national id, TIN) are fixed after registration.
type UpdateProfileRequest struct {
	UserID           snowflake.ID
	MobilePhone      *string
	Ward             *string
	StreetVillage    *string
	HouseNumber      *string
	PropertyType     *PropertyType
	PropertyLocation *string
	BusinessName     *string
}

type ListProfilesRequest struct {
	TaxpayerType TaxpayerType
	Limit        int
	Offset       int
}

type Service interface {
	// CreateInTx inserts the profile inside the caller's transaction; used by
	// registration so user, profile and ledger commit together.
	CreateInTx(ctx context.Context, tx *gorm.DB, req CreateProfileRequest) (*TaxpayerProfile, error)
	GetByUser(ctx context.Context, userID snowflake.ID) (*TaxpayerProfile, error)
	Update(ctx context.Context, req UpdateProfileRequest) (*TaxpayerProfile, error)
	List(ctx context.Context, req ListProfilesRequest) ([]TaxpayerProfile, error)
	Count(ctx context.Context) (int64, error)
}
