package domain

import (
	"context"
	"errors"
	"time"

	authdomain "github.com/civistack/revena/internal/auth/domain"
	ledgerdomain "github.com/civistack/revena/internal/ledger/domain"
	taxpayerdomain "github.com/civistack/revena/internal/taxpayer/domain"
)

var (
	ErrInvalidRequest      = errors.New("invalid_request")
	ErrDeclarationRequired = errors.New("declaration_required")
	ErrPasswordMismatch    = errors.New("password_mismatch")
)

// Request is a public registration payload. It deliberately has no role
// field: every registered user is a taxpayer, administrators are provisioned
// through the seed bootstrap or by an existing administrator.
type Request struct {
	Email           string
	Password        string
	ConfirmPassword string
	Declaration     bool

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
	TaxpayerType     taxpayerdomain.TaxpayerType
	PropertyType     taxpayerdomain.PropertyType
	PropertyLocation string
	BusinessName     string
}

type Result struct {
	User    *authdomain.User
	Profile *taxpayerdomain.TaxpayerProfile
	Ledger  *ledgerdomain.AccountLedger
}

// Service registers a taxpayer: user, profile and tax account are created in
// one transaction, so a failed profile never leaves an orphaned user behind.
type Service interface {
	Register(ctx context.Context, req Request) (*Result, error)
}
