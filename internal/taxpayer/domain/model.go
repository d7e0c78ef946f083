package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type TaxpayerType string

const (
	TaxpayerTypeIndividual   TaxpayerType = "individual"
	TaxpayerTypeBusiness     TaxpayerType = "business"
	TaxpayerTypeOrganization TaxpayerType = "organization"
)

type PropertyType string

const (
	PropertyTypeResidential PropertyType = "residential"
	PropertyTypeCommercial  PropertyType = "commercial"
	PropertyTypeIndustrial  PropertyType = "industrial"
)

// TaxpayerProfile holds the identity and address attributes of one taxpayer.
// Exactly one profile per user, and one tax account per profile.
type TaxpayerProfile struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID           snowflake.ID `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName        string       `gorm:"not null" json:"first_name"`
	MiddleName       string       `json:"middle_name,omitempty"`
	LastName         string       `gorm:"not null" json:"last_name"`
	Gender           string       `gorm:"type:text" json:"gender,omitempty"`
	DateOfBirth      *time.Time   `json:"date_of_birth,omitempty"`
	MobilePhone      string       `gorm:"not null" json:"mobile_phone"`
	NationalID       string       `gorm:"uniqueIndex;not null" json:"national_id"`
	TINNumber        string       `gorm:"uniqueIndex;not null" json:"tin_number"`
	PassportNumber   string       `json:"passport_number,omitempty"`
	Ward             string       `json:"ward,omitempty"`
	StreetVillage    string       `json:"street_village,omitempty"`
	HouseNumber      string       `json:"house_number,omitempty"`
	TaxpayerType     TaxpayerType `gorm:"type:text;not null;default:'individual'" json:"taxpayer_type"`
	PropertyType     PropertyType `gorm:"type:text" json:"property_type,omitempty"`
	PropertyLocation string       `json:"property_location,omitempty"`
	BusinessName     string       `json:"business_name,omitempty"`
	RegisteredAt     time.Time    `gorm:"not null" json:"registered_at"`
	AccountStatus    string       `gorm:"type:text;not null;default:'active'" json:"account_status"`
	CreatedAt        time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"not null" json:"updated_at"`
}

func (TaxpayerProfile) TableName() string { return "taxpayer_profiles" }

// DisplayName is the taxpayer's full name as shown on reports.
func (p TaxpayerProfile) DisplayName() string {
	name := p.FirstName
	if p.MiddleName != "" {
		name += " " + p.MiddleName
	}
	if p.LastName != "" {
		name += " " + p.LastName
	}
	return name
}
