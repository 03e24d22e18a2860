package models

import (
	"time"

	"gorm.io/datatypes"
)

// Company is owned by exactly one employer (unique employer_id). The
// payment_verified flag gates job posting and is only ever written by the
// payment review workflow.
type Company struct {
	ID         string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	EmployerID string `gorm:"column:employer_id;type:uuid;uniqueIndex" json:"employer_id"`

	Name        string `gorm:"column:name;type:text" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Industry    string `gorm:"column:industry;type:text" json:"industry"`
	Website     string `gorm:"column:website;type:text" json:"website"`
	Address     string `gorm:"column:address;type:text" json:"address"`
	PhoneNumber string `gorm:"column:phone_number;type:text" json:"phone_number"`

	PaymentVerified bool   `gorm:"column:payment_verified;default:false" json:"payment_verified"`
	LogoPath        string `gorm:"column:logo_path;type:text" json:"logo_path"`

	SocialLinks datatypes.JSON `gorm:"column:social_links;type:jsonb" json:"social_links"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Company) TableName() string { return "companies" }
