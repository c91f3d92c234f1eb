package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Address struct {
	Street  string `gorm:"type:varchar(200)" json:"street"`
	City    string `gorm:"type:varchar(100)" json:"city"`
	State   string `gorm:"type:varchar(100)" json:"state"`
	ZipCode string `gorm:"type:varchar(20)" json:"zipCode"`
	Country string `gorm:"type:varchar(100)" json:"country"`
}

// College is a tenant. UniqueCode is set exactly when Status is approved.
type College struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string                      `gorm:"type:varchar(200);not null;uniqueIndex:idx_colleges_name" json:"name"`
	Email            string                      `gorm:"type:varchar(255);not null;uniqueIndex:idx_colleges_email" json:"email"`
	Phone            string                      `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Website          string                      `gorm:"type:varchar(255)" json:"website,omitempty"`
	Description      string                      `gorm:"type:text" json:"description,omitempty"`
	EstablishedYear  *int                        `json:"establishedYear,omitempty"`
	Address          Address                     `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	UniqueCode       *string                     `gorm:"type:varchar(16);uniqueIndex:idx_colleges_unique_code" json:"uniqueCode,omitempty"`
	Status           ApprovalStatus              `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	AdminUserID      uuid.UUID                   `gorm:"type:uuid;not null" json:"adminUser"`
	AdditionalAdmins datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"additionalAdmins"`
	ApprovedAt       *time.Time                  `json:"approvedAt,omitempty"`
	ApprovedBy       *uuid.UUID                  `gorm:"type:uuid" json:"approvedBy,omitempty"`
	CreatedAt        time.Time                   `json:"createdAt"`
	UpdatedAt        time.Time                   `json:"updatedAt"`
}

func (c *College) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *College) Code() string {
	if c.UniqueCode == nil {
		return ""
	}
	return *c.UniqueCode
}

// IsAdmin reports whether userID is the primary or an additional admin of the college.
func (c *College) IsAdmin(userID uuid.UUID) bool {
	if c.AdminUserID == userID {
		return true
	}
	id := userID.String()
	for _, a := range c.AdditionalAdmins {
		if a == id {
			return true
		}
	}
	return false
}
