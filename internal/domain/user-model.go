package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is stored in one table for every role. Email is unique per college code.
type User struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName       string         `gorm:"type:varchar(50);not null" json:"firstName"`
	LastName        string         `gorm:"type:varchar(50);not null" json:"lastName"`
	Email           string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email_college,priority:1;index" json:"email"`
	PasswordHash    string         `json:"-"`
	Role            Role           `gorm:"type:varchar(20);not null;index:idx_users_role_college,priority:1" json:"role"`
	CollegeCode     string         `gorm:"type:varchar(16);uniqueIndex:idx_users_email_college,priority:2;index:idx_users_role_college,priority:2;index:idx_users_approval_college,priority:2" json:"collegeCode,omitempty"`
	CollegeID       *uuid.UUID     `gorm:"type:uuid;index" json:"college,omitempty"`
	ApprovalStatus  ApprovalStatus `gorm:"type:varchar(20);not null;default:pending;index:idx_users_approval_college,priority:1" json:"approvalStatus"`
	ApprovedAt      *time.Time     `json:"approvedAt,omitempty"`
	ApprovedBy      *uuid.UUID     `gorm:"type:uuid" json:"approvedBy,omitempty"`
	RejectedAt      *time.Time     `json:"rejectedAt,omitempty"`
	RejectedBy      *uuid.UUID     `gorm:"type:uuid" json:"rejectedBy,omitempty"`
	RejectionReason string         `gorm:"type:text" json:"rejectionReason,omitempty"`
	StudentID       string         `gorm:"type:varchar(50)" json:"studentId,omitempty"`
	GraduationYear  *int           `json:"graduationYear,omitempty"`
	Department      string         `gorm:"type:varchar(100)" json:"department,omitempty"`
	Profile         Profile        `gorm:"embedded;embeddedPrefix:profile_" json:"profile"`
	LastLogin       *time.Time     `json:"lastLogin,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

type Profile struct {
	Bio                string                      `gorm:"type:text" json:"bio,omitempty"`
	Phone              string                      `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Location           string                      `gorm:"type:varchar(100)" json:"location,omitempty"`
	CurrentCompany     string                      `gorm:"type:varchar(100)" json:"currentCompany,omitempty"`
	CurrentPosition    string                      `gorm:"type:varchar(100)" json:"currentPosition,omitempty"`
	LinkedIn           string                      `gorm:"type:varchar(255)" json:"linkedin,omitempty"`
	Github             string                      `gorm:"type:varchar(255)" json:"github,omitempty"`
	Website            string                      `gorm:"type:varchar(255)" json:"website,omitempty"`
	Skills             datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"skills"`
	Interests          datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"interests"`
	ImageURL           string                      `gorm:"type:varchar(500)" json:"profileImage,omitempty"`
	ImagePublicID      string                      `gorm:"type:varchar(255)" json:"-"`
	ResumeURL          string                      `gorm:"type:varchar(500)" json:"resumeUrl,omitempty"`
	ResumePublicID     string                      `gorm:"type:varchar(255)" json:"-"`
	ResumeOriginalName string                      `gorm:"type:varchar(255)" json:"resumeOriginalName,omitempty"`
	ResumeMimeType     string                      `gorm:"type:varchar(100)" json:"resumeMimeType,omitempty"`
	ResumeUploadedAt   *time.Time                  `json:"resumeUploadedAt,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

func (u *User) IsApproved() bool {
	return u.ApprovalStatus == StatusApproved
}

// SameCollege reports whether u may act within the college identified by code.
func (u *User) SameCollege(code string) bool {
	if u.IsSuperAdmin() {
		return true
	}
	return code != "" && u.CollegeCode == code
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
