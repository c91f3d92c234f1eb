package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	AuditCollegeApproved   = "college.approved"
	AuditCollegeRejected   = "college.rejected"
	AuditCollegeUpdated    = "college.updated"
	AuditUserApproved      = "user.approved"
	AuditUserRejected      = "user.rejected"
	AuditUserPromoted      = "user.promoted"
	AuditSuperAdminCreated = "super_admin.created"
	AuditSuperAdminRemoved = "super_admin.removed"
	AuditEntityCollege     = "college"
	AuditEntityUser        = "user"
)

type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	ActorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"actorId"`
	Action    string    `gorm:"type:varchar(100);not null;index" json:"action"`
	Entity    string    `gorm:"type:varchar(100);not null" json:"entity"`
	EntityID  string    `gorm:"type:varchar(64);not null;index" json:"entityId"`
	Note      *string   `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}
