package domain

type Role string

const (
	RoleStudent      Role = "student"
	RoleAlumni       Role = "alumni"
	RoleFaculty      Role = "faculty"
	RoleCollegeAdmin Role = "college_admin"
	RoleSuperAdmin   Role = "super_admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAlumni, RoleFaculty, RoleCollegeAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// TenantScoped reports whether users of this role belong to a college.
func (r Role) TenantScoped() bool {
	return r != RoleSuperAdmin
}

type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// DefaultApprovalStatus is the approval state a freshly registered user starts in.
func DefaultApprovalStatus(r Role) ApprovalStatus {
	switch r {
	case RoleCollegeAdmin, RoleSuperAdmin:
		return StatusApproved
	default:
		return StatusPending
	}
}

// PendingCollegeCode is carried by a college admin until their college is approved.
const PendingCollegeCode = "PENDING"
