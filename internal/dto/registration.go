package dto

import (
	"strings"

	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper/utils"
)

const MinPasswordLength = 6

type RegisterUserRequest struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	CollegeCode    string `json:"collegeCode,omitempty"`
	StudentID      string `json:"studentId,omitempty"`
	GraduationYear *int   `json:"graduationYear,omitempty"`
	Department     string `json:"department,omitempty"`
}

// Registration is either a TenantRegistration or a SuperAdminRegistration.
type Registration interface {
	identity() Identity
}

type Identity struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type TenantRegistration struct {
	Identity
	Role           domain.Role
	CollegeCode    string
	StudentID      string
	GraduationYear *int
	Department     string
}

type SuperAdminRegistration struct {
	Identity
}

func (r TenantRegistration) identity() Identity     { return r.Identity }
func (r SuperAdminRegistration) identity() Identity { return r.Identity }

func IdentityOf(r Registration) Identity { return r.identity() }

// Variant validates the request and returns the registration shape its role requires.
func (r RegisterUserRequest) Variant() (Registration, error) {
	id, err := validateIdentity(r.FirstName, r.LastName, r.Email, r.Password)
	if err != nil {
		return nil, err
	}

	role := domain.Role(strings.TrimSpace(strings.ToLower(r.Role)))
	if role == "" {
		role = domain.RoleStudent
	}
	if !role.Valid() {
		return nil, domain.Invalid("invalid role %q", r.Role)
	}
	if role == domain.RoleSuperAdmin {
		return SuperAdminRegistration{Identity: id}, nil
	}

	code := utils.NormalizeCode(r.CollegeCode)
	if code == "" {
		return nil, domain.Invalid("collegeCode is required for role %s", role)
	}
	return TenantRegistration{
		Identity:       id,
		Role:           role,
		CollegeCode:    code,
		StudentID:      strings.TrimSpace(r.StudentID),
		GraduationYear: r.GraduationYear,
		Department:     strings.TrimSpace(r.Department),
	}, nil
}

func validateIdentity(first, last, email, password string) (Identity, error) {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if first == "" || len(first) > 50 {
		return Identity{}, domain.Invalid("firstName is required and must be at most 50 characters")
	}
	if last == "" || len(last) > 50 {
		return Identity{}, domain.Invalid("lastName is required and must be at most 50 characters")
	}
	email = utils.NormalizeEmail(email)
	if !utils.IsValidEmail(email) {
		return Identity{}, domain.Invalid("please provide a valid email")
	}
	if len(password) < MinPasswordLength {
		return Identity{}, domain.Invalid("password must be at least %d characters", MinPasswordLength)
	}
	return Identity{FirstName: first, LastName: last, Email: email, Password: password}, nil
}
