package repository

import "github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"

type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

type CollegeFilter struct {
	Status domain.ApprovalStatus
	Search string
	Page
}

type UserFilter struct {
	CollegeCode    string
	Role           domain.Role
	ApprovalStatus domain.ApprovalStatus
	Search         string
	Page
}

// UserCountFilter narrows aggregate counts. Empty fields do not filter.
type UserCountFilter struct {
	CollegeCode       string
	ApprovalStatus    domain.ApprovalStatus
	ExcludeSuperAdmin bool
}
