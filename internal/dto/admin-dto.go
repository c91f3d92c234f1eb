package dto

import "github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type CreateSuperAdminRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (r *CreateSuperAdminRequest) Validate() error {
	id, err := validateIdentity(r.FirstName, r.LastName, r.Email, r.Password)
	if err != nil {
		return err
	}
	r.FirstName, r.LastName, r.Email = id.FirstName, id.LastName, id.Email
	return nil
}

type PageQuery struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Normalize clamps page and limit to sane values.
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

type AuditLogResponse struct {
	Logs       []domain.AuditLog `json:"logs"`
	Pagination Pagination        `json:"pagination"`
}
