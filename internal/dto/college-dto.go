package dto

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper/utils"
)

type AddressInput struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type RegisterCollegeRequest struct {
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	Phone           string       `json:"phone"`
	Website         string       `json:"website,omitempty"`
	Description     string       `json:"description,omitempty"`
	EstablishedYear *int         `json:"establishedYear,omitempty"`
	Address         AddressInput `json:"address"`
	AdminFirstName  string       `json:"adminFirstName"`
	AdminLastName   string       `json:"adminLastName"`
	AdminEmail      string       `json:"adminEmail"`
	AdminPassword   string       `json:"adminPassword"`
}

// Validate trims and normalizes the request in place.
func (r *RegisterCollegeRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if len(r.Name) < 2 || len(r.Name) > 200 {
		return domain.Invalid("college name must be between 2 and 200 characters")
	}
	r.Email = utils.NormalizeEmail(r.Email)
	if !utils.IsValidEmail(r.Email) {
		return domain.Invalid("please provide a valid college email")
	}
	r.Phone = strings.TrimSpace(r.Phone)
	if r.Phone == "" {
		return domain.Invalid("phone is required")
	}
	if err := r.Address.validate(); err != nil {
		return err
	}
	if err := validateWebsite(r.Website); err != nil {
		return err
	}
	if err := validateYear(r.EstablishedYear); err != nil {
		return err
	}
	id, err := validateIdentity(r.AdminFirstName, r.AdminLastName, r.AdminEmail, r.AdminPassword)
	if err != nil {
		return err
	}
	r.AdminFirstName, r.AdminLastName, r.AdminEmail = id.FirstName, id.LastName, id.Email
	return nil
}

func (a *AddressInput) validate() error {
	fields := []struct {
		name string
		val  *string
	}{
		{"street", &a.Street}, {"city", &a.City}, {"state", &a.State},
		{"zipCode", &a.ZipCode}, {"country", &a.Country},
	}
	for _, f := range fields {
		*f.val = strings.TrimSpace(*f.val)
		if *f.val == "" {
			return domain.Invalid("address.%s is required", f.name)
		}
	}
	return nil
}

func (a AddressInput) ToDomain() domain.Address {
	return domain.Address{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
		Country: a.Country,
	}
}

func validateWebsite(site string) error {
	if site == "" {
		return nil
	}
	u, err := url.Parse(site)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.Invalid("website must be a valid http(s) URL")
	}
	return nil
}

func validateYear(year *int) error {
	if year == nil {
		return nil
	}
	if *year < 1800 || *year > time.Now().Year() {
		return domain.Invalid("establishedYear must be between 1800 and %d", time.Now().Year())
	}
	return nil
}

type CollegeDecisionRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type UpdateCollegeRequest struct {
	Name            *string       `json:"name,omitempty"`
	Phone           *string       `json:"phone,omitempty"`
	Website         *string       `json:"website,omitempty"`
	Description     *string       `json:"description,omitempty"`
	EstablishedYear *int          `json:"establishedYear,omitempty"`
	Address         *AddressInput `json:"address,omitempty"`
}

func (r *UpdateCollegeRequest) Validate() error {
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		if len(n) < 2 || len(n) > 200 {
			return domain.Invalid("college name must be between 2 and 200 characters")
		}
		r.Name = &n
	}
	if r.Website != nil {
		if err := validateWebsite(*r.Website); err != nil {
			return err
		}
	}
	if r.Address != nil {
		if err := r.Address.validate(); err != nil {
			return err
		}
	}
	return validateYear(r.EstablishedYear)
}

// CollegePublic is what unauthenticated callers may see about an approved college.
type CollegePublic struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	UniqueCode string    `json:"uniqueCode"`
	Email      string    `json:"email,omitempty"`
	Website    string    `json:"website,omitempty"`
	City       string    `json:"city,omitempty"`
}

func NewCollegePublic(c *domain.College) CollegePublic {
	return CollegePublic{
		ID:         c.ID,
		Name:       c.Name,
		UniqueCode: c.Code(),
		Email:      c.Email,
		Website:    c.Website,
		City:       c.Address.City,
	}
}

type CollegeListQuery struct {
	Status string `query:"status"`
	Search string `query:"search"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

type CollegeWithStats struct {
	domain.College
	Stats map[domain.Role]int64 `json:"stats"`
}

type CollegeListResponse struct {
	Colleges   []CollegeWithStats `json:"colleges"`
	Pagination Pagination         `json:"pagination"`
}

type CollegeStats struct {
	UsersByRole  map[domain.Role]int64 `json:"usersByRole"`
	PendingUsers int64                 `json:"pendingUsers"`
	TotalUsers   int64                 `json:"totalUsers"`
}

type PlatformStats struct {
	TotalColleges    int64                 `json:"totalColleges"`
	ApprovedColleges int64                 `json:"approvedColleges"`
	PendingColleges  int64                 `json:"pendingColleges"`
	UsersByRole      map[domain.Role]int64 `json:"usersByRole"`
	TotalUsers       int64                 `json:"totalUsers"`
}
