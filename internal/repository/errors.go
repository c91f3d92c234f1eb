package repository

import (
	"errors"
	"fmt"

	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper"
	"gorm.io/gorm"
)

const (
	idxCollegeCode  = "idx_colleges_unique_code"
	idxCollegeName  = "idx_colleges_name"
	idxCollegeEmail = "idx_colleges_email"
	idxUserEmail    = "idx_users_email_college"
)

// translate maps storage errors to domain kinds. Anything else is wrapped
// with op so it is logged with context but surfaces as a server error.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case helper.IsUniqueViolation(err, idxCollegeCode):
		return domain.ErrCodeTaken
	case helper.IsUniqueViolation(err, ""):
		return domain.ErrDuplicateEntity
	case isDomainError(err):
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isDomainError(err error) bool {
	for _, kind := range []error{
		domain.ErrNotFound, domain.ErrDuplicateEntity, domain.ErrInvalidState,
		domain.ErrInvalidOrExpiredToken, domain.ErrForbidden,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
