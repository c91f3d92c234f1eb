package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"gorm.io/gorm"
)

type PasswordResetRepository interface {
	Create(ctx context.Context, reset *domain.PasswordReset) error
	// InvalidateForUser marks every outstanding token of the user as used.
	InvalidateForUser(ctx context.Context, userID uuid.UUID) error
	// Consume burns the token and sets the new password hash in one transaction.
	// Unknown, expired, used or mismatched tokens give domain.ErrInvalidOrExpiredToken.
	Consume(ctx context.Context, tokenHash, email, passwordHash string, now time.Time) (*domain.User, error)
}

type passwordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, reset *domain.PasswordReset) error {
	return translate("create password reset", r.db.WithContext(ctx).Create(reset).Error)
}

func (r *passwordResetRepository) InvalidateForUser(ctx context.Context, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&domain.PasswordReset{}).
		Where("user_id = ? AND used = ?", userID, false).
		Updates(map[string]any{"used": true, "used_at": time.Now()}).Error
	return translate("invalidate password resets", err)
}

func (r *passwordResetRepository) Consume(ctx context.Context, tokenHash, email, passwordHash string, now time.Time) (*domain.User, error) {
	var user domain.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reset domain.PasswordReset
		if err := tx.First(&reset, "token_hash = ?", tokenHash).Error; err != nil {
			return domain.ErrInvalidOrExpiredToken
		}
		if !reset.Usable(now) {
			return domain.ErrInvalidOrExpiredToken
		}
		if err := tx.First(&user, "id = ?", reset.UserID).Error; err != nil {
			return domain.ErrInvalidOrExpiredToken
		}
		if user.Email != email {
			return domain.ErrInvalidOrExpiredToken
		}

		// the used = false guard makes a concurrent second consume lose
		res := tx.Model(&domain.PasswordReset{}).
			Where("id = ? AND used = ?", reset.ID, false).
			Updates(map[string]any{"used": true, "used_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrInvalidOrExpiredToken
		}

		return tx.Model(&domain.User{}).Where("id = ?", user.ID).Update("password_hash", passwordHash).Error
	})
	if err != nil {
		return nil, translate("consume password reset", err)
	}
	return &user, nil
}
