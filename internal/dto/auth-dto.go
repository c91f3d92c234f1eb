package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
)

type LoginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CollegeCode string `json:"collegeCode,omitempty"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type ForgotPasswordRequest struct {
	Email       string `json:"email"`
	CollegeCode string `json:"collegeCode,omitempty"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type RefreshRequest struct {
	Token string `json:"token"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// AuthClaims is what a verified bearer token carries.
type AuthClaims struct {
	UserID    uuid.UUID `json:"userId"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}
