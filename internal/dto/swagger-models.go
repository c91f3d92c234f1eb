package dto

import "github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"

// ===== Common responses =====

type APIError struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"invalid input"`
	Code    string `json:"code" example:"INVALID_INPUT"`
}

type APINotApproved struct {
	Success        bool   `json:"success" example:"false"`
	Message        string `json:"message" example:"your account is pending approval"`
	Code           string `json:"code" example:"NOT_APPROVED"`
	ApprovalStatus string `json:"approvalStatus" example:"pending"`
}

type APISuccessMessage struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"ok"`
}

type APISuccessLogin struct {
	Success bool          `json:"success" example:"true"`
	Message string        `json:"message" example:"Login successful"`
	Data    LoginResponse `json:"data"`
}

type APISuccessUser struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message"`
	Data    domain.User `json:"data"`
}

type APISuccessCollege struct {
	Success bool           `json:"success" example:"true"`
	Message string         `json:"message"`
	Data    domain.College `json:"data"`
}
