package dto

import (
	"strings"

	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
)

type UserDecisionRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Decision normalizes the status of a college or user decision.
func Decision(status, reason string) (domain.ApprovalStatus, string, error) {
	s := domain.ApprovalStatus(strings.ToLower(strings.TrimSpace(status)))
	reason = strings.TrimSpace(reason)
	switch s {
	case domain.StatusApproved:
		return s, "", nil
	case domain.StatusRejected:
		if reason == "" {
			return "", "", domain.Invalid("a rejection reason is required")
		}
		return s, reason, nil
	default:
		return "", "", domain.Invalid("status must be approved or rejected")
	}
}

type UpdateProfileRequest struct {
	FirstName      *string       `json:"firstName,omitempty"`
	LastName       *string       `json:"lastName,omitempty"`
	GraduationYear *int          `json:"graduationYear,omitempty"`
	Department     *string       `json:"department,omitempty"`
	Profile        *ProfileInput `json:"profile,omitempty"`
}

type ProfileInput struct {
	Bio             *string  `json:"bio,omitempty"`
	Phone           *string  `json:"phone,omitempty"`
	Location        *string  `json:"location,omitempty"`
	CurrentCompany  *string  `json:"currentCompany,omitempty"`
	CurrentPosition *string  `json:"currentPosition,omitempty"`
	LinkedIn        *string  `json:"linkedin,omitempty"`
	Github          *string  `json:"github,omitempty"`
	Website         *string  `json:"website,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	Interests       []string `json:"interests,omitempty"`
}

// CleanList trims entries and drops empty ones.
func CleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type UserListQuery struct {
	Role           string `query:"role"`
	ApprovalStatus string `query:"approvalStatus"`
	Search         string `query:"search"`
	Page           int    `query:"page"`
	Limit          int    `query:"limit"`
}

type UserListResponse struct {
	Users         []domain.User                   `json:"users"`
	Pagination    Pagination                      `json:"pagination"`
	ApprovalStats map[domain.ApprovalStatus]int64 `json:"approvalStats"`
}

// UploadFile is a multipart file read into memory.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}
