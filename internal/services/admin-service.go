package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/dto"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/repository"
	"go.uber.org/zap"
)

type AdminService interface {
	ListSuperAdmins(ctx context.Context) ([]domain.User, error)
	CreateSuperAdmin(ctx context.Context, actor *domain.User, input dto.CreateSuperAdminRequest) (*domain.User, error)
	RemoveSuperAdmin(ctx context.Context, actor *domain.User, id uuid.UUID) error
	Logs(ctx context.Context, q dto.PageQuery) (*dto.AuditLogResponse, error)
	// EnsureSuperAdmin creates a super admin at startup if none exists.
	EnsureSuperAdmin(ctx context.Context, input dto.CreateSuperAdminRequest) error
}

type adminService struct {
	users repository.UserRepository
	logs  repository.AuditLogRepository
	auth  helper.Auth
	audit *Auditor
	now   func() time.Time
}

func NewAdminService(users repository.UserRepository, logs repository.AuditLogRepository, auth helper.Auth, audit *Auditor) AdminService {
	return &adminService{
		users: users,
		logs:  logs,
		auth:  auth,
		audit: audit,
		now:   time.Now,
	}
}

func (s *adminService) ListSuperAdmins(ctx context.Context) ([]domain.User, error) {
	return s.users.ListSuperAdmins(ctx)
}

func (s *adminService) CreateSuperAdmin(ctx context.Context, actor *domain.User, input dto.CreateSuperAdminRequest) (*domain.User, error) {
	if actor == nil || !actor.IsSuperAdmin() {
		return nil, domain.NewError(domain.ErrForbidden, "only super admins can create super admins")
	}
	user, err := s.createSuperAdmin(ctx, input)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor.ID, domain.AuditSuperAdminCreated, domain.AuditEntityUser, user.ID.String(), user.Email)
	return user, nil
}

func (s *adminService) createSuperAdmin(ctx context.Context, input dto.CreateSuperAdminRequest) (*domain.User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.users.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.NewError(domain.ErrDuplicateEntity, "user with this email already exists")
	}

	hash, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		PasswordHash:   hash,
		Role:           domain.RoleSuperAdmin,
		ApprovalStatus: domain.DefaultApprovalStatus(domain.RoleSuperAdmin),
		ApprovedAt:     &now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntity) {
			return nil, domain.NewError(domain.ErrDuplicateEntity, "user with this email already exists")
		}
		return nil, err
	}
	return user, nil
}

func (s *adminService) RemoveSuperAdmin(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	if actor == nil || !actor.IsSuperAdmin() {
		return domain.NewError(domain.ErrForbidden, "only super admins can remove super admins")
	}
	if actor.ID == id {
		return domain.NewError(domain.ErrInvalidState, "you cannot remove yourself")
	}

	if err := s.users.RemoveSuperAdmin(ctx, id); err != nil {
		return err
	}

	zap.S().Infow("super admin removed", "user_id", id, "by", actor.ID)
	s.audit.Record(ctx, actor.ID, domain.AuditSuperAdminRemoved, domain.AuditEntityUser, id.String(), "")
	return nil
}

func (s *adminService) Logs(ctx context.Context, q dto.PageQuery) (*dto.AuditLogResponse, error) {
	page, limit := dto.Normalize(q.Page, q.Limit)
	logs, total, err := s.logs.List(ctx, repository.Page{Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}
	return &dto.AuditLogResponse{Logs: logs, Pagination: dto.NewPagination(page, limit, total)}, nil
}

func (s *adminService) EnsureSuperAdmin(ctx context.Context, input dto.CreateSuperAdminRequest) error {
	count, err := s.users.CountSuperAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	user, err := s.createSuperAdmin(ctx, input)
	if err != nil {
		return err
	}
	zap.S().Infow("bootstrap super admin created", "email", user.Email)
	return nil
}
