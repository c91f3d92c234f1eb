package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/dto"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper/utils"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/repository"
	"go.uber.org/zap"
)

const (
	DefaultResetTTL   = time.Hour
	resetTokenBytes   = 32
	codeSearchLimit   = 10
	genericResetReply = "If an account exists for that email, a reset link has been sent"
)

type AuthService interface {
	RegisterCollege(ctx context.Context, input dto.RegisterCollegeRequest) (*domain.College, error)
	RegisterUser(ctx context.Context, input dto.RegisterUserRequest) (*domain.User, error)
	Login(ctx context.Context, input dto.LoginRequest) (*dto.LoginResponse, error)
	ResolveSession(ctx context.Context, token string) (*domain.User, error)
	RefreshSession(ctx context.Context, token string) (string, error)
	RequestReset(ctx context.Context, input dto.ForgotPasswordRequest) (string, error)
	ConsumeReset(ctx context.Context, input dto.ResetPasswordRequest) error

	VerifyCollege(ctx context.Context, code string) (*dto.CollegePublic, error)
	SearchCollegeCodes(ctx context.Context, prefix string) ([]dto.CollegePublic, error)
}

type authService struct {
	colleges repository.CollegeRepository
	users    repository.UserRepository
	resets   repository.PasswordResetRepository
	auth     helper.Auth
	notifier *Notifier
	resetTTL time.Duration
	now      func() time.Time
}

func NewAuthService(
	colleges repository.CollegeRepository,
	users repository.UserRepository,
	resets repository.PasswordResetRepository,
	auth helper.Auth,
	notifier *Notifier,
	resetTTL time.Duration,
) AuthService {
	if resetTTL <= 0 {
		resetTTL = DefaultResetTTL
	}
	return &authService{
		colleges: colleges,
		users:    users,
		resets:   resets,
		auth:     auth,
		notifier: notifier,
		resetTTL: resetTTL,
		now:      time.Now,
	}
}

func (s *authService) RegisterCollege(ctx context.Context, input dto.RegisterCollegeRequest) (*domain.College, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.colleges.ExistsByNameOrEmail(ctx, input.Name, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewError(domain.ErrDuplicateEntity, "college already registered")
	}

	taken, err := s.users.EmailExists(ctx, input.AdminEmail)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.NewError(domain.ErrDuplicateEntity, "admin email already registered")
	}

	hash, err := s.auth.HashPassword(input.AdminPassword)
	if err != nil {
		return nil, err
	}

	college := &domain.College{
		Name:            input.Name,
		Email:           input.Email,
		Phone:           input.Phone,
		Website:         input.Website,
		Description:     input.Description,
		EstablishedYear: input.EstablishedYear,
		Address:         input.Address.ToDomain(),
		Status:          domain.StatusPending,
	}
	admin := &domain.User{
		FirstName:      input.AdminFirstName,
		LastName:       input.AdminLastName,
		Email:          input.AdminEmail,
		PasswordHash:   hash,
		Role:           domain.RoleCollegeAdmin,
		CollegeCode:    domain.PendingCollegeCode,
		ApprovalStatus: domain.StatusPending,
	}

	if err := s.colleges.CreateWithAdmin(ctx, college, admin); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntity) {
			return nil, domain.NewError(domain.ErrDuplicateEntity, "college already registered")
		}
		return nil, err
	}

	zap.S().Infow("college registered", "college_id", college.ID, "name", college.Name)
	return college, nil
}

func (s *authService) RegisterUser(ctx context.Context, input dto.RegisterUserRequest) (*domain.User, error) {
	reg, err := input.Variant()
	if err != nil {
		return nil, err
	}

	var user *domain.User
	switch r := reg.(type) {
	case dto.SuperAdminRegistration:
		user, err = s.superAdminFromRegistration(ctx, r)
	case dto.TenantRegistration:
		user, err = s.tenantUserFromRegistration(ctx, r)
	default:
		err = domain.Invalid("unsupported registration")
	}
	if err != nil {
		return nil, err
	}

	id := dto.IdentityOf(reg)
	if user.PasswordHash, err = s.auth.HashPassword(id.Password); err != nil {
		return nil, err
	}
	if user.ApprovalStatus == domain.StatusApproved {
		now := s.now()
		user.ApprovedAt = &now
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntity) {
			return nil, domain.NewError(domain.ErrDuplicateEntity, "user already registered")
		}
		return nil, err
	}

	zap.S().Infow("user registered", "user_id", user.ID, "role", user.Role, "college_code", user.CollegeCode)
	return user, nil
}

// Super admins are global; self-registration only bootstraps the first one.
func (s *authService) superAdminFromRegistration(ctx context.Context, r dto.SuperAdminRegistration) (*domain.User, error) {
	count, err := s.users.CountSuperAdmins(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.NewError(domain.ErrForbidden, "super admin accounts can only be created by an existing super admin")
	}

	taken, err := s.users.EmailExists(ctx, r.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.NewError(domain.ErrDuplicateEntity, "user already registered")
	}

	return &domain.User{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Role:           domain.RoleSuperAdmin,
		ApprovalStatus: domain.DefaultApprovalStatus(domain.RoleSuperAdmin),
	}, nil
}

func (s *authService) tenantUserFromRegistration(ctx context.Context, r dto.TenantRegistration) (*domain.User, error) {
	if r.Role == domain.RoleCollegeAdmin {
		return nil, domain.NewError(domain.ErrForbidden, "college admins are created by college registration or promotion")
	}

	college, err := s.colleges.FindByCode(ctx, r.CollegeCode)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if college == nil || college.Status != domain.StatusApproved {
		return nil, domain.NewError(domain.ErrInvalidReference, "invalid college code")
	}

	_, err = s.users.FindByEmailAndCollege(ctx, r.Email, r.CollegeCode)
	switch {
	case err == nil:
		return nil, domain.NewError(domain.ErrDuplicateEntity, "user already registered with this college")
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	return &domain.User{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Role:           r.Role,
		CollegeCode:    r.CollegeCode,
		CollegeID:      &college.ID,
		ApprovalStatus: domain.DefaultApprovalStatus(r.Role),
		StudentID:      r.StudentID,
		GraduationYear: r.GraduationYear,
		Department:     r.Department,
	}, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginRequest) (*dto.LoginResponse, error) {
	email := utils.NormalizeEmail(input.Email)
	code := utils.NormalizeCode(input.CollegeCode)
	if email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredential
	}

	var candidates []domain.User
	if code != "" {
		u, err := s.users.FindByEmailAndCollege(ctx, email, code)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if u != nil {
			candidates = append(candidates, *u)
		}
	} else {
		var err error
		if candidates, err = s.users.FindByEmail(ctx, email); err != nil {
			return nil, err
		}
	}

	var user *domain.User
	for i := range candidates {
		if s.auth.VerifyPassword(input.Password, candidates[i].PasswordHash) == nil {
			user = &candidates[i]
			break
		}
	}
	if user == nil {
		return nil, domain.ErrInvalidCredential
	}

	if !user.IsSuperAdmin() && !user.IsApproved() {
		return nil, &domain.ApprovalError{Status: user.ApprovalStatus, Reason: user.RejectionReason}
	}

	token, err := s.auth.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		zap.S().Warnw("update last login failed", "user_id", user.ID, "error", err)
	}
	user.LastLogin = &now

	return &dto.LoginResponse{Token: token, User: user}, nil
}

func (s *authService) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.auth.VerifyToken(token)
	if err != nil {
		return nil, domain.NewError(domain.ErrUnauthenticated, "invalid or expired token")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.ErrUnauthenticated, "invalid or expired token")
		}
		return nil, err
	}
	return user, nil
}

// RefreshSession issues a new token for the same user. Approval is not re-checked.
func (s *authService) RefreshSession(ctx context.Context, token string) (string, error) {
	user, err := s.ResolveSession(ctx, token)
	if err != nil {
		return "", err
	}
	return s.auth.GenerateToken(user.ID)
}

// RequestReset always answers with the same message whether or not the
// account exists.
func (s *authService) RequestReset(ctx context.Context, input dto.ForgotPasswordRequest) (string, error) {
	email := utils.NormalizeEmail(input.Email)
	if !utils.IsValidEmail(email) {
		return "", domain.Invalid("please provide a valid email")
	}

	user, err := s.findForReset(ctx, email, utils.NormalizeCode(input.CollegeCode))
	if err != nil {
		return "", err
	}
	if user == nil {
		zap.S().Debugw("password reset requested for unknown account")
		return genericResetReply, nil
	}

	token, err := utils.RandomToken(resetTokenBytes)
	if err != nil {
		return "", err
	}
	expiresAt := s.now().Add(s.resetTTL)

	if err := s.resets.InvalidateForUser(ctx, user.ID); err != nil {
		return "", err
	}
	if err := s.resets.Create(ctx, &domain.PasswordReset{
		UserID:    user.ID,
		TokenHash: utils.Sha256Hex(token),
		ExpiresAt: expiresAt,
	}); err != nil {
		return "", err
	}

	s.notifier.PasswordReset(ctx, user, token, expiresAt)
	return genericResetReply, nil
}

func (s *authService) findForReset(ctx context.Context, email, code string) (*domain.User, error) {
	if code != "" {
		u, err := s.users.FindByEmailAndCollege(ctx, email, code)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return u, err
	}

	users, err := s.users.FindByEmail(ctx, email)
	if err != nil || len(users) == 0 {
		return nil, err
	}
	return &users[0], nil
}

func (s *authService) ConsumeReset(ctx context.Context, input dto.ResetPasswordRequest) error {
	if input.Token == "" {
		return domain.ErrInvalidOrExpiredToken
	}
	if len(input.NewPassword) < dto.MinPasswordLength {
		return domain.Invalid("password must be at least %d characters", dto.MinPasswordLength)
	}

	hash, err := s.auth.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	user, err := s.resets.Consume(ctx, utils.Sha256Hex(input.Token), utils.NormalizeEmail(input.Email), hash, s.now())
	if err != nil {
		return err
	}

	zap.S().Infow("password reset", "user_id", user.ID)
	return nil
}

func (s *authService) VerifyCollege(ctx context.Context, code string) (*dto.CollegePublic, error) {
	college, err := s.colleges.FindByCode(ctx, utils.NormalizeCode(code))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if college == nil || college.Status != domain.StatusApproved {
		return nil, domain.NewError(domain.ErrNotFound, "college not found or not approved")
	}
	out := dto.NewCollegePublic(college)
	return &out, nil
}

func (s *authService) SearchCollegeCodes(ctx context.Context, prefix string) ([]dto.CollegePublic, error) {
	prefix = utils.NormalizeCode(prefix)
	if prefix == "" {
		return nil, domain.Invalid("prefix is required")
	}

	colleges, err := s.colleges.SearchApprovedCodes(ctx, prefix, codeSearchLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CollegePublic, 0, len(colleges))
	for i := range colleges {
		out = append(out, dto.NewCollegePublic(&colleges[i]))
	}
	return out, nil
}
