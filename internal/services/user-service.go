package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/dto"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper/utils"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/interfaces"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/repository"
	pkgutils "github.com/sirapurapushyam/AluminiHub-sub000/pkg/utils"
	"go.uber.org/zap"
)

const (
	MaxImageSize  = 5 << 20
	MaxResumeSize = 10 << 20

	profileImageWidth   = 800
	profileImageQuality = 85
)

var (
	imageTypes = map[string]bool{"image/jpeg": true, "image/jpg": true, "image/png": true, "image/webp": true}
	resumeExts = map[string]bool{".pdf": true, ".doc": true, ".docx": true}
)

type UserService interface {
	// Approval chain
	DecideUser(ctx context.Context, actor *domain.User, userID uuid.UUID, input dto.UserDecisionRequest) (*domain.User, error)
	PromoteUser(ctx context.Context, actor *domain.User, userID uuid.UUID) (*domain.User, error)
	ListPending(ctx context.Context, collegeCode string) ([]domain.User, error)
	ListCollegeUsers(ctx context.Context, collegeCode string, q dto.UserListQuery) (*dto.UserListResponse, error)

	// Profile
	GetProfile(ctx context.Context, actor *domain.User, userID uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor *domain.User, input dto.UpdateProfileRequest) (*domain.User, error)
	ChangePassword(ctx context.Context, actor *domain.User, input dto.ChangePasswordRequest) error
	UploadProfileImage(ctx context.Context, actor *domain.User, file dto.UploadFile) (*domain.User, error)
	UploadResume(ctx context.Context, actor *domain.User, file dto.UploadFile) (*domain.User, error)
	DeleteResume(ctx context.Context, actor *domain.User) (*domain.User, error)
}

type userService struct {
	users    repository.UserRepository
	auth     helper.Auth
	uploader interfaces.Uploader
	audit    *Auditor
	now      func() time.Time
}

func NewUserService(
	users repository.UserRepository,
	auth helper.Auth,
	uploader interfaces.Uploader,
	audit *Auditor,
) UserService {
	return &userService{
		users:    users,
		auth:     auth,
		uploader: uploader,
		audit:    audit,
		now:      time.Now,
	}
}

// scopedTarget loads a user an admin wants to act on and enforces the
// role and same-college rules shared by every admin action.
func (s *userService) scopedTarget(ctx context.Context, actor *domain.User, userID uuid.UUID) (*domain.User, error) {
	if actor == nil || (actor.Role != domain.RoleCollegeAdmin && !actor.IsSuperAdmin()) {
		return nil, domain.NewError(domain.ErrForbidden, "only college admins can manage users")
	}

	target, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.ErrNotFound, "user not found")
		}
		return nil, err
	}

	if target.IsSuperAdmin() {
		return nil, domain.NewError(domain.ErrForbidden, "super admins cannot be managed here")
	}
	if !actor.SameCollege(target.CollegeCode) {
		return nil, domain.NewError(domain.ErrForbidden, "access denied: user belongs to a different college")
	}
	if target.CollegeCode == domain.PendingCollegeCode {
		return nil, domain.NewError(domain.ErrInvalidState, "the user's college is not approved yet")
	}
	return target, nil
}

func (s *userService) DecideUser(ctx context.Context, actor *domain.User, userID uuid.UUID, input dto.UserDecisionRequest) (*domain.User, error) {
	decision, reason, err := dto.Decision(input.Status, input.Reason)
	if err != nil {
		return nil, err
	}

	target, err := s.scopedTarget(ctx, actor, userID)
	if err != nil {
		return nil, err
	}
	if target.ID == actor.ID {
		return nil, domain.NewError(domain.ErrForbidden, "you cannot decide on your own account")
	}

	now := s.now()
	target.ApprovalStatus = decision
	action := domain.AuditUserApproved
	if decision == domain.StatusApproved {
		target.ApprovedAt = &now
		target.ApprovedBy = &actor.ID
		target.RejectedAt, target.RejectedBy, target.RejectionReason = nil, nil, ""
	} else {
		action = domain.AuditUserRejected
		target.RejectedAt = &now
		target.RejectedBy = &actor.ID
		target.RejectionReason = reason
	}

	if err := s.users.UpdateApproval(ctx, target); err != nil {
		return nil, err
	}

	zap.S().Infow("user decision", "user_id", target.ID, "status", decision, "by", actor.ID)
	s.audit.Record(ctx, actor.ID, action, domain.AuditEntityUser, target.ID.String(), reason)
	return target, nil
}

func (s *userService) PromoteUser(ctx context.Context, actor *domain.User, userID uuid.UUID) (*domain.User, error) {
	target, err := s.scopedTarget(ctx, actor, userID)
	if err != nil {
		return nil, err
	}
	if target.Role == domain.RoleCollegeAdmin {
		return nil, domain.NewError(domain.ErrInvalidState, "user is already a college admin")
	}
	if target.CollegeID == nil {
		return nil, domain.NewError(domain.ErrInvalidState, "user is not linked to a college")
	}

	promoted, err := s.users.Promote(ctx, target.ID, *target.CollegeID, s.now())
	if err != nil {
		return nil, err
	}

	zap.S().Infow("user promoted", "user_id", promoted.ID, "college_code", promoted.CollegeCode, "by", actor.ID)
	s.audit.Record(ctx, actor.ID, domain.AuditUserPromoted, domain.AuditEntityUser, promoted.ID.String(), "")
	return promoted, nil
}

func (s *userService) ListPending(ctx context.Context, collegeCode string) ([]domain.User, error) {
	users, _, err := s.users.List(ctx, repository.UserFilter{
		CollegeCode:    utils.NormalizeCode(collegeCode),
		ApprovalStatus: domain.StatusPending,
	})
	return users, err
}

func (s *userService) ListCollegeUsers(ctx context.Context, collegeCode string, q dto.UserListQuery) (*dto.UserListResponse, error) {
	code := utils.NormalizeCode(collegeCode)
	page, limit := dto.Normalize(q.Page, q.Limit)

	role := domain.Role(q.Role)
	if role != "" && !role.Valid() {
		return nil, domain.Invalid("invalid role %q", q.Role)
	}
	status := domain.ApprovalStatus(q.ApprovalStatus)
	if status != "" && !status.Valid() {
		return nil, domain.Invalid("invalid approvalStatus %q", q.ApprovalStatus)
	}

	users, total, err := s.users.List(ctx, repository.UserFilter{
		CollegeCode:    code,
		Role:           role,
		ApprovalStatus: status,
		Search:         q.Search,
		Page:           repository.Page{Page: page, Limit: limit},
	})
	if err != nil {
		return nil, err
	}
	stats, err := s.users.CountByApproval(ctx, code)
	if err != nil {
		return nil, err
	}

	return &dto.UserListResponse{
		Users:         users,
		Pagination:    dto.NewPagination(page, limit, total),
		ApprovalStats: stats,
	}, nil
}

func (s *userService) GetProfile(ctx context.Context, actor *domain.User, userID uuid.UUID) (*domain.User, error) {
	if userID == uuid.Nil || userID == actor.ID {
		return s.users.FindByID(ctx, actor.ID)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.ErrNotFound, "user not found")
		}
		return nil, err
	}
	if !actor.SameCollege(user.CollegeCode) {
		return nil, domain.NewError(domain.ErrForbidden, "access denied: user belongs to a different college")
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor *domain.User, input dto.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		v := strings.TrimSpace(*input.FirstName)
		if v == "" || len(v) > 50 {
			return nil, domain.Invalid("firstName must be between 1 and 50 characters")
		}
		user.FirstName = v
	}
	if input.LastName != nil {
		v := strings.TrimSpace(*input.LastName)
		if v == "" || len(v) > 50 {
			return nil, domain.Invalid("lastName must be between 1 and 50 characters")
		}
		user.LastName = v
	}
	if input.GraduationYear != nil {
		if y := *input.GraduationYear; y < 1900 || y > s.now().Year()+10 {
			return nil, domain.Invalid("graduationYear is out of range")
		}
		user.GraduationYear = input.GraduationYear
	}
	if input.Department != nil {
		user.Department = strings.TrimSpace(*input.Department)
	}
	if p := input.Profile; p != nil {
		applyProfile(&user.Profile, p)
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func applyProfile(dst *domain.Profile, p *dto.ProfileInput) {
	set := func(field *string, v *string) {
		if v != nil {
			*field = strings.TrimSpace(*v)
		}
	}
	set(&dst.Bio, p.Bio)
	set(&dst.Phone, p.Phone)
	set(&dst.Location, p.Location)
	set(&dst.CurrentCompany, p.CurrentCompany)
	set(&dst.CurrentPosition, p.CurrentPosition)
	set(&dst.LinkedIn, p.LinkedIn)
	set(&dst.Github, p.Github)
	set(&dst.Website, p.Website)
	if p.Skills != nil {
		dst.Skills = dto.CleanList(p.Skills)
	}
	if p.Interests != nil {
		dst.Interests = dto.CleanList(p.Interests)
	}
}

func (s *userService) ChangePassword(ctx context.Context, actor *domain.User, input dto.ChangePasswordRequest) error {
	if len(input.NewPassword) < dto.MinPasswordLength {
		return domain.Invalid("password must be at least %d characters", dto.MinPasswordLength)
	}

	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if err := s.auth.VerifyPassword(input.CurrentPassword, user.PasswordHash); err != nil {
		return domain.Invalid("current password is incorrect")
	}

	hash, err := s.auth.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash)
}

func (s *userService) UploadProfileImage(ctx context.Context, actor *domain.User, file dto.UploadFile) (*domain.User, error) {
	if !imageTypes[strings.ToLower(file.ContentType)] {
		return nil, domain.Invalid("only jpg, png and webp images are allowed")
	}
	if len(file.Data) == 0 || len(file.Data) > MaxImageSize {
		return nil, domain.Invalid("image must be between 1 byte and 5MB")
	}

	img, err := pkgutils.NormalizeImage(file.Data, profileImageWidth, profileImageQuality)
	if err != nil {
		return nil, domain.Invalid("image could not be read: %v", err)
	}

	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	up, err := s.uploader.UploadBytes(ctx, "alumni/profile-images", "user_"+user.ID.String(), "image", img)
	if err != nil {
		return nil, fmt.Errorf("upload profile image: %w", err)
	}

	user.Profile.ImageURL = up.URL
	user.Profile.ImagePublicID = up.PublicID
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UploadResume(ctx context.Context, actor *domain.User, file dto.UploadFile) (*domain.User, error) {
	if !resumeExts[strings.ToLower(path.Ext(file.Name))] {
		return nil, domain.Invalid("only pdf, doc and docx files are allowed")
	}
	if len(file.Data) == 0 || len(file.Data) > MaxResumeSize {
		return nil, domain.Invalid("resume must be between 1 byte and 10MB")
	}

	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	up, err := s.uploader.UploadBytes(ctx, "alumni/resumes", "resume_"+user.ID.String(), "raw", file.Data)
	if err != nil {
		return nil, fmt.Errorf("upload resume: %w", err)
	}

	now := s.now()
	user.Profile.ResumeURL = up.URL
	user.Profile.ResumePublicID = up.PublicID
	user.Profile.ResumeOriginalName = file.Name
	user.Profile.ResumeMimeType = file.ContentType
	user.Profile.ResumeUploadedAt = &now
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteResume(ctx context.Context, actor *domain.User) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if user.Profile.ResumePublicID == "" {
		return nil, domain.NewError(domain.ErrNotFound, "no resume uploaded")
	}

	if err := s.uploader.Destroy(ctx, user.Profile.ResumePublicID, "raw"); err != nil {
		zap.S().Warnw("delete resume from storage failed", "user_id", user.ID, "error", err)
	}

	user.Profile.ResumeURL = ""
	user.Profile.ResumePublicID = ""
	user.Profile.ResumeOriginalName = ""
	user.Profile.ResumeMimeType = ""
	user.Profile.ResumeUploadedAt = nil
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
