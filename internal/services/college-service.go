package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/dto"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper/utils"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/repository"
	"go.uber.org/zap"
)

const maxCodeAttempts = 10

type CollegeService interface {
	DecideCollege(ctx context.Context, actor *domain.User, collegeID uuid.UUID, input dto.CollegeDecisionRequest) (*domain.College, error)
	ListPending(ctx context.Context) ([]domain.College, error)
	ListColleges(ctx context.Context, q dto.CollegeListQuery) (*dto.CollegeListResponse, error)
	GetCollege(ctx context.Context, code string) (*domain.College, error)
	UpdateCollege(ctx context.Context, actor *domain.User, code string, input dto.UpdateCollegeRequest) (*domain.College, error)
	CollegeStats(ctx context.Context, code string) (*dto.CollegeStats, error)
	PlatformStats(ctx context.Context) (*dto.PlatformStats, error)
}

type collegeService struct {
	colleges repository.CollegeRepository
	users    repository.UserRepository
	notifier *Notifier
	audit    *Auditor
	genCode  helper.CodeGenerator
	now      func() time.Time
}

func NewCollegeService(
	colleges repository.CollegeRepository,
	users repository.UserRepository,
	notifier *Notifier,
	audit *Auditor,
	genCode helper.CodeGenerator,
) CollegeService {
	if genCode == nil {
		genCode = helper.GenerateCollegeCode
	}
	return &collegeService{
		colleges: colleges,
		users:    users,
		notifier: notifier,
		audit:    audit,
		genCode:  genCode,
		now:      time.Now,
	}
}

func (s *collegeService) DecideCollege(ctx context.Context, actor *domain.User, collegeID uuid.UUID, input dto.CollegeDecisionRequest) (*domain.College, error) {
	if actor == nil || !actor.IsSuperAdmin() {
		return nil, domain.NewError(domain.ErrForbidden, "only super admins can decide on colleges")
	}

	decision, reason, err := dto.Decision(input.Status, input.Reason)
	if err != nil {
		return nil, err
	}

	college, err := s.colleges.FindByID(ctx, collegeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.ErrNotFound, "college not found")
		}
		return nil, err
	}
	if college.Status != domain.StatusPending {
		return nil, domain.NewError(domain.ErrInvalidState, "college is already %s", college.Status)
	}

	if decision == domain.StatusRejected {
		return s.reject(ctx, actor, college, reason)
	}
	return s.approve(ctx, actor, college)
}

// approve allocates a code and commits it. The unique index on the code is
// the authority: a collision at commit time retries with a new candidate.
func (s *collegeService) approve(ctx context.Context, actor *domain.User, college *domain.College) (*domain.College, error) {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := s.genCode(college.Name)
		if err != nil {
			return nil, fmt.Errorf("generate college code: %w", err)
		}

		taken, err := s.colleges.CodeExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		approved, admin, err := s.colleges.Approve(ctx, college.ID, actor.ID, code, s.now())
		if errors.Is(err, domain.ErrCodeTaken) {
			zap.S().Infow("college code collision, retrying", "code", code, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}

		zap.S().Infow("college approved", "college_id", approved.ID, "code", code, "by", actor.ID)
		s.audit.Record(ctx, actor.ID, domain.AuditCollegeApproved, domain.AuditEntityCollege, approved.ID.String(), code)
		s.notifier.CollegeApproved(ctx, approved, admin)
		return approved, nil
	}
	return nil, fmt.Errorf("could not allocate a unique college code after %d attempts", maxCodeAttempts)
}

func (s *collegeService) reject(ctx context.Context, actor *domain.User, college *domain.College, reason string) (*domain.College, error) {
	deleted, admin, err := s.colleges.Reject(ctx, college.ID)
	if err != nil {
		return nil, err
	}

	zap.S().Infow("college rejected", "college_id", deleted.ID, "admin_email", admin.Email, "by", actor.ID)
	s.audit.Record(ctx, actor.ID, domain.AuditCollegeRejected, domain.AuditEntityCollege, deleted.ID.String(), reason)

	deleted.Status = domain.StatusRejected
	return deleted, nil
}

func (s *collegeService) ListPending(ctx context.Context) ([]domain.College, error) {
	colleges, _, err := s.colleges.List(ctx, repository.CollegeFilter{Status: domain.StatusPending})
	return colleges, err
}

func (s *collegeService) ListColleges(ctx context.Context, q dto.CollegeListQuery) (*dto.CollegeListResponse, error) {
	page, limit := dto.Normalize(q.Page, q.Limit)
	status := domain.ApprovalStatus(q.Status)
	if status != "" && !status.Valid() {
		return nil, domain.Invalid("invalid status %q", q.Status)
	}

	colleges, total, err := s.colleges.List(ctx, repository.CollegeFilter{
		Status: status,
		Search: q.Search,
		Page:   repository.Page{Page: page, Limit: limit},
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.CollegeWithStats, 0, len(colleges))
	for _, c := range colleges {
		stats := map[domain.Role]int64{}
		if c.Status == domain.StatusApproved {
			if stats, err = s.users.CountByRole(ctx, repository.UserCountFilter{
				CollegeCode:    c.Code(),
				ApprovalStatus: domain.StatusApproved,
			}); err != nil {
				return nil, err
			}
		}
		out = append(out, dto.CollegeWithStats{College: c, Stats: stats})
	}

	return &dto.CollegeListResponse{
		Colleges:   out,
		Pagination: dto.NewPagination(page, limit, total),
	}, nil
}

func (s *collegeService) GetCollege(ctx context.Context, code string) (*domain.College, error) {
	college, err := s.colleges.FindByCode(ctx, utils.NormalizeCode(code))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.ErrNotFound, "college not found")
		}
		return nil, err
	}
	return college, nil
}

func (s *collegeService) UpdateCollege(ctx context.Context, actor *domain.User, code string, input dto.UpdateCollegeRequest) (*domain.College, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	college, err := s.GetCollege(ctx, code)
	if err != nil {
		return nil, err
	}
	if !actor.IsSuperAdmin() && !(actor.SameCollege(college.Code()) && college.IsAdmin(actor.ID)) {
		return nil, domain.NewError(domain.ErrForbidden, "only an admin of this college can update it")
	}

	if input.Name != nil {
		college.Name = *input.Name
	}
	if input.Phone != nil {
		college.Phone = *input.Phone
	}
	if input.Website != nil {
		college.Website = *input.Website
	}
	if input.Description != nil {
		college.Description = *input.Description
	}
	if input.EstablishedYear != nil {
		college.EstablishedYear = input.EstablishedYear
	}
	if input.Address != nil {
		college.Address = input.Address.ToDomain()
	}

	if err := s.colleges.UpdateDetails(ctx, college); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntity) {
			return nil, domain.NewError(domain.ErrDuplicateEntity, "a college with this name already exists")
		}
		return nil, err
	}
	s.audit.Record(ctx, actor.ID, domain.AuditCollegeUpdated, domain.AuditEntityCollege, college.ID.String(), "")
	return college, nil
}

func (s *collegeService) CollegeStats(ctx context.Context, code string) (*dto.CollegeStats, error) {
	college, err := s.GetCollege(ctx, code)
	if err != nil {
		return nil, err
	}

	byRole, err := s.users.CountByRole(ctx, repository.UserCountFilter{
		CollegeCode:    college.Code(),
		ApprovalStatus: domain.StatusApproved,
	})
	if err != nil {
		return nil, err
	}
	byApproval, err := s.users.CountByApproval(ctx, college.Code())
	if err != nil {
		return nil, err
	}

	stats := &dto.CollegeStats{UsersByRole: byRole, PendingUsers: byApproval[domain.StatusPending]}
	for _, n := range byRole {
		stats.TotalUsers += n
	}
	return stats, nil
}

func (s *collegeService) PlatformStats(ctx context.Context) (*dto.PlatformStats, error) {
	byStatus, err := s.colleges.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byRole, err := s.users.CountByRole(ctx, repository.UserCountFilter{ExcludeSuperAdmin: true})
	if err != nil {
		return nil, err
	}

	stats := &dto.PlatformStats{
		ApprovedColleges: byStatus[domain.StatusApproved],
		PendingColleges:  byStatus[domain.StatusPending],
		UsersByRole:      byRole,
	}
	for _, n := range byStatus {
		stats.TotalColleges += n
	}
	for _, n := range byRole {
		stats.TotalUsers += n
	}
	return stats, nil
}
