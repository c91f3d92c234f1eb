package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// FindByEmail returns every account with this email, oldest first.
	FindByEmail(ctx context.Context, email string) ([]domain.User, error)
	FindByEmailAndCollege(ctx context.Context, email, collegeCode string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// UpdateApproval writes only the approval and rejection columns.
	UpdateApproval(ctx context.Context, user *domain.User) error
	// UpdateProfile writes only the self-service columns: names, graduation
	// year, department and the profile_* group.
	UpdateProfile(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	List(ctx context.Context, filter UserFilter) ([]domain.User, int64, error)
	CountByRole(ctx context.Context, filter UserCountFilter) (map[domain.Role]int64, error)
	CountByApproval(ctx context.Context, collegeCode string) (map[domain.ApprovalStatus]int64, error)
	ListSuperAdmins(ctx context.Context) ([]domain.User, error)
	CountSuperAdmins(ctx context.Context) (int64, error)

	// Promote makes the user a college admin of collegeID and records them in
	// the college's additional admins, in one transaction.
	Promote(ctx context.Context, userID, collegeID uuid.UUID, at time.Time) (*domain.User, error)
	// RemoveSuperAdmin deletes a super admin unless they are the last one.
	RemoveSuperAdmin(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return translate("create user", r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate("find user by id", err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, translate("find user by email", err)
	}
	return users, nil
}

func (r *userRepository) FindByEmailAndCollege(ctx context.Context, email, collegeCode string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		First(&user, "email = ? AND college_code = ?", email, collegeCode).Error
	if err != nil {
		return nil, translate("find user by email and college", err)
	}
	return &user, nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, translate("user email exists", err)
	}
	return count > 0, nil
}

var (
	approvalColumns = []string{
		"approval_status", "approved_at", "approved_by",
		"rejected_at", "rejected_by", "rejection_reason",
	}
	profileColumns = []string{
		"first_name", "last_name", "graduation_year", "department",
		"profile_bio", "profile_phone", "profile_location",
		"profile_current_company", "profile_current_position",
		"profile_linked_in", "profile_github", "profile_website",
		"profile_skills", "profile_interests",
		"profile_image_url", "profile_image_public_id",
		"profile_resume_url", "profile_resume_public_id", "profile_resume_original_name",
		"profile_resume_mime_type", "profile_resume_uploaded_at",
	}
)

func (r *userRepository) UpdateApproval(ctx context.Context, user *domain.User) error {
	return r.updateColumns(ctx, "update user approval", user, approvalColumns)
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	return r.updateColumns(ctx, "update user profile", user, profileColumns)
}

func (r *userRepository) updateColumns(ctx context.Context, op string, user *domain.User, columns []string) error {
	res := r.db.WithContext(ctx).Model(user).Select(columns).Updates(user)
	if res.Error != nil {
		return translate(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return translate("update password", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).UpdateColumn("last_login", at).Error
	return translate("touch last login", err)
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{})
	if filter.CollegeCode != "" {
		q = q.Where("college_code = ?", filter.CollegeCode)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.ApprovalStatus != "" {
		q = q.Where("approval_status = ?", filter.ApprovalStatus)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + escapeLike(strings.ToLower(s)) + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("count users", err)
	}

	var users []domain.User
	q = q.Order("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset())
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, 0, translate("list users", err)
	}
	return users, total, nil
}

func (r *userRepository) CountByRole(ctx context.Context, filter UserCountFilter) (map[domain.Role]int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{})
	if filter.CollegeCode != "" {
		q = q.Where("college_code = ?", filter.CollegeCode)
	}
	if filter.ApprovalStatus != "" {
		q = q.Where("approval_status = ?", filter.ApprovalStatus)
	}
	if filter.ExcludeSuperAdmin {
		q = q.Where("role <> ?", domain.RoleSuperAdmin)
	}

	var rows []struct {
		Role  domain.Role
		Count int64
	}
	if err := q.Select("role, COUNT(*) AS count").Group("role").Scan(&rows).Error; err != nil {
		return nil, translate("count users by role", err)
	}

	out := make(map[domain.Role]int64, len(rows))
	for _, row := range rows {
		out[row.Role] = row.Count
	}
	return out, nil
}

func (r *userRepository) CountByApproval(ctx context.Context, collegeCode string) (map[domain.ApprovalStatus]int64, error) {
	var rows []struct {
		ApprovalStatus domain.ApprovalStatus
		Count          int64
	}
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("college_code = ?", collegeCode).
		Select("approval_status, COUNT(*) AS count").
		Group("approval_status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("count users by approval", err)
	}

	out := make(map[domain.ApprovalStatus]int64, len(rows))
	for _, row := range rows {
		out[row.ApprovalStatus] = row.Count
	}
	return out, nil
}

func (r *userRepository) ListSuperAdmins(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("role = ?", domain.RoleSuperAdmin).
		Order("created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, translate("list super admins", err)
	}
	return users, nil
}

func (r *userRepository) CountSuperAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("role = ?", domain.RoleSuperAdmin).Count(&count).Error
	if err != nil {
		return 0, translate("count super admins", err)
	}
	return count, nil
}

func (r *userRepository) Promote(ctx context.Context, userID, collegeID uuid.UUID, at time.Time) (*domain.User, error) {
	var user domain.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		if user.Role == domain.RoleCollegeAdmin {
			return domain.NewError(domain.ErrInvalidState, "user is already a college admin")
		}

		var college domain.College
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&college, "id = ?", collegeID).Error; err != nil {
			return err
		}

		user.Role = domain.RoleCollegeAdmin
		user.ApprovalStatus = domain.StatusApproved
		if user.ApprovedAt == nil {
			user.ApprovedAt = &at
		}
		if err := tx.Model(&user).Select("role", "approval_status", "approved_at", "updated_at").Updates(&user).Error; err != nil {
			return err
		}

		if !college.IsAdmin(user.ID) {
			college.AdditionalAdmins = append(college.AdditionalAdmins, user.ID.String())
			return tx.Model(&college).Select("additional_admins", "updated_at").Updates(&college).Error
		}
		return nil
	})
	if err != nil {
		return nil, translate("promote user", err)
	}
	return &user, nil
}

func (r *userRepository) RemoveSuperAdmin(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var admins []domain.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("role = ?", domain.RoleSuperAdmin).
			Find(&admins).Error; err != nil {
			return err
		}

		found := false
		for _, a := range admins {
			if a.ID == id {
				found = true
				break
			}
		}
		if !found {
			return domain.NewError(domain.ErrNotFound, "super admin not found")
		}
		if len(admins) <= 1 {
			return domain.NewError(domain.ErrInvalidState, "cannot remove the last super admin")
		}
		return tx.Delete(&domain.User{}, "id = ?", id).Error
	})
	return translate("remove super admin", err)
}
