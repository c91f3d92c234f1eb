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

type CollegeRepository interface {
	CreateWithAdmin(ctx context.Context, college *domain.College, admin *domain.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.College, error)
	FindByCode(ctx context.Context, code string) (*domain.College, error)
	ExistsByNameOrEmail(ctx context.Context, name, email string) (bool, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	SearchApprovedCodes(ctx context.Context, prefix string, limit int) ([]domain.College, error)
	List(ctx context.Context, filter CollegeFilter) ([]domain.College, int64, error)
	CountByStatus(ctx context.Context) (map[domain.ApprovalStatus]int64, error)
	// UpdateDetails writes only the admin-editable columns; code, status,
	// admins and approval stamps are left alone.
	UpdateDetails(ctx context.Context, college *domain.College) error

	// Approve sets the code on a pending college and approves its primary admin
	// in one transaction. A code collision returns domain.ErrCodeTaken.
	Approve(ctx context.Context, id, approverID uuid.UUID, code string, at time.Time) (*domain.College, *domain.User, error)
	// Reject deletes a pending college and its primary admin in one transaction
	// and returns what was deleted.
	Reject(ctx context.Context, id uuid.UUID) (*domain.College, *domain.User, error)
}

type collegeRepository struct {
	db *gorm.DB
}

func NewCollegeRepository(db *gorm.DB) CollegeRepository {
	return &collegeRepository{db: db}
}

func (r *collegeRepository) CreateWithAdmin(ctx context.Context, college *domain.College, admin *domain.User) error {
	if college.ID == uuid.Nil {
		college.ID = uuid.New()
	}
	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	college.AdminUserID = admin.ID
	admin.CollegeID = &college.ID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(college).Error; err != nil {
			return err
		}
		return tx.Create(admin).Error
	})
	return translate("create college", err)
}

func (r *collegeRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.College, error) {
	var college domain.College
	if err := r.db.WithContext(ctx).First(&college, "id = ?", id).Error; err != nil {
		return nil, translate("find college by id", err)
	}
	return &college, nil
}

func (r *collegeRepository) FindByCode(ctx context.Context, code string) (*domain.College, error) {
	var college domain.College
	if err := r.db.WithContext(ctx).First(&college, "unique_code = ?", code).Error; err != nil {
		return nil, translate("find college by code", err)
	}
	return &college, nil
}

func (r *collegeRepository) ExistsByNameOrEmail(ctx context.Context, name, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.College{}).
		Where("LOWER(name) = LOWER(?) OR email = ?", name, email).
		Count(&count).Error
	if err != nil {
		return false, translate("college exists", err)
	}
	return count > 0, nil
}

func (r *collegeRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.College{}).
		Where("unique_code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, translate("college code exists", err)
	}
	return count > 0, nil
}

func (r *collegeRepository) SearchApprovedCodes(ctx context.Context, prefix string, limit int) ([]domain.College, error) {
	var colleges []domain.College
	err := r.db.WithContext(ctx).
		Where("status = ? AND unique_code LIKE ?", domain.StatusApproved, escapeLike(strings.ToUpper(prefix))+"%").
		Order("unique_code ASC").
		Limit(limit).
		Find(&colleges).Error
	if err != nil {
		return nil, translate("search college codes", err)
	}
	return colleges, nil
}

func (r *collegeRepository) List(ctx context.Context, filter CollegeFilter) ([]domain.College, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.College{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + escapeLike(strings.ToLower(s)) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(unique_code) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("count colleges", err)
	}

	var colleges []domain.College
	q = q.Order("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset())
	}
	if err := q.Find(&colleges).Error; err != nil {
		return nil, 0, translate("list colleges", err)
	}
	return colleges, total, nil
}

func (r *collegeRepository) CountByStatus(ctx context.Context) (map[domain.ApprovalStatus]int64, error) {
	var rows []struct {
		Status domain.ApprovalStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&domain.College{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("count colleges by status", err)
	}

	out := make(map[domain.ApprovalStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

var detailColumns = []string{
	"name", "phone", "website", "description", "established_year",
	"address_street", "address_city", "address_state", "address_zip_code", "address_country",
}

func (r *collegeRepository) UpdateDetails(ctx context.Context, college *domain.College) error {
	res := r.db.WithContext(ctx).Model(college).Select(detailColumns).Updates(college)
	if res.Error != nil {
		return translate("update college", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *collegeRepository) Approve(ctx context.Context, id, approverID uuid.UUID, code string, at time.Time) (*domain.College, *domain.User, error) {
	var (
		college domain.College
		admin   domain.User
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&college, "id = ?", id).Error; err != nil {
			return err
		}
		if college.Status != domain.StatusPending {
			return domain.NewError(domain.ErrInvalidState, "college is already %s", college.Status)
		}

		college.Status = domain.StatusApproved
		college.UniqueCode = &code
		college.ApprovedAt = &at
		college.ApprovedBy = &approverID
		if err := tx.Model(&college).Select("status", "unique_code", "approved_at", "approved_by", "updated_at").
			Updates(&college).Error; err != nil {
			return err
		}

		if err := tx.First(&admin, "id = ?", college.AdminUserID).Error; err != nil {
			return err
		}
		admin.CollegeCode = code
		admin.CollegeID = &college.ID
		admin.ApprovalStatus = domain.StatusApproved
		admin.ApprovedAt = &at
		admin.ApprovedBy = &approverID
		return tx.Model(&admin).Select("college_code", "college_id", "approval_status", "approved_at", "approved_by", "updated_at").
			Updates(&admin).Error
	})
	if err != nil {
		return nil, nil, translate("approve college", err)
	}
	return &college, &admin, nil
}

func (r *collegeRepository) Reject(ctx context.Context, id uuid.UUID) (*domain.College, *domain.User, error) {
	var (
		college domain.College
		admin   domain.User
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&college, "id = ?", id).Error; err != nil {
			return err
		}
		if college.Status != domain.StatusPending {
			return domain.NewError(domain.ErrInvalidState, "college is already %s", college.Status)
		}

		if err := tx.First(&admin, "id = ?", college.AdminUserID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.User{}, "id = ?", admin.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.College{}, "id = ?", college.ID).Error
	})
	if err != nil {
		return nil, nil, translate("reject college", err)
	}
	return &college, &admin, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
