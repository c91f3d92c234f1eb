package repository

import (
	"context"

	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	List(ctx context.Context, page Page) ([]domain.AuditLog, int64, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	return translate("create audit log", r.db.WithContext(ctx).Create(entry).Error)
}

func (r *auditLogRepository) List(ctx context.Context, page Page) ([]domain.AuditLog, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, translate("count audit logs", err)
	}

	var logs []domain.AuditLog
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&logs).Error
	if err != nil {
		return nil, 0, translate("list audit logs", err)
	}
	return logs, total, nil
}
