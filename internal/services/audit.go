package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/interfaces"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/repository"
	"go.uber.org/zap"
)

// Auditor appends approval-chain actions to the audit log. Failures are
// logged and never fail the action being audited.
type Auditor struct {
	repo repository.AuditLogRepository
	ids  interfaces.IDGenerator
}

func NewAuditor(repo repository.AuditLogRepository, ids interfaces.IDGenerator) *Auditor {
	return &Auditor{repo: repo, ids: ids}
}

func (a *Auditor) Record(ctx context.Context, actorID uuid.UUID, action, entity, entityID, note string) {
	if a == nil || a.repo == nil {
		return
	}

	entry := &domain.AuditLog{
		ID:       a.ids.Next(),
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
	}
	if note != "" {
		entry.Note = &note
	}

	if err := a.repo.Create(ctx, entry); err != nil {
		zap.S().Warnw("audit log write failed", "action", action, "entity_id", entityID, "error", err)
	}
}
