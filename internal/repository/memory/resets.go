package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/repository"
)

type resets struct{ s *Store }

func (r *resets) Create(ctx context.Context, reset *domain.PasswordReset) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if reset.ID == uuid.Nil {
		reset.ID = uuid.New()
	}
	for _, other := range r.s.resets {
		if other.TokenHash == reset.TokenHash {
			return domain.ErrDuplicateEntity
		}
	}
	reset.CreatedAt = r.s.now()
	r.s.resets[reset.ID] = *reset
	return nil
}

func (r *resets) InvalidateForUser(ctx context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	for id, reset := range r.s.resets {
		if reset.UserID == userID && !reset.Used {
			reset.Used = true
			reset.UsedAt = &now
			r.s.resets[id] = reset
		}
	}
	return nil
}

func (r *resets) Consume(ctx context.Context, tokenHash, email, passwordHash string, now time.Time) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, reset := range r.s.resets {
		if reset.TokenHash != tokenHash {
			continue
		}
		if !reset.Usable(now) {
			return nil, domain.ErrInvalidOrExpiredToken
		}
		u, ok := r.s.users[reset.UserID]
		if !ok || u.Email != email {
			return nil, domain.ErrInvalidOrExpiredToken
		}
		reset.Used = true
		reset.UsedAt = &now
		r.s.resets[id] = reset
		u.PasswordHash = passwordHash
		r.s.users[u.ID] = u
		out := cloneUser(u)
		return &out, nil
	}
	return nil, domain.ErrInvalidOrExpiredToken
}

// Resets returns a snapshot of stored reset tokens, for assertions.
func (s *Store) Resets() []domain.PasswordReset {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.PasswordReset, 0, len(s.resets))
	for _, r := range s.resets {
		out = append(out, r)
	}
	return out
}

type auditLogs struct{ s *Store }

func (r *auditLogs) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry.CreatedAt = r.s.now()
	r.s.logs = append(r.s.logs, *entry)
	return nil
}

func (r *auditLogs) List(ctx context.Context, page repository.Page) ([]domain.AuditLog, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]domain.AuditLog, 0, len(r.s.logs))
	for i := len(r.s.logs) - 1; i >= 0; i-- {
		out = append(out, r.s.logs[i])
	}
	return paginate(out, page), int64(len(out)), nil
}
