// Package memory holds in-process implementations of the repository
// interfaces with the same uniqueness rules as the Postgres schema.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/repository"
)

type Store struct {
	mu       sync.Mutex
	colleges map[uuid.UUID]domain.College
	users    map[uuid.UUID]domain.User
	resets   map[uuid.UUID]domain.PasswordReset
	logs     []domain.AuditLog
	last     time.Time

	// InFlightCodes are invisible to CodeExists but collide on Approve, which
	// is what a concurrent approval committing the same code looks like.
	InFlightCodes map[string]bool
}

func NewStore() *Store {
	return &Store{
		colleges:      map[uuid.UUID]domain.College{},
		users:         map[uuid.UUID]domain.User{},
		resets:        map[uuid.UUID]domain.PasswordReset{},
		InFlightCodes: map[string]bool{},
	}
}

func (s *Store) Colleges() repository.CollegeRepository             { return &colleges{s} }
func (s *Store) Users() repository.UserRepository                   { return &users{s} }
func (s *Store) PasswordResets() repository.PasswordResetRepository { return &resets{s} }
func (s *Store) AuditLogs() repository.AuditLogRepository           { return &auditLogs{s} }

// now is strictly increasing so creation order is observable. Caller holds s.mu.
func (s *Store) now() time.Time {
	t := time.Now()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func cloneCollege(c domain.College) domain.College {
	c.AdditionalAdmins = append([]string(nil), c.AdditionalAdmins...)
	return c
}

func cloneUser(u domain.User) domain.User {
	u.Profile.Skills = append([]string(nil), u.Profile.Skills...)
	u.Profile.Interests = append([]string(nil), u.Profile.Interests...)
	return u
}

// caller holds s.mu
func (s *Store) collegeConflict(c domain.College) bool {
	for id, other := range s.colleges {
		if id == c.ID {
			continue
		}
		if strings.EqualFold(other.Name, c.Name) || other.Email == c.Email {
			return true
		}
		if c.UniqueCode != nil && other.UniqueCode != nil && *c.UniqueCode == *other.UniqueCode {
			return true
		}
	}
	return false
}

// caller holds s.mu
func (s *Store) userConflict(u domain.User) bool {
	for id, other := range s.users {
		if id != u.ID && other.Email == u.Email && other.CollegeCode == u.CollegeCode {
			return true
		}
	}
	return false
}

type colleges struct{ s *Store }

func (r *colleges) CreateWithAdmin(ctx context.Context, college *domain.College, admin *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if college.ID == uuid.Nil {
		college.ID = uuid.New()
	}
	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	college.AdminUserID = admin.ID
	admin.CollegeID = &college.ID
	if r.s.collegeConflict(*college) || r.s.userConflict(*admin) {
		return domain.ErrDuplicateEntity
	}

	now := r.s.now()
	college.CreatedAt, college.UpdatedAt = now, now
	admin.CreatedAt, admin.UpdatedAt = now, now
	r.s.colleges[college.ID] = cloneCollege(*college)
	r.s.users[admin.ID] = cloneUser(*admin)
	return nil
}

func (r *colleges) FindByID(ctx context.Context, id uuid.UUID) (*domain.College, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.colleges[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c = cloneCollege(c)
	return &c, nil
}

func (r *colleges) FindByCode(ctx context.Context, code string) (*domain.College, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.colleges {
		if c.Code() == code && code != "" {
			c = cloneCollege(c)
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *colleges) ExistsByNameOrEmail(ctx context.Context, name, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.colleges {
		if strings.EqualFold(c.Name, name) || c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *colleges) CodeExists(ctx context.Context, code string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.colleges {
		if c.Code() == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *colleges) SearchApprovedCodes(ctx context.Context, prefix string, limit int) ([]domain.College, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prefix = strings.ToUpper(prefix)
	var out []domain.College
	for _, c := range r.s.colleges {
		if c.Status == domain.StatusApproved && strings.HasPrefix(c.Code(), prefix) {
			out = append(out, cloneCollege(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code() < out[j].Code() })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *colleges) List(ctx context.Context, filter repository.CollegeFilter) ([]domain.College, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	var out []domain.College
	for _, c := range r.s.colleges {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name+" "+c.Email+" "+c.Code()), search) {
			continue
		}
		out = append(out, cloneCollege(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, filter.Page), int64(len(out)), nil
}

func (r *colleges) CountByStatus(ctx context.Context) (map[domain.ApprovalStatus]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := map[domain.ApprovalStatus]int64{}
	for _, c := range r.s.colleges {
		out[c.Status]++
	}
	return out, nil
}

func (r *colleges) UpdateDetails(ctx context.Context, college *domain.College) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.colleges[college.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Name, stored.Phone, stored.Website = college.Name, college.Phone, college.Website
	stored.Description = college.Description
	stored.EstablishedYear = college.EstablishedYear
	stored.Address = college.Address
	if r.s.collegeConflict(stored) {
		return domain.ErrDuplicateEntity
	}
	stored.UpdatedAt = r.s.now()
	college.UpdatedAt = stored.UpdatedAt
	r.s.colleges[college.ID] = cloneCollege(stored)
	return nil
}

func (r *colleges) Approve(ctx context.Context, id, approverID uuid.UUID, code string, at time.Time) (*domain.College, *domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.colleges[id]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	if c.Status != domain.StatusPending {
		return nil, nil, domain.NewError(domain.ErrInvalidState, "college is already %s", c.Status)
	}
	admin, ok := r.s.users[c.AdminUserID]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}

	c = cloneCollege(c)
	c.Status = domain.StatusApproved
	c.UniqueCode = &code
	c.ApprovedAt = &at
	c.ApprovedBy = &approverID
	if r.s.InFlightCodes[code] || r.s.collegeConflict(c) {
		delete(r.s.InFlightCodes, code)
		return nil, nil, domain.ErrCodeTaken
	}

	admin = cloneUser(admin)
	admin.CollegeCode = code
	admin.CollegeID = &c.ID
	admin.ApprovalStatus = domain.StatusApproved
	admin.ApprovedAt = &at
	admin.ApprovedBy = &approverID

	r.s.colleges[c.ID] = c
	r.s.users[admin.ID] = admin
	outC, outA := cloneCollege(c), cloneUser(admin)
	return &outC, &outA, nil
}

func (r *colleges) Reject(ctx context.Context, id uuid.UUID) (*domain.College, *domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.colleges[id]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	if c.Status != domain.StatusPending {
		return nil, nil, domain.NewError(domain.ErrInvalidState, "college is already %s", c.Status)
	}
	admin, ok := r.s.users[c.AdminUserID]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	delete(r.s.users, admin.ID)
	delete(r.s.colleges, c.ID)
	return &c, &admin, nil
}

func paginate[T any](items []T, p repository.Page) []T {
	if p.Limit <= 0 {
		return items
	}
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
