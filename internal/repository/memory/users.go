package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/repository"
)

type users struct{ s *Store }

func (r *users) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if r.s.userConflict(*user) {
		return domain.ErrDuplicateEntity
	}
	now := r.s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *users) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u = cloneUser(u)
	return &u, nil
}

func (r *users) FindByEmail(ctx context.Context, email string) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.User
	for _, u := range r.s.users {
		if u.Email == email {
			out = append(out, cloneUser(u))
		}
	}
	sortOldestFirst(out)
	return out, nil
}

func (r *users) FindByEmailAndCollege(ctx context.Context, email, collegeCode string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email && u.CollegeCode == collegeCode {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *users) EmailExists(ctx context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *users) UpdateApproval(ctx context.Context, user *domain.User) error {
	return r.update(user, func(dst *domain.User) {
		dst.ApprovalStatus = user.ApprovalStatus
		dst.ApprovedAt, dst.ApprovedBy = user.ApprovedAt, user.ApprovedBy
		dst.RejectedAt, dst.RejectedBy = user.RejectedAt, user.RejectedBy
		dst.RejectionReason = user.RejectionReason
	})
}

func (r *users) UpdateProfile(ctx context.Context, user *domain.User) error {
	return r.update(user, func(dst *domain.User) {
		dst.FirstName, dst.LastName = user.FirstName, user.LastName
		dst.GraduationYear = user.GraduationYear
		dst.Department = user.Department
		dst.Profile = user.Profile
	})
}

func (r *users) update(user *domain.User, apply func(dst *domain.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[user.ID]
	if !ok {
		return domain.ErrNotFound
	}
	apply(&stored)
	stored.UpdatedAt = r.s.now()
	user.UpdatedAt = stored.UpdatedAt
	r.s.users[user.ID] = cloneUser(stored)
	return nil
}

func (r *users) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	r.s.users[id] = u
	return nil
}

func (r *users) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.LastLogin = &at
	r.s.users[id] = u
	return nil
}

func (r *users) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	var out []domain.User
	for _, u := range r.s.users {
		if filter.CollegeCode != "" && u.CollegeCode != filter.CollegeCode {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.ApprovalStatus != "" && u.ApprovalStatus != filter.ApprovalStatus {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.FirstName+" "+u.LastName+" "+u.Email), search) {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, filter.Page), int64(len(out)), nil
}

func (r *users) CountByRole(ctx context.Context, filter repository.UserCountFilter) (map[domain.Role]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := map[domain.Role]int64{}
	for _, u := range r.s.users {
		if filter.CollegeCode != "" && u.CollegeCode != filter.CollegeCode {
			continue
		}
		if filter.ApprovalStatus != "" && u.ApprovalStatus != filter.ApprovalStatus {
			continue
		}
		if filter.ExcludeSuperAdmin && u.Role == domain.RoleSuperAdmin {
			continue
		}
		out[u.Role]++
	}
	return out, nil
}

func (r *users) CountByApproval(ctx context.Context, collegeCode string) (map[domain.ApprovalStatus]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := map[domain.ApprovalStatus]int64{}
	for _, u := range r.s.users {
		if u.CollegeCode == collegeCode {
			out[u.ApprovalStatus]++
		}
	}
	return out, nil
}

func (r *users) ListSuperAdmins(ctx context.Context) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.User
	for _, u := range r.s.users {
		if u.Role == domain.RoleSuperAdmin {
			out = append(out, cloneUser(u))
		}
	}
	sortOldestFirst(out)
	return out, nil
}

func (r *users) CountSuperAdmins(ctx context.Context) (int64, error) {
	admins, _ := r.ListSuperAdmins(ctx)
	return int64(len(admins)), nil
}

func (r *users) Promote(ctx context.Context, userID, collegeID uuid.UUID, at time.Time) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if u.Role == domain.RoleCollegeAdmin {
		return nil, domain.NewError(domain.ErrInvalidState, "user is already a college admin")
	}
	c, ok := r.s.colleges[collegeID]
	if !ok {
		return nil, domain.ErrNotFound
	}

	u.Role = domain.RoleCollegeAdmin
	u.ApprovalStatus = domain.StatusApproved
	if u.ApprovedAt == nil {
		u.ApprovedAt = &at
	}
	r.s.users[u.ID] = u

	if !c.IsAdmin(u.ID) {
		c = cloneCollege(c)
		c.AdditionalAdmins = append(c.AdditionalAdmins, u.ID.String())
		r.s.colleges[c.ID] = c
	}
	out := cloneUser(u)
	return &out, nil
}

func (r *users) RemoveSuperAdmin(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || u.Role != domain.RoleSuperAdmin {
		return domain.NewError(domain.ErrNotFound, "super admin not found")
	}
	count := 0
	for _, other := range r.s.users {
		if other.Role == domain.RoleSuperAdmin {
			count++
		}
	}
	if count <= 1 {
		return domain.NewError(domain.ErrInvalidState, "cannot remove the last super admin")
	}
	delete(r.s.users, id)
	return nil
}

func sortOldestFirst(us []domain.User) {
	sort.Slice(us, func(i, j int) bool { return us[i].CreatedAt.Before(us[j].CreatedAt) })
}
