package services

import (
	"encoding/json"
	"testing"

	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/dto"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/repository"
	"github.com/sirapurapushyam/AluminiHub-sub000/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideCollege_Approve(t *testing.T) {
	env := newEnv(t, nil)
	root := env.superAdmin(t)

	c, err := env.auth.RegisterCollege(bg, collegeRequest("Acme College", "a@acme.edu", "dean@acme.edu"))
	require.NoError(t, err)

	approved, err := env.colleges.DecideCollege(bg, root, c.ID, dto.CollegeDecisionRequest{Status: "approved"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusApproved, approved.Status)
	require.NotNil(t, approved.UniqueCode)
	assert.Regexp(t, helper.CollegeCodePattern, *approved.UniqueCode)
	assert.Equal(t, "ACM", (*approved.UniqueCode)[:3])
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, root.ID, *approved.ApprovedBy)

	admin, err := env.store.Users().FindByID(bg, c.AdminUserID)
	require.NoError(t, err)
	assert.Equal(t, approved.Code(), admin.CollegeCode)
	assert.Equal(t, domain.StatusApproved, admin.ApprovalStatus)
	require.NotNil(t, admin.CollegeID)
	assert.Equal(t, c.ID, *admin.CollegeID)

	sent := env.producer.events(t, events.TypeCollegeApproved)
	require.Len(t, sent, 1)
	var ev events.CollegeApproved
	require.NoError(t, json.Unmarshal(sent[0].Data, &ev))
	assert.Equal(t, "dean@acme.edu", ev.AdminEmail)
	assert.Equal(t, approved.Code(), ev.CollegeCode)
	assert.Equal(t, "https://alumni.test/login", ev.LoginURL)

	logs, _, err := env.store.AuditLogs().List(bg, repository.Page{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.AuditCollegeApproved, logs[0].Action)
	assert.NotZero(t, logs[0].ID)
}

// Rejecting a college removes it and its admin so the name can register again.
func TestDecideCollege_RejectDeletesCollegeAndAdmin(t *testing.T) {
	env := newEnv(t, nil)
	root := env.superAdmin(t)

	c, err := env.auth.RegisterCollege(bg, collegeRequest("Beta College", "b@beta.edu", "dean@beta.edu"))
	require.NoError(t, err)

	rejected, err := env.colleges.DecideCollege(bg, root, c.ID, dto.CollegeDecisionRequest{Status: "rejected", Reason: "Duplicate submission"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rejected.Status)

	_, err = env.store.Colleges().FindByID(bg, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = env.store.Users().FindByID(bg, c.AdminUserID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.colleges.DecideCollege(bg, root, c.ID, dto.CollegeDecisionRequest{Status: "approved"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	again, err := env.auth.RegisterCollege(bg, collegeRequest("Beta College", "b@beta.edu", "dean@beta.edu"))
	require.NoError(t, err)
	assert.NotEqual(t, c.ID, again.ID)
}

func TestDecideCollege_Guards(t *testing.T) {
	env := newEnv(t, nil)
	root := env.superAdmin(t)
	approved, admin := env.approvedCollege(t, root, "Acme College", "a@acme.edu", "dean@acme.edu")

	pending, err := env.auth.RegisterCollege(bg, collegeRequest("Beta College", "b@beta.edu", "dean@beta.edu"))
	require.NoError(t, err)

	_, err = env.colleges.DecideCollege(bg, admin, pending.ID, dto.CollegeDecisionRequest{Status: "approved"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.colleges.DecideCollege(bg, root, pending.ID, dto.CollegeDecisionRequest{Status: "rejected"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.colleges.DecideCollege(bg, root, pending.ID, dto.CollegeDecisionRequest{Status: "maybe"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.colleges.DecideCollege(bg, root, approved.ID, dto.CollegeDecisionRequest{Status: "approved"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = env.colleges.DecideCollege(bg, root, approved.ID, dto.CollegeDecisionRequest{Status: "rejected", Reason: "late"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestDecideCollege_RetriesOnPrecheckCollision(t *testing.T) {
	env := newEnv(t, fixedCodes("ACMAAAA", "ACMAAAA", "ACMBBBB"))
	root := env.superAdmin(t)

	first, _ := env.approvedCollege(t, root, "Acme College", "a@acme.edu", "dean@acme.edu")
	assert.Equal(t, "ACMAAAA", first.Code())

	second, _ := env.approvedCollege(t, root, "Acme Institute", "i@acme.edu", "dean@acmeinst.edu")
	assert.Equal(t, "ACMBBBB", second.Code())
}

// A code committed by a concurrent approval is only visible at commit time.
func TestDecideCollege_RetriesOnCommitCollision(t *testing.T) {
	env := newEnv(t, fixedCodes("ACMRACE", "ACMSAFE"))
	root := env.superAdmin(t)
	env.store.InFlightCodes["ACMRACE"] = true

	c, _ := env.approvedCollege(t, root, "Acme College", "a@acme.edu", "dean@acme.edu")
	assert.Equal(t, "ACMSAFE", c.Code())
}

func TestDecideCollege_GivesUpAfterMaxAttempts(t *testing.T) {
	env := newEnv(t, fixedCodes("ACMAAAA"))
	root := env.superAdmin(t)
	env.approvedCollege(t, root, "Acme College", "a@acme.edu", "dean@acme.edu")

	pending, err := env.auth.RegisterCollege(bg, collegeRequest("Acme Institute", "i@acme.edu", "dean@acmeinst.edu"))
	require.NoError(t, err)

	_, err = env.colleges.DecideCollege(bg, root, pending.ID, dto.CollegeDecisionRequest{Status: "approved"})
	require.Error(t, err)

	still, err := env.store.Colleges().FindByID(bg, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, still.Status)
	assert.Nil(t, still.UniqueCode)
}

// Approved colleges never share a code.
func TestApprovedCodesAreUnique(t *testing.T) {
	env := newEnv(t, nil)
	root := env.superAdmin(t)

	names := []string{"Acme College", "Acme Institute", "Acme Academy", "Acme Polytechnic", "Acme School"}
	seen := map[string]bool{}
	for i, name := range names {
		c, _ := env.approvedCollege(t, root, name, string(rune('a'+i))+"@acme.edu", string(rune('a'+i))+"@dean.edu")
		require.NotNil(t, c.UniqueCode)
		assert.False(t, seen[c.Code()], c.Code())
		seen[c.Code()] = true
	}
}

func TestListCollegesAndStats(t *testing.T) {
	env := newEnv(t, nil)
	root := env.superAdmin(t)
	c, admin := env.approvedCollege(t, root, "Acme College", "a@acme.edu", "dean@acme.edu")
	_, err := env.auth.RegisterCollege(bg, collegeRequest("Beta College", "b@beta.edu", "dean@beta.edu"))
	require.NoError(t, err)

	s1 := env.registerMember(t, "student", "s1@acme.edu", c.Code())
	env.registerMember(t, "student", "s2@acme.edu", c.Code())
	_, err = env.users.DecideUser(bg, admin, s1.ID, dto.UserDecisionRequest{Status: "approved"})
	require.NoError(t, err)

	pending, err := env.colleges.ListPending(bg)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Beta College", pending[0].Name)

	list, err := env.colleges.ListColleges(bg, dto.CollegeListQuery{Status: "approved"})
	require.NoError(t, err)
	require.Len(t, list.Colleges, 1)
	assert.Equal(t, int64(1), list.Colleges[0].Stats[domain.RoleStudent])
	assert.Equal(t, int64(1), list.Colleges[0].Stats[domain.RoleCollegeAdmin])
	assert.Equal(t, int64(1), list.Pagination.Total)

	_, err = env.colleges.ListColleges(bg, dto.CollegeListQuery{Status: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	stats, err := env.colleges.CollegeStats(bg, lower(c.Code()))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.PendingUsers)
	assert.Equal(t, int64(2), stats.TotalUsers)

	platform, err := env.colleges.PlatformStats(bg)
	require.NoError(t, err)
	assert.Equal(t, int64(2), platform.TotalColleges)
	assert.Equal(t, int64(1), platform.ApprovedColleges)
	assert.Equal(t, int64(1), platform.PendingColleges)
	assert.Zero(t, platform.UsersByRole[domain.RoleSuperAdmin])
}

func TestUpdateCollege(t *testing.T) {
	env := newEnv(t, nil)
	root := env.superAdmin(t)
	x, adminX := env.approvedCollege(t, root, "Acme College", "a@acme.edu", "dean@acme.edu")
	_, adminY := env.approvedCollege(t, root, "Beta College", "b@beta.edu", "dean@beta.edu")
	member := env.registerMember(t, "faculty", "f@acme.edu", x.Code())

	desc := "A small college"
	updated, err := env.colleges.UpdateCollege(bg, adminX, x.Code(), dto.UpdateCollegeRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, updated.Description)
	assert.Equal(t, x.Code(), updated.Code())

	_, err = env.colleges.UpdateCollege(bg, adminY, x.Code(), dto.UpdateCollegeRequest{Description: &desc})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = env.colleges.UpdateCollege(bg, member, x.Code(), dto.UpdateCollegeRequest{Description: &desc})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	taken := "Beta College"
	_, err = env.colleges.UpdateCollege(bg, root, x.Code(), dto.UpdateCollegeRequest{Name: &taken})
	assert.ErrorIs(t, err, domain.ErrDuplicateEntity)

	bad := "ftp://acme.edu"
	_, err = env.colleges.UpdateCollege(bg, adminX, x.Code(), dto.UpdateCollegeRequest{Website: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.colleges.GetCollege(bg, "NOP0000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateDetailsKeepsAdmins(t *testing.T) {
	env := newEnv(t, nil)
	root := env.superAdmin(t)
	c, admin := env.approvedCollege(t, root, "Acme College", "a@acme.edu", "dean@acme.edu")
	faculty := env.registerMember(t, "faculty", "f@acme.edu", c.Code())

	stale, err := env.store.Colleges().FindByID(bg, c.ID)
	require.NoError(t, err)
	_, err = env.users.PromoteUser(bg, admin, faculty.ID)
	require.NoError(t, err)

	stale.Description = "edited from an old copy"
	stale.Status = domain.StatusPending
	require.NoError(t, env.store.Colleges().UpdateDetails(bg, stale))

	stored, err := env.store.Colleges().FindByID(bg, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited from an old copy", stored.Description)
	assert.Equal(t, domain.StatusApproved, stored.Status)
	assert.True(t, stored.IsAdmin(faculty.ID))
}
