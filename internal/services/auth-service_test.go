package services

import (
	"errors"
	"testing"

	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/dto"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCollege_Pending(t *testing.T) {
	env := newEnv(t, nil)

	c, err := env.auth.RegisterCollege(bg, collegeRequest("Acme College", "A@Acme.edu", "Dean@Acme.edu"))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, c.Status)
	assert.Nil(t, c.UniqueCode)
	assert.Equal(t, "a@acme.edu", c.Email)

	admin, err := env.store.Users().FindByID(bg, c.AdminUserID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCollegeAdmin, admin.Role)
	assert.Equal(t, domain.PendingCollegeCode, admin.CollegeCode)
	assert.Equal(t, domain.StatusPending, admin.ApprovalStatus)
	assert.Equal(t, "dean@acme.edu", admin.Email)
}

func TestRegisterCollege_Duplicates(t *testing.T) {
	env := newEnv(t, nil)
	_, err := env.auth.RegisterCollege(bg, collegeRequest("Acme College", "a@acme.edu", "dean@acme.edu"))
	require.NoError(t, err)

	_, err = env.auth.RegisterCollege(bg, collegeRequest("Acme College", "other@acme.edu", "x@acme.edu"))
	assert.ErrorIs(t, err, domain.ErrDuplicateEntity)

	_, err = env.auth.RegisterCollege(bg, collegeRequest("Other College", "a@acme.edu", "x@acme.edu"))
	assert.ErrorIs(t, err, domain.ErrDuplicateEntity)

	_, err = env.auth.RegisterCollege(bg, collegeRequest("Other College", "o@other.edu", "dean@acme.edu"))
	assert.ErrorIs(t, err, domain.ErrDuplicateEntity)
}

func TestRegisterCollege_Validation(t *testing.T) {
	env := newEnv(t, nil)

	req := collegeRequest("A", "a@acme.edu", "dean@acme.edu")
	_, err := env.auth.RegisterCollege(bg, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = collegeRequest("Acme College", "not-an-email", "dean@acme.edu")
	_, err = env.auth.RegisterCollege(bg, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = collegeRequest("Acme College", "a@acme.edu", "dean@acme.edu")
	req.AdminPassword = "123"
	_, err = env.auth.RegisterCollege(bg, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = collegeRequest("Acme College", "a@acme.edu", "dean@acme.edu")
	req.Address.City = ""
	_, err = env.auth.RegisterCollege(bg, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterUser_TenantRules(t *testing.T) {
	env := newEnv(t, nil)
	root := env.superAdmin(t)
	c, _ := env.approvedCollege(t, root, "Acme College", "a@acme.edu", "dean@acme.edu")
	code := c.Code()

	student := env.registerMember(t, "student", "s@acme.edu", code)
	assert.Equal(t, domain.StatusPending, student.ApprovalStatus)
	assert.Equal(t, code, student.CollegeCode)
	require.NotNil(t, student.CollegeID)
	assert.Equal(t, c.ID, *student.CollegeID)

	// lower-case code is accepted
	alum := env.registerMember(t, "alumni", "al@acme.edu", " "+lower(code))
	assert.Equal(t, code, alum.CollegeCode)

	_, err := env.auth.RegisterUser(bg, dto.RegisterUserRequest{
		FirstName: "S", LastName: "M", Email: "s@acme.edu", Password: "memberpass", Role: "faculty", CollegeCode: code,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateEntity)

	_, err = env.auth.RegisterUser(bg, dto.RegisterUserRequest{
		FirstName: "S", LastName: "M", Email: "n@acme.edu", Password: "memberpass", Role: "student", CollegeCode: "ZZZ9999",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	_, err = env.auth.RegisterUser(bg, dto.RegisterUserRequest{
		FirstName: "S", LastName: "M", Email: "n@acme.edu", Password: "memberpass", Role: "student",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.auth.RegisterUser(bg, dto.RegisterUserRequest{
		FirstName: "S", LastName: "M", Email: "n@acme.edu", Password: "memberpass", Role: "college_admin", CollegeCode: code,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.auth.RegisterUser(bg, dto.RegisterUserRequest{
		FirstName: "S", LastName: "M", Email: "n@acme.edu", Password: "memberpass", Role: "janitor", CollegeCode: code,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterUser_SameEmailInTwoColleges(t *testing.T) {
	env := newEnv(t, nil)
	root := env.superAdmin(t)
	x, _ := env.approvedCollege(t, root, "Acme College", "a@acme.edu", "dean@acme.edu")
	y, _ := env.approvedCollege(t, root, "Beta College", "b@beta.edu", "dean@beta.edu")

	env.registerMember(t, "alumni", "pat@mail.com", x.Code())
	env.registerMember(t, "faculty", "pat@mail.com", y.Code())
}

func TestRegisterUser_PendingCollegeIsInvalidReference(t *testing.T) {
	env := newEnv(t, nil)
	_, err := env.auth.RegisterCollege(bg, collegeRequest("Acme College", "a@acme.edu", "dean@acme.edu"))
	require.NoError(t, err)

	_, err = env.auth.RegisterUser(bg, dto.RegisterUserRequest{
		FirstName: "S", LastName: "M", Email: "s@acme.edu", Password: "memberpass", CollegeCode: domain.PendingCollegeCode,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestRegisterUser_SuperAdminBootstrapOnly(t *testing.T) {
	env := newEnv(t, nil)
	root := env.superAdmin(t)
	assert.Equal(t, domain.StatusApproved, root.ApprovalStatus)
	assert.Empty(t, root.CollegeCode)

	_, err := env.auth.RegisterUser(bg, dto.RegisterUserRequest{
		FirstName: "Second", LastName: "Root", Email: "two@platform.test", Password: "rootpass", Role: "super_admin",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// Only approved accounts get a session; super admins skip the check.
func TestLogin_ApprovalGate(t *testing.T) {
	env := newEnv(t, nil)
	root := env.superAdmin(t)
	c, admin := env.approvedCollege(t, root, "Acme College", "a@acme.edu", "dean@acme.edu")
	student := env.registerMember(t, "student", "s@acme.edu", c.Code())

	_, err := env.auth.Login(bg, dto.LoginRequest{Email: "s@acme.edu", Password: "memberpass"})
	var approvalErr *domain.ApprovalError
	require.ErrorAs(t, err, &approvalErr)
	assert.ErrorIs(t, err, domain.ErrNotApproved)
	assert.Equal(t, domain.StatusPending, approvalErr.Status)

	_, err = env.users.DecideUser(bg, admin, student.ID, dto.UserDecisionRequest{Status: "approved"})
	require.NoError(t, err)

	res, err := env.auth.Login(bg, dto.LoginRequest{Email: "S@acme.edu", Password: "memberpass", CollegeCode: lower(c.Code())})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, student.ID, res.User.ID)
	assert.NotNil(t, res.User.LastLogin)

	resolved, err := env.auth.ResolveSession(bg, "Bearer "+res.Token)
	require.NoError(t, err)
	assert.Equal(t, student.ID, resolved.ID)
}

func TestLogin_RejectedCarriesReason(t *testing.T) {
	env := newEnv(t, nil)
	root := env.superAdmin(t)
	c, admin := env.approvedCollege(t, root, "Acme College", "a@acme.edu", "dean@acme.edu")
	student := env.registerMember(t, "student", "s@acme.edu", c.Code())

	_, err := env.users.DecideUser(bg, admin, student.ID, dto.UserDecisionRequest{Status: "rejected", Reason: "not enrolled"})
	require.NoError(t, err)

	_, err = env.auth.Login(bg, dto.LoginRequest{Email: "s@acme.edu", Password: "memberpass"})
	var approvalErr *domain.ApprovalError
	require.ErrorAs(t, err, &approvalErr)
	assert.Equal(t, domain.StatusRejected, approvalErr.Status)
	assert.Equal(t, "not enrolled", approvalErr.Reason)
}

// Unknown email and wrong password look the same to the caller.
func TestLogin_UniformCredentialError(t *testing.T) {
	env := newEnv(t, nil)
	env.superAdmin(t)

	_, wrongPassword := env.auth.Login(bg, dto.LoginRequest{Email: "root@platform.test", Password: "nope-nope"})
	_, noUser := env.auth.Login(bg, dto.LoginRequest{Email: "ghost@platform.test", Password: "nope-nope"})
	_, noPassword := env.auth.Login(bg, dto.LoginRequest{Email: "root@platform.test"})

	for _, err := range []error{wrongPassword, noUser, noPassword} {
		assert.ErrorIs(t, err, domain.ErrInvalidCredential)
		assert.Equal(t, wrongPassword.Error(), err.Error())
	}
}

func TestLogin_SuperAdminAndPendingAdmin(t *testing.T) {
	env := newEnv(t, nil)
	env.superAdmin(t)

	res, err := env.auth.Login(bg, dto.LoginRequest{Email: "root@platform.test", Password: "rootpass"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSuperAdmin, res.User.Role)

	_, err = env.auth.RegisterCollege(bg, collegeRequest("Acme College", "a@acme.edu", "dean@acme.edu"))
	require.NoError(t, err)
	_, err = env.auth.Login(bg, dto.LoginRequest{Email: "dean@acme.edu", Password: "adminpass"})
	assert.ErrorIs(t, err, domain.ErrNotApproved)
}

func TestLogin_PicksMatchingPasswordAcrossColleges(t *testing.T) {
	env := newEnv(t, nil)
	root := env.superAdmin(t)
	x, adminX := env.approvedCollege(t, root, "Acme College", "a@acme.edu", "dean@acme.edu")
	y, adminY := env.approvedCollege(t, root, "Beta College", "b@beta.edu", "dean@beta.edu")

	first := env.registerMember(t, "alumni", "pat@mail.com", x.Code())
	_, err := env.auth.RegisterUser(bg, dto.RegisterUserRequest{
		FirstName: "Pat", LastName: "Two", Email: "pat@mail.com", Password: "otherpass", Role: "faculty", CollegeCode: y.Code(),
	})
	require.NoError(t, err)
	second, err := env.store.Users().FindByEmailAndCollege(bg, "pat@mail.com", y.Code())
	require.NoError(t, err)

	_, err = env.users.DecideUser(bg, adminX, first.ID, dto.UserDecisionRequest{Status: "approved"})
	require.NoError(t, err)
	_, err = env.users.DecideUser(bg, adminY, second.ID, dto.UserDecisionRequest{Status: "approved"})
	require.NoError(t, err)

	res, err := env.auth.Login(bg, dto.LoginRequest{Email: "pat@mail.com", Password: "otherpass"})
	require.NoError(t, err)
	assert.Equal(t, second.ID, res.User.ID)

	res, err = env.auth.Login(bg, dto.LoginRequest{Email: "pat@mail.com", Password: "memberpass"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, res.User.ID)

	_, err = env.auth.Login(bg, dto.LoginRequest{Email: "pat@mail.com", Password: "memberpass", CollegeCode: y.Code()})
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)
}

func TestResolveSession_Failures(t *testing.T) {
	env := newEnv(t, nil)
	root := env.superAdmin(t)

	_, err := env.auth.ResolveSession(bg, "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = env.auth.ResolveSession(bg, "garbage")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	other := helper.SetupAuth("other-secret", 0)
	forged, err := other.GenerateToken(root.ID)
	require.NoError(t, err)
	_, err = env.auth.ResolveSession(bg, forged)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestResolveSession_DeletedUser(t *testing.T) {
	env := newEnv(t, nil)
	root := env.superAdmin(t)

	c, err := env.auth.RegisterCollege(bg, collegeRequest("Acme College", "a@acme.edu", "dean@acme.edu"))
	require.NoError(t, err)
	token, err := helper.SetupAuth("test-secret", 0).GenerateToken(c.AdminUserID)
	require.NoError(t, err)

	_, err = env.auth.ResolveSession(bg, token)
	require.NoError(t, err)

	_, err = env.colleges.DecideCollege(bg, root, c.ID, dto.CollegeDecisionRequest{Status: "rejected", Reason: "spam"})
	require.NoError(t, err)

	_, err = env.auth.ResolveSession(bg, token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRefreshSession(t *testing.T) {
	env := newEnv(t, nil)
	env.superAdmin(t)
	res, err := env.auth.Login(bg, dto.LoginRequest{Email: "root@platform.test", Password: "rootpass"})
	require.NoError(t, err)

	fresh, err := env.auth.RefreshSession(bg, res.Token)
	require.NoError(t, err)
	u, err := env.auth.ResolveSession(bg, fresh)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, u.ID)

	_, err = env.auth.RefreshSession(bg, "bad")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRequestReset_GenericReply(t *testing.T) {
	env := newEnv(t, nil)
	env.superAdmin(t)

	known, err := env.auth.RequestReset(bg, dto.ForgotPasswordRequest{Email: "root@platform.test"})
	require.NoError(t, err)
	unknown, err := env.auth.RequestReset(bg, dto.ForgotPasswordRequest{Email: "ghost@platform.test"})
	require.NoError(t, err)

	assert.Equal(t, known, unknown)
	assert.Len(t, env.producer.events(t, "user.password_reset"), 1)

	_, err = env.auth.RequestReset(bg, dto.ForgotPasswordRequest{Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// A reset token works once and only before it expires.
func TestConsumeReset_SingleUse(t *testing.T) {
	env := newEnv(t, nil)
	env.superAdmin(t)

	_, err := env.auth.RequestReset(bg, dto.ForgotPasswordRequest{Email: "root@platform.test"})
	require.NoError(t, err)
	token := env.resetToken(t)
	require.Len(t, token, 64)

	stored := env.store.Resets()
	require.Len(t, stored, 1)
	assert.NotEqual(t, token, stored[0].TokenHash)

	req := dto.ResetPasswordRequest{Token: token, Email: "root@platform.test", NewPassword: "brandnew"}
	require.NoError(t, env.auth.ConsumeReset(bg, req))

	_, err = env.auth.Login(bg, dto.LoginRequest{Email: "root@platform.test", Password: "brandnew"})
	require.NoError(t, err)
	_, err = env.auth.Login(bg, dto.LoginRequest{Email: "root@platform.test", Password: "rootpass"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)

	for i := 0; i < 3; i++ {
		err = env.auth.ConsumeReset(bg, req)
		assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredToken)
	}
}

func TestConsumeReset_Rejections(t *testing.T) {
	env := newEnv(t, nil)
	env.superAdmin(t)

	_, err := env.auth.RequestReset(bg, dto.ForgotPasswordRequest{Email: "root@platform.test"})
	require.NoError(t, err)
	first := env.resetToken(t)

	_, err = env.auth.RequestReset(bg, dto.ForgotPasswordRequest{Email: "root@platform.test"})
	require.NoError(t, err)
	second := env.resetToken(t)

	err = env.auth.ConsumeReset(bg, dto.ResetPasswordRequest{Token: first, Email: "root@platform.test", NewPassword: "brandnew"})
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredToken, "older token is invalidated by a newer request")

	err = env.auth.ConsumeReset(bg, dto.ResetPasswordRequest{Token: second, Email: "someone@else.test", NewPassword: "brandnew"})
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredToken)

	err = env.auth.ConsumeReset(bg, dto.ResetPasswordRequest{Token: second, Email: "root@platform.test", NewPassword: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = env.auth.ConsumeReset(bg, dto.ResetPasswordRequest{Email: "root@platform.test", NewPassword: "brandnew"})
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredToken)

	require.NoError(t, env.auth.ConsumeReset(bg, dto.ResetPasswordRequest{Token: second, Email: "root@platform.test", NewPassword: "brandnew"}))
}

func TestConsumeReset_Expired(t *testing.T) {
	env := newEnv(t, nil)
	env.superAdmin(t)

	svc := env.auth.(*authService)
	svc.resetTTL = -1
	_, err := env.auth.RequestReset(bg, dto.ForgotPasswordRequest{Email: "root@platform.test"})
	require.NoError(t, err)

	err = env.auth.ConsumeReset(bg, dto.ResetPasswordRequest{Token: env.resetToken(t), Email: "root@platform.test", NewPassword: "brandnew"})
	assert.True(t, errors.Is(err, domain.ErrInvalidOrExpiredToken))
}

func TestVerifyAndSearchCollegeCodes(t *testing.T) {
	env := newEnv(t, fixedCodes("ACMAAAA", "ACMBBBB"))
	root := env.superAdmin(t)
	env.approvedCollege(t, root, "Acme College", "a@acme.edu", "dean@acme.edu")
	env.approvedCollege(t, root, "Acme Institute", "i@acme.edu", "dean@acmeinst.edu")
	pending, err := env.auth.RegisterCollege(bg, collegeRequest("Acme Pending", "p@acme.edu", "dean@pending.edu"))
	require.NoError(t, err)

	pub, err := env.auth.VerifyCollege(bg, "acmaaaa")
	require.NoError(t, err)
	assert.Equal(t, "Acme College", pub.Name)
	assert.Equal(t, "ACMAAAA", pub.UniqueCode)

	_, err = env.auth.VerifyCollege(bg, "ZZZ0000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = env.auth.VerifyCollege(bg, pending.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	found, err := env.auth.SearchCollegeCodes(bg, "acm")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = env.auth.SearchCollegeCodes(bg, " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
