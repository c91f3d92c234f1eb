package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/api/rest/middleware"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper/utils"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/presence"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/repository/memory"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/services"
	"github.com/sirapurapushyam/AluminiHub-sub000/pkg/ids"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success        bool            `json:"success"`
	Message        string          `json:"message"`
	Code           string          `json:"code"`
	ApprovalStatus string          `json:"approvalStatus"`
	Data           json.RawMessage `json:"data"`
}

type client struct {
	t   *testing.T
	app *fiber.App
}

func newApp(t *testing.T) *client {
	t.Helper()

	store := memory.NewStore()
	node, err := ids.NewNode(1)
	require.NoError(t, err)
	a := helper.SetupAuth("handler-secret", time.Hour)
	notifier := services.NewNotifier(nil, "http://localhost:5173")
	auditor := services.NewAuditor(store.AuditLogs(), node)

	authSvc := services.NewAuthService(store.Colleges(), store.Users(), store.PasswordResets(), a, notifier, time.Hour)
	collegeSvc := services.NewCollegeService(store.Colleges(), store.Users(), notifier, auditor, nil)
	userSvc := services.NewUserService(store.Users(), a, nil, auditor)
	adminSvc := services.NewAdminService(store.Users(), store.AuditLogs(), a, auditor)

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	authMW := middleware.Authenticate(authSvc)
	NewAuthHandler(authSvc, authMW, nil).SetupRoutes(app)
	NewUserHandler(userSvc, authMW).SetupRoutes(app)
	NewCollegeHandler(collegeSvc, authMW).SetupRoutes(app)
	NewAdminHandler(collegeSvc, adminSvc, authMW).SetupRoutes(app)
	NewUploadHandler(userSvc, authMW).SetupRoutes(app)
	NewPresenceHandler(authSvc, presence.NewRegistry()).SetupRoutes(app)
	return &client{t: t, app: app}
}

func (c *client) do(method, path, token string, body any) (int, envelope) {
	c.t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (c *client) login(email, password, code string) string {
	c.t.Helper()
	status, env := c.do(http.MethodPost, "/api/auth/login", "", fiber.Map{"email": email, "password": password, "collegeCode": code})
	require.Equal(c.t, fiber.StatusOK, status, env.Message)
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(c.t, json.Unmarshal(env.Data, &res))
	require.NotEmpty(c.t, res.Token)
	return res.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type college struct {
	ID         string `json:"id"`
	UniqueCode string `json:"uniqueCode"`
	Status     string `json:"status"`
}

type user struct {
	ID             string `json:"id"`
	Role           string `json:"role"`
	ApprovalStatus string `json:"approvalStatus"`
	CollegeCode    string `json:"collegeCode"`
}

// onboard bootstraps a super admin and one approved college, returning the
// super admin token, the college and its admin token.
func (c *client) onboard(name, email, adminEmail string) (string, college, string) {
	c.t.Helper()

	status, env := c.do(http.MethodPost, "/api/auth/register", "", fiber.Map{
		"firstName": "Root", "lastName": "Admin", "email": "root@platform.test", "password": "rootpass", "role": "super_admin",
	})
	require.Equal(c.t, fiber.StatusCreated, status, env.Message)
	rootToken := c.login("root@platform.test", "rootpass", "")

	status, env = c.do(http.MethodPost, "/api/auth/register-college", "", fiber.Map{
		"name": name, "email": email, "phone": "+1 555 0100",
		"address":        fiber.Map{"street": "1 Main St", "city": "Springfield", "state": "IL", "zipCode": "62701", "country": "USA"},
		"adminFirstName": "Ada", "adminLastName": "Admin", "adminEmail": adminEmail, "adminPassword": "adminpass",
	})
	require.Equal(c.t, fiber.StatusCreated, status, env.Message)
	pending := decode[struct {
		CollegeID string `json:"collegeId"`
	}](c.t, env.Data)

	status, env = c.do(http.MethodPut, "/api/admin/colleges/"+pending.CollegeID+"/approval", rootToken, fiber.Map{"status": "approved"})
	require.Equal(c.t, fiber.StatusOK, status, env.Message)
	col := decode[college](c.t, env.Data)
	require.NotEmpty(c.t, col.UniqueCode)

	return rootToken, col, c.login(adminEmail, "adminpass", col.UniqueCode)
}

func TestAuthFlow_RegisterApproveLogin(t *testing.T) {
	c := newApp(t)
	_, col, adminToken := c.onboard("Acme College", "a@acme.edu", "dean@acme.edu")

	status, _ := c.do(http.MethodGet, "/api/auth/verify-college/"+col.UniqueCode, "", nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, env := c.do(http.MethodPost, "/api/auth/register", "", fiber.Map{
		"firstName": "Sam", "lastName": "Student", "email": "sam@acme.edu", "password": "sampass",
		"role": "student", "collegeCode": col.UniqueCode,
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	sam := decode[user](t, env.Data)
	assert.Equal(t, "pending", sam.ApprovalStatus)

	status, env = c.do(http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "sam@acme.edu", "password": "sampass"})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, utils.CodeNotApproved, env.Code)
	assert.Equal(t, "pending", env.ApprovalStatus)

	status, env = c.do(http.MethodGet, "/api/users/pending/"+col.UniqueCode, adminToken, nil)
	require.Equal(t, fiber.StatusOK, status, env.Message)
	assert.Len(t, decode[[]user](t, env.Data), 1)

	status, env = c.do(http.MethodPut, "/api/users/approval/"+sam.ID, adminToken, fiber.Map{"status": "approved"})
	require.Equal(t, fiber.StatusOK, status, env.Message)

	samToken := c.login("sam@acme.edu", "sampass", "")
	status, env = c.do(http.MethodGet, "/api/auth/verify-token", samToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, sam.ID, decode[user](t, env.Data).ID)

	status, env = c.do(http.MethodPost, "/api/auth/refresh-token", "", fiber.Map{"token": samToken})
	require.Equal(t, fiber.StatusOK, status, env.Message)
	assert.NotEmpty(t, decode[struct {
		Token string `json:"token"`
	}](t, env.Data).Token)
}

func TestAuthFlow_WrongPasswordIsUniform(t *testing.T) {
	c := newApp(t)
	c.onboard("Acme College", "a@acme.edu", "dean@acme.edu")

	s1, e1 := c.do(http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "dean@acme.edu", "password": "nope-nope"})
	s2, e2 := c.do(http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "ghost@acme.edu", "password": "nope-nope"})
	assert.Equal(t, fiber.StatusUnauthorized, s1)
	assert.Equal(t, s1, s2)
	assert.Equal(t, e1.Message, e2.Message)
	assert.Equal(t, utils.CodeInvalidCredential, e2.Code)
}

func TestTenantGuards(t *testing.T) {
	c := newApp(t)
	rootToken, x, adminX := c.onboard("Acme College", "a@acme.edu", "dean@acme.edu")

	status, env := c.do(http.MethodPost, "/api/auth/register-college", "", fiber.Map{
		"name": "Beta College", "email": "b@beta.edu", "phone": "+1 555 0101",
		"address":        fiber.Map{"street": "2 Main St", "city": "Shelbyville", "state": "IL", "zipCode": "62702", "country": "USA"},
		"adminFirstName": "Bo", "adminLastName": "Admin", "adminEmail": "dean@beta.edu", "adminPassword": "adminpass",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	pending := decode[struct {
		CollegeID string `json:"collegeId"`
	}](t, env.Data)
	status, env = c.do(http.MethodPut, "/api/admin/colleges/"+pending.CollegeID+"/approval", rootToken, fiber.Map{"status": "approved"})
	require.Equal(t, fiber.StatusOK, status, env.Message)
	y := decode[college](t, env.Data)

	// admin of X cannot read Y's roster or Y's college record
	status, _ = c.do(http.MethodGet, "/api/users/college/"+y.UniqueCode, adminX, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = c.do(http.MethodGet, "/api/colleges/"+y.UniqueCode, adminX, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = c.do(http.MethodGet, "/api/colleges/"+x.UniqueCode, adminX, nil)
	assert.Equal(t, fiber.StatusOK, status)

	// only super admins reach the platform routes
	status, _ = c.do(http.MethodGet, "/api/admin/stats", adminX, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = c.do(http.MethodGet, "/api/admin/stats", rootToken, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, env = c.do(http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, utils.CodeUnauthenticated, env.Code)
}

func (c *client) approvedMember(adminToken, code, email string) user {
	c.t.Helper()
	status, env := c.do(http.MethodPost, "/api/auth/register", "", fiber.Map{
		"firstName": "Sam", "lastName": "Student", "email": email, "password": "sampass",
		"role": "student", "collegeCode": code,
	})
	require.Equal(c.t, fiber.StatusCreated, status, env.Message)
	u := decode[user](c.t, env.Data)

	status, env = c.do(http.MethodPut, "/api/users/approval/"+u.ID, adminToken, fiber.Map{"status": "approved"})
	require.Equal(c.t, fiber.StatusOK, status, env.Message)
	return u
}

func TestRejectedUserLosesAccess(t *testing.T) {
	c := newApp(t)
	_, col, adminToken := c.onboard("Acme College", "a@acme.edu", "dean@acme.edu")
	sam := c.approvedMember(adminToken, col.UniqueCode, "sam@acme.edu")
	pat := c.approvedMember(adminToken, col.UniqueCode, "pat@acme.edu")

	samToken := c.login("sam@acme.edu", "sampass", "")
	status, _ := c.do(http.MethodGet, "/api/users/profile/"+pat.ID, samToken, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, env := c.do(http.MethodPut, "/api/users/approval/"+sam.ID, adminToken, fiber.Map{"status": "rejected", "reason": "not enrolled"})
	require.Equal(t, fiber.StatusOK, status, env.Message)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"read other profile", http.MethodGet, "/api/users/profile/" + pat.ID, nil},
		{"update profile", http.MethodPut, "/api/users/profile", fiber.Map{"firstName": "Samuel"}},
		{"change password", http.MethodPut, "/api/users/change-password", fiber.Map{"currentPassword": "sampass", "newPassword": "another1"}},
		{"delete resume", http.MethodDelete, "/api/users/profile/resume", nil},
		{"online users", http.MethodGet, "/api/presence/online", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := c.do(tt.method, tt.path, samToken, tt.body)
			assert.Equal(t, fiber.StatusForbidden, status)
			assert.Equal(t, "rejected", env.ApprovalStatus)
		})
	}

	// the socket handshake is refused before the upgrade
	req := httptest.NewRequest(http.MethodGet, "/ws?token="+samToken, nil)
	req.Header.Set(fiber.HeaderConnection, "Upgrade")
	req.Header.Set(fiber.HeaderUpgrade, "websocket")
	resp, err := c.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var ws envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ws))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, utils.CodeNotApproved, ws.Code)

	// the status screen stays reachable
	status, env = c.do(http.MethodGet, "/api/users/me", samToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "rejected", decode[user](t, env.Data).ApprovalStatus)
}
