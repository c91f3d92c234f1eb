package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, err error) (int, map[string]any) {
	t.Helper()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return HandleError(c, err) })

	resp, e := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, e)
	defer resp.Body.Close()

	raw, e := io.ReadAll(resp.Body)
	require.NoError(t, e)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestHandleError_Kinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.NewError(domain.ErrDuplicateEntity, "email taken"), 409, CodeDuplicateEntity},
		{domain.ErrCodeTaken, 409, CodeDuplicateEntity},
		{domain.NewError(domain.ErrInvalidReference, "invalid college code"), 400, CodeInvalidReference},
		{domain.Invalid("bad email"), 400, CodeInvalidInput},
		{domain.ErrInvalidCredential, 401, CodeInvalidCredential},
		{domain.ErrUnauthenticated, 401, CodeUnauthenticated},
		{domain.NewError(domain.ErrForbidden, "nope"), 403, CodeForbidden},
		{domain.NewError(domain.ErrInvalidState, "already decided"), 409, CodeInvalidState},
		{fmt.Errorf("find user: %w", domain.ErrNotFound), 404, CodeNotFound},
		{domain.ErrInvalidOrExpiredToken, 400, CodeInvalidOrExpiredToken},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			status, body := respond(t, tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body["code"])
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestHandleError_MessageIsKindMessage(t *testing.T) {
	_, body := respond(t, domain.Invalid("password must be at least 6 characters"))
	assert.Equal(t, "password must be at least 6 characters", body["message"])
}

func TestHandleError_InvalidCredentialIsUniform(t *testing.T) {
	_, body := respond(t, fmt.Errorf("no such user: %w", domain.ErrInvalidCredential))
	assert.Equal(t, "invalid email or password", body["message"])
}

func TestHandleError_ApprovalCarriesStatus(t *testing.T) {
	status, body := respond(t, &domain.ApprovalError{Status: domain.StatusRejected, Reason: "unknown student"})
	assert.Equal(t, 403, status)
	assert.Equal(t, CodeNotApproved, body["code"])
	assert.Equal(t, "rejected", body["approvalStatus"])
	assert.Equal(t, "unknown student", body["rejectionReason"])

	_, body = respond(t, &domain.ApprovalError{Status: domain.StatusPending})
	assert.Equal(t, "pending", body["approvalStatus"])
	assert.NotContains(t, body, "rejectionReason")
}

func TestHandleError_UnknownIsGeneric(t *testing.T) {
	status, body := respond(t, errors.New("pq: connection refused to 10.0.0.3"))
	assert.Equal(t, 500, status)
	assert.Equal(t, CodeInternal, body["code"])
	assert.Equal(t, "Server error", body["message"])
}

func TestHandleError_FiberError(t *testing.T) {
	status, _ := respond(t, fiber.ErrUpgradeRequired)
	assert.Equal(t, fiber.StatusUpgradeRequired, status)
}
