package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper/utils"
)

const userKey = "user"

// SessionResolver turns a bearer token into the current user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*domain.User, error)
}

// CurrentUser returns the user stored by Authenticate, or nil.
func CurrentUser(ctx *fiber.Ctx) *domain.User {
	u, _ := ctx.Locals(userKey).(*domain.User)
	return u
}

func SetCurrentUser(ctx *fiber.Ctx, u *domain.User) {
	ctx.Locals(userKey, u)
}

// Authenticate resolves the access_token cookie or Authorization header.
func Authenticate(sessions SessionResolver) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := strings.TrimSpace(ctx.Cookies("access_token"))
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get(fiber.HeaderAuthorization))
		}
		if tokenStr == "" {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "No token provided")
		}

		user, err := sessions.ResolveSession(ctx.UserContext(), tokenStr)
		if err != nil {
			return utils.HandleError(ctx, err)
		}

		SetCurrentUser(ctx, user)
		return ctx.Next()
	}
}

func RequireRole(roles ...domain.Role) fiber.Handler {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(ctx *fiber.Ctx) error {
		user := CurrentUser(ctx)
		if user == nil {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "unauthorized")
		}
		if !allowed[user.Role] {
			return utils.ResponseError(ctx, fiber.StatusForbidden, utils.CodeForbidden, "Insufficient permissions")
		}
		return ctx.Next()
	}
}

// RequireApproved lets super admins through unconditionally.
func RequireApproved() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user := CurrentUser(ctx)
		if user == nil {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "unauthorized")
		}
		if user.IsSuperAdmin() || user.IsApproved() {
			return ctx.Next()
		}

		body := fiber.Map{
			"success":        false,
			"message":        "Account not approved",
			"code":           utils.CodeForbidden,
			"approvalStatus": user.ApprovalStatus,
		}
		if user.RejectionReason != "" {
			body["rejectionReason"] = user.RejectionReason
		}
		return ctx.Status(fiber.StatusForbidden).JSON(body)
	}
}

// RequireSameCollege compares the user's college code with the one named by
// param, looked up in the path, then the query string, then a JSON body field.
func RequireSameCollege(param string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user := CurrentUser(ctx)
		if user == nil {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "unauthorized")
		}
		if user.IsSuperAdmin() {
			return ctx.Next()
		}

		code := utils.NormalizeCode(collegeCodeFrom(ctx, param))
		if code == "" || !user.SameCollege(code) {
			return utils.ResponseError(ctx, fiber.StatusForbidden, utils.CodeForbidden, "Access denied to this college")
		}
		return ctx.Next()
	}
}

func collegeCodeFrom(ctx *fiber.Ctx, param string) string {
	if v := ctx.Params(param); v != "" {
		return v
	}
	if v := ctx.Query(param); v != "" {
		return v
	}
	if strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		var body map[string]any
		if err := ctx.BodyParser(&body); err == nil {
			if v, ok := body[param].(string); ok {
				return v
			}
		}
	}
	return ""
}
